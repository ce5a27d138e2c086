package fhirmodels

// Bundle is a container for a collection of resources.
type Bundle struct {
	ResourceBase
	Identifier *Identifier   `json:"identifier,omitempty"`
	Type       string        `json:"type,omitempty"`
	Total      *int          `json:"total,omitempty" fhir:"unsignedInt"`
	Link       []BundleLink  `json:"link,omitempty"`
	Entry      []BundleEntry `json:"entry,omitempty"`
	Signature  *Signature    `json:"signature,omitempty"`
}

type BundleLink struct {
	BackboneElement
	Relation string `json:"relation,omitempty"`
	URL      string `json:"url,omitempty"`
}

type BundleEntry struct {
	BackboneElement
	Link     []BundleLink         `json:"link,omitempty"`
	FullURL  string               `json:"fullUrl,omitempty"`
	Resource *ResourceContainer   `json:"resource,omitempty"`
	Search   *BundleEntrySearch   `json:"search,omitempty"`
	Request  *BundleEntryRequest  `json:"request,omitempty"`
	Response *BundleEntryResponse `json:"response,omitempty"`
}

type BundleEntrySearch struct {
	BackboneElement
	Mode  string   `json:"mode,omitempty"`
	Score *Decimal `json:"score,omitempty"`
}

type BundleEntryRequest struct {
	BackboneElement
	Method          string `json:"method,omitempty"`
	URL             string `json:"url,omitempty"`
	IfNoneMatch     string `json:"ifNoneMatch,omitempty"`
	IfModifiedSince string `json:"ifModifiedSince,omitempty"`
	IfMatch         string `json:"ifMatch,omitempty"`
	IfNoneExist     string `json:"ifNoneExist,omitempty"`
}

type BundleEntryResponse struct {
	BackboneElement
	Status       string             `json:"status,omitempty"`
	Location     string             `json:"location,omitempty"`
	Etag         string             `json:"etag,omitempty"`
	LastModified string             `json:"lastModified,omitempty"`
	Outcome      *ResourceContainer `json:"outcome,omitempty"`
}

// LinkURL returns the url of the link with the given relation.
func (b *Bundle) LinkURL(relation string) string {
	for _, l := range b.Link {
		if l.Relation == relation {
			return l.URL
		}
	}
	return ""
}

// EntryResource returns the resource of entry i, or nil.
func (b *Bundle) EntryResource(i int) Resource {
	if i < 0 || i >= len(b.Entry) || b.Entry[i].Resource == nil {
		return nil
	}
	return b.Entry[i].Resource.Resource
}

func (Bundle) ResourceType() string { return "Bundle" }

func (r Bundle) MarshalJSON() ([]byte, error) {
	type bundle Bundle
	return marshalResource("Bundle", bundle(r))
}

func (r *Bundle) UnmarshalJSON(data []byte) error {
	type bundle Bundle
	var v bundle
	if err := unmarshalResource("Bundle", data, &v); err != nil {
		return err
	}
	*r = Bundle(v)
	return nil
}
