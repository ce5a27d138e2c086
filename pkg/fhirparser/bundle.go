package fhirparser

import (
	"github.com/google/uuid"

	"github.com/ehr/fhirstu3/pkg/fhirmodels"
)

// NewBundle wraps resources in a Bundle of the given type. Entries get a
// relative fullUrl when the resource has an id and a urn:uuid otherwise.
// Transaction and batch bundles get a request per entry: PUT for resources
// with an id, POST for the rest.
func NewBundle(bundleType string, resources ...fhirmodels.Resource) *fhirmodels.Bundle {
	b := &fhirmodels.Bundle{
		Type:  bundleType,
		Entry: make([]fhirmodels.BundleEntry, 0, len(resources)),
	}
	if bundleType == fhirmodels.BundleTypeSearchset || bundleType == fhirmodels.BundleTypeHistory {
		total := len(resources)
		b.Total = &total
	}
	for _, r := range resources {
		if r == nil {
			continue
		}
		entry := fhirmodels.BundleEntry{Resource: fhirmodels.Contain(r)}
		id := r.Base().ID
		if id != "" {
			entry.FullURL = fhirmodels.ReferenceTo(r)
		} else {
			entry.FullURL = "urn:uuid:" + uuid.NewString()
		}
		switch bundleType {
		case fhirmodels.BundleTypeTransaction, fhirmodels.BundleTypeBatch:
			if id != "" {
				entry.Request = &fhirmodels.BundleEntryRequest{Method: fhirmodels.HTTPVerbPut, URL: fhirmodels.ReferenceTo(r)}
			} else {
				entry.Request = &fhirmodels.BundleEntryRequest{Method: fhirmodels.HTTPVerbPost, URL: r.ResourceType()}
			}
		case fhirmodels.BundleTypeSearchset:
			entry.Search = &fhirmodels.BundleEntrySearch{Mode: fhirmodels.SearchModeMatch}
		}
		b.Entry = append(b.Entry, entry)
	}
	return b
}

// BundleResources returns the resources of b's entries in order, skipping
// entries without a resource.
func BundleResources(b *fhirmodels.Bundle) []fhirmodels.Resource {
	if b == nil {
		return nil
	}
	out := make([]fhirmodels.Resource, 0, len(b.Entry))
	for _, e := range b.Entry {
		if e.Resource != nil && e.Resource.Resource != nil {
			out = append(out, e.Resource.Resource)
		}
	}
	return out
}
