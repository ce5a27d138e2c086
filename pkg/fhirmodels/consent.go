package fhirmodels

// Consent records a healthcare consumer's policy choices.
type Consent struct {
	DomainResource
	Identifier       *Identifier       `json:"identifier,omitempty"`
	Status           string            `json:"status,omitempty"`
	Category         []CodeableConcept `json:"category,omitempty"`
	Patient          *Reference        `json:"patient,omitempty"`
	Period           *Period           `json:"period,omitempty"`
	DateTime         string            `json:"dateTime,omitempty"`
	ConsentingParty  []Reference       `json:"consentingParty,omitempty"`
	Actor            []ConsentActor    `json:"actor,omitempty"`
	Action           []CodeableConcept `json:"action,omitempty"`
	Organization     []Reference       `json:"organization,omitempty"`
	SourceAttachment *Attachment       `json:"sourceAttachment,omitempty"`
	SourceIdentifier *Identifier       `json:"sourceIdentifier,omitempty"`
	SourceReference  *Reference        `json:"sourceReference,omitempty"`
	Policy           []ConsentPolicy   `json:"policy,omitempty"`
	PolicyRule       string            `json:"policyRule,omitempty"`
	SecurityLabel    []Coding          `json:"securityLabel,omitempty"`
	Purpose          []Coding          `json:"purpose,omitempty"`
	DataPeriod       *Period           `json:"dataPeriod,omitempty"`
	Data             []ConsentData     `json:"data,omitempty"`
	Except           []ConsentExcept   `json:"except,omitempty"`
}

type ConsentActor struct {
	BackboneElement
	Role      *CodeableConcept `json:"role,omitempty"`
	Reference *Reference       `json:"reference,omitempty"`
}

type ConsentPolicy struct {
	BackboneElement
	Authority string `json:"authority,omitempty"`
	URI       string `json:"uri,omitempty"`
}

type ConsentData struct {
	BackboneElement
	Meaning   string     `json:"meaning,omitempty"`
	Reference *Reference `json:"reference,omitempty"`
}

// ConsentExcept is an exception to the base policy of the consent.
type ConsentExcept struct {
	BackboneElement
	Type          string            `json:"type,omitempty"`
	Period        *Period           `json:"period,omitempty"`
	Actor         []ConsentActor    `json:"actor,omitempty"`
	Action        []CodeableConcept `json:"action,omitempty"`
	SecurityLabel []Coding          `json:"securityLabel,omitempty"`
	Purpose       []Coding          `json:"purpose,omitempty"`
	Class         []Coding          `json:"class,omitempty"`
	Code          []Coding          `json:"code,omitempty"`
	DataPeriod    *Period           `json:"dataPeriod,omitempty"`
	Data          []ConsentData     `json:"data,omitempty"`
}

func (Consent) ResourceType() string { return "Consent" }

func (r Consent) MarshalJSON() ([]byte, error) {
	type consent Consent
	return marshalResource("Consent", consent(r))
}

func (r *Consent) UnmarshalJSON(data []byte) error {
	type consent Consent
	var v consent
	if err := unmarshalResource("Consent", data, &v); err != nil {
		return err
	}
	*r = Consent(v)
	return nil
}
