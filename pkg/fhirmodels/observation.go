package fhirmodels

// Observation is a measurement or simple assertion made about a patient,
// device or other subject.
type Observation struct {
	DomainResource
	Identifier           []Identifier                `json:"identifier,omitempty"`
	BasedOn              []Reference                 `json:"basedOn,omitempty"`
	Status               string                      `json:"status,omitempty"`
	Category             []CodeableConcept           `json:"category,omitempty"`
	Code                 *CodeableConcept            `json:"code,omitempty"`
	Subject              *Reference                  `json:"subject,omitempty"`
	Context              *Reference                  `json:"context,omitempty"`
	EffectiveDateTime    string                      `json:"effectiveDateTime,omitempty"`
	EffectivePeriod      *Period                     `json:"effectivePeriod,omitempty"`
	Issued               string                      `json:"issued,omitempty"`
	Performer            []Reference                 `json:"performer,omitempty"`
	ValueQuantity        *Quantity                   `json:"valueQuantity,omitempty"`
	ValueCodeableConcept *CodeableConcept            `json:"valueCodeableConcept,omitempty"`
	ValueString          string                      `json:"valueString,omitempty"`
	ValueBoolean         *bool                       `json:"valueBoolean,omitempty"`
	ValueRange           *Range                      `json:"valueRange,omitempty"`
	ValueRatio           *Ratio                      `json:"valueRatio,omitempty"`
	ValueSampledData     *SampledData                `json:"valueSampledData,omitempty"`
	ValueAttachment      *Attachment                 `json:"valueAttachment,omitempty"`
	ValueTime            string                      `json:"valueTime,omitempty"`
	ValueDateTime        string                      `json:"valueDateTime,omitempty"`
	ValuePeriod          *Period                     `json:"valuePeriod,omitempty"`
	DataAbsentReason     *CodeableConcept            `json:"dataAbsentReason,omitempty"`
	Interpretation       *CodeableConcept            `json:"interpretation,omitempty"`
	Comment              string                      `json:"comment,omitempty"`
	BodySite             *CodeableConcept            `json:"bodySite,omitempty"`
	Method               *CodeableConcept            `json:"method,omitempty"`
	Specimen             *Reference                  `json:"specimen,omitempty"`
	Device               *Reference                  `json:"device,omitempty"`
	ReferenceRange       []ObservationReferenceRange `json:"referenceRange,omitempty"`
	Related              []ObservationRelated        `json:"related,omitempty"`
	Component            []ObservationComponent      `json:"component,omitempty"`
}

type ObservationReferenceRange struct {
	BackboneElement
	Low       *Quantity         `json:"low,omitempty"`
	High      *Quantity         `json:"high,omitempty"`
	Type      *CodeableConcept  `json:"type,omitempty"`
	AppliesTo []CodeableConcept `json:"appliesTo,omitempty"`
	Age       *Range            `json:"age,omitempty"`
	Text      string            `json:"text,omitempty"`
}

type ObservationRelated struct {
	BackboneElement
	Type   string     `json:"type,omitempty"`
	Target *Reference `json:"target,omitempty"`
}

type ObservationComponent struct {
	BackboneElement
	Code                 *CodeableConcept            `json:"code,omitempty"`
	ValueQuantity        *Quantity                   `json:"valueQuantity,omitempty"`
	ValueCodeableConcept *CodeableConcept            `json:"valueCodeableConcept,omitempty"`
	ValueString          string                      `json:"valueString,omitempty"`
	ValueRange           *Range                      `json:"valueRange,omitempty"`
	ValueRatio           *Ratio                      `json:"valueRatio,omitempty"`
	ValueSampledData     *SampledData                `json:"valueSampledData,omitempty"`
	ValueAttachment      *Attachment                 `json:"valueAttachment,omitempty"`
	ValueTime            string                      `json:"valueTime,omitempty"`
	ValueDateTime        string                      `json:"valueDateTime,omitempty"`
	ValuePeriod          *Period                     `json:"valuePeriod,omitempty"`
	DataAbsentReason     *CodeableConcept            `json:"dataAbsentReason,omitempty"`
	Interpretation       *CodeableConcept            `json:"interpretation,omitempty"`
	ReferenceRange       []ObservationReferenceRange `json:"referenceRange,omitempty"`
}

func (Observation) ResourceType() string { return "Observation" }

func (r Observation) MarshalJSON() ([]byte, error) {
	type observation Observation
	return marshalResource("Observation", observation(r))
}

func (r *Observation) UnmarshalJSON(data []byte) error {
	type observation Observation
	var v observation
	if err := unmarshalResource("Observation", data, &v); err != nil {
		return err
	}
	*r = Observation(v)
	return nil
}
