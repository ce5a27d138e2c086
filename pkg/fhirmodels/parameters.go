package fhirmodels

// Parameters is the input or output of an operation that is not itself a
// resource.
type Parameters struct {
	ResourceBase
	Parameter []ParametersParameter `json:"parameter,omitempty"`
}

type ParametersParameter struct {
	BackboneElement
	Name                 string                `json:"name,omitempty"`
	ValueBoolean         *bool                 `json:"valueBoolean,omitempty"`
	ValueInteger         *int                  `json:"valueInteger,omitempty"`
	ValueDecimal         *Decimal              `json:"valueDecimal,omitempty"`
	ValueString          string                `json:"valueString,omitempty"`
	ValueCode            string                `json:"valueCode,omitempty"`
	ValueURI             string                `json:"valueUri,omitempty"`
	ValueDate            string                `json:"valueDate,omitempty"`
	ValueDateTime        string                `json:"valueDateTime,omitempty"`
	ValueInstant         string                `json:"valueInstant,omitempty"`
	ValueCoding          *Coding               `json:"valueCoding,omitempty"`
	ValueCodeableConcept *CodeableConcept      `json:"valueCodeableConcept,omitempty"`
	ValueIdentifier      *Identifier           `json:"valueIdentifier,omitempty"`
	ValueQuantity        *Quantity             `json:"valueQuantity,omitempty"`
	ValuePeriod          *Period               `json:"valuePeriod,omitempty"`
	ValueReference       *Reference            `json:"valueReference,omitempty"`
	Resource             *ResourceContainer    `json:"resource,omitempty"`
	Part                 []ParametersParameter `json:"part,omitempty"`
}

// Get returns the first parameter with the given name, or nil.
func (p *Parameters) Get(name string) *ParametersParameter {
	for i := range p.Parameter {
		if p.Parameter[i].Name == name {
			return &p.Parameter[i]
		}
	}
	return nil
}

// PartByName returns the first part with the given name, or nil.
func (p *ParametersParameter) PartByName(name string) *ParametersParameter {
	for i := range p.Part {
		if p.Part[i].Name == name {
			return &p.Part[i]
		}
	}
	return nil
}

func (Parameters) ResourceType() string { return "Parameters" }

func (r Parameters) MarshalJSON() ([]byte, error) {
	type parameters Parameters
	return marshalResource("Parameters", parameters(r))
}

func (r *Parameters) UnmarshalJSON(data []byte) error {
	type parameters Parameters
	var v parameters
	if err := unmarshalResource("Parameters", data, &v); err != nil {
		return err
	}
	*r = Parameters(v)
	return nil
}
