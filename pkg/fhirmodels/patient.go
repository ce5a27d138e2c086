package fhirmodels

// Patient is demographics and other administrative information about an
// individual receiving care.
type Patient struct {
	DomainResource
	Identifier           []Identifier           `json:"identifier,omitempty"`
	Active               *bool                  `json:"active,omitempty"`
	Name                 []HumanName            `json:"name,omitempty"`
	Telecom              []ContactPoint         `json:"telecom,omitempty"`
	Gender               string                 `json:"gender,omitempty"`
	BirthDate            string                 `json:"birthDate,omitempty"`
	BirthDateExt         *Element               `json:"_birthDate,omitempty"`
	DeceasedBoolean      *bool                  `json:"deceasedBoolean,omitempty"`
	DeceasedDateTime     string                 `json:"deceasedDateTime,omitempty"`
	Address              []Address              `json:"address,omitempty"`
	MaritalStatus        *CodeableConcept       `json:"maritalStatus,omitempty"`
	MultipleBirthBoolean *bool                  `json:"multipleBirthBoolean,omitempty"`
	MultipleBirthInteger *int                   `json:"multipleBirthInteger,omitempty"`
	Photo                []Attachment           `json:"photo,omitempty"`
	Contact              []PatientContact       `json:"contact,omitempty"`
	Animal               *PatientAnimal         `json:"animal,omitempty"`
	Communication        []PatientCommunication `json:"communication,omitempty"`
	GeneralPractitioner  []Reference            `json:"generalPractitioner,omitempty"`
	ManagingOrganization *Reference             `json:"managingOrganization,omitempty"`
	Link                 []PatientLink          `json:"link,omitempty"`
}

type PatientContact struct {
	BackboneElement
	Relationship []CodeableConcept `json:"relationship,omitempty"`
	Name         *HumanName        `json:"name,omitempty"`
	Telecom      []ContactPoint    `json:"telecom,omitempty"`
	Address      *Address          `json:"address,omitempty"`
	Gender       string            `json:"gender,omitempty"`
	Organization *Reference        `json:"organization,omitempty"`
	Period       *Period           `json:"period,omitempty"`
}

type PatientAnimal struct {
	BackboneElement
	Species      *CodeableConcept `json:"species,omitempty"`
	Breed        *CodeableConcept `json:"breed,omitempty"`
	GenderStatus *CodeableConcept `json:"genderStatus,omitempty"`
}

type PatientCommunication struct {
	BackboneElement
	Language  *CodeableConcept `json:"language,omitempty"`
	Preferred *bool            `json:"preferred,omitempty"`
}

type PatientLink struct {
	BackboneElement
	Other *Reference `json:"other,omitempty"`
	Type  string     `json:"type,omitempty"`
}

func (Patient) ResourceType() string { return "Patient" }

func (r Patient) MarshalJSON() ([]byte, error) {
	type patient Patient
	return marshalResource("Patient", patient(r))
}

func (r *Patient) UnmarshalJSON(data []byte) error {
	type patient Patient
	var v patient
	if err := unmarshalResource("Patient", data, &v); err != nil {
		return err
	}
	*r = Patient(v)
	return nil
}
