package fhirmodels

// Claim is a provider-issued list of services and products provided, or to
// be provided, to a patient which is sent to an insurer for reimbursement.
type Claim struct {
	DomainResource
	Identifier           []Identifier       `json:"identifier,omitempty"`
	Status               string             `json:"status,omitempty"`
	Type                 *CodeableConcept   `json:"type,omitempty"`
	SubType              []CodeableConcept  `json:"subType,omitempty"`
	Use                  string             `json:"use,omitempty"`
	Patient              *Reference         `json:"patient,omitempty"`
	BillablePeriod       *Period            `json:"billablePeriod,omitempty"`
	Created              string             `json:"created,omitempty"`
	Enterer              *Reference         `json:"enterer,omitempty"`
	Insurer              *Reference         `json:"insurer,omitempty"`
	Provider             *Reference         `json:"provider,omitempty"`
	Organization         *Reference         `json:"organization,omitempty"`
	Priority             *CodeableConcept   `json:"priority,omitempty"`
	FundsReserve         *CodeableConcept   `json:"fundsReserve,omitempty"`
	Related              []ClaimRelated     `json:"related,omitempty"`
	Prescription         *Reference         `json:"prescription,omitempty"`
	OriginalPrescription *Reference         `json:"originalPrescription,omitempty"`
	Payee                *ClaimPayee        `json:"payee,omitempty"`
	Referral             *Reference         `json:"referral,omitempty"`
	Facility             *Reference         `json:"facility,omitempty"`
	CareTeam             []ClaimCareTeam    `json:"careTeam,omitempty"`
	Information          []ClaimInformation `json:"information,omitempty"`
	Diagnosis            []ClaimDiagnosis   `json:"diagnosis,omitempty"`
	Procedure            []ClaimProcedure   `json:"procedure,omitempty"`
	Insurance            []ClaimInsurance   `json:"insurance,omitempty"`
	Accident             *ClaimAccident     `json:"accident,omitempty"`
	EmploymentImpacted   *Period            `json:"employmentImpacted,omitempty"`
	Hospitalization      *Period            `json:"hospitalization,omitempty"`
	Item                 []ClaimItem        `json:"item,omitempty"`
	Total                *Quantity          `json:"total,omitempty"`
}

type ClaimRelated struct {
	BackboneElement
	Claim        *Reference       `json:"claim,omitempty"`
	Relationship *CodeableConcept `json:"relationship,omitempty"`
	Reference    *Identifier      `json:"reference,omitempty"`
}

type ClaimPayee struct {
	BackboneElement
	Type         *CodeableConcept `json:"type,omitempty"`
	ResourceType *Coding          `json:"resourceType,omitempty"`
	Party        *Reference       `json:"party,omitempty"`
}

type ClaimCareTeam struct {
	BackboneElement
	Sequence      *int             `json:"sequence,omitempty" fhir:"positiveInt"`
	Provider      *Reference       `json:"provider,omitempty"`
	Responsible   *bool            `json:"responsible,omitempty"`
	Role          *CodeableConcept `json:"role,omitempty"`
	Qualification *CodeableConcept `json:"qualification,omitempty"`
}

type ClaimInformation struct {
	BackboneElement
	Sequence        *int             `json:"sequence,omitempty" fhir:"positiveInt"`
	Category        *CodeableConcept `json:"category,omitempty"`
	Code            *CodeableConcept `json:"code,omitempty"`
	TimingDate      string           `json:"timingDate,omitempty"`
	TimingPeriod    *Period          `json:"timingPeriod,omitempty"`
	ValueString     string           `json:"valueString,omitempty"`
	ValueQuantity   *Quantity        `json:"valueQuantity,omitempty"`
	ValueAttachment *Attachment      `json:"valueAttachment,omitempty"`
	ValueReference  *Reference       `json:"valueReference,omitempty"`
	Reason          *CodeableConcept `json:"reason,omitempty"`
}

type ClaimDiagnosis struct {
	BackboneElement
	Sequence                 *int              `json:"sequence,omitempty" fhir:"positiveInt"`
	DiagnosisCodeableConcept *CodeableConcept  `json:"diagnosisCodeableConcept,omitempty"`
	DiagnosisReference       *Reference        `json:"diagnosisReference,omitempty"`
	Type                     []CodeableConcept `json:"type,omitempty"`
	PackageCode              *CodeableConcept  `json:"packageCode,omitempty"`
}

type ClaimProcedure struct {
	BackboneElement
	Sequence                 *int             `json:"sequence,omitempty" fhir:"positiveInt"`
	Date                     string           `json:"date,omitempty"`
	ProcedureCodeableConcept *CodeableConcept `json:"procedureCodeableConcept,omitempty"`
	ProcedureReference       *Reference       `json:"procedureReference,omitempty"`
}

type ClaimInsurance struct {
	BackboneElement
	Sequence            *int       `json:"sequence,omitempty" fhir:"positiveInt"`
	Focal               *bool      `json:"focal,omitempty"`
	Coverage            *Reference `json:"coverage,omitempty"`
	BusinessArrangement string     `json:"businessArrangement,omitempty"`
	PreAuthRef          []string   `json:"preAuthRef,omitempty"`
	ClaimResponse       *Reference `json:"claimResponse,omitempty"`
}

type ClaimAccident struct {
	BackboneElement
	Date              string           `json:"date,omitempty"`
	Type              *CodeableConcept `json:"type,omitempty"`
	LocationAddress   *Address         `json:"locationAddress,omitempty"`
	LocationReference *Reference       `json:"locationReference,omitempty"`
}

type ClaimItem struct {
	BackboneElement
	Sequence                *int              `json:"sequence,omitempty" fhir:"positiveInt"`
	CareTeamLinkID          []int             `json:"careTeamLinkId,omitempty"`
	DiagnosisLinkID         []int             `json:"diagnosisLinkId,omitempty"`
	ProcedureLinkID         []int             `json:"procedureLinkId,omitempty"`
	InformationLinkID       []int             `json:"informationLinkId,omitempty"`
	Revenue                 *CodeableConcept  `json:"revenue,omitempty"`
	Category                *CodeableConcept  `json:"category,omitempty"`
	Service                 *CodeableConcept  `json:"service,omitempty"`
	Modifier                []CodeableConcept `json:"modifier,omitempty"`
	ProgramCode             []CodeableConcept `json:"programCode,omitempty"`
	ServicedDate            string            `json:"servicedDate,omitempty"`
	ServicedPeriod          *Period           `json:"servicedPeriod,omitempty"`
	LocationCodeableConcept *CodeableConcept  `json:"locationCodeableConcept,omitempty"`
	LocationAddress         *Address          `json:"locationAddress,omitempty"`
	LocationReference       *Reference        `json:"locationReference,omitempty"`
	Quantity                *Quantity         `json:"quantity,omitempty"`
	UnitPrice               *Quantity         `json:"unitPrice,omitempty"`
	Factor                  *Decimal          `json:"factor,omitempty"`
	Net                     *Quantity         `json:"net,omitempty"`
	UDI                     []Reference       `json:"udi,omitempty"`
	BodySite                *CodeableConcept  `json:"bodySite,omitempty"`
	SubSite                 []CodeableConcept `json:"subSite,omitempty"`
	Encounter               []Reference       `json:"encounter,omitempty"`
	Detail                  []ClaimItemDetail `json:"detail,omitempty"`
}

type ClaimItemDetail struct {
	BackboneElement
	Sequence    *int                 `json:"sequence,omitempty" fhir:"positiveInt"`
	Revenue     *CodeableConcept     `json:"revenue,omitempty"`
	Category    *CodeableConcept     `json:"category,omitempty"`
	Service     *CodeableConcept     `json:"service,omitempty"`
	Modifier    []CodeableConcept    `json:"modifier,omitempty"`
	ProgramCode []CodeableConcept    `json:"programCode,omitempty"`
	Quantity    *Quantity            `json:"quantity,omitempty"`
	UnitPrice   *Quantity            `json:"unitPrice,omitempty"`
	Factor      *Decimal             `json:"factor,omitempty"`
	Net         *Quantity            `json:"net,omitempty"`
	UDI         []Reference          `json:"udi,omitempty"`
	SubDetail   []ClaimItemSubDetail `json:"subDetail,omitempty"`
}

type ClaimItemSubDetail struct {
	BackboneElement
	Sequence    *int              `json:"sequence,omitempty" fhir:"positiveInt"`
	Revenue     *CodeableConcept  `json:"revenue,omitempty"`
	Category    *CodeableConcept  `json:"category,omitempty"`
	Service     *CodeableConcept  `json:"service,omitempty"`
	Modifier    []CodeableConcept `json:"modifier,omitempty"`
	ProgramCode []CodeableConcept `json:"programCode,omitempty"`
	Quantity    *Quantity         `json:"quantity,omitempty"`
	UnitPrice   *Quantity         `json:"unitPrice,omitempty"`
	Factor      *Decimal          `json:"factor,omitempty"`
	Net         *Quantity         `json:"net,omitempty"`
	UDI         []Reference       `json:"udi,omitempty"`
}

func (Claim) ResourceType() string { return "Claim" }

func (r Claim) MarshalJSON() ([]byte, error) {
	type claim Claim
	return marshalResource("Claim", claim(r))
}

func (r *Claim) UnmarshalJSON(data []byte) error {
	type claim Claim
	var v claim
	if err := unmarshalResource("Claim", data, &v); err != nil {
		return err
	}
	*r = Claim(v)
	return nil
}
