package fhirmodels

// Contract is a formal agreement between parties regarding the conduct of
// business, exchange of information or other matters.
type Contract struct {
	DomainResource
	Identifier        *Identifier          `json:"identifier,omitempty"`
	Status            string               `json:"status,omitempty"`
	Issued            string               `json:"issued,omitempty"`
	Applies           *Period              `json:"applies,omitempty"`
	Subject           []Reference          `json:"subject,omitempty"`
	Topic             []Reference          `json:"topic,omitempty"`
	Authority         []Reference          `json:"authority,omitempty"`
	Domain            []Reference          `json:"domain,omitempty"`
	Type              *CodeableConcept     `json:"type,omitempty"`
	SubType           []CodeableConcept    `json:"subType,omitempty"`
	Action            []CodeableConcept    `json:"action,omitempty"`
	ActionReason      []CodeableConcept    `json:"actionReason,omitempty"`
	DecisionType      *CodeableConcept     `json:"decisionType,omitempty"`
	ContentDerivative *CodeableConcept     `json:"contentDerivative,omitempty"`
	SecurityLabel     []Coding             `json:"securityLabel,omitempty"`
	Agent             []ContractAgent      `json:"agent,omitempty"`
	Signer            []ContractSigner     `json:"signer,omitempty"`
	ValuedItem        []ContractValuedItem `json:"valuedItem,omitempty"`
	Term              []ContractTerm       `json:"term,omitempty"`
	BindingAttachment *Attachment          `json:"bindingAttachment,omitempty"`
	BindingReference  *Reference           `json:"bindingReference,omitempty"`
	Friendly          []ContractFriendly   `json:"friendly,omitempty"`
	Legal             []ContractLegal      `json:"legal,omitempty"`
	Rule              []ContractRule       `json:"rule,omitempty"`
}

type ContractAgent struct {
	BackboneElement
	Actor *Reference        `json:"actor,omitempty"`
	Role  []CodeableConcept `json:"role,omitempty"`
}

type ContractSigner struct {
	BackboneElement
	Type      *Coding     `json:"type,omitempty"`
	Party     *Reference  `json:"party,omitempty"`
	Signature []Signature `json:"signature,omitempty"`
}

type ContractValuedItem struct {
	BackboneElement
	EntityCodeableConcept *CodeableConcept `json:"entityCodeableConcept,omitempty"`
	EntityReference       *Reference       `json:"entityReference,omitempty"`
	Identifier            *Identifier      `json:"identifier,omitempty"`
	EffectiveTime         string           `json:"effectiveTime,omitempty"`
	Quantity              *Quantity        `json:"quantity,omitempty"`
	UnitPrice             *Quantity        `json:"unitPrice,omitempty"`
	Factor                *Decimal         `json:"factor,omitempty"`
	Points                *Decimal         `json:"points,omitempty"`
	Net                   *Quantity        `json:"net,omitempty"`
}

type ContractTerm struct {
	BackboneElement
	Identifier    *Identifier          `json:"identifier,omitempty"`
	Issued        string               `json:"issued,omitempty"`
	Applies       *Period              `json:"applies,omitempty"`
	Type          *CodeableConcept     `json:"type,omitempty"`
	SubType       *CodeableConcept     `json:"subType,omitempty"`
	Topic         []Reference          `json:"topic,omitempty"`
	Action        []CodeableConcept    `json:"action,omitempty"`
	ActionReason  []CodeableConcept    `json:"actionReason,omitempty"`
	SecurityLabel []Coding             `json:"securityLabel,omitempty"`
	Agent         []ContractAgent      `json:"agent,omitempty"`
	Text          string               `json:"text,omitempty"`
	ValuedItem    []ContractValuedItem `json:"valuedItem,omitempty"`
	Group         []ContractTerm       `json:"group,omitempty"`
}

type ContractFriendly struct {
	BackboneElement
	ContentAttachment *Attachment `json:"contentAttachment,omitempty"`
	ContentReference  *Reference  `json:"contentReference,omitempty"`
}

type ContractLegal struct {
	BackboneElement
	ContentAttachment *Attachment `json:"contentAttachment,omitempty"`
	ContentReference  *Reference  `json:"contentReference,omitempty"`
}

type ContractRule struct {
	BackboneElement
	ContentAttachment *Attachment `json:"contentAttachment,omitempty"`
	ContentReference  *Reference  `json:"contentReference,omitempty"`
}

func (Contract) ResourceType() string { return "Contract" }

func (r Contract) MarshalJSON() ([]byte, error) {
	type contract Contract
	return marshalResource("Contract", contract(r))
}

func (r *Contract) UnmarshalJSON(data []byte) error {
	type contract Contract
	var v contract
	if err := unmarshalResource("Contract", data, &v); err != nil {
		return err
	}
	*r = Contract(v)
	return nil
}
