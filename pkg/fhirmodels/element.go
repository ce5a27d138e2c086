package fhirmodels

// Element is the base of every FHIR datatype: an optional internal id and
// extensions.
type Element struct {
	ID        string      `json:"id,omitempty"`
	Extension []Extension `json:"extension,omitempty"`
}

// BackboneElement is the base of elements nested inside a resource definition.
type BackboneElement struct {
	Element
	ModifierExtension []Extension `json:"modifierExtension,omitempty"`
}

// Extension carries additional content defined outside the base resource.
// Exactly one of the Value fields is set, unless the extension is complex
// and carries nested extensions instead.
type Extension struct {
	ID        string      `json:"id,omitempty"`
	Extension []Extension `json:"extension,omitempty"`
	URL       string      `json:"url"`

	ValueBase64Binary    string           `json:"valueBase64Binary,omitempty"`
	ValueBoolean         *bool            `json:"valueBoolean,omitempty"`
	ValueCode            string           `json:"valueCode,omitempty"`
	ValueDate            string           `json:"valueDate,omitempty"`
	ValueDateTime        string           `json:"valueDateTime,omitempty"`
	ValueDecimal         *Decimal         `json:"valueDecimal,omitempty"`
	ValueID              string           `json:"valueId,omitempty"`
	ValueInstant         string           `json:"valueInstant,omitempty"`
	ValueInteger         *int             `json:"valueInteger,omitempty"`
	ValueMarkdown        string           `json:"valueMarkdown,omitempty"`
	ValuePositiveInt     *int             `json:"valuePositiveInt,omitempty" fhir:"positiveInt"`
	ValueString          string           `json:"valueString,omitempty"`
	ValueTime            string           `json:"valueTime,omitempty"`
	ValueUnsignedInt     *int             `json:"valueUnsignedInt,omitempty" fhir:"unsignedInt"`
	ValueURI             string           `json:"valueUri,omitempty"`
	ValueAddress         *Address         `json:"valueAddress,omitempty"`
	ValueAge             *Quantity        `json:"valueAge,omitempty"`
	ValueAnnotation      *Annotation      `json:"valueAnnotation,omitempty"`
	ValueAttachment      *Attachment      `json:"valueAttachment,omitempty"`
	ValueCodeableConcept *CodeableConcept `json:"valueCodeableConcept,omitempty"`
	ValueCoding          *Coding          `json:"valueCoding,omitempty"`
	ValueContactPoint    *ContactPoint    `json:"valueContactPoint,omitempty"`
	ValueCount           *Quantity        `json:"valueCount,omitempty"`
	ValueDuration        *Quantity        `json:"valueDuration,omitempty"`
	ValueHumanName       *HumanName       `json:"valueHumanName,omitempty"`
	ValueIdentifier      *Identifier      `json:"valueIdentifier,omitempty"`
	ValueMoney           *Quantity        `json:"valueMoney,omitempty"`
	ValuePeriod          *Period          `json:"valuePeriod,omitempty"`
	ValueQuantity        *Quantity        `json:"valueQuantity,omitempty"`
	ValueRange           *Range           `json:"valueRange,omitempty"`
	ValueRatio           *Ratio           `json:"valueRatio,omitempty"`
	ValueReference       *Reference       `json:"valueReference,omitempty"`
	ValueSignature       *Signature       `json:"valueSignature,omitempty"`
	ValueTiming          *Timing          `json:"valueTiming,omitempty"`
	ValueMeta            *Meta            `json:"valueMeta,omitempty"`
}

// ExtensionByURL returns the first extension with the given url, or nil.
func ExtensionByURL(exts []Extension, url string) *Extension {
	for i := range exts {
		if exts[i].URL == url {
			return &exts[i]
		}
	}
	return nil
}
