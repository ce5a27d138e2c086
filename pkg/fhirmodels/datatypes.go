package fhirmodels

type Coding struct {
	Element
	System       string `json:"system,omitempty"`
	Version      string `json:"version,omitempty"`
	Code         string `json:"code,omitempty"`
	Display      string `json:"display,omitempty"`
	UserSelected *bool  `json:"userSelected,omitempty"`
}

type CodeableConcept struct {
	Element
	Coding []Coding `json:"coding,omitempty"`
	Text   string   `json:"text,omitempty"`
}

// HasCode reports whether any coding matches system and code. An empty
// system matches any system.
func (cc *CodeableConcept) HasCode(system, code string) bool {
	if cc == nil {
		return false
	}
	for _, c := range cc.Coding {
		if c.Code == code && (system == "" || c.System == system) {
			return true
		}
	}
	return false
}

type Identifier struct {
	Element
	Use      string           `json:"use,omitempty"`
	Type     *CodeableConcept `json:"type,omitempty"`
	System   string           `json:"system,omitempty"`
	Value    string           `json:"value,omitempty"`
	Period   *Period          `json:"period,omitempty"`
	Assigner *Reference       `json:"assigner,omitempty"`
}

// Reference points at another resource, either by literal reference
// ("Patient/123", "#contained-id", absolute URL) or by business identifier.
type Reference struct {
	Element
	Reference  string      `json:"reference,omitempty"`
	Identifier *Identifier `json:"identifier,omitempty"`
	Display    string      `json:"display,omitempty"`
}

type Period struct {
	Element
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// Quantity is also used for the Money, Duration, Age, Count, Distance and
// SimpleQuantity profiles, which only constrain its content.
type Quantity struct {
	Element
	Value      *Decimal `json:"value,omitempty"`
	Comparator string   `json:"comparator,omitempty"`
	Unit       string   `json:"unit,omitempty"`
	System     string   `json:"system,omitempty"`
	Code       string   `json:"code,omitempty"`
}

type Range struct {
	Element
	Low  *Quantity `json:"low,omitempty"`
	High *Quantity `json:"high,omitempty"`
}

type Ratio struct {
	Element
	Numerator   *Quantity `json:"numerator,omitempty"`
	Denominator *Quantity `json:"denominator,omitempty"`
}

type SampledData struct {
	Element
	Origin     *Quantity `json:"origin,omitempty"`
	Period     *Decimal  `json:"period,omitempty"`
	Factor     *Decimal  `json:"factor,omitempty"`
	LowerLimit *Decimal  `json:"lowerLimit,omitempty"`
	UpperLimit *Decimal  `json:"upperLimit,omitempty"`
	Dimensions *int      `json:"dimensions,omitempty" fhir:"positiveInt"`
	Data       string    `json:"data,omitempty"`
}

type Attachment struct {
	Element
	ContentType string `json:"contentType,omitempty"`
	Language    string `json:"language,omitempty"`
	Data        string `json:"data,omitempty"`
	URL         string `json:"url,omitempty"`
	Size        *int   `json:"size,omitempty" fhir:"unsignedInt"`
	Hash        string `json:"hash,omitempty"`
	Title       string `json:"title,omitempty"`
	Creation    string `json:"creation,omitempty"`
}

type HumanName struct {
	Element
	Use       string     `json:"use,omitempty"`
	Text      string     `json:"text,omitempty"`
	Family    string     `json:"family,omitempty"`
	FamilyExt *Element   `json:"_family,omitempty"`
	Given     []string   `json:"given,omitempty"`
	GivenExt  []*Element `json:"_given,omitempty"`
	Prefix    []string   `json:"prefix,omitempty"`
	Suffix    []string   `json:"suffix,omitempty"`
	Period    *Period    `json:"period,omitempty"`
}

type Address struct {
	Element
	Use        string   `json:"use,omitempty"`
	Type       string   `json:"type,omitempty"`
	Text       string   `json:"text,omitempty"`
	Line       []string `json:"line,omitempty"`
	City       string   `json:"city,omitempty"`
	District   string   `json:"district,omitempty"`
	State      string   `json:"state,omitempty"`
	PostalCode string   `json:"postalCode,omitempty"`
	Country    string   `json:"country,omitempty"`
	Period     *Period  `json:"period,omitempty"`
}

type ContactPoint struct {
	Element
	System string  `json:"system,omitempty"`
	Value  string  `json:"value,omitempty"`
	Use    string  `json:"use,omitempty"`
	Rank   *int    `json:"rank,omitempty" fhir:"positiveInt"`
	Period *Period `json:"period,omitempty"`
}

type Annotation struct {
	Element
	AuthorReference *Reference `json:"authorReference,omitempty"`
	AuthorString    string     `json:"authorString,omitempty"`
	Time            string     `json:"time,omitempty"`
	Text            string     `json:"text,omitempty"`
}

// Narrative is the human-readable XHTML summary of a resource.
type Narrative struct {
	Element
	Status string `json:"status,omitempty"`
	Div    string `json:"div,omitempty"`
}

type Meta struct {
	Element
	VersionID   string   `json:"versionId,omitempty"`
	LastUpdated string   `json:"lastUpdated,omitempty"`
	Profile     []string `json:"profile,omitempty"`
	Security    []Coding `json:"security,omitempty"`
	Tag         []Coding `json:"tag,omitempty"`
}

type Signature struct {
	Element
	Type                []Coding   `json:"type,omitempty"`
	When                string     `json:"when,omitempty"`
	WhoURI              string     `json:"whoUri,omitempty"`
	WhoReference        *Reference `json:"whoReference,omitempty"`
	OnBehalfOfURI       string     `json:"onBehalfOfUri,omitempty"`
	OnBehalfOfReference *Reference `json:"onBehalfOfReference,omitempty"`
	ContentType         string     `json:"contentType,omitempty"`
	Blob                string     `json:"blob,omitempty"`
}

type Timing struct {
	Element
	Event  []string         `json:"event,omitempty"`
	Repeat *TimingRepeat    `json:"repeat,omitempty"`
	Code   *CodeableConcept `json:"code,omitempty"`
}

type TimingRepeat struct {
	Element
	BoundsDuration *Quantity `json:"boundsDuration,omitempty"`
	BoundsRange    *Range    `json:"boundsRange,omitempty"`
	BoundsPeriod   *Period   `json:"boundsPeriod,omitempty"`
	Count          *int      `json:"count,omitempty"`
	CountMax       *int      `json:"countMax,omitempty"`
	Duration       *Decimal  `json:"duration,omitempty"`
	DurationMax    *Decimal  `json:"durationMax,omitempty"`
	DurationUnit   string    `json:"durationUnit,omitempty"`
	Frequency      *int      `json:"frequency,omitempty"`
	FrequencyMax   *int      `json:"frequencyMax,omitempty"`
	Period         *Decimal  `json:"period,omitempty"`
	PeriodMax      *Decimal  `json:"periodMax,omitempty"`
	PeriodUnit     string    `json:"periodUnit,omitempty"`
	DayOfWeek      []string  `json:"dayOfWeek,omitempty"`
	TimeOfDay      []string  `json:"timeOfDay,omitempty"`
	When           []string  `json:"when,omitempty"`
	Offset         *int      `json:"offset,omitempty" fhir:"unsignedInt"`
}

// Metadata types used by conformance and knowledge resources.

type ContactDetail struct {
	Element
	Name    string         `json:"name,omitempty"`
	Telecom []ContactPoint `json:"telecom,omitempty"`
}

type Contributor struct {
	Element
	Type    string          `json:"type,omitempty"`
	Name    string          `json:"name,omitempty"`
	Contact []ContactDetail `json:"contact,omitempty"`
}

type UsageContext struct {
	Element
	Code                 *Coding          `json:"code,omitempty"`
	ValueCodeableConcept *CodeableConcept `json:"valueCodeableConcept,omitempty"`
	ValueQuantity        *Quantity        `json:"valueQuantity,omitempty"`
	ValueRange           *Range           `json:"valueRange,omitempty"`
}

type RelatedArtifact struct {
	Element
	Type     string      `json:"type,omitempty"`
	Display  string      `json:"display,omitempty"`
	Citation string      `json:"citation,omitempty"`
	URL      string      `json:"url,omitempty"`
	Document *Attachment `json:"document,omitempty"`
	Resource *Reference  `json:"resource,omitempty"`
}

type DataRequirement struct {
	Element
	Type        string                      `json:"type,omitempty"`
	Profile     []string                    `json:"profile,omitempty"`
	MustSupport []string                    `json:"mustSupport,omitempty"`
	CodeFilter  []DataRequirementCodeFilter `json:"codeFilter,omitempty"`
	DateFilter  []DataRequirementDateFilter `json:"dateFilter,omitempty"`
}

type DataRequirementCodeFilter struct {
	Element
	Path                 string            `json:"path,omitempty"`
	ValueSetString       string            `json:"valueSetString,omitempty"`
	ValueSetReference    *Reference        `json:"valueSetReference,omitempty"`
	ValueCode            []string          `json:"valueCode,omitempty"`
	ValueCoding          []Coding          `json:"valueCoding,omitempty"`
	ValueCodeableConcept []CodeableConcept `json:"valueCodeableConcept,omitempty"`
}

type DataRequirementDateFilter struct {
	Element
	Path          string    `json:"path,omitempty"`
	ValueDateTime string    `json:"valueDateTime,omitempty"`
	ValuePeriod   *Period   `json:"valuePeriod,omitempty"`
	ValueDuration *Quantity `json:"valueDuration,omitempty"`
}

type TriggerDefinition struct {
	Element
	Type                 string           `json:"type,omitempty"`
	EventName            string           `json:"eventName,omitempty"`
	EventTimingTiming    *Timing          `json:"eventTimingTiming,omitempty"`
	EventTimingReference *Reference       `json:"eventTimingReference,omitempty"`
	EventTimingDate      string           `json:"eventTimingDate,omitempty"`
	EventTimingDateTime  string           `json:"eventTimingDateTime,omitempty"`
	EventData            *DataRequirement `json:"eventData,omitempty"`
}

type ParameterDefinition struct {
	Element
	Name          string     `json:"name,omitempty"`
	Use           string     `json:"use,omitempty"`
	Min           *int       `json:"min,omitempty"`
	Max           string     `json:"max,omitempty"`
	Documentation string     `json:"documentation,omitempty"`
	Type          string     `json:"type,omitempty"`
	Profile       *Reference `json:"profile,omitempty"`
}
