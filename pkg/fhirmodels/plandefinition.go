package fhirmodels

// PlanDefinition is a pre-defined group of actions, such as an order set or
// clinical protocol, which may be applied in a particular context.
type PlanDefinition struct {
	DomainResource
	URL             string                 `json:"url,omitempty"`
	Identifier      []Identifier           `json:"identifier,omitempty"`
	Version         string                 `json:"version,omitempty"`
	Name            string                 `json:"name,omitempty"`
	Title           string                 `json:"title,omitempty"`
	Type            *CodeableConcept       `json:"type,omitempty"`
	Status          string                 `json:"status,omitempty"`
	Experimental    *bool                  `json:"experimental,omitempty"`
	Date            string                 `json:"date,omitempty"`
	Publisher       string                 `json:"publisher,omitempty"`
	Description     string                 `json:"description,omitempty"`
	Purpose         string                 `json:"purpose,omitempty"`
	Usage           string                 `json:"usage,omitempty"`
	ApprovalDate    string                 `json:"approvalDate,omitempty"`
	LastReviewDate  string                 `json:"lastReviewDate,omitempty"`
	EffectivePeriod *Period                `json:"effectivePeriod,omitempty"`
	UseContext      []UsageContext         `json:"useContext,omitempty"`
	Jurisdiction    []CodeableConcept      `json:"jurisdiction,omitempty"`
	Topic           []CodeableConcept      `json:"topic,omitempty"`
	Contributor     []Contributor          `json:"contributor,omitempty"`
	Contact         []ContactDetail        `json:"contact,omitempty"`
	Copyright       string                 `json:"copyright,omitempty"`
	RelatedArtifact []RelatedArtifact      `json:"relatedArtifact,omitempty"`
	Library         []Reference            `json:"library,omitempty"`
	Goal            []PlanDefinitionGoal   `json:"goal,omitempty"`
	Action          []PlanDefinitionAction `json:"action,omitempty"`
}

type PlanDefinitionGoal struct {
	BackboneElement
	Category      *CodeableConcept           `json:"category,omitempty"`
	Description   *CodeableConcept           `json:"description,omitempty"`
	Priority      *CodeableConcept           `json:"priority,omitempty"`
	Start         *CodeableConcept           `json:"start,omitempty"`
	Addresses     []CodeableConcept          `json:"addresses,omitempty"`
	Documentation []RelatedArtifact          `json:"documentation,omitempty"`
	Target        []PlanDefinitionGoalTarget `json:"target,omitempty"`
}

type PlanDefinitionGoalTarget struct {
	BackboneElement
	Measure               *CodeableConcept `json:"measure,omitempty"`
	DetailQuantity        *Quantity        `json:"detailQuantity,omitempty"`
	DetailRange           *Range           `json:"detailRange,omitempty"`
	DetailCodeableConcept *CodeableConcept `json:"detailCodeableConcept,omitempty"`
	Due                   *Quantity        `json:"due,omitempty"`
}

// PlanDefinitionAction is a (possibly nested) action in the plan.
type PlanDefinitionAction struct {
	BackboneElement
	Label               string                              `json:"label,omitempty"`
	Title               string                              `json:"title,omitempty"`
	Description         string                              `json:"description,omitempty"`
	TextEquivalent      string                              `json:"textEquivalent,omitempty"`
	Code                []CodeableConcept                   `json:"code,omitempty"`
	Reason              []CodeableConcept                   `json:"reason,omitempty"`
	Documentation       []RelatedArtifact                   `json:"documentation,omitempty"`
	GoalID              []string                            `json:"goalId,omitempty"`
	TriggerDefinition   []TriggerDefinition                 `json:"triggerDefinition,omitempty"`
	Condition           []PlanDefinitionActionCondition     `json:"condition,omitempty"`
	Input               []DataRequirement                   `json:"input,omitempty"`
	Output              []DataRequirement                   `json:"output,omitempty"`
	RelatedAction       []PlanDefinitionActionRelatedAction `json:"relatedAction,omitempty"`
	TimingDateTime      string                              `json:"timingDateTime,omitempty"`
	TimingPeriod        *Period                             `json:"timingPeriod,omitempty"`
	TimingDuration      *Quantity                           `json:"timingDuration,omitempty"`
	TimingRange         *Range                              `json:"timingRange,omitempty"`
	TimingTiming        *Timing                             `json:"timingTiming,omitempty"`
	Participant         []PlanDefinitionActionParticipant   `json:"participant,omitempty"`
	Type                *Coding                             `json:"type,omitempty"`
	GroupingBehavior    string                              `json:"groupingBehavior,omitempty"`
	SelectionBehavior   string                              `json:"selectionBehavior,omitempty"`
	RequiredBehavior    string                              `json:"requiredBehavior,omitempty"`
	PrecheckBehavior    string                              `json:"precheckBehavior,omitempty"`
	CardinalityBehavior string                              `json:"cardinalityBehavior,omitempty"`
	Definition          *Reference                          `json:"definition,omitempty"`
	Transform           *Reference                          `json:"transform,omitempty"`
	DynamicValue        []PlanDefinitionActionDynamicValue  `json:"dynamicValue,omitempty"`
	Action              []PlanDefinitionAction              `json:"action,omitempty"`
}

type PlanDefinitionActionCondition struct {
	BackboneElement
	Kind        string `json:"kind,omitempty"`
	Description string `json:"description,omitempty"`
	Language    string `json:"language,omitempty"`
	Expression  string `json:"expression,omitempty"`
}

type PlanDefinitionActionRelatedAction struct {
	BackboneElement
	ActionID       string    `json:"actionId,omitempty"`
	Relationship   string    `json:"relationship,omitempty"`
	OffsetDuration *Quantity `json:"offsetDuration,omitempty"`
	OffsetRange    *Range    `json:"offsetRange,omitempty"`
}

type PlanDefinitionActionParticipant struct {
	BackboneElement
	Type string           `json:"type,omitempty"`
	Role *CodeableConcept `json:"role,omitempty"`
}

type PlanDefinitionActionDynamicValue struct {
	BackboneElement
	Description string `json:"description,omitempty"`
	Path        string `json:"path,omitempty"`
	Language    string `json:"language,omitempty"`
	Expression  string `json:"expression,omitempty"`
}

func (PlanDefinition) ResourceType() string { return "PlanDefinition" }

func (r PlanDefinition) MarshalJSON() ([]byte, error) {
	type planDefinition PlanDefinition
	return marshalResource("PlanDefinition", planDefinition(r))
}

func (r *PlanDefinition) UnmarshalJSON(data []byte) error {
	type planDefinition PlanDefinition
	var v planDefinition
	if err := unmarshalResource("PlanDefinition", data, &v); err != nil {
		return err
	}
	*r = PlanDefinition(v)
	return nil
}
