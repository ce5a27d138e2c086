package fhirmodels

// TestScript is a structured set of tests against a FHIR server
// implementation.
type TestScript struct {
	DomainResource
	URL          string                  `json:"url,omitempty"`
	Identifier   *Identifier             `json:"identifier,omitempty"`
	Version      string                  `json:"version,omitempty"`
	Name         string                  `json:"name,omitempty"`
	Title        string                  `json:"title,omitempty"`
	Status       string                  `json:"status,omitempty"`
	Experimental *bool                   `json:"experimental,omitempty"`
	Date         string                  `json:"date,omitempty"`
	Publisher    string                  `json:"publisher,omitempty"`
	Contact      []ContactDetail         `json:"contact,omitempty"`
	Description  string                  `json:"description,omitempty"`
	UseContext   []UsageContext          `json:"useContext,omitempty"`
	Jurisdiction []CodeableConcept       `json:"jurisdiction,omitempty"`
	Purpose      string                  `json:"purpose,omitempty"`
	Copyright    string                  `json:"copyright,omitempty"`
	Origin       []TestScriptOrigin      `json:"origin,omitempty"`
	Destination  []TestScriptDestination `json:"destination,omitempty"`
	Metadata     *TestScriptMetadata     `json:"metadata,omitempty"`
	Fixture      []TestScriptFixture     `json:"fixture,omitempty"`
	Profile      []Reference             `json:"profile,omitempty"`
	Variable     []TestScriptVariable    `json:"variable,omitempty"`
	Rule         []TestScriptRule        `json:"rule,omitempty"`
	Ruleset      []TestScriptRuleset     `json:"ruleset,omitempty"`
	Setup        *TestScriptSetup        `json:"setup,omitempty"`
	Test         []TestScriptTest        `json:"test,omitempty"`
	Teardown     *TestScriptTeardown     `json:"teardown,omitempty"`
}

type TestScriptOrigin struct {
	BackboneElement
	Index   *int    `json:"index,omitempty"`
	Profile *Coding `json:"profile,omitempty"`
}

type TestScriptDestination struct {
	BackboneElement
	Index   *int    `json:"index,omitempty"`
	Profile *Coding `json:"profile,omitempty"`
}

type TestScriptMetadata struct {
	BackboneElement
	Link       []TestScriptMetadataLink       `json:"link,omitempty"`
	Capability []TestScriptMetadataCapability `json:"capability,omitempty"`
}

type TestScriptMetadataLink struct {
	BackboneElement
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
}

type TestScriptMetadataCapability struct {
	BackboneElement
	Required     *bool      `json:"required,omitempty"`
	Validated    *bool      `json:"validated,omitempty"`
	Description  string     `json:"description,omitempty"`
	Origin       []int      `json:"origin,omitempty"`
	Destination  *int       `json:"destination,omitempty"`
	Link         []string   `json:"link,omitempty"`
	Capabilities *Reference `json:"capabilities,omitempty"`
}

type TestScriptFixture struct {
	BackboneElement
	Autocreate *bool      `json:"autocreate,omitempty"`
	Autodelete *bool      `json:"autodelete,omitempty"`
	Resource   *Reference `json:"resource,omitempty"`
}

type TestScriptVariable struct {
	BackboneElement
	Name         string `json:"name,omitempty"`
	DefaultValue string `json:"defaultValue,omitempty"`
	Description  string `json:"description,omitempty"`
	Expression   string `json:"expression,omitempty"`
	HeaderField  string `json:"headerField,omitempty"`
	Hint         string `json:"hint,omitempty"`
	Path         string `json:"path,omitempty"`
	SourceID     string `json:"sourceId,omitempty"`
}

type TestScriptRuleParam struct {
	BackboneElement
	Name  string `json:"name,omitempty"`
	Value string `json:"value,omitempty"`
}

type TestScriptRule struct {
	BackboneElement
	Resource *Reference            `json:"resource,omitempty"`
	Param    []TestScriptRuleParam `json:"param,omitempty"`
}

type TestScriptRuleset struct {
	BackboneElement
	Resource *Reference              `json:"resource,omitempty"`
	Rule     []TestScriptRulesetRule `json:"rule,omitempty"`
}

type TestScriptRulesetRule struct {
	BackboneElement
	RuleID string                `json:"ruleId,omitempty"`
	Param  []TestScriptRuleParam `json:"param,omitempty"`
}

type TestScriptSetup struct {
	BackboneElement
	Action []TestScriptAction `json:"action,omitempty"`
}

// TestScriptAction is either an operation or an assertion.
type TestScriptAction struct {
	BackboneElement
	Operation *TestScriptOperation `json:"operation,omitempty"`
	Assert    *TestScriptAssert    `json:"assert,omitempty"`
}

type TestScriptOperation struct {
	BackboneElement
	Type             *Coding                   `json:"type,omitempty"`
	Resource         string                    `json:"resource,omitempty"`
	Label            string                    `json:"label,omitempty"`
	Description      string                    `json:"description,omitempty"`
	Accept           string                    `json:"accept,omitempty"`
	ContentType      string                    `json:"contentType,omitempty"`
	Destination      *int                      `json:"destination,omitempty"`
	EncodeRequestURL *bool                     `json:"encodeRequestUrl,omitempty"`
	Origin           *int                      `json:"origin,omitempty"`
	Params           string                    `json:"params,omitempty"`
	RequestHeader    []TestScriptRequestHeader `json:"requestHeader,omitempty"`
	RequestID        string                    `json:"requestId,omitempty"`
	ResponseID       string                    `json:"responseId,omitempty"`
	SourceID         string                    `json:"sourceId,omitempty"`
	TargetID         string                    `json:"targetId,omitempty"`
	URL              string                    `json:"url,omitempty"`
}

type TestScriptRequestHeader struct {
	BackboneElement
	Field string `json:"field,omitempty"`
	Value string `json:"value,omitempty"`
}

type TestScriptAssert struct {
	BackboneElement
	Label                     string                   `json:"label,omitempty"`
	Description               string                   `json:"description,omitempty"`
	Direction                 string                   `json:"direction,omitempty"`
	CompareToSourceID         string                   `json:"compareToSourceId,omitempty"`
	CompareToSourceExpression string                   `json:"compareToSourceExpression,omitempty"`
	CompareToSourcePath       string                   `json:"compareToSourcePath,omitempty"`
	ContentType               string                   `json:"contentType,omitempty"`
	Expression                string                   `json:"expression,omitempty"`
	HeaderField               string                   `json:"headerField,omitempty"`
	MinimumID                 string                   `json:"minimumId,omitempty"`
	NavigationLinks           *bool                    `json:"navigationLinks,omitempty"`
	Operator                  string                   `json:"operator,omitempty"`
	Path                      string                   `json:"path,omitempty"`
	RequestMethod             string                   `json:"requestMethod,omitempty"`
	RequestURL                string                   `json:"requestURL,omitempty"`
	Resource                  string                   `json:"resource,omitempty"`
	Response                  string                   `json:"response,omitempty"`
	ResponseCode              string                   `json:"responseCode,omitempty"`
	Rule                      *TestScriptAssertRule    `json:"rule,omitempty"`
	Ruleset                   *TestScriptAssertRuleset `json:"ruleset,omitempty"`
	SourceID                  string                   `json:"sourceId,omitempty"`
	ValidateProfileID         string                   `json:"validateProfileId,omitempty"`
	Value                     string                   `json:"value,omitempty"`
	WarningOnly               *bool                    `json:"warningOnly,omitempty"`
}

type TestScriptAssertRule struct {
	BackboneElement
	RuleID string                `json:"ruleId,omitempty"`
	Param  []TestScriptRuleParam `json:"param,omitempty"`
}

type TestScriptAssertRuleset struct {
	BackboneElement
	RulesetID string                 `json:"rulesetId,omitempty"`
	Rule      []TestScriptAssertRule `json:"rule,omitempty"`
}

type TestScriptTest struct {
	BackboneElement
	Name        string             `json:"name,omitempty"`
	Description string             `json:"description,omitempty"`
	Action      []TestScriptAction `json:"action,omitempty"`
}

type TestScriptTeardown struct {
	BackboneElement
	Action []TestScriptAction `json:"action,omitempty"`
}

func (TestScript) ResourceType() string { return "TestScript" }

func (r TestScript) MarshalJSON() ([]byte, error) {
	type testScript TestScript
	return marshalResource("TestScript", testScript(r))
}

func (r *TestScript) UnmarshalJSON(data []byte) error {
	type testScript TestScript
	var v testScript
	if err := unmarshalResource("TestScript", data, &v); err != nil {
		return err
	}
	*r = TestScript(v)
	return nil
}
