package fhirmodels

// OperationOutcome is a collection of error, warning or information
// messages that result from a system action.
type OperationOutcome struct {
	DomainResource
	Issue []OperationOutcomeIssue `json:"issue,omitempty"`
}

type OperationOutcomeIssue struct {
	BackboneElement
	Severity    string           `json:"severity"`
	Code        string           `json:"code"`
	Details     *CodeableConcept `json:"details,omitempty"`
	Diagnostics string           `json:"diagnostics,omitempty"`
	Location    []string         `json:"location,omitempty"`
	Expression  []string         `json:"expression,omitempty"`
}

// NewOperationOutcome returns an outcome with a single issue.
func NewOperationOutcome(severity, code, diagnostics string) *OperationOutcome {
	return &OperationOutcome{
		Issue: []OperationOutcomeIssue{{
			Severity:    severity,
			Code:        code,
			Diagnostics: diagnostics,
		}},
	}
}

// HasErrors returns true if the outcome contains any error or fatal issues.
func (o *OperationOutcome) HasErrors() bool {
	for _, issue := range o.Issue {
		if issue.Severity == IssueSeverityError || issue.Severity == IssueSeverityFatal {
			return true
		}
	}
	return false
}

func (OperationOutcome) ResourceType() string { return "OperationOutcome" }

func (r OperationOutcome) MarshalJSON() ([]byte, error) {
	type operationOutcome OperationOutcome
	return marshalResource("OperationOutcome", operationOutcome(r))
}

func (r *OperationOutcome) UnmarshalJSON(data []byte) error {
	type operationOutcome OperationOutcome
	var v operationOutcome
	if err := unmarshalResource("OperationOutcome", data, &v); err != nil {
		return err
	}
	*r = OperationOutcome(v)
	return nil
}
