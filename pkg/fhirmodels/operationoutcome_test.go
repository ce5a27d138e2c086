package fhirmodels_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehr/fhirstu3/pkg/fhirmodels"
	"github.com/ehr/fhirstu3/pkg/fhirtest"
)

func TestOperationOutcomeExample(t *testing.T) {
	r := fhirtest.RoundTrip[fhirmodels.OperationOutcome](t, parser, load(t, "operationoutcome-example.json"))

	assert.Equal(t, "101", r.ID)
	assert.Equal(t, "additional", r.Text.Status)
	require.Len(t, r.Issue, 2)

	first := r.Issue[0]
	assert.Equal(t, fhirmodels.IssueSeverityError, first.Severity)
	assert.Equal(t, fhirmodels.IssueTypeCodeInvalid, first.Code)
	assert.Equal(t, `The code "W" is not known and not legal in this context`, first.Details.Text)
	assert.Equal(t, "Acme.Interop.FHIRProcessors.Patient.processGender line 2453", first.Diagnostics)
	assert.Equal(t, []string{"/f:Person/f:gender"}, first.Location)
	assert.Equal(t, []string{"Person.gender"}, first.Expression)

	assert.Equal(t, fhirmodels.IssueSeverityWarning, r.Issue[1].Severity)
	assert.Equal(t, "Name has no given element", r.Issue[1].Diagnostics)

	assert.True(t, r.HasErrors())
}

func TestOperationOutcome_HasErrors(t *testing.T) {
	oo := fhirmodels.NewOperationOutcome(fhirmodels.IssueSeverityWarning, fhirmodels.IssueTypeInformation, "note")
	assert.False(t, oo.HasErrors())
	oo.Issue = append(oo.Issue, fhirmodels.OperationOutcomeIssue{Severity: fhirmodels.IssueSeverityFatal, Code: fhirmodels.IssueTypeException})
	assert.True(t, oo.HasErrors())
}
