package fhirparser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ehr/fhirstu3/pkg/fhirmodels"
)

var (
	// ErrEmptyInput is returned for empty or whitespace-only input.
	ErrEmptyInput = errors.New("empty input")
	// ErrMalformedJSON is returned when the input is not a JSON object.
	ErrMalformedJSON = errors.New("malformed JSON")
	// ErrMissingResourceType is returned when the top-level object has no
	// resourceType.
	ErrMissingResourceType = fhirmodels.ErrMissingResourceType
	// ErrResourceTypeMismatch is returned when the input resourceType does
	// not match the model it is decoded into.
	ErrResourceTypeMismatch = errors.New("resourceType mismatch")
	// ErrInvalidElement is returned when an element has the wrong JSON type
	// or an invalid primitive value.
	ErrInvalidElement = errors.New("invalid element")
	// ErrLossyParse is returned in strict mode when part of the input does
	// not survive a decode/encode round trip.
	ErrLossyParse = errors.New("input not fully represented by the model")
	// ErrElementCase is returned when an element name matches a model
	// element only when case is ignored. FHIR names are case-sensitive.
	ErrElementCase = errors.New("element name differs in case from the model")
	// ErrUnsupportedType is returned in strict mode for resource types that
	// have no Go model.
	ErrUnsupportedType = errors.New("unsupported resource type")
)

// Error is a parse failure. It wraps one of the sentinel errors above and
// carries the issues to report to a FHIR client.
type Error struct {
	Err    error
	Issues []fhirmodels.OperationOutcomeIssue
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("fhirparser: ")
	b.WriteString(e.Err.Error())
	if len(e.Issues) > 0 {
		first := e.Issues[0]
		b.WriteString(": ")
		if len(first.Expression) > 0 {
			b.WriteString(first.Expression[0])
			b.WriteString(": ")
		}
		b.WriteString(first.Diagnostics)
		if n := len(e.Issues) - 1; n > 0 {
			fmt.Fprintf(&b, " (and %d more)", n)
		}
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// OperationOutcome renders the error as an OperationOutcome resource.
func (e *Error) OperationOutcome() *fhirmodels.OperationOutcome {
	issues := make([]fhirmodels.OperationOutcomeIssue, len(e.Issues))
	copy(issues, e.Issues)
	return &fhirmodels.OperationOutcome{Issue: issues}
}

func newError(sentinel error, code, path, diagnostics string) *Error {
	return &Error{
		Err:    sentinel,
		Issues: []fhirmodels.OperationOutcomeIssue{issue(code, path, diagnostics)},
	}
}

func issue(code, path, diagnostics string) fhirmodels.OperationOutcomeIssue {
	iss := fhirmodels.OperationOutcomeIssue{
		Severity:    fhirmodels.IssueSeverityError,
		Code:        code,
		Diagnostics: diagnostics,
	}
	if path != "" {
		iss.Expression = []string{path}
	}
	return iss
}

// AsOperationOutcome converts any error returned by the parser into an
// OperationOutcome. Errors that are not parse errors become a single
// exception issue.
func AsOperationOutcome(err error) *fhirmodels.OperationOutcome {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.OperationOutcome()
	}
	return fhirmodels.NewOperationOutcome(fhirmodels.IssueSeverityError, fhirmodels.IssueTypeException, err.Error())
}
