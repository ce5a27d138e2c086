package fhir

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ehr/fhirstu3/pkg/fhirmodels"
	"github.com/ehr/fhirstu3/pkg/fhirparser"
)

// OutcomeBuilder provides a fluent API for constructing OperationOutcome resources.
type OutcomeBuilder struct {
	outcome *fhirmodels.OperationOutcome
}

// NewOutcomeBuilder creates a new OutcomeBuilder.
func NewOutcomeBuilder() *OutcomeBuilder {
	return &OutcomeBuilder{outcome: &fhirmodels.OperationOutcome{}}
}

// AddIssue adds a single issue to the OperationOutcome.
func (b *OutcomeBuilder) AddIssue(severity, code, diagnostics string) *OutcomeBuilder {
	b.outcome.Issue = append(b.outcome.Issue, fhirmodels.OperationOutcomeIssue{
		Severity:    severity,
		Code:        code,
		Diagnostics: diagnostics,
	})
	return b
}

// AddIssueWithLocation adds an issue including an expression path.
func (b *OutcomeBuilder) AddIssueWithLocation(severity, code, diagnostics, expression string) *OutcomeBuilder {
	b.outcome.Issue = append(b.outcome.Issue, fhirmodels.OperationOutcomeIssue{
		Severity:    severity,
		Code:        code,
		Diagnostics: diagnostics,
		Expression:  []string{expression},
	})
	return b
}

// AddIssues appends already built issues.
func (b *OutcomeBuilder) AddIssues(issues ...fhirmodels.OperationOutcomeIssue) *OutcomeBuilder {
	b.outcome.Issue = append(b.outcome.Issue, issues...)
	return b
}

// Build returns the constructed OperationOutcome.
func (b *OutcomeBuilder) Build() *fhirmodels.OperationOutcome {
	return b.outcome
}

// ErrorOutcome creates an OperationOutcome with a single processing error.
func ErrorOutcome(diagnostics string) *fhirmodels.OperationOutcome {
	return fhirmodels.NewOperationOutcome(fhirmodels.IssueSeverityError, fhirmodels.IssueTypeProcessing, diagnostics)
}

func NotFoundOutcome(resourceType, id string) *fhirmodels.OperationOutcome {
	return fhirmodels.NewOperationOutcome(
		fhirmodels.IssueSeverityError,
		fhirmodels.IssueTypeNotFound,
		fmt.Sprintf("%s/%s not found", resourceType, id),
	)
}

// GoneOutcome is returned for reads of a deleted resource.
func GoneOutcome(resourceType, id string) *fhirmodels.OperationOutcome {
	return fhirmodels.NewOperationOutcome(
		fhirmodels.IssueSeverityError,
		fhirmodels.IssueTypeNotFound,
		fmt.Sprintf("%s/%s has been deleted", resourceType, id),
	)
}

func ConflictOutcome(diagnostics string) *fhirmodels.OperationOutcome {
	return fhirmodels.NewOperationOutcome(fhirmodels.IssueSeverityError, fhirmodels.IssueTypeConflict, diagnostics)
}

func NotSupportedOutcome(diagnostics string) *fhirmodels.OperationOutcome {
	return fhirmodels.NewOperationOutcome(fhirmodels.IssueSeverityError, fhirmodels.IssueTypeNotSupported, diagnostics)
}

// InternalErrorOutcome creates an OperationOutcome for internal server errors.
func InternalErrorOutcome(diagnostics string) *fhirmodels.OperationOutcome {
	return fhirmodels.NewOperationOutcome(fhirmodels.IssueSeverityFatal, fhirmodels.IssueTypeException, diagnostics)
}

// SuccessOutcome creates an informational OperationOutcome, used as the
// $validate response when there are no issues.
func SuccessOutcome(message string) *fhirmodels.OperationOutcome {
	return fhirmodels.NewOperationOutcome(fhirmodels.IssueSeverityInformation, fhirmodels.IssueTypeInformation, message)
}

// ParseErrorStatus maps a parser error to the HTTP status it is reported
// with.
func ParseErrorStatus(err error) int {
	switch {
	case errors.Is(err, fhirparser.ErrUnsupportedType):
		return http.StatusUnprocessableEntity
	case errors.Is(err, fhirparser.ErrLossyParse):
		return http.StatusUnprocessableEntity
	case errors.Is(err, fhirparser.ErrResourceTypeMismatch):
		return http.StatusBadRequest
	}
	var pe *fhirparser.Error
	if errors.As(err, &pe) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// WriteOutcome writes an OperationOutcome with the FHIR content type.
func WriteOutcome(c echo.Context, status int, oo *fhirmodels.OperationOutcome) error {
	return writeJSON(c, status, oo)
}

// WriteParseError renders a parser error as an OperationOutcome.
func WriteParseError(c echo.Context, err error) error {
	return WriteOutcome(c, ParseErrorStatus(err), fhirparser.AsOperationOutcome(err))
}

// WriteResource encodes r with p and writes it with the FHIR content type.
func WriteResource(c echo.Context, status int, p *fhirparser.Parser, r fhirmodels.Resource) error {
	body, err := p.FromFhir(r)
	if err != nil {
		return WriteOutcome(c, http.StatusInternalServerError, InternalErrorOutcome(err.Error()))
	}
	return c.Blob(status, FHIRContentType, body)
}

func writeJSON(c echo.Context, status int, v any) error {
	body, err := fhirmodels.Marshal(v)
	if err != nil {
		return err
	}
	return c.Blob(status, FHIRContentType, body)
}

// issueTypeForStatus picks the issue type reported for an HTTP status.
func issueTypeForStatus(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return fhirmodels.IssueTypeLogin
	case http.StatusForbidden:
		return fhirmodels.IssueTypeForbidden
	case http.StatusNotFound, http.StatusGone:
		return fhirmodels.IssueTypeNotFound
	case http.StatusMethodNotAllowed, http.StatusNotAcceptable, http.StatusUnsupportedMediaType:
		return fhirmodels.IssueTypeNotSupported
	case http.StatusConflict, http.StatusPreconditionFailed:
		return fhirmodels.IssueTypeConflict
	case http.StatusRequestEntityTooLarge:
		return fhirmodels.IssueTypeTooCostly
	case http.StatusGatewayTimeout, http.StatusServiceUnavailable:
		return fhirmodels.IssueTypeTimeout
	}
	if status >= 500 {
		return fhirmodels.IssueTypeException
	}
	return fhirmodels.IssueTypeInvalid
}

// HTTPErrorHandler renders errors returned by handlers and middleware as
// OperationOutcome bodies.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := http.StatusInternalServerError
	msg := http.StatusText(status)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(status)
		}
	}
	severity := fhirmodels.IssueSeverityError
	if status >= 500 {
		severity = fhirmodels.IssueSeverityFatal
	}
	oo := fhirmodels.NewOperationOutcome(severity, issueTypeForStatus(status), msg)
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = WriteOutcome(c, status, oo)
}
