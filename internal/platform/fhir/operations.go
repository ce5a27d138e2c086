package fhir

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ehr/fhirstu3/pkg/fhirjson"
	"github.com/ehr/fhirstu3/pkg/fhirmodels"
	"github.com/ehr/fhirstu3/pkg/fhirparser"
)

// OperationsHandler serves the system level operations $validate, $convert,
// $diff and $roundtrip.
type OperationsHandler struct {
	parser    *fhirparser.Parser
	lenient   *fhirparser.Parser
	validator *Validator
	logger    zerolog.Logger
}

// NewOperationsHandler creates handlers that decode with p. $roundtrip always
// uses a lenient parser so that it can report what p would reject.
func NewOperationsHandler(p *fhirparser.Parser, logger zerolog.Logger) *OperationsHandler {
	return &OperationsHandler{
		parser:    p,
		lenient:   fhirparser.New(fhirparser.WithLogger(logger)),
		validator: NewValidator(p),
		logger:    logger,
	}
}

// RegisterRoutes adds the operation routes to the given FHIR group.
func (h *OperationsHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/$validate", h.Validate)
	g.POST("/:type/$validate", h.Validate)
	g.POST("/$convert", h.Convert)
	g.POST("/$diff", h.Diff)
	g.POST("/$roundtrip", h.RoundTrip)
}

func readBody(c echo.Context) ([]byte, error) {
	return io.ReadAll(c.Request().Body)
}

// Validate handles POST /fhir/$validate and POST /fhir/:type/$validate.
// mode=update requires an id. The response is always an OperationOutcome.
func (h *OperationsHandler) Validate(c echo.Context) error {
	body, err := readBody(c)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return WriteOutcome(c, http.StatusBadRequest, NewOutcomeBuilder().
			AddIssue(fhirmodels.IssueSeverityError, fhirmodels.IssueTypeRequired, "request body is empty").Build())
	}

	if profile := c.QueryParam("profile"); profile != "" {
		h.logger.Warn().Str("profile", profile).Msg("$validate profile parameter ignored")
	}

	result := h.validator.ValidateResource(body, ValidateOptions{
		RequireID:    c.QueryParam("mode") == "update",
		ResourceType: c.Param("type"),
	})
	return WriteOutcome(c, http.StatusOK, result.ToOperationOutcome())
}

// Convert handles POST /fhir/$convert. A JSON resource is normalised through
// the model. With _format=ndjson a Bundle is written as one resource per
// line. An NDJSON request body is collected into a collection Bundle.
func (h *OperationsHandler) Convert(c echo.Context) error {
	body, err := readBody(c)
	if err != nil {
		return err
	}

	if isNDJSONRequest(c) {
		return h.convertFromNDJSON(c, body)
	}

	r, err := h.parser.Parse(body)
	if err != nil {
		return WriteParseError(c, err)
	}

	if Format(c) != FormatNDJSON {
		return WriteResource(c, http.StatusOK, h.parser, r)
	}

	bundle, ok := r.(*fhirmodels.Bundle)
	if !ok {
		return WriteOutcome(c, http.StatusBadRequest,
			NotSupportedOutcome("NDJSON output requires a Bundle, got "+r.ResourceType()))
	}
	c.Response().Header().Set(echo.HeaderContentType, NDJSONContentType)
	c.Response().WriteHeader(http.StatusOK)
	w := fhirparser.NewNDJSONWriter(c.Response())
	for _, res := range fhirparser.BundleResources(bundle) {
		if err := w.WriteResource(res); err != nil {
			return err
		}
	}
	return w.Flush()
}

func (h *OperationsHandler) convertFromNDJSON(c echo.Context, body []byte) error {
	var resources []fhirmodels.Resource
	builder := NewOutcomeBuilder()
	for res := range h.parser.ReadNDJSON(c.Request().Context(), bytes.NewReader(body)) {
		if res.Err != nil {
			oo := fhirparser.AsOperationOutcome(res.Err)
			for _, iss := range oo.Issue {
				iss.Diagnostics = fmt.Sprintf("line %d: %s", res.Line, iss.Diagnostics)
				builder.AddIssues(iss)
			}
			continue
		}
		resources = append(resources, res.Resource)
	}
	if oo := builder.Build(); len(oo.Issue) > 0 {
		return WriteOutcome(c, http.StatusBadRequest, oo)
	}
	return WriteResource(c, http.StatusOK, h.parser,
		fhirparser.NewBundle(fhirmodels.BundleTypeCollection, resources...))
}

func isNDJSONRequest(c echo.Context) bool {
	ct := strings.ToLower(c.Request().Header.Get(echo.HeaderContentType))
	return strings.Contains(ct, "ndjson")
}

// Diff handles POST /fhir/$diff. The body is a Parameters resource with
// "left" and "right" resource parameters; the result lists their
// differences.
func (h *OperationsHandler) Diff(c echo.Context) error {
	body, err := readBody(c)
	if err != nil {
		return err
	}
	params, err := fhirparser.Decode[fhirmodels.Parameters](h.lenient, body)
	if err != nil {
		return WriteParseError(c, err)
	}

	left, right := params.Get("left"), params.Get("right")
	builder := NewOutcomeBuilder()
	if left == nil || left.Resource == nil || left.Resource.Resource == nil {
		builder.AddIssueWithLocation(fhirmodels.IssueSeverityError, fhirmodels.IssueTypeRequired,
			"parameter 'left' with a resource is required", "parameter.left")
	}
	if right == nil || right.Resource == nil || right.Resource.Resource == nil {
		builder.AddIssueWithLocation(fhirmodels.IssueSeverityError, fhirmodels.IssueTypeRequired,
			"parameter 'right' with a resource is required", "parameter.right")
	}
	if oo := builder.Build(); len(oo.Issue) > 0 {
		return WriteOutcome(c, http.StatusBadRequest, oo)
	}

	leftJSON, err := h.lenient.FromFhir(left.Resource.Resource)
	if err != nil {
		return WriteOutcome(c, http.StatusInternalServerError, InternalErrorOutcome(err.Error()))
	}
	rightJSON, err := h.lenient.FromFhir(right.Resource.Resource)
	if err != nil {
		return WriteOutcome(c, http.StatusInternalServerError, InternalErrorOutcome(err.Error()))
	}
	diffs, err := fhirjson.Diff(leftJSON, rightJSON)
	if err != nil {
		return WriteOutcome(c, http.StatusInternalServerError, InternalErrorOutcome(err.Error()))
	}
	return WriteResource(c, http.StatusOK, h.parser, fhirjson.DiffToParameters(diffs))
}

// RoundTrip handles POST /fhir/$roundtrip. It decodes the body leniently,
// re-encodes it and returns a Parameters resource with the re-encoded
// "resource", a "lossless" flag and one "diff" parameter per element that
// did not survive.
func (h *OperationsHandler) RoundTrip(c echo.Context) error {
	body, err := readBody(c)
	if err != nil {
		return err
	}
	out, diffs, err := h.lenient.RoundTrip(body)
	if err != nil {
		return WriteParseError(c, err)
	}
	r, err := h.lenient.Parse(out)
	if err != nil {
		return WriteParseError(c, err)
	}

	lossless := len(diffs) == 0
	if !lossless {
		h.logger.Debug().Str("resourceType", r.ResourceType()).Int("diffs", len(diffs)).Msg("round trip was lossy")
	}
	result := fhirjson.DiffToParameters(diffs)
	result.Parameter = append([]fhirmodels.ParametersParameter{
		{Name: "resource", Resource: fhirmodels.Contain(r)},
		{Name: "lossless", ValueBoolean: &lossless},
	}, result.Parameter...)
	return WriteResource(c, http.StatusOK, h.parser, result)
}
