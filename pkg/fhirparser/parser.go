// Package fhirparser converts between FHIR STU3 JSON and the typed models in
// fhirmodels.
package fhirparser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ehr/fhirstu3/pkg/fhirjson"
	"github.com/ehr/fhirstu3/pkg/fhirmodels"
)

// Parser decodes JSON into typed resources and encodes them back. A Parser
// is safe for concurrent use.
//
// Both modes reject choice elements with more than one type present,
// integers outside their FHIR range and element names that match the model
// only when case is ignored. Lenient mode drops unknown elements; strict
// mode rejects them.
type Parser struct {
	strict bool
	pretty bool
	logger zerolog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithStrict makes the parser reject input that does not survive a round
// trip through the model, and resource types that have no model.
func WithStrict(strict bool) Option {
	return func(p *Parser) { p.strict = strict }
}

// WithLogger sets the logger used for debug output about dropped elements
// and unmodeled resources.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Parser) { p.logger = logger }
}

// WithPrettyPrint makes FromFhir indent its output.
func WithPrettyPrint(pretty bool) Option {
	return func(p *Parser) { p.pretty = pretty }
}

// New returns a lenient parser that writes compact JSON.
func New(opts ...Option) *Parser {
	p := &Parser{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Strict reports whether the parser runs in strict mode.
func (p *Parser) Strict() bool { return p.strict }

// ToFhir decodes data into target. The resourceType of data must match
// target's type; a RawResource target accepts any type.
func (p *Parser) ToFhir(data []byte, target fhirmodels.Resource) error {
	rt, err := p.checkEnvelope(data)
	if err != nil {
		return err
	}
	if _, raw := target.(*fhirmodels.RawResource); !raw && rt != target.ResourceType() {
		return newError(ErrResourceTypeMismatch, fhirmodels.IssueTypeValue, "resourceType",
			fmt.Sprintf("expected resourceType %s, got %s", target.ResourceType(), rt))
	}
	return p.decode(data, rt, target)
}

// Decode is ToFhir for a model type given as a type parameter:
//
//	patient, err := fhirparser.Decode[fhirmodels.Patient](p, data)
func Decode[T any, PT interface {
	*T
	fhirmodels.Resource
}](p *Parser, data []byte) (*T, error) {
	v := PT(new(T))
	if err := p.ToFhir(data, v); err != nil {
		return nil, err
	}
	return (*T)(v), nil
}

// Parse decodes data into the model registered for its resourceType, or into
// a RawResource when the type has no model.
func (p *Parser) Parse(data []byte) (fhirmodels.Resource, error) {
	rt, err := p.checkEnvelope(data)
	if err != nil {
		return nil, err
	}
	r, ok := fhirmodels.NewResource(rt)
	if !ok {
		if !fhirmodels.IsKnownType(rt) {
			return nil, newError(ErrUnsupportedType, fhirmodels.IssueTypeNotSupported, "resourceType",
				fmt.Sprintf("%q is not an STU3 resource type", rt))
		}
		r = &fhirmodels.RawResource{}
	}
	if err := p.decode(data, rt, r); err != nil {
		return nil, err
	}
	return r, nil
}

// FromFhir encodes r as JSON.
func (p *Parser) FromFhir(r fhirmodels.Resource) ([]byte, error) {
	if r == nil {
		return nil, errors.New("fhirparser: nil resource")
	}
	out, err := fhirmodels.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("fhirparser: encode %s: %w", r.ResourceType(), err)
	}
	if p.pretty {
		var buf bytes.Buffer
		if err := json.Indent(&buf, out, "", "  "); err != nil {
			return nil, fmt.Errorf("fhirparser: indent: %w", err)
		}
		return buf.Bytes(), nil
	}
	return out, nil
}

// RoundTrip parses data, encodes the result and returns the encoded JSON
// with its differences from data. In lenient mode a non-empty diff is not an
// error.
func (p *Parser) RoundTrip(data []byte) ([]byte, []fhirjson.DiffEntry, error) {
	r, err := p.Parse(data)
	if err != nil {
		return nil, nil, err
	}
	out, err := p.FromFhir(r)
	if err != nil {
		return nil, nil, err
	}
	diffs, err := fhirjson.Diff(data, out)
	if err != nil {
		return nil, nil, fmt.Errorf("fhirparser: compare: %w", err)
	}
	return out, diffs, nil
}

// checkEnvelope verifies data is a JSON object with a string resourceType
// and returns that type.
func (p *Parser) checkEnvelope(data []byte) (string, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return "", newError(ErrEmptyInput, fhirmodels.IssueTypeRequired, "", "resource body is empty")
	}
	if !json.Valid(trimmed) {
		var v any
		err := json.Unmarshal(trimmed, &v)
		var se *json.SyntaxError
		if errors.As(err, &se) {
			return "", newError(ErrMalformedJSON, fhirmodels.IssueTypeStructure, "",
				fmt.Sprintf("invalid JSON at offset %d: %v", se.Offset, se))
		}
		return "", newError(ErrMalformedJSON, fhirmodels.IssueTypeStructure, "", "invalid JSON")
	}
	if trimmed[0] != '{' {
		return "", newError(ErrMalformedJSON, fhirmodels.IssueTypeStructure, "", "a resource must be a JSON object")
	}
	rt, err := fhirmodels.PeekResourceType(trimmed)
	if err != nil {
		return "", newError(ErrInvalidElement, fhirmodels.IssueTypeStructure, "resourceType", err.Error())
	}
	if rt == "" {
		return "", newError(ErrMissingResourceType, fhirmodels.IssueTypeRequired, "resourceType",
			"resourceType is required")
	}
	return rt, nil
}

func (p *Parser) decode(data []byte, rt string, target fhirmodels.Resource) error {
	if err := json.Unmarshal(data, target); err != nil {
		return decodeError(err)
	}

	var issues []fhirmodels.OperationOutcomeIssue
	p.visitRaw(target, func(path string, raw *fhirmodels.RawResource) {
		p.logger.Debug().
			Str("resourceType", raw.Type).
			Str("path", path).
			Msg("resource has no model, kept as raw JSON")
		if p.strict {
			issues = append(issues, issue(fhirmodels.IssueTypeNotSupported, path,
				fmt.Sprintf("resource type %s has no model", raw.Type)))
		}
	})
	if len(issues) > 0 {
		return &Error{Err: ErrUnsupportedType, Issues: issues}
	}

	if cerrs := fhirmodels.CheckConstraints(target); len(cerrs) > 0 {
		issues := make([]fhirmodels.OperationOutcomeIssue, 0, len(cerrs))
		for _, ce := range cerrs {
			code := fhirmodels.IssueTypeValue
			if ce.Kind == fhirmodels.ConstraintChoice {
				code = fhirmodels.IssueTypeStructure
			}
			issues = append(issues, issue(code, ce.Path, ce.Message))
		}
		return &Error{Err: ErrInvalidElement, Issues: issues}
	}

	lost, err := p.lostElements(data, target)
	if err != nil {
		return err
	}
	for _, d := range lost {
		p.logger.Debug().
			Str("resourceType", rt).
			Str("path", d.Path).
			Str("change", d.Type).
			Msg("element not preserved by model")
	}
	if folded := caseFolded(lost); len(folded) > 0 {
		return &Error{Err: ErrElementCase, Issues: folded}
	}
	if p.strict && len(lost) > 0 {
		issues := make([]fhirmodels.OperationOutcomeIssue, 0, len(lost))
		for _, d := range lost {
			issues = append(issues, issue(fhirmodels.IssueTypeStructure, d.Path, lossMessage(d)))
		}
		return &Error{Err: ErrLossyParse, Issues: issues}
	}
	return nil
}

// visitRaw calls fn for target itself when it is raw, and for every raw
// resource nested in it.
func (p *Parser) visitRaw(target fhirmodels.Resource, fn func(string, *fhirmodels.RawResource)) {
	if raw, ok := target.(*fhirmodels.RawResource); ok {
		fn("", raw)
		return
	}
	fhirmodels.VisitResources(target, func(path string, r fhirmodels.Resource) {
		if raw, ok := r.(*fhirmodels.RawResource); ok {
			fn(path, raw)
		}
	})
}

func (p *Parser) lostElements(data []byte, r fhirmodels.Resource) ([]fhirjson.DiffEntry, error) {
	out, err := fhirmodels.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("fhirparser: encode %s: %w", r.ResourceType(), err)
	}
	diffs, err := fhirjson.Diff(data, out)
	if err != nil {
		return nil, fmt.Errorf("fhirparser: compare: %w", err)
	}
	return diffs, nil
}

// caseFolded finds input elements that the JSON decoder matched to a model
// element whose name differs only in case. Such a key is reported as
// removed, next to an added or changed element with the model's spelling.
func caseFolded(lost []fhirjson.DiffEntry) []fhirmodels.OperationOutcomeIssue {
	var issues []fhirmodels.OperationOutcomeIssue
	for _, d := range lost {
		if d.Type != fhirjson.Removed {
			continue
		}
		parent, name := splitPath(d.Path)
		if strings.ContainsRune(name, '[') {
			continue
		}
		for _, o := range lost {
			if o.Type == fhirjson.Removed {
				continue
			}
			if model, ok := childName(parent, o.Path); ok && model != name && strings.EqualFold(model, name) {
				issues = append(issues, issue(fhirmodels.IssueTypeStructure, d.Path,
					fmt.Sprintf("element %q must be spelled %q", name, model)))
				break
			}
		}
	}
	return issues
}

func splitPath(path string) (parent, name string) {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[:i], path[i+1:]
	}
	return "", path
}

// childName returns the first element name of path below parent.
func childName(parent, path string) (string, bool) {
	rest := path
	if parent != "" {
		if !strings.HasPrefix(path, parent+".") {
			return "", false
		}
		rest = path[len(parent)+1:]
	}
	if i := strings.IndexAny(rest, ".["); i >= 0 {
		rest = rest[:i]
	}
	return rest, rest != ""
}

func lossMessage(d fhirjson.DiffEntry) string {
	switch d.Type {
	case fhirjson.Removed:
		return "unknown or unsupported element"
	case fhirjson.Added:
		return "element was not present in the input"
	default:
		return "value changed when re-encoded"
	}
}

func decodeError(err error) error {
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) {
		path := te.Field
		return newError(ErrInvalidElement, fhirmodels.IssueTypeStructure, path,
			fmt.Sprintf("cannot use JSON %s as %s", te.Value, te.Type))
	}
	var rte *fhirmodels.ResourceTypeError
	if errors.As(err, &rte) {
		return newError(ErrResourceTypeMismatch, fhirmodels.IssueTypeValue, "resourceType", rte.Error())
	}
	if errors.Is(err, fhirmodels.ErrMissingResourceType) {
		return newError(ErrMissingResourceType, fhirmodels.IssueTypeRequired, "resourceType",
			"contained resource has no resourceType")
	}
	var se *json.SyntaxError
	if errors.As(err, &se) {
		return newError(ErrMalformedJSON, fhirmodels.IssueTypeStructure, "",
			fmt.Sprintf("invalid JSON at offset %d: %v", se.Offset, se))
	}
	return newError(ErrInvalidElement, fhirmodels.IssueTypeStructure, "", err.Error())
}
