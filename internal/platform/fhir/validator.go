package fhir

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/ehr/fhirstu3/pkg/fhirjson"
	"github.com/ehr/fhirstu3/pkg/fhirmodels"
	"github.com/ehr/fhirstu3/pkg/fhirparser"
)

// idPattern matches FHIR id values.
var idPattern = regexp.MustCompile(`^[A-Za-z0-9\-.]{1,64}$`)

// relativeRefPattern matches "Type/id" with an optional "/_history/vid".
var relativeRefPattern = regexp.MustCompile(`^([A-Z][A-Za-z]+)/[A-Za-z0-9\-.]{1,64}(/_history/[A-Za-z0-9\-.]{1,64})?$`)

// ValidationResult holds the results of a FHIR resource validation.
type ValidationResult struct {
	Valid  bool
	Issues []fhirmodels.OperationOutcomeIssue
}

func (vr *ValidationResult) add(code, path, diagnostics string) {
	vr.Valid = false
	iss := fhirmodels.OperationOutcomeIssue{
		Severity:    fhirmodels.IssueSeverityError,
		Code:        code,
		Diagnostics: diagnostics,
	}
	if path != "" {
		iss.Expression = []string{path}
	}
	vr.Issues = append(vr.Issues, iss)
}

func (vr *ValidationResult) warn(code, path, diagnostics string) {
	iss := fhirmodels.OperationOutcomeIssue{
		Severity:    fhirmodels.IssueSeverityWarning,
		Code:        code,
		Diagnostics: diagnostics,
	}
	if path != "" {
		iss.Expression = []string{path}
	}
	vr.Issues = append(vr.Issues, iss)
}

// ToOperationOutcome converts a ValidationResult into an OperationOutcome.
// A result without issues becomes a single informational issue.
func (vr *ValidationResult) ToOperationOutcome() *fhirmodels.OperationOutcome {
	if len(vr.Issues) == 0 {
		return SuccessOutcome("Validation successful")
	}
	return NewOutcomeBuilder().AddIssues(vr.Issues...).Build()
}

// ValidateOptions controls a single validation.
type ValidateOptions struct {
	// RequireID is set for updates.
	RequireID bool
	// ResourceType, when set, must match the body's resourceType.
	ResourceType string
}

// Validator checks STU3 JSON resources: envelope, ids, coded status
// elements, reference formats, bundle entries and finally whether the
// resource decodes into its model.
type Validator struct {
	parser *fhirparser.Parser
}

// NewValidator creates a Validator that uses p for the typed decode check.
func NewValidator(p *fhirparser.Parser) *Validator {
	return &Validator{parser: p}
}

// ValidateResource validates a raw JSON resource.
func (v *Validator) ValidateResource(data []byte, opts ValidateOptions) *ValidationResult {
	result := &ValidationResult{Valid: true}

	decoded, err := fhirjson.Decode(data)
	if err != nil {
		result.add(fhirmodels.IssueTypeStructure, "", "invalid JSON: "+err.Error())
		return result
	}
	resource, ok := decoded.(map[string]any)
	if !ok {
		result.add(fhirmodels.IssueTypeStructure, "", "a resource must be a JSON object")
		return result
	}

	v.ValidateResourceMap(resource, opts, result)
	if !result.Valid {
		return result
	}

	if _, err := v.parser.Parse(data); err != nil {
		var pe *fhirparser.Error
		if errors.As(err, &pe) {
			result.Valid = false
			result.Issues = append(result.Issues, pe.Issues...)
		} else {
			result.add(fhirmodels.IssueTypeException, "", err.Error())
		}
	}
	return result
}

// ValidateResourceMap runs the JSON-level checks on a decoded resource and
// appends the issues to result.
func (v *Validator) ValidateResourceMap(resource map[string]any, opts ValidateOptions, result *ValidationResult) {
	v.validateAt(resource, "", opts, result)
}

func (v *Validator) validateAt(resource map[string]any, prefix string, opts ValidateOptions, result *ValidationResult) {
	rt, ok := v.validateResourceType(resource, prefix, result)
	if !ok {
		return
	}
	if opts.ResourceType != "" && opts.ResourceType != rt {
		result.add(fhirmodels.IssueTypeValue, prefix+"resourceType",
			fmt.Sprintf("resource type in URL %q does not match resource type in body %q", opts.ResourceType, rt))
	}
	v.validateID(resource, prefix, opts.RequireID, result)
	v.validateCodes(resource, rt, prefix, result)
	v.walkReferences(resource, strings.TrimSuffix(prefix, "."), result)

	if contained, ok := resource["contained"].([]any); ok {
		for i, c := range contained {
			path := fmt.Sprintf("%scontained[%d].", prefix, i)
			m, ok := c.(map[string]any)
			if !ok {
				result.add(fhirmodels.IssueTypeStructure, strings.TrimSuffix(path, "."), "contained resource must be an object")
				continue
			}
			v.validateAt(m, path, ValidateOptions{RequireID: true}, result)
		}
	}

	if rt == "Bundle" {
		v.validateBundle(resource, prefix, result)
	}
}

func (v *Validator) validateResourceType(resource map[string]any, prefix string, result *ValidationResult) (string, bool) {
	raw, ok := resource["resourceType"]
	if !ok {
		result.add(fhirmodels.IssueTypeRequired, prefix+"resourceType", "resourceType is required")
		return "", false
	}
	rt, ok := raw.(string)
	if !ok || rt == "" {
		result.add(fhirmodels.IssueTypeValue, prefix+"resourceType", "resourceType must be a non-empty string")
		return "", false
	}
	if !fhirmodels.IsKnownType(rt) {
		result.add(fhirmodels.IssueTypeNotSupported, prefix+"resourceType",
			fmt.Sprintf("unknown STU3 resourceType: %s", rt))
		return "", false
	}
	return rt, true
}

func (v *Validator) validateID(resource map[string]any, prefix string, required bool, result *ValidationResult) {
	raw, ok := resource["id"]
	if !ok {
		if required {
			result.add(fhirmodels.IssueTypeRequired, prefix+"id", "id is required")
		}
		return
	}
	id, ok := raw.(string)
	if !ok || !idPattern.MatchString(id) {
		result.add(fhirmodels.IssueTypeValue, prefix+"id",
			"id must be 1-64 characters of letters, digits, '-' and '.'")
	}
}

// validateCodes checks every coded element bound in fhirmodels.ValueSets
// for the resource type.
func (v *Validator) validateCodes(resource map[string]any, rt, prefix string, result *ValidationResult) {
	keys := make([]string, 0, len(fhirmodels.ValueSets))
	for key := range fhirmodels.ValueSets {
		if strings.HasPrefix(key, rt+".") {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		steps := strings.Split(strings.TrimPrefix(key, rt+"."), ".")
		collectCodes(resource, steps, strings.TrimSuffix(prefix, "."), func(path string, val any) {
			code, ok := val.(string)
			if !ok {
				result.add(fhirmodels.IssueTypeStructure, path, "coded element must be a string")
				return
			}
			if !fhirmodels.InValueSet(key, code) {
				result.add(fhirmodels.IssueTypeCodeInvalid, path,
					fmt.Sprintf("invalid code %q for %s; valid values: %s", code, key,
						strings.Join(fhirmodels.ValueSets[key], ", ")))
			}
		})
	}
}

// collectCodes follows steps through objects and arrays and calls fn for
// every value found at the end of the path.
func collectCodes(node any, steps []string, path string, fn func(string, any)) {
	switch n := node.(type) {
	case []any:
		for i, item := range n {
			collectCodes(item, steps, fmt.Sprintf("%s[%d]", path, i), fn)
		}
	case map[string]any:
		if len(steps) == 0 {
			return
		}
		val, ok := n[steps[0]]
		if !ok {
			return
		}
		next := steps[0]
		if path != "" {
			next = path + "." + steps[0]
		}
		if len(steps) == 1 {
			fn(next, val)
			return
		}
		collectCodes(val, steps[1:], next, fn)
	}
}

// walkReferences recursively walks through a resource to find and validate
// Reference.reference values. Nested resources are skipped; they are
// validated on their own.
func (v *Validator) walkReferences(obj map[string]any, path string, result *ValidationResult) {
	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if key == "contained" || key == "resource" || key == "outcome" {
			continue
		}
		currentPath := key
		if path != "" {
			currentPath = path + "." + key
		}

		switch typedVal := obj[key].(type) {
		case map[string]any:
			if ref, ok := typedVal["reference"].(string); ok && ref != "" {
				if !ValidateReferenceFormat(ref) {
					result.add(fhirmodels.IssueTypeValue, currentPath+".reference",
						fmt.Sprintf("invalid reference format %q; expected 'ResourceType/id', an absolute URL, '#id' or a urn", ref))
				}
			}
			v.walkReferences(typedVal, currentPath, result)

		case []any:
			for i, item := range typedVal {
				if m, ok := item.(map[string]any); ok {
					v.walkReferences(m, fmt.Sprintf("%s[%d]", currentPath, i), result)
				}
			}
		}
	}
}

// ValidateReferenceFormat reports whether ref is a relative reference to a
// known STU3 type, an absolute http(s) URL, a local "#id" reference or a
// urn:uuid/urn:oid.
func ValidateReferenceFormat(ref string) bool {
	switch {
	case strings.HasPrefix(ref, "#"):
		return len(ref) > 1
	case strings.HasPrefix(ref, "urn:uuid:"), strings.HasPrefix(ref, "urn:oid:"):
		return len(ref) > len("urn:oid:")
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return true
	}
	m := relativeRefPattern.FindStringSubmatch(ref)
	return m != nil && fhirmodels.IsKnownType(m[1])
}

// validateBundle checks entries and validates each entry resource.
func (v *Validator) validateBundle(bundle map[string]any, prefix string, result *ValidationResult) {
	bundleType, _ := bundle["type"].(string)
	if bundleType == "" {
		result.add(fhirmodels.IssueTypeRequired, prefix+"type", "Bundle.type is required")
	}
	entries, _ := bundle["entry"].([]any)
	isRequest := bundleType == fhirmodels.BundleTypeTransaction || bundleType == fhirmodels.BundleTypeBatch

	if isRequest && len(entries) == 0 {
		result.warn(fhirmodels.IssueTypeRequired, prefix+"entry", "transaction or batch bundle has no entries")
	}

	for i, raw := range entries {
		path := fmt.Sprintf("%sentry[%d]", prefix, i)
		entry, ok := raw.(map[string]any)
		if !ok {
			result.add(fhirmodels.IssueTypeStructure, path, "bundle entry must be an object")
			continue
		}

		method := ""
		if isRequest {
			method = v.validateEntryRequest(entry, path, result)
		}

		res, hasResource := entry["resource"].(map[string]any)
		if (method == fhirmodels.HTTPVerbPost || method == fhirmodels.HTTPVerbPut) && !hasResource {
			result.add(fhirmodels.IssueTypeRequired, path+".resource",
				fmt.Sprintf("%s.resource is required for %s requests", path, method))
		}
		if hasResource {
			v.validateAt(res, path+".resource.", ValidateOptions{RequireID: method == fhirmodels.HTTPVerbPut}, result)
		}
	}
}

func (v *Validator) validateEntryRequest(entry map[string]any, path string, result *ValidationResult) string {
	req, ok := entry["request"].(map[string]any)
	if !ok {
		result.add(fhirmodels.IssueTypeRequired, path+".request",
			fmt.Sprintf("%s.request is required for transaction/batch bundles", path))
		return ""
	}
	method, _ := req["method"].(string)
	switch method {
	case fhirmodels.HTTPVerbGet, fhirmodels.HTTPVerbPost, fhirmodels.HTTPVerbPut, fhirmodels.HTTPVerbDelete:
	default:
		result.add(fhirmodels.IssueTypeCodeInvalid, path+".request.method",
			fmt.Sprintf("request.method must be GET, POST, PUT or DELETE; got %q", method))
	}
	if url, _ := req["url"].(string); url == "" {
		result.add(fhirmodels.IssueTypeRequired, path+".request.url", "request.url is required")
	}
	return method
}
