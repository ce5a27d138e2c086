package fhirmodels

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// Constraint kinds reported by CheckConstraints.
const (
	ConstraintChoice = "choice"
	ConstraintRange  = "range"
)

// ConstraintError is a decoded element that JSON decoding accepted but FHIR
// does not allow.
type ConstraintError struct {
	Kind    string
	Path    string
	Message string
}

func (e ConstraintError) Error() string {
	return e.Path + ": " + e.Message
}

// choiceSuffixes are the type names that end the name of a choice element,
// longest first so that DateTime is preferred over Time.
var choiceSuffixes = func() []string {
	s := []string{
		"Address", "Age", "Annotation", "Attachment", "Base64Binary", "Boolean",
		"Code", "CodeableConcept", "Coding", "ContactDetail", "ContactPoint",
		"Contributor", "Count", "DataRequirement", "Date", "DateTime", "Decimal",
		"Distance", "Dosage", "Duration", "HumanName", "Id", "Identifier",
		"Instant", "Integer", "Markdown", "Meta", "Money", "Oid",
		"ParameterDefinition", "Period", "PositiveInt", "Quantity", "Range",
		"Ratio", "Reference", "RelatedArtifact", "SampledData", "Signature",
		"String", "Time", "Timing", "TriggerDefinition", "UnsignedInt", "Uri",
		"UsageContext",
	}
	sort.SliceStable(s, func(i, j int) bool { return len(s[i]) > len(s[j]) })
	return s
}()

// choiceGroup is one choice element of a struct type.
type choiceGroup struct {
	name   string
	fields []int
}

var choiceGroupCache sync.Map

// choiceGroups returns the choice elements of t: sets of two or more fields
// whose JSON names share a stem followed by a type name, e.g. valueString
// and valueQuantity.
func choiceGroups(t reflect.Type) []choiceGroup {
	if g, ok := choiceGroupCache.Load(t); ok {
		return g.([]choiceGroup)
	}
	byName := map[string][]int{}
	var order []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Anonymous {
			continue
		}
		name := choiceName(jsonName(f))
		if name == "" {
			continue
		}
		if _, seen := byName[name]; !seen {
			order = append(order, name)
		}
		byName[name] = append(byName[name], i)
	}
	var groups []choiceGroup
	for _, name := range order {
		if len(byName[name]) > 1 {
			groups = append(groups, choiceGroup{name: name, fields: byName[name]})
		}
	}
	choiceGroupCache.Store(t, groups)
	return groups
}

func choiceName(element string) string {
	for _, s := range choiceSuffixes {
		if len(element) > len(s) && strings.HasSuffix(element, s) {
			return element[:len(element)-len(s)]
		}
	}
	return ""
}

// integerBounds gives the allowed range of each FHIR integer type. Fields
// of type *int are "integer" unless tagged fhir:"positiveInt" or
// fhir:"unsignedInt".
var integerBounds = map[string][2]int{
	"integer":     {math.MinInt32, math.MaxInt32},
	"unsignedInt": {0, math.MaxInt32},
	"positiveInt": {1, math.MaxInt32},
}

var (
	intPtrType  = reflect.TypeOf((*int)(nil))
	decimalType = reflect.TypeOf(Decimal{})
)

// CheckConstraints walks root, including contained and nested resources,
// and reports choice elements with more than one type present and integers
// outside the range of their FHIR type. Raw resources are not checked.
func CheckConstraints(root Resource) []ConstraintError {
	if root == nil {
		return nil
	}
	if _, raw := root.(*RawResource); raw {
		return nil
	}
	var errs []ConstraintError
	checkValue(reflect.ValueOf(root), "", &errs)
	return errs
}

func checkValue(v reflect.Value, path string, errs *[]ConstraintError) {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return
		}
		checkValue(v.Elem(), path, errs)
	case reflect.Struct:
		t := v.Type()
		if t == decimalType {
			return
		}
		if t == containerType {
			if r := v.Interface().(ResourceContainer).Resource; r != nil {
				if _, raw := r.(*RawResource); !raw {
					checkValue(reflect.ValueOf(r), path, errs)
				}
			}
			return
		}
		for _, g := range choiceGroups(t) {
			var set []string
			for _, i := range g.fields {
				if !v.Field(i).IsZero() {
					set = append(set, jsonName(t.Field(i)))
				}
			}
			if len(set) > 1 {
				*errs = append(*errs, ConstraintError{
					Kind:    ConstraintChoice,
					Path:    joinPath(path, g.name+"[x]"),
					Message: fmt.Sprintf("only one of %s may be present", strings.Join(set, ", ")),
				})
			}
		}
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			if f.Anonymous {
				checkValue(v.Field(i), path, errs)
				continue
			}
			fieldPath := joinPath(path, jsonName(f))
			if f.Type == intPtrType {
				checkInteger(v.Field(i), f, fieldPath, errs)
				continue
			}
			checkValue(v.Field(i), fieldPath, errs)
		}
	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			checkValue(v.Index(i), fmt.Sprintf("%s[%d]", path, i), errs)
		}
	}
}

func checkInteger(v reflect.Value, f reflect.StructField, path string, errs *[]ConstraintError) {
	if v.IsNil() {
		return
	}
	kind := f.Tag.Get("fhir")
	if kind == "" {
		kind = "integer"
	}
	bounds := integerBounds[kind]
	n := int(v.Elem().Int())
	if n < bounds[0] || n > bounds[1] {
		*errs = append(*errs, ConstraintError{
			Kind:    ConstraintRange,
			Path:    path,
			Message: fmt.Sprintf("%d is out of range for %s (%d to %d)", n, kind, bounds[0], bounds[1]),
		})
	}
}
