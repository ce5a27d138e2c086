package fhirparser

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ehr/fhirstu3/pkg/fhirjson"
	"github.com/ehr/fhirstu3/pkg/fhirmodels"
)

const minimalPatient = `{"resourceType":"Patient","id":"p1","active":false,"gender":"female","multipleBirthInteger":0}`

func TestToFhir_Patient(t *testing.T) {
	p := New()
	var patient fhirmodels.Patient
	if err := p.ToFhir([]byte(minimalPatient), &patient); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if patient.ID != "p1" {
		t.Errorf("expected id p1, got %q", patient.ID)
	}
	if patient.Active == nil || *patient.Active {
		t.Errorf("expected active=false to be kept, got %v", patient.Active)
	}
	if patient.MultipleBirthInteger == nil || *patient.MultipleBirthInteger != 0 {
		t.Errorf("expected multipleBirthInteger=0 to be kept, got %v", patient.MultipleBirthInteger)
	}
}

func TestDecode_Generic(t *testing.T) {
	patient, err := Decode[fhirmodels.Patient](New(), []byte(minimalPatient))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if patient.Gender != fhirmodels.GenderFemale {
		t.Errorf("expected gender female, got %q", patient.Gender)
	}
}

func TestFromFhir_RoundTrip(t *testing.T) {
	p := New()
	patient, err := Decode[fhirmodels.Patient](p, []byte(minimalPatient))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err := p.FromFhir(patient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ok, err := fhirjson.Equivalent([]byte(minimalPatient), out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Errorf("expected equivalent JSON, got %s", out)
	}
	if !bytes.HasPrefix(out, []byte(`{"resourceType":"Patient"`)) {
		t.Errorf("expected resourceType first, got %s", out)
	}
}

func TestFromFhir_Pretty(t *testing.T) {
	p := New(WithPrettyPrint(true))
	out, err := p.FromFhir(&fhirmodels.Patient{DomainResource: fhirmodels.DomainResource{ResourceBase: fhirmodels.ResourceBase{ID: "x"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(out), "\n  \"id\": \"x\"") {
		t.Errorf("expected indented output, got %s", out)
	}
}

func TestFromFhir_Nil(t *testing.T) {
	if _, err := New().FromFhir(nil); err == nil {
		t.Error("expected error for nil resource")
	}
}

func TestToFhir_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		sentinel error
		code     string
		path     string
	}{
		{"empty", "  \n", ErrEmptyInput, fhirmodels.IssueTypeRequired, ""},
		{"malformed", `{"resourceType":"Patient",`, ErrMalformedJSON, fhirmodels.IssueTypeStructure, ""},
		{"not an object", `["Patient"]`, ErrMalformedJSON, fhirmodels.IssueTypeStructure, ""},
		{"missing resourceType", `{"id":"1"}`, ErrMissingResourceType, fhirmodels.IssueTypeRequired, "resourceType"},
		{"resourceType not a string", `{"resourceType":1}`, ErrInvalidElement, fhirmodels.IssueTypeStructure, "resourceType"},
		{"mismatch", `{"resourceType":"Observation"}`, ErrResourceTypeMismatch, fhirmodels.IssueTypeValue, "resourceType"},
		{"wrong type", `{"resourceType":"Patient","active":"yes"}`, ErrInvalidElement, fhirmodels.IssueTypeStructure, "active"},
		{"quoted decimal", `{"resourceType":"Patient","extension":[{"url":"u","valueDecimal":"1.5"}]}`, ErrInvalidElement, fhirmodels.IssueTypeStructure, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var patient fhirmodels.Patient
			err := New().ToFhir([]byte(tt.input), &patient)
			if !errors.Is(err, tt.sentinel) {
				t.Fatalf("expected %v, got %v", tt.sentinel, err)
			}
			var pe *Error
			if !errors.As(err, &pe) {
				t.Fatalf("expected *Error, got %T", err)
			}
			if len(pe.Issues) != 1 {
				t.Fatalf("expected 1 issue, got %d", len(pe.Issues))
			}
			iss := pe.Issues[0]
			if iss.Code != tt.code {
				t.Errorf("expected code %q, got %q", tt.code, iss.Code)
			}
			if iss.Severity != fhirmodels.IssueSeverityError {
				t.Errorf("expected severity error, got %q", iss.Severity)
			}
			if tt.path != "" && (len(iss.Expression) == 0 || iss.Expression[0] != tt.path) {
				t.Errorf("expected expression %q, got %v", tt.path, iss.Expression)
			}
		})
	}
}

func TestToFhir_MalformedReportsOffset(t *testing.T) {
	err := New().ToFhir([]byte(`{"resourceType":"Patient" "id":"1"}`), &fhirmodels.Patient{})
	var pe *Error
	if !errors.As(err, &pe) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if !strings.Contains(pe.Issues[0].Diagnostics, "offset") {
		t.Errorf("expected offset in diagnostics, got %q", pe.Issues[0].Diagnostics)
	}
}

func TestToFhir_LenientDropsUnknown(t *testing.T) {
	input := []byte(`{"resourceType":"Patient","id":"1","favouriteColour":"blue"}`)
	var patient fhirmodels.Patient
	if err := New().ToFhir(input, &patient); err != nil {
		t.Fatalf("expected lenient parse to succeed, got %v", err)
	}
	if patient.ID != "1" {
		t.Errorf("expected id 1, got %q", patient.ID)
	}
}

func TestToFhir_StrictRejectsUnknown(t *testing.T) {
	input := []byte(`{"resourceType":"Patient","id":"1","favouriteColour":"blue","name":[{"family":"X","nickname":"Y"}]}`)
	err := New(WithStrict(true)).ToFhir(input, &fhirmodels.Patient{})
	if !errors.Is(err, ErrLossyParse) {
		t.Fatalf("expected ErrLossyParse, got %v", err)
	}
	var pe *Error
	errors.As(err, &pe)
	paths := map[string]bool{}
	for _, iss := range pe.Issues {
		paths[iss.Expression[0]] = true
	}
	if !paths["favouriteColour"] || !paths["name[0].nickname"] {
		t.Errorf("expected both dropped paths, got %v", paths)
	}
}

func TestToFhir_StrictAcceptsKnown(t *testing.T) {
	var patient fhirmodels.Patient
	if err := New(WithStrict(true)).ToFhir([]byte(minimalPatient), &patient); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestToFhir_StrictRejectsUnmodeledContained(t *testing.T) {
	input := []byte(`{"resourceType":"Patient","contained":[{"resourceType":"Organization","id":"o1"}]}`)
	err := New(WithStrict(true)).ToFhir(input, &fhirmodels.Patient{})
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	var pe *Error
	errors.As(err, &pe)
	if pe.Issues[0].Code != fhirmodels.IssueTypeNotSupported {
		t.Errorf("expected not-supported, got %q", pe.Issues[0].Code)
	}
	if pe.Issues[0].Expression[0] != "contained[0]" {
		t.Errorf("expected path contained[0], got %v", pe.Issues[0].Expression)
	}
}

func TestToFhir_LogsDroppedElements(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	p := New(WithLogger(logger))

	input := []byte(`{"resourceType":"Patient","id":"1","favouriteColour":"blue"}`)
	if err := p.ToFhir(input, &fhirmodels.Patient{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), `"path":"favouriteColour"`) {
		t.Errorf("expected dropped element to be logged, got %s", buf.String())
	}
}

func TestParse_Polymorphic(t *testing.T) {
	p := New()
	r, err := p.Parse([]byte(`{"resourceType":"Observation","status":"final"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	obs, ok := r.(*fhirmodels.Observation)
	if !ok {
		t.Fatalf("expected *Observation, got %T", r)
	}
	if obs.Status != fhirmodels.ObservationStatusFinal {
		t.Errorf("expected status final, got %q", obs.Status)
	}
}

func TestParse_UnmodeledKeptRaw(t *testing.T) {
	input := []byte(`{"resourceType":"Organization","id":"o1","name":"Acme","active":true}`)
	p := New()
	r, err := p.Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := r.(*fhirmodels.RawResource); !ok {
		t.Fatalf("expected *RawResource, got %T", r)
	}
	if r.ResourceType() != "Organization" || r.Base().ID != "o1" {
		t.Errorf("unexpected raw resource %s/%s", r.ResourceType(), r.Base().ID)
	}
	out, err := p.FromFhir(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok, _ := fhirjson.Equivalent(input, out); !ok {
		t.Errorf("expected raw resource to round-trip, got %s", out)
	}
}

func TestParse_UnknownType(t *testing.T) {
	_, err := New().Parse([]byte(`{"resourceType":"Spaceship"}`))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestParse_StrictUnmodeled(t *testing.T) {
	_, err := New(WithStrict(true)).Parse([]byte(`{"resourceType":"Organization"}`))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestRoundTrip_ReportsDiffs(t *testing.T) {
	out, diffs, err := New().RoundTrip([]byte(`{"resourceType":"Patient","id":"1","extra":1}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(diffs) != 1 || diffs[0].Path != "extra" || diffs[0].Type != fhirjson.Removed {
		t.Errorf("expected extra removed, got %+v", diffs)
	}
	if bytes.Contains(out, []byte("extra")) {
		t.Errorf("expected extra to be dropped, got %s", out)
	}
}

func TestError_Message(t *testing.T) {
	err := &Error{
		Err: ErrLossyParse,
		Issues: []fhirmodels.OperationOutcomeIssue{
			issue(fhirmodels.IssueTypeStructure, "a", "unknown"),
			issue(fhirmodels.IssueTypeStructure, "b", "unknown"),
		},
	}
	want := "fhirparser: input not fully represented by the model: a: unknown (and 1 more)"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestAsOperationOutcome(t *testing.T) {
	oo := AsOperationOutcome(newError(ErrEmptyInput, fhirmodels.IssueTypeRequired, "", "empty"))
	if len(oo.Issue) != 1 || oo.Issue[0].Code != fhirmodels.IssueTypeRequired {
		t.Errorf("unexpected outcome %+v", oo.Issue)
	}
	oo = AsOperationOutcome(errors.New("boom"))
	if oo.Issue[0].Code != fhirmodels.IssueTypeException || oo.Issue[0].Diagnostics != "boom" {
		t.Errorf("unexpected outcome %+v", oo.Issue)
	}
}

func firstIssue(t *testing.T, err error, sentinel error) fhirmodels.OperationOutcomeIssue {
	t.Helper()
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected %v, got %v", sentinel, err)
	}
	var pe *Error
	if !errors.As(err, &pe) || len(pe.Issues) == 0 {
		t.Fatalf("expected *Error with issues, got %v", err)
	}
	return pe.Issues[0]
}

func TestToFhir_RejectsTwoChoiceTypes(t *testing.T) {
	input := []byte(`{"resourceType":"Observation","status":"final","code":{"text":"x"},` +
		`"valueString":"a","valueBoolean":true}`)
	for _, strict := range []bool{false, true} {
		err := New(WithStrict(strict)).ToFhir(input, &fhirmodels.Observation{})
		iss := firstIssue(t, err, ErrInvalidElement)
		if iss.Code != fhirmodels.IssueTypeStructure {
			t.Errorf("strict=%v: expected structure, got %q", strict, iss.Code)
		}
		if len(iss.Expression) != 1 || iss.Expression[0] != "value[x]" {
			t.Errorf("strict=%v: expected expression value[x], got %v", strict, iss.Expression)
		}
		if !strings.Contains(iss.Diagnostics, "valueString") || !strings.Contains(iss.Diagnostics, "valueBoolean") {
			t.Errorf("strict=%v: expected both elements named, got %q", strict, iss.Diagnostics)
		}
	}
}

func TestToFhir_RejectsTwoExtensionValueTypes(t *testing.T) {
	input := []byte(`{"resourceType":"Observation","status":"final","code":{"text":"x"},` +
		`"component":[{"code":{"text":"c"},"extension":[{"url":"u","valueCode":"a","valueUri":"b"}]}]}`)
	err := New().ToFhir(input, &fhirmodels.Observation{})
	iss := firstIssue(t, err, ErrInvalidElement)
	if len(iss.Expression) != 1 || iss.Expression[0] != "component[0].extension[0].value[x]" {
		t.Errorf("expected expression component[0].extension[0].value[x], got %v", iss.Expression)
	}
}

func TestToFhir_ChecksContainedChoices(t *testing.T) {
	input := []byte(`{"resourceType":"Patient","contained":[{"resourceType":"Patient","id":"c",` +
		`"deceasedBoolean":false,"deceasedDateTime":"2020-01-01"}]}`)
	err := New().ToFhir(input, &fhirmodels.Patient{})
	iss := firstIssue(t, err, ErrInvalidElement)
	if len(iss.Expression) != 1 || iss.Expression[0] != "contained[0].deceased[x]" {
		t.Errorf("expected expression contained[0].deceased[x], got %v", iss.Expression)
	}
}

func TestToFhir_SingleChoiceTypeAccepted(t *testing.T) {
	input := []byte(`{"resourceType":"Observation","status":"final","code":{"text":"x"},"valueBoolean":false}`)
	obs, err := Decode[fhirmodels.Observation](New(WithStrict(true)), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obs.ValueBoolean == nil || *obs.ValueBoolean {
		t.Errorf("expected valueBoolean=false, got %v", obs.ValueBoolean)
	}
}

func TestToFhir_IntegerRanges(t *testing.T) {
	tests := []struct {
		name  string
		input string
		path  string
	}{
		{"integer above 32 bits", `{"resourceType":"Patient","multipleBirthInteger":99999999999}`, "multipleBirthInteger"},
		{"positiveInt zero", `{"resourceType":"Patient","extension":[{"url":"u","valuePositiveInt":0}]}`, "extension[0].valuePositiveInt"},
		{"unsignedInt negative", `{"resourceType":"Patient","extension":[{"url":"u","valueUnsignedInt":-1}]}`, "extension[0].valueUnsignedInt"},
		{"claim sequence", `{"resourceType":"Claim","item":[{"sequence":0}]}`, "item[0].sequence"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Parse([]byte(tt.input))
			iss := firstIssue(t, err, ErrInvalidElement)
			if iss.Code != fhirmodels.IssueTypeValue {
				t.Errorf("expected value, got %q", iss.Code)
			}
			if len(iss.Expression) != 1 || iss.Expression[0] != tt.path {
				t.Errorf("expected expression %s, got %v", tt.path, iss.Expression)
			}
		})
	}
}

func TestToFhir_IntegerBoundsAccepted(t *testing.T) {
	input := []byte(`{"resourceType":"Patient","multipleBirthInteger":-2147483648,` +
		`"extension":[{"url":"u","valueUnsignedInt":0},{"url":"v","valuePositiveInt":2147483647}]}`)
	if _, err := New(WithStrict(true)).Parse(input); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestToFhir_RejectsCaseFoldedElements(t *testing.T) {
	tests := []struct {
		name  string
		input string
		path  string
	}{
		{"duplicate", `{"resourceType":"Patient","gender":"male","GENDER":"female"}`, "GENDER"},
		{"misspelled", `{"resourceType":"Patient","Gender":"male"}`, "Gender"},
		{"nested", `{"resourceType":"Patient","name":[{"FAMILY":"Chalmers"}]}`, "name[0].FAMILY"},
		{"duplicate array", `{"resourceType":"Patient","name":[{"family":"a"}],"Name":[{"family":"b"}]}`, "Name"},
	}
	for _, tt := range tests {
		for _, strict := range []bool{false, true} {
			err := New(WithStrict(strict)).ToFhir([]byte(tt.input), &fhirmodels.Patient{})
			iss := firstIssue(t, err, ErrElementCase)
			if iss.Code != fhirmodels.IssueTypeStructure {
				t.Errorf("%s strict=%v: expected structure, got %q", tt.name, strict, iss.Code)
			}
			if len(iss.Expression) != 1 || iss.Expression[0] != tt.path {
				t.Errorf("%s strict=%v: expected expression %s, got %v", tt.name, strict, tt.path, iss.Expression)
			}
		}
	}
}

func TestFromFhir_KeepsNarrativeMarkup(t *testing.T) {
	const div = `<div xmlns="http://www.w3.org/1999/xhtml">a &amp; b</div>`
	patient := &fhirmodels.Patient{}
	patient.ID = "1"
	patient.Text = &fhirmodels.Narrative{Status: "generated", Div: div}
	bundle := NewBundle(fhirmodels.BundleTypeCollection, patient)

	p := New()
	for _, r := range []fhirmodels.Resource{patient, bundle} {
		out, err := p.FromFhir(r)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(string(out), `"div":"<div xmlns=\"http://www.w3.org/1999/xhtml\">a &amp; b</div>"`) {
			t.Errorf("expected unescaped narrative in %s, got %s", r.ResourceType(), out)
		}
		if strings.Contains(string(out), `\u003c`) {
			t.Errorf("expected no \\u003c escapes in %s, got %s", r.ResourceType(), out)
		}
	}
}
