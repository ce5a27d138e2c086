package fhirjson

import (
	"encoding/json"
	"testing"
)

func TestDiff_Identical(t *testing.T) {
	a := []byte(`{"resourceType":"Patient","id":"1","active":true}`)
	b := []byte(`{"active":true,"id":"1","resourceType":"Patient"}`)

	diffs, err := Diff(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(diffs) != 0 {
		t.Errorf("expected 0 diffs for reordered keys, got %d: %+v", len(diffs), diffs)
	}
}

func TestDiff_NumbersComparedByValue(t *testing.T) {
	a := []byte(`{"value":1.0,"low":150.50,"count":2}`)
	b := []byte(`{"value":1.00,"low":150.5,"count":2.0}`)

	ok, err := Equivalent(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected numerically equal documents to be equivalent")
	}
}

func TestDiff_NumberVsString(t *testing.T) {
	diffs, err := Diff([]byte(`{"v":1}`), []byte(`{"v":"1"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(diffs) != 1 || diffs[0].Type != Changed {
		t.Errorf("expected one changed entry, got %+v", diffs)
	}
}

func TestDiff_AddedRemovedChanged(t *testing.T) {
	a := []byte(`{"id":"1","gender":"male","name":[{"family":"Chalmers"}]}`)
	b := []byte(`{"id":"1","active":false,"name":[{"family":"Windsor"},{"given":["Jim"]}]}`)

	diffs, err := Diff(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]string{
		"active":         Added,
		"gender":         Removed,
		"name[0].family": Changed,
		"name[1]":        Added,
	}
	if len(diffs) != len(want) {
		t.Fatalf("expected %d diffs, got %d: %+v", len(want), len(diffs), diffs)
	}
	for _, d := range diffs {
		if want[d.Path] != d.Type {
			t.Errorf("path %s: expected %q, got %q", d.Path, want[d.Path], d.Type)
		}
	}
}

func TestDiff_ArrayOrderSignificant(t *testing.T) {
	ok, err := Equivalent([]byte(`{"given":["Peter","James"]}`), []byte(`{"given":["James","Peter"]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected reordered array to differ")
	}
}

func TestDiff_ObjectVsArray(t *testing.T) {
	diffs, err := Diff([]byte(`{"x":{"a":1}}`), []byte(`{"x":[1]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(diffs) != 1 || diffs[0].Path != "x" || diffs[0].Type != Changed {
		t.Errorf("expected x changed, got %+v", diffs)
	}
}

func TestDiff_InvalidJSON(t *testing.T) {
	if _, err := Diff([]byte(`{`), []byte(`{}`)); err == nil {
		t.Error("expected error for malformed left document")
	}
	if _, err := Diff([]byte(`{}`), []byte(`{} {}`)); err == nil {
		t.Error("expected error for trailing data in right document")
	}
}

func TestDiffValues_FloatMaps(t *testing.T) {
	var old, new map[string]any
	_ = json.Unmarshal([]byte(`{"value":185}`), &old)
	_ = json.Unmarshal([]byte(`{"value":185.0}`), &new)

	if diffs := DiffValues(old, new); len(diffs) != 0 {
		t.Errorf("expected no diffs, got %+v", diffs)
	}
}

func TestDiffEntry_String(t *testing.T) {
	tests := []struct {
		entry DiffEntry
		want  string
	}{
		{DiffEntry{Path: "a", Type: Added, NewValue: "x"}, `+ a: "x"`},
		{DiffEntry{Path: "b", Type: Removed, OldValue: json.Number("1.50")}, `- b: 1.50`},
		{DiffEntry{Path: "c", Type: Changed, OldValue: true, NewValue: false}, `~ c: true -> false`},
	}
	for _, tt := range tests {
		if got := tt.entry.String(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestCanonical(t *testing.T) {
	got, err := Canonical([]byte(`{ "b": 1.50, "a": "<div>", "c": [true, null] }`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"a":"<div>","b":1.50,"c":[true,null]}`
	if string(got) != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestDiffToParameters(t *testing.T) {
	diffs := []DiffEntry{
		{Path: "gender", Type: Changed, OldValue: "male", NewValue: "female"},
		{Path: "active", Type: Added, NewValue: true},
	}

	params := DiffToParameters(diffs)

	if len(params.Parameter) != 2 {
		t.Fatalf("expected 2 parameters, got %d", len(params.Parameter))
	}
	first := params.Parameter[0]
	if first.Name != "diff" {
		t.Errorf("expected name 'diff', got %q", first.Name)
	}
	if p := first.PartByName("oldValue"); p == nil || p.ValueString != "male" {
		t.Errorf("expected oldValue 'male', got %+v", p)
	}
	second := params.Parameter[1]
	if second.PartByName("oldValue") != nil {
		t.Error("added entry should not have an oldValue part")
	}
	if p := second.PartByName("newValue"); p == nil || p.ValueString != "true" {
		t.Errorf("expected newValue 'true', got %+v", p)
	}
	if p := second.PartByName("type"); p == nil || p.ValueCode != Added {
		t.Errorf("expected type 'added', got %+v", p)
	}
}
