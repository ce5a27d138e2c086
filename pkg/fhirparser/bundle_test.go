package fhirparser

import (
	"strings"
	"testing"

	"github.com/ehr/fhirstu3/pkg/fhirmodels"
)

func TestNewBundle_Searchset(t *testing.T) {
	p := &fhirmodels.Patient{}
	p.ID = "1"
	o := &fhirmodels.Observation{Status: "final"}

	b := NewBundle(fhirmodels.BundleTypeSearchset, p, nil, o)

	if b.Total == nil || *b.Total != 3 {
		t.Errorf("expected total 3, got %v", b.Total)
	}
	if len(b.Entry) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(b.Entry))
	}
	if b.Entry[0].FullURL != "Patient/1" {
		t.Errorf("expected fullUrl Patient/1, got %q", b.Entry[0].FullURL)
	}
	if !strings.HasPrefix(b.Entry[1].FullURL, "urn:uuid:") {
		t.Errorf("expected urn:uuid fullUrl, got %q", b.Entry[1].FullURL)
	}
	if b.Entry[0].Search == nil || b.Entry[0].Search.Mode != fhirmodels.SearchModeMatch {
		t.Error("expected search mode match")
	}
}

func TestNewBundle_Transaction(t *testing.T) {
	p := &fhirmodels.Patient{}
	p.ID = "1"
	o := &fhirmodels.Observation{}

	b := NewBundle(fhirmodels.BundleTypeTransaction, p, o)

	if b.Total != nil {
		t.Error("transaction bundles carry no total")
	}
	if r := b.Entry[0].Request; r == nil || r.Method != "PUT" || r.URL != "Patient/1" {
		t.Errorf("unexpected request %+v", r)
	}
	if r := b.Entry[1].Request; r == nil || r.Method != "POST" || r.URL != "Observation" {
		t.Errorf("unexpected request %+v", r)
	}
}

func TestBundleResources_RoundTrip(t *testing.T) {
	p := &fhirmodels.Patient{Gender: "male"}
	p.ID = "1"
	b := NewBundle(fhirmodels.BundleTypeCollection, p)

	parser := New()
	data, err := parser.FromFhir(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded, err := Decode[fhirmodels.Bundle](parser, data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resources := BundleResources(decoded)
	if len(resources) != 1 {
		t.Fatalf("expected 1 resource, got %d", len(resources))
	}
	got, ok := resources[0].(*fhirmodels.Patient)
	if !ok {
		t.Fatalf("expected *Patient, got %T", resources[0])
	}
	if got.Gender != "male" {
		t.Errorf("expected gender male, got %q", got.Gender)
	}
}

func TestBundleResources_Nil(t *testing.T) {
	if got := BundleResources(nil); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}
