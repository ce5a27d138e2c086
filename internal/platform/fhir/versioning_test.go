package fhir

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ehr/fhirstu3/pkg/fhirmodels"
)

func TestParseETag(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{`W/"3"`, 3, false},
		{`"5"`, 5, false},
		{`W/"1"`, 1, false},
		{`"abc"`, 0, true},
		{`W/""`, 0, true},
		{`W/"0"`, 0, true},
		{`42`, 42, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseETag(tt.input)
			if tt.wantErr && err == nil {
				t.Errorf("ParseETag(%q) should have returned error", tt.input)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ParseETag(%q) returned error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseETag(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatETag(t *testing.T) {
	if got := FormatETag(7); got != `W/"7"` {
		t.Errorf("expected W/\"7\", got %s", got)
	}
	v, err := ParseETag(FormatETag(12))
	if err != nil || v != 12 {
		t.Errorf("expected 12, got %d (%v)", v, err)
	}
}

func newVersionContext(header, value string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/fhir/Patient/1", nil)
	if header != "" {
		req.Header.Set(header, value)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCheckIfMatch(t *testing.T) {
	c, _ := newVersionContext("", "")
	if v, err := CheckIfMatch(c, 3); err != nil || v != 0 {
		t.Errorf("expected unconditional update, got %d %v", v, err)
	}

	c, _ = newVersionContext("If-Match", `W/"3"`)
	if v, err := CheckIfMatch(c, 3); err != nil || v != 3 {
		t.Errorf("expected match on version 3, got %d %v", v, err)
	}

	c, _ = newVersionContext("If-Match", `W/"2"`)
	_, err := CheckIfMatch(c, 3)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusPreconditionFailed {
		t.Errorf("expected 412, got %v", err)
	}

	c, _ = newVersionContext("If-Match", `W/"x"`)
	_, err = CheckIfMatch(c, 3)
	httpErr, ok = err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestCheckIfNoneMatch(t *testing.T) {
	c, _ := newVersionContext("If-None-Match", `W/"4"`)
	if !CheckIfNoneMatch(c, 4) {
		t.Error("expected match for current version")
	}
	if CheckIfNoneMatch(c, 5) {
		t.Error("expected no match for newer version")
	}
	c, _ = newVersionContext("", "")
	if CheckIfNoneMatch(c, 4) {
		t.Error("expected no match without header")
	}
}

func TestSetVersionHeaders(t *testing.T) {
	c, rec := newVersionContext("", "")
	SetVersionHeaders(c, &fhirmodels.Meta{VersionID: "2", LastUpdated: "2026-01-02T03:04:05Z"})

	if got := rec.Header().Get("ETag"); got != `W/"2"` {
		t.Errorf("expected ETag W/\"2\", got %s", got)
	}
	if got := rec.Header().Get("Last-Modified"); got != "2026-01-02T03:04:05Z" {
		t.Errorf("expected Last-Modified, got %s", got)
	}

	c, rec = newVersionContext("", "")
	SetVersionHeaders(c, nil)
	if rec.Header().Get("ETag") != "" {
		t.Error("expected no ETag without meta")
	}
}

func TestVersionOf(t *testing.T) {
	p := &fhirmodels.Patient{}
	if VersionOf(p) != 0 {
		t.Errorf("expected 0 without meta, got %d", VersionOf(p))
	}
	p.Meta = &fhirmodels.Meta{VersionID: "9"}
	if VersionOf(p) != 9 {
		t.Errorf("expected 9, got %d", VersionOf(p))
	}
	p.Meta.VersionID = "v1"
	if VersionOf(p) != 0 {
		t.Errorf("expected 0 for non-numeric version, got %d", VersionOf(p))
	}
}
