package fhir

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// FHIRContentType is the STU3 JSON content type with charset.
const FHIRContentType = "application/fhir+json; charset=utf-8"

// NDJSONContentType is used for newline-delimited resource streams.
const NDJSONContentType = "application/fhir+ndjson"

// Output formats understood by _format.
const (
	FormatJSON   = "json"
	FormatNDJSON = "ndjson"
)

// ContentNegotiationMiddleware checks the _format query parameter first, then
// the Accept header. JSON and NDJSON are served; XML is rejected with 406.
// The negotiated format is stored under "fhir_format" in the context.
func ContentNegotiationMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if format := c.QueryParam("_format"); format != "" {
				f, ok := negotiateFormat(format)
				if !ok {
					return WriteOutcome(c, http.StatusNotAcceptable, NotSupportedOutcome("unsupported _format value: "+format))
				}
				c.Set("fhir_format", f)
				return next(c)
			}

			if accept := c.Request().Header.Get("Accept"); accept != "" && !acceptsJSON(accept) {
				return WriteOutcome(c, http.StatusNotAcceptable,
					NotSupportedOutcome("Accept header does not include a supported FHIR content type; use application/fhir+json"))
			}
			c.Set("fhir_format", FormatJSON)
			return next(c)
		}
	}
}

// Format returns the negotiated output format, defaulting to JSON.
func Format(c echo.Context) string {
	if f, ok := c.Get("fhir_format").(string); ok && f != "" {
		return f
	}
	return FormatJSON
}

// normalizeFormat restores the "+" that query-string decoding turns into a
// space ("application/fhir json").
func normalizeFormat(raw string) string {
	f := strings.TrimSpace(strings.ToLower(raw))
	f = strings.ReplaceAll(f, "fhir json", "fhir+json")
	f = strings.ReplaceAll(f, "fhir ndjson", "fhir+ndjson")
	return f
}

func negotiateFormat(raw string) (string, bool) {
	switch normalizeFormat(raw) {
	case "json", "application/json", "application/fhir+json":
		return FormatJSON, true
	case "ndjson", "application/ndjson", "application/fhir+ndjson", "application/x-ndjson":
		return FormatNDJSON, true
	}
	return "", false
}

func acceptsJSON(accept string) bool {
	for _, part := range strings.Split(accept, ",") {
		mediaType := strings.ToLower(strings.TrimSpace(strings.SplitN(part, ";", 2)[0]))
		switch mediaType {
		case "application/fhir+json", "application/json", "application/fhir+ndjson", "*/*", "application/*":
			return true
		}
	}
	return false
}
