package fhir

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ehr/fhirstu3/pkg/fhirmodels"
)

// SetVersionHeaders sets ETag and Last-Modified from the resource meta.
func SetVersionHeaders(c echo.Context, meta *fhirmodels.Meta) {
	if meta == nil {
		return
	}
	if meta.VersionID != "" {
		c.Response().Header().Set("ETag", `W/"`+meta.VersionID+`"`)
	}
	if meta.LastUpdated != "" {
		c.Response().Header().Set("Last-Modified", meta.LastUpdated)
	}
}

// CheckIfMatch validates the If-Match header against the current version.
// Returns 0, nil if no If-Match header is present (unconditional update).
func CheckIfMatch(c echo.Context, currentVersion int) (int, error) {
	ifMatch := c.Request().Header.Get("If-Match")
	if ifMatch == "" {
		return 0, nil
	}

	expectedVersion, err := ParseETag(ifMatch)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid If-Match header: "+err.Error())
	}

	if expectedVersion != currentVersion {
		return 0, echo.NewHTTPError(http.StatusPreconditionFailed,
			fmt.Sprintf("version conflict: expected version %d but resource is at version %d", expectedVersion, currentVersion))
	}

	return expectedVersion, nil
}

// ParseETag extracts the version number from an ETag value like W/"3" or "3".
func ParseETag(etag string) (int, error) {
	etag = strings.TrimSpace(etag)
	etag = strings.TrimPrefix(etag, "W/")
	etag = strings.Trim(etag, `"`)

	v, err := strconv.Atoi(etag)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("ETag must contain a positive version: %q", etag)
	}
	return v, nil
}

// FormatETag creates a weak ETag from a version ID.
func FormatETag(versionID int) string {
	return fmt.Sprintf(`W/"%d"`, versionID)
}

// CheckIfNoneMatch reports whether the client already holds currentVersion,
// in which case a read answers 304.
func CheckIfNoneMatch(c echo.Context, currentVersion int) bool {
	ifNoneMatch := c.Request().Header.Get("If-None-Match")
	if ifNoneMatch == "" {
		return false
	}

	clientVersion, err := ParseETag(ifNoneMatch)
	if err != nil {
		return false
	}

	return clientVersion == currentVersion
}

// VersionOf returns meta.versionId as an integer, or 0 when it is absent or
// not numeric.
func VersionOf(r fhirmodels.Resource) int {
	meta := r.Base().Meta
	if meta == nil {
		return 0
	}
	v, err := strconv.Atoi(meta.VersionID)
	if err != nil {
		return 0
	}
	return v
}
