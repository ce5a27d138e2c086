// Package fhirtest has helpers for round-trip tests of FHIR resources:
// fixture loading, decode/encode with equivalence checks, and readable
// failure output.
package fhirtest

import (
	"fmt"
	"io/fs"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehr/fhirstu3/pkg/fhirjson"
	"github.com/ehr/fhirstu3/pkg/fhirmodels"
	"github.com/ehr/fhirstu3/pkg/fhirparser"
)

// LoadAsString reads the fixture at path.
func LoadAsString(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("load fixture: %w", err)
	}
	return string(data), nil
}

// LoadFS reads the fixture name from fsys.
func LoadFS(fsys fs.FS, name string) (string, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", fmt.Errorf("load fixture: %w", err)
	}
	return string(data), nil
}

// MustLoadFS is LoadFS that fails the test on error.
func MustLoadFS(t testing.TB, fsys fs.FS, name string) string {
	t.Helper()
	s, err := LoadFS(fsys, name)
	require.NoError(t, err)
	return s
}

// RoundTrip decodes json into a T, encodes it again and requires the output
// to be equivalent to the input. It returns the decoded model for field
// assertions.
func RoundTrip[T any, PT interface {
	*T
	fhirmodels.Resource
}](t testing.TB, p *fhirparser.Parser, json string) *T {
	t.Helper()
	v, err := fhirparser.Decode[T, PT](p, []byte(json))
	require.NoError(t, err, "decode")
	out, err := p.FromFhir(PT(v))
	require.NoError(t, err, "encode")
	if !AssertEquivalentJSON(t, json, string(out)) {
		t.FailNow()
	}
	return v
}

// AssertEquivalentJSON asserts that want and got hold the same JSON value,
// ignoring object key order and number formatting. On failure it reports
// the differing paths and a diff of the decoded documents.
func AssertEquivalentJSON(t testing.TB, want, got string) bool {
	t.Helper()
	diffs, err := fhirjson.Diff([]byte(want), []byte(got))
	if !assert.NoError(t, err) {
		return false
	}
	if len(diffs) == 0 {
		return true
	}
	lines := make([]string, len(diffs))
	for i, d := range diffs {
		lines[i] = d.String()
	}
	wantTree, _ := fhirjson.Decode([]byte(want))
	gotTree, _ := fhirjson.Decode([]byte(got))
	return assert.Fail(t, "JSON documents are not equivalent",
		"%s\n\n(-want +got):\n%s", strings.Join(lines, "\n"), cmp.Diff(wantTree, gotTree))
}
