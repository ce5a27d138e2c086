// Package fhirjson compares FHIR JSON documents structurally.
//
// Object key order is not significant, array order is, and numbers are
// compared by decimal value so that 1.0 and 1.00 are the same number.
package fhirjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

// Diff entry types.
const (
	Added   = "added"
	Removed = "removed"
	Changed = "changed"
)

// DiffEntry represents a single difference between two JSON documents.
type DiffEntry struct {
	Path     string `json:"path"`
	Type     string `json:"type"`
	OldValue any    `json:"oldValue,omitempty"`
	NewValue any    `json:"newValue,omitempty"`
}

func (d DiffEntry) String() string {
	switch d.Type {
	case Added:
		return fmt.Sprintf("+ %s: %s", d.Path, render(d.NewValue))
	case Removed:
		return fmt.Sprintf("- %s: %s", d.Path, render(d.OldValue))
	default:
		return fmt.Sprintf("~ %s: %s -> %s", d.Path, render(d.OldValue), render(d.NewValue))
	}
}

// Decode parses a single JSON value, keeping numbers as json.Number.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after top-level value at offset %d", dec.InputOffset())
	}
	return v, nil
}

// Diff returns the structural differences between a and b, sorted by path
// within each object.
func Diff(a, b []byte) ([]DiffEntry, error) {
	av, err := Decode(a)
	if err != nil {
		return nil, fmt.Errorf("decode left: %w", err)
	}
	bv, err := Decode(b)
	if err != nil {
		return nil, fmt.Errorf("decode right: %w", err)
	}
	var diffs []DiffEntry
	diffValues("", av, bv, &diffs)
	return diffs, nil
}

// DiffValues compares two already decoded JSON objects.
func DiffValues(old, new map[string]any) []DiffEntry {
	var diffs []DiffEntry
	diffMaps("", old, new, &diffs)
	return diffs
}

// Equivalent reports whether a and b hold the same JSON value.
func Equivalent(a, b []byte) (bool, error) {
	diffs, err := Diff(a, b)
	if err != nil {
		return false, err
	}
	return len(diffs) == 0, nil
}

func diffMaps(prefix string, old, new map[string]any, diffs *[]DiffEntry) {
	keys := make(map[string]bool, len(old)+len(new))
	for k := range old {
		keys[k] = true
	}
	for k := range new {
		keys[k] = true
	}
	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	for _, key := range sorted {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		oldVal, inOld := old[key]
		newVal, inNew := new[key]
		switch {
		case !inOld:
			*diffs = append(*diffs, DiffEntry{Path: path, Type: Added, NewValue: newVal})
		case !inNew:
			*diffs = append(*diffs, DiffEntry{Path: path, Type: Removed, OldValue: oldVal})
		default:
			diffValues(path, oldVal, newVal, diffs)
		}
	}
}

func diffValues(path string, oldVal, newVal any, diffs *[]DiffEntry) {
	oldMap, oldIsMap := oldVal.(map[string]any)
	newMap, newIsMap := newVal.(map[string]any)
	if oldIsMap && newIsMap {
		diffMaps(path, oldMap, newMap, diffs)
		return
	}

	oldSlice, oldIsSlice := oldVal.([]any)
	newSlice, newIsSlice := newVal.([]any)
	if oldIsSlice && newIsSlice {
		diffSlices(path, oldSlice, newSlice, diffs)
		return
	}

	if !scalarEqual(oldVal, newVal) {
		*diffs = append(*diffs, DiffEntry{Path: path, Type: Changed, OldValue: oldVal, NewValue: newVal})
	}
}

func diffSlices(path string, old, new []any, diffs *[]DiffEntry) {
	n := len(old)
	if len(new) > n {
		n = len(new)
	}
	for i := 0; i < n; i++ {
		elemPath := fmt.Sprintf("%s[%d]", path, i)
		switch {
		case i >= len(old):
			*diffs = append(*diffs, DiffEntry{Path: elemPath, Type: Added, NewValue: new[i]})
		case i >= len(new):
			*diffs = append(*diffs, DiffEntry{Path: elemPath, Type: Removed, OldValue: old[i]})
		default:
			diffValues(elemPath, old[i], new[i], diffs)
		}
	}
}

func scalarEqual(a, b any) bool {
	an, aNum := numberText(a)
	bn, bNum := numberText(b)
	if aNum || bNum {
		if !aNum || !bNum {
			return false
		}
		x, _, errA := apd.NewFromString(an)
		y, _, errB := apd.NewFromString(bn)
		if errA != nil || errB != nil {
			return an == bn
		}
		return x.Cmp(y) == 0
	}
	switch av := a.(type) {
	case nil:
		return b == nil
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	}
	// Mismatched container kinds (object vs array, array vs scalar).
	return false
}

func numberText(v any) (string, bool) {
	switch n := v.(type) {
	case json.Number:
		return n.String(), true
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64), true
	case int:
		return strconv.Itoa(n), true
	case int64:
		return strconv.FormatInt(n, 10), true
	}
	return "", false
}

func render(v any) string {
	switch x := v.(type) {
	case string:
		return strconv.Quote(x)
	case json.Number:
		return x.String()
	}
	b, err := marshalNoEscape(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
