package fhirmodels

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

// Decimal is a FHIR decimal. The wire precision is significant in FHIR
// (1.50 is not the same value as 1.5 for display purposes), so the value is
// held as an arbitrary-precision apd.Decimal which keeps its exponent.
type Decimal struct {
	apd.Decimal
}

// NewDecimal parses s as a FHIR decimal.
func NewDecimal(s string) (*Decimal, error) {
	d := &Decimal{}
	if _, _, err := d.Decimal.SetString(s); err != nil {
		return nil, fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	if d.Form != apd.Finite {
		return nil, fmt.Errorf("invalid decimal %q: not a finite number", s)
	}
	return d, nil
}

// MustDecimal is like NewDecimal but panics on malformed input.
func MustDecimal(s string) *Decimal {
	d, err := NewDecimal(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Float64 returns the nearest float64 value.
func (d *Decimal) Float64() float64 {
	f, err := d.Decimal.Float64()
	if err != nil {
		return 0
	}
	return f
}

// String returns the decimal in plain notation, preserving trailing zeros.
func (d *Decimal) String() string {
	if d == nil {
		return ""
	}
	return d.Decimal.Text('f')
}

// Equal reports whether d and o hold the same numeric value.
func (d *Decimal) Equal(o *Decimal) bool {
	if d == nil || o == nil {
		return d == o
	}
	return d.Decimal.Cmp(&o.Decimal) == 0
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(d.Decimal.Text('f')), nil
}

func (d *Decimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] == '"' {
		// Some producers quote decimals; FHIR JSON does not allow it.
		if s, err := strconv.Unquote(string(data)); err == nil {
			return fmt.Errorf("decimal must be a JSON number, got string %q", s)
		}
		return fmt.Errorf("decimal must be a JSON number")
	}
	if _, _, err := d.Decimal.SetString(string(data)); err != nil {
		return fmt.Errorf("invalid decimal %s: %w", data, err)
	}
	return nil
}
