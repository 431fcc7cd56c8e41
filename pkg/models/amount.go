package models

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a numeric input decoded permissively. Numbers, numeric strings,
// strings carrying thousands separators or currency text all decode; blank,
// null and malformed values decode to zero instead of failing.
type Amount struct {
	decimal.Decimal
}

// NewAmount wraps a decimal.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// AmountFromString parses s the same way the JSON decoder does.
func AmountFromString(s string) Amount {
	return Amount{Decimal: ParseDecimal(s)}
}

// ParseDecimal reads plain and exponent notation as is. Anything else is
// reduced to its digits, the decimal point and a leading minus sign. Input
// that still does not parse yields zero.
func ParseDecimal(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return d
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		}
	}

	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

// UnmarshalJSON never returns an error.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		a.Decimal = decimal.Zero
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			a.Decimal = decimal.Zero
			return nil
		}
		a.Decimal = ParseDecimal(s)
		return nil
	}

	switch string(data) {
	case "true":
		a.Decimal = decimal.NewFromInt(1)
		return nil
	case "false":
		a.Decimal = decimal.Zero
		return nil
	}

	a.Decimal = ParseDecimal(string(data))
	return nil
}

// MarshalJSON writes a bare JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

// Flag is a boolean setting that may arrive as "1"/"0", 1/0 or true/false.
type Flag bool

// UnmarshalJSON never returns an error; unknown values are false.
func (f *Flag) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	switch strings.ToLower(s) {
	case "1", "true", "yes", "on":
		*f = true
	default:
		*f = false
	}
	return nil
}

// MarshalJSON writes a JSON boolean.
func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("true"), nil
	}
	return []byte("false"), nil
}
