package core

import (
	"strconv"
	"strings"
)

// Value is a typed cell. The canonical text is kept alongside the
// decoded form so rows can be written back byte for byte.
type Value struct {
	Type ColumnType
	raw  string
	i    int64
	f    float64
	// fits is false for digit strings too long for an int64, or a lone "."
	fits bool
}

// ParseValue checks raw against the shape rules of t and decodes it.
// The returned error is a *TypeMismatchError without a column name.
func ParseValue(t ColumnType, raw string) (Value, error) {
	v := Value{Type: t, raw: raw}
	ok := false

	switch t {
	case IntType:
		if ok = isDigits(raw); ok {
			n, err := strconv.ParseInt(raw, 10, 64)
			v.i, v.fits = n, err == nil
		}
	case FloatType:
		if ok = isDecimal(raw); ok {
			f, err := strconv.ParseFloat(raw, 64)
			v.f, v.fits = f, err == nil
		}
	case TextType:
		ok = len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' &&
			!strings.ContainsAny(raw, "\t\r\n")
	case DateType:
		ok = isDateShape(raw)
	}

	if !ok {
		return Value{}, &TypeMismatchError{Expected: t, Value: raw}
	}
	return v, nil
}

// String returns the canonical stored text, quotes included for text.
func (v Value) String() string {
	return v.raw
}

// Int reports false for non-int values and for ints beyond int64. Such
// values are still valid and keep their text.
func (v Value) Int() (int64, bool) {
	return v.i, v.Type == IntType && v.fits
}

func (v Value) Float() (float64, bool) {
	return v.f, v.Type == FloatType && v.fits
}

// Text returns the string without its surrounding double quotes.
func (v Value) Text() (string, bool) {
	if v.Type != TextType {
		return "", false
	}
	return v.raw[1 : len(v.raw)-1], true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isDecimal(s string) bool {
	digits, dots := 0, 0
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] >= '0' && s[i] <= '9':
			digits++
		case s[i] == '.':
			dots++
		default:
			return false
		}
	}
	return digits+dots > 0 && dots <= 1
}

// isDateShape only checks the YYYY-MM-DD shape, not calendar validity.
func isDateShape(s string) bool {
	hyphens := 0
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] >= '0' && s[i] <= '9':
		case s[i] == '-':
			hyphens++
		default:
			return false
		}
	}
	return hyphens == 2
}
