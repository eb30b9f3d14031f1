package rsf

import (
	"math"
	"strconv"
)

// Kind is the type tag of a header Value.
type Kind uint8

const (
	KindNone Kind = iota // absent
	KindInt
	KindFloat
	KindText
)

// Value is a header value: an integer, a float or raw text.
// The zero Value is absent.
type Value struct {
	kind Kind
	i    int
	f    float64
	s    string
}

// IntValue returns an integer Value.
func IntValue(v int) Value { return Value{kind: KindInt, i: v} }

// FloatValue returns a float Value.
func FloatValue(v float64) Value { return Value{kind: KindFloat, f: v} }

// TextValue returns a text Value.
func TextValue(s string) Value { return Value{kind: KindText, s: s} }

// Kind returns the value's type tag.
func (v Value) Kind() Kind { return v.kind }

// IsSet reports whether the value is present.
func (v Value) IsSet() bool { return v.kind != KindNone }

// Int returns the value as an int. Floats convert only when integral.
func (v Value) Int() (int, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindFloat:
		if v.f == math.Trunc(v.f) && !math.IsInf(v.f, 0) {
			return int(v.f), true
		}
	}
	return 0, false
}

// Float returns the value as a float64.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	}
	return 0, false
}

// Text returns the value as text if it is a text value.
func (v Value) Text() (string, bool) {
	if v.kind == KindText {
		return v.s, true
	}
	return "", false
}

// String formats the value the way it is written to a header.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.Itoa(v.i)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindText:
		return v.s
	}
	return ""
}

// Coerce converts a raw header value according to its key: n1..n9 and
// esize become integers, o1..o9 and d1..d9 become floats, everything else
// stays text. On failure the raw text is returned together with a
// KindCoercion error.
func Coerce(key, raw string) (Value, error) {
	switch {
	case key == "esize" || isAxisKey(key, "n"):
		n, err := strconv.Atoi(raw)
		if err != nil {
			return TextValue(raw), newError(KindCoercion, "coerce", key, "want integer, got "+strconv.Quote(raw), nil)
		}
		return IntValue(n), nil
	case isAxisKey(key, "o") || isAxisKey(key, "d"):
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return TextValue(raw), newError(KindCoercion, "coerce", key, "want float, got "+strconv.Quote(raw), nil)
		}
		return FloatValue(f), nil
	}
	return TextValue(raw), nil
}

func isAxisKey(key, prefix string) bool {
	return len(key) == len(prefix)+1 && key[:len(prefix)] == prefix && key[len(prefix)] >= '1' && key[len(prefix)] <= '9'
}
