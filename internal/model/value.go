package model

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueKind classifies a native return value.
type ValueKind int

const (
	// KindVoid is a function returning nothing.
	KindVoid ValueKind = iota
	// KindSigned covers signed integer types.
	KindSigned
	// KindUnsigned covers unsigned integer and boolean types.
	KindUnsigned
	// KindFloat covers float, double and long double.
	KindFloat
	// KindPointer covers any pointer type, reported as an address.
	KindPointer
)

func (k ValueKind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindSigned:
		return "signed"
	case KindUnsigned:
		return "unsigned"
	case KindFloat:
		return "float"
	case KindPointer:
		return "pointer"
	default:
		return "unknown"
	}
}

// Value is the result of invoking a compiled function, as printed by the
// invocation driver.
type Value struct {
	Kind ValueKind
	Text string
}

// ParseValue normalizes the driver output for the given kind.
func ParseValue(kind ValueKind, output string) (Value, error) {
	text := strings.TrimSpace(output)

	v := Value{Kind: kind, Text: text}
	if kind == KindVoid {
		v.Text = ""
		return v, nil
	}

	var err error

	switch kind {
	case KindSigned:
		_, err = strconv.ParseInt(text, 10, 64)
	case KindUnsigned, KindPointer:
		_, err = strconv.ParseUint(text, 10, 64)
	case KindFloat:
		_, err = strconv.ParseFloat(text, 64)
	}

	if err != nil {
		return Value{}, fmt.Errorf("unexpected %s result %q: %w", kind, text, err)
	}

	return v, nil
}

// Equal reports whether both values have the same kind and numeric value.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}

	switch v.Kind {
	case KindVoid:
		return true
	case KindSigned:
		a, errA := strconv.ParseInt(v.Text, 10, 64)
		b, errB := strconv.ParseInt(other.Text, 10, 64)

		return errA == nil && errB == nil && a == b
	case KindUnsigned, KindPointer:
		a, errA := strconv.ParseUint(v.Text, 10, 64)
		b, errB := strconv.ParseUint(other.Text, 10, 64)

		return errA == nil && errB == nil && a == b
	case KindFloat:
		a, errA := strconv.ParseFloat(v.Text, 64)
		b, errB := strconv.ParseFloat(other.Text, 64)

		return errA == nil && errB == nil && a == b
	}

	return false
}

// Int64 returns the value as a signed integer.
func (v Value) Int64() (int64, error) {
	return strconv.ParseInt(v.Text, 10, 64)
}

// Uint64 returns the value as an unsigned integer.
func (v Value) Uint64() (uint64, error) {
	return strconv.ParseUint(v.Text, 10, 64)
}

// Float64 returns the value as a float.
func (v Value) Float64() (float64, error) {
	return strconv.ParseFloat(v.Text, 64)
}

func (v Value) String() string {
	if v.Kind == KindVoid {
		return "void"
	}

	return v.Text
}
