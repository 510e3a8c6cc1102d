package filter

import (
	"strconv"
	"time"
)

// Kind identifies the type stored in a Value.
type Kind uint8

const (
	// KindAbsent marks a Value carrying no reference at all. A predicate
	// whose reference is absent is vacuous: it matches every candidate.
	// The zero Value has this kind.
	KindAbsent Kind = iota
	KindDate
	KindFloat
	KindBool
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindDate:
		return "date"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Value is a small tagged union holding a predicate's reference value: a
// calendar date, a float, a bool, or nothing. The zero Value is absent.
type Value struct {
	kind Kind
	t    time.Time
	f64  float64
	b    bool
}

// Absent returns the Value that marks a predicate as vacuous.
func Absent() Value {
	return Value{}
}

// Date returns a date-kinded Value. The time-of-day portion of t is
// discarded: only the UTC calendar date participates in comparisons.
func Date(t time.Time) Value {
	u := t.UTC()
	return Value{
		kind: KindDate,
		t:    time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC),
	}
}

// Float returns a float-kinded Value. NaN is representable and fails every
// comparison, matching the unknown-diameter policy.
func Float(f float64) Value {
	return Value{kind: KindFloat, f64: f}
}

// Bool returns a bool-kinded Value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Kind returns the kind tag.
func (v Value) Kind() Kind {
	return v.kind
}

// IsAbsent reports whether the value carries no reference.
func (v Value) IsAbsent() bool {
	return v.kind == KindAbsent
}

// AsDate returns the stored date and whether the value is date-kinded.
func (v Value) AsDate() (time.Time, bool) {
	return v.t, v.kind == KindDate
}

// AsFloat returns the stored float and whether the value is float-kinded.
func (v Value) AsFloat() (float64, bool) {
	return v.f64, v.kind == KindFloat
}

// AsBool returns the stored bool and whether the value is bool-kinded.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// String renders the value for logs and debug output.
func (v Value) String() string {
	switch v.kind {
	case KindDate:
		return v.t.Format("2006-01-02")
	case KindFloat:
		return strconv.FormatFloat(v.f64, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return "(any)"
	}
}
