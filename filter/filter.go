package filter

import (
	"errors"
	"fmt"

	"github.com/hupe1980/neogo/model"
)

// ErrUnsupportedCriterion reports a Predicate over a field the engine does
// not know how to extract. It is a programmer error, surfaced as a panic
// from Matches; errors.Is recognizes it on the panic value.
var ErrUnsupportedCriterion = errors.New("unsupported filter criterion")

// Comparison selects how a candidate's attribute is compared against a
// predicate's reference value.
type Comparison uint8

const (
	Equal Comparison = iota
	GreaterEqual
	LessEqual
)

// String returns the comparison operator spelled the way it reads.
func (c Comparison) String() string {
	switch c {
	case Equal:
		return "=="
	case GreaterEqual:
		return ">="
	case LessEqual:
		return "<="
	default:
		return "??"
	}
}

// Field names the close-approach attribute a Predicate inspects. Date,
// distance and velocity live on the approach itself; diameter and hazardous
// live on the linked NEO.
type Field uint8

const (
	FieldDate Field = iota
	FieldDistance
	FieldVelocity
	FieldDiameter
	FieldHazardous
)

// String returns the field name.
func (f Field) String() string {
	switch f {
	case FieldDate:
		return "date"
	case FieldDistance:
		return "distance"
	case FieldVelocity:
		return "velocity"
	case FieldDiameter:
		return "diameter"
	case FieldHazardous:
		return "hazardous"
	default:
		return "unknown"
	}
}

// Predicate is a single-attribute condition on a close approach: one Field,
// one Comparison and one reference Value. A Predicate with an absent Value
// is vacuous and matches everything. Predicates are plain immutable values;
// Compose builds the canonical set of ten, but hand-built predicates over
// the known fields work the same way.
type Predicate struct {
	Field      Field
	Comparison Comparison
	Value      Value
}

// NewPredicate builds a predicate from its parts. The zero Value makes the
// predicate vacuous.
func NewPredicate(f Field, cmp Comparison, v Value) Predicate {
	return Predicate{Field: f, Comparison: cmp, Value: v}
}

// Matches reports whether the close approach satisfies this predicate.
// Vacuous predicates match unconditionally, without touching the candidate.
// Matches panics with an error wrapping ErrUnsupportedCriterion when the
// predicate names a field it cannot extract.
func (p Predicate) Matches(ca *model.CloseApproach) bool {
	if p.Value.IsAbsent() {
		return true
	}

	got, ok := p.extract(ca)
	if !ok {
		return false
	}

	switch p.Comparison {
	case Equal:
		return compareEqual(got, p.Value)
	case GreaterEqual:
		return compareGreater(got, p.Value) || compareEqual(got, p.Value)
	case LessEqual:
		return compareLess(got, p.Value) || compareEqual(got, p.Value)
	default:
		return false
	}
}

// extract pulls the predicate's attribute out of the candidate as a Value of
// the field's kind. A field on the linked NEO reports ok=false when the link
// is missing: a constraint on an absent object cannot hold.
func (p Predicate) extract(ca *model.CloseApproach) (Value, bool) {
	switch p.Field {
	case FieldDate:
		return Date(ca.Time), true
	case FieldDistance:
		return Float(ca.Distance), true
	case FieldVelocity:
		return Float(ca.Velocity), true
	case FieldDiameter:
		if ca.NEO == nil {
			return Value{}, false
		}
		return Float(ca.NEO.Diameter), true
	case FieldHazardous:
		if ca.NEO == nil {
			return Value{}, false
		}
		return Bool(ca.NEO.Hazardous), true
	default:
		panic(fmt.Errorf("%w: field %d", ErrUnsupportedCriterion, uint8(p.Field)))
	}
}

// String renders the predicate for logs, e.g. "distance <= 0.05" or
// "date == (any)" for a vacuous one.
func (p Predicate) String() string {
	return fmt.Sprintf("%s %s %s", p.Field, p.Comparison, p.Value)
}

// compareEqual compares two values of the same kind for equality. Float
// comparisons follow IEEE semantics, so NaN is equal to nothing.
func compareEqual(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}

	switch a.kind {
	case KindDate:
		return a.t.Equal(b.t)
	case KindFloat:
		return a.f64 == b.f64
	case KindBool:
		return a.b == b.b
	default:
		return false
	}
}

func compareGreater(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}

	switch a.kind {
	case KindDate:
		return a.t.After(b.t)
	case KindFloat:
		return a.f64 > b.f64
	default:
		return false
	}
}

func compareLess(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}

	switch a.kind {
	case KindDate:
		return a.t.Before(b.t)
	case KindFloat:
		return a.f64 < b.f64
	default:
		return false
	}
}
