package filter

import "time"

// Criteria is the flat bag of optional query constraints a caller fills in.
// A nil field means "no constraint". Dates are compared by UTC calendar day;
// distances are in au, velocities in km/s, diameters in km.
//
// Date and StartDate/EndDate may be combined freely; the result is their
// conjunction. A StartDate after EndDate is not an error, it simply matches
// nothing.
type Criteria struct {
	// Date matches approaches occurring on exactly this calendar date.
	Date *time.Time

	// StartDate matches approaches on or after this calendar date.
	StartDate *time.Time

	// EndDate matches approaches on or before this calendar date.
	EndDate *time.Time

	// DistanceMin and DistanceMax bound the nominal approach distance.
	DistanceMin *float64
	DistanceMax *float64

	// VelocityMin and VelocityMax bound the relative approach velocity.
	VelocityMin *float64
	VelocityMax *float64

	// DiameterMin and DiameterMax bound the diameter of the linked NEO.
	// NEOs with an unknown diameter fail either bound.
	DiameterMin *float64
	DiameterMax *float64

	// Hazardous matches on the hazard classification of the linked NEO.
	// Note that false selects non-hazardous NEOs; leave it nil to accept
	// both classifications.
	Hazardous *bool
}

// Compose translates the criteria into the canonical predicate set. The
// result always holds the same ten predicates in the same order; criteria
// left nil become vacuous predicates rather than being dropped, so the
// set's shape is independent of which constraints are active.
func Compose(c Criteria) Set {
	return Set{
		{Field: FieldDate, Comparison: Equal, Value: dateValue(c.Date)},
		{Field: FieldDate, Comparison: GreaterEqual, Value: dateValue(c.StartDate)},
		{Field: FieldDate, Comparison: LessEqual, Value: dateValue(c.EndDate)},
		{Field: FieldDistance, Comparison: GreaterEqual, Value: floatValue(c.DistanceMin)},
		{Field: FieldDistance, Comparison: LessEqual, Value: floatValue(c.DistanceMax)},
		{Field: FieldVelocity, Comparison: GreaterEqual, Value: floatValue(c.VelocityMin)},
		{Field: FieldVelocity, Comparison: LessEqual, Value: floatValue(c.VelocityMax)},
		{Field: FieldDiameter, Comparison: GreaterEqual, Value: floatValue(c.DiameterMin)},
		{Field: FieldDiameter, Comparison: LessEqual, Value: floatValue(c.DiameterMax)},
		{Field: FieldHazardous, Comparison: Equal, Value: boolValue(c.Hazardous)},
	}
}

func dateValue(t *time.Time) Value {
	if t == nil {
		return Absent()
	}
	return Date(*t)
}

func floatValue(f *float64) Value {
	if f == nil {
		return Absent()
	}
	return Float(*f)
}

func boolValue(b *bool) Value {
	if b == nil {
		return Absent()
	}
	return Bool(*b)
}
