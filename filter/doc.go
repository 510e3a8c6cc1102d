// Package filter provides the predicate engine used to query close
// approaches in neogo.
//
// A query is a flat bag of optional criteria (dates, distance, velocity,
// diameter bounds, hazard flag). Compose translates the criteria into a
// fixed, ordered Set of ten Predicates, one per (field, bound) pair, where
// an unspecified criterion becomes a vacuous predicate that matches every
// candidate. The Set is a conjunctive filter: a close approach matches iff
// every predicate in the set matches it.
//
// # Predicates
//
// A Predicate binds a comparison (Equal, GreaterEqual, LessEqual), a
// reference Value that may be absent, and a Field naming the attribute it
// inspects:
//
//   - FieldDate: the calendar date of the approach (time-of-day discarded)
//   - FieldDistance: nominal approach distance (au)
//   - FieldVelocity: relative velocity (km/s)
//   - FieldDiameter: diameter of the linked NEO (km)
//   - FieldHazardous: hazard classification of the linked NEO
//
// Predicates are immutable values: built once per query, evaluated once per
// candidate, safe to evaluate concurrently across candidates.
//
// # Unknown diameters
//
// A NEO without a measured diameter carries NaN. NaN fails every bound
// comparison, so such approaches never match an active min- or max-diameter
// predicate, even a permissive one like min=0. This is deliberate query
// policy, not an accident of float semantics: a bound on diameter is a
// statement about measured diameters.
//
// # Lazy evaluation
//
// Set.Apply filters any iter.Seq of close approaches in a single forward
// pass, and Limit caps any sequence at n items without drawing past the nth:
//
//	set := filter.Compose(filter.Criteria{
//	    EndDate:   &date,
//	    Hazardous: &hazardous,
//	})
//	for ca := range filter.Limit(set.Apply(candidates), 10) {
//	    fmt.Println(ca)
//	}
package filter
