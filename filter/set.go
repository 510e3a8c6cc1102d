package filter

import (
	"iter"

	"github.com/hupe1980/neogo/model"
)

// Set is an ordered conjunction of predicates. The empty set matches
// everything, as does a set of only vacuous predicates.
type Set []Predicate

// Matches reports whether the close approach satisfies every predicate in
// the set. Evaluation short-circuits on the first failing predicate.
func (s Set) Matches(ca *model.CloseApproach) bool {
	for _, p := range s {
		if !p.Matches(ca) {
			return false
		}
	}
	return true
}

// Apply filters the sequence down to the close approaches matching the set.
// The result is lazy: candidates are drawn and tested one at a time, order
// is preserved, and stopping the consumer stops the scan.
func (s Set) Apply(seq iter.Seq[*model.CloseApproach]) iter.Seq[*model.CloseApproach] {
	return func(yield func(*model.CloseApproach) bool) {
		for ca := range seq {
			if !s.Matches(ca) {
				continue
			}
			if !yield(ca) {
				return
			}
		}
	}
}

// Active returns the number of non-vacuous predicates in the set.
func (s Set) Active() int {
	n := 0
	for _, p := range s {
		if !p.Value.IsAbsent() {
			n++
		}
	}
	return n
}
