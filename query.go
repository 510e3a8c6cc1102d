package neogo

import (
	"context"
	"iter"
	"slices"
	"time"

	"github.com/hupe1980/neogo/filter"
	"github.com/hupe1980/neogo/filter/index"
	"github.com/hupe1980/neogo/model"
)

// Query creates a new fluent query builder over the loaded close approaches.
//
// Example:
//
//	results, err := db.Query().
//	    StartDate(start).
//	    EndDate(end).
//	    DistanceMax(0.1).
//	    Limit(10).
//	    Execute(ctx)
//
//	// Or with streaming:
//	for ca, err := range db.Query().Hazardous(true).Stream(ctx) {
//	    if err != nil { break }
//	    process(ca)
//	}
func (ng *Neogo) Query() *QueryBuilder {
	return &QueryBuilder{
		ng: ng,
	}
}

// QueryBuilder is a fluent builder for constructing close approach queries.
// Criteria combine conjunctively; each setter replaces any earlier value for
// the same criterion. The zero limit streams every match.
type QueryBuilder struct {
	ng       *Neogo
	criteria filter.Criteria
	limit    int
}

// Date restricts results to approaches occurring on the given UTC calendar
// day.
func (qb *QueryBuilder) Date(t time.Time) *QueryBuilder {
	qb.criteria.Date = &t
	return qb
}

// StartDate restricts results to approaches occurring on or after the given
// UTC calendar day.
func (qb *QueryBuilder) StartDate(t time.Time) *QueryBuilder {
	qb.criteria.StartDate = &t
	return qb
}

// EndDate restricts results to approaches occurring on or before the given
// UTC calendar day.
func (qb *QueryBuilder) EndDate(t time.Time) *QueryBuilder {
	qb.criteria.EndDate = &t
	return qb
}

// DistanceMin restricts results to approaches at or beyond the given nominal
// distance in au.
func (qb *QueryBuilder) DistanceMin(au float64) *QueryBuilder {
	qb.criteria.DistanceMin = &au
	return qb
}

// DistanceMax restricts results to approaches at or within the given nominal
// distance in au.
func (qb *QueryBuilder) DistanceMax(au float64) *QueryBuilder {
	qb.criteria.DistanceMax = &au
	return qb
}

// VelocityMin restricts results to approaches at or above the given relative
// velocity in km/s.
func (qb *QueryBuilder) VelocityMin(kms float64) *QueryBuilder {
	qb.criteria.VelocityMin = &kms
	return qb
}

// VelocityMax restricts results to approaches at or below the given relative
// velocity in km/s.
func (qb *QueryBuilder) VelocityMax(kms float64) *QueryBuilder {
	qb.criteria.VelocityMax = &kms
	return qb
}

// DiameterMin restricts results to NEOs at least the given diameter in km.
// NEOs with an unknown diameter never match.
func (qb *QueryBuilder) DiameterMin(km float64) *QueryBuilder {
	qb.criteria.DiameterMin = &km
	return qb
}

// DiameterMax restricts results to NEOs at most the given diameter in km.
// NEOs with an unknown diameter never match.
func (qb *QueryBuilder) DiameterMax(km float64) *QueryBuilder {
	qb.criteria.DiameterMax = &km
	return qb
}

// Hazardous restricts results by hazard classification. Passing false
// selects non-hazardous NEOs; to accept both, do not call Hazardous.
func (qb *QueryBuilder) Hazardous(hazardous bool) *QueryBuilder {
	qb.criteria.Hazardous = &hazardous
	return qb
}

// Where replaces all criteria at once. Convenience method for callers that
// assemble a filter.Criteria elsewhere, such as a CLI flag parser.
func (qb *QueryBuilder) Where(c filter.Criteria) *QueryBuilder {
	qb.criteria = c
	return qb
}

// Limit caps the number of results. Zero means no limit.
func (qb *QueryBuilder) Limit(n int) *QueryBuilder {
	qb.limit = n
	return qb
}

// Execute runs the query and returns all matching approaches in dataset
// order.
func (qb *QueryBuilder) Execute(ctx context.Context) ([]*model.CloseApproach, error) {
	var results []*model.CloseApproach

	for ca, err := range qb.Stream(ctx) {
		if err != nil {
			return nil, err
		}
		results = append(results, ca)
	}

	return results, nil
}

// MustExecute runs the query, panicking on error.
// Use this only in tests or when you're certain the query is valid.
func (qb *QueryBuilder) MustExecute(ctx context.Context) []*model.CloseApproach {
	results, err := qb.Execute(ctx)
	if err != nil {
		panic(err)
	}
	return results
}

// Stream returns an iterator over matching approaches for memory-efficient
// processing. Results are yielded in dataset order, which is chronological
// for published snapshots. The iterator supports early termination by
// breaking from the loop.
//
// Example:
//
//	for ca, err := range db.Query().DistanceMax(0.05).Stream(ctx) {
//	    if err != nil { break }
//	    if ca.Date().Year() > 2030 { break } // Early termination
//	    process(ca)
//	}
func (qb *QueryBuilder) Stream(ctx context.Context) iter.Seq2[*model.CloseApproach, error] {
	return qb.ng.stream(ctx, filter.Compose(qb.criteria), qb.limit)
}

// First returns only the first matching approach, or ErrNotFound if none
// match.
func (qb *QueryBuilder) First(ctx context.Context) (*model.CloseApproach, error) {
	qb.limit = 1
	results, err := qb.Execute(ctx)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}
	return results[0], nil
}

// Count executes the query and returns the number of results.
func (qb *QueryBuilder) Count(ctx context.Context) (int, error) {
	results, err := qb.Execute(ctx)
	if err != nil {
		return 0, err
	}
	return len(results), nil
}

// Exists checks if at least one approach matches the query.
func (qb *QueryBuilder) Exists(ctx context.Context) (bool, error) {
	qb.limit = 1
	results, err := qb.Execute(ctx)
	if err != nil {
		return false, err
	}
	return len(results) > 0, nil
}

// stream composes the predicate set over the approach sequence and caps the
// result. When the bitmap index can narrow an equality criterion the scan
// runs over the surviving candidates only; the full set is still evaluated
// on each survivor, so both paths return identical results.
func (ng *Neogo) stream(ctx context.Context, set filter.Set, limit int) iter.Seq2[*model.CloseApproach, error] {
	return func(yield func(*model.CloseApproach, error) bool) {
		start := time.Now()

		source := slices.Values(ng.approaches)
		if ng.accel != nil {
			if bm, ok := ng.accel.Narrow(set); ok {
				source = ng.narrowed(bm)
			}
		}

		var count int
		for ca := range filter.Limit(set.Apply(source), limit) {
			if err := ctx.Err(); err != nil {
				ng.metrics.RecordQuery(count, time.Since(start), err)
				ng.logger.LogQuery(ctx, set.Active(), count, err)
				yield(nil, err)
				return
			}

			count++
			if !yield(ca, nil) {
				// Early termination
				ng.metrics.RecordQuery(count, time.Since(start), nil)
				ng.logger.LogQuery(ctx, set.Active(), count, nil)
				return
			}
		}

		ng.metrics.RecordQuery(count, time.Since(start), nil)
		ng.logger.LogQuery(ctx, set.Active(), count, nil)
	}
}

// narrowed iterates the approaches named by the bitmap. Roaring iterates
// ascending, and ids are assigned in load order, so dataset order is
// preserved.
func (ng *Neogo) narrowed(bm *index.Bitmap) iter.Seq[*model.CloseApproach] {
	return func(yield func(*model.CloseApproach) bool) {
		for id := range bm.Iterator() {
			if !yield(ng.approaches[id]) {
				return
			}
		}
	}
}
