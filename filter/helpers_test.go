package filter

import (
	"iter"
	"math"
	"slices"
	"testing"
	"time"

	"github.com/hupe1980/neogo/model"
)

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()

	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	return d
}

func ptr[T any](v T) *T {
	return &v
}

// sampleApproaches builds the two linked candidates used across the package
// tests: a small hazardous NEO passing close and slow on 2020-01-01, and a
// NEO of unknown diameter passing far and fast the day after. The approach
// times carry a time-of-day so date predicates must discard it to match.
func sampleApproaches() (*model.CloseApproach, *model.CloseApproach) {
	small := &model.NearEarthObject{
		Designation: "2020 AA",
		Diameter:    0.3,
		Hazardous:   true,
	}
	unmeasured := &model.NearEarthObject{
		Designation: "2020 BB",
		Diameter:    math.NaN(),
		Hazardous:   false,
	}

	c1 := &model.CloseApproach{
		Designation: small.Designation,
		Time:        time.Date(2020, time.January, 1, 13, 45, 0, 0, time.UTC),
		Distance:    0.05,
		Velocity:    10,
		NEO:         small,
	}
	c2 := &model.CloseApproach{
		Designation: unmeasured.Designation,
		Time:        time.Date(2020, time.January, 2, 6, 30, 0, 0, time.UTC),
		Distance:    0.5,
		Velocity:    20,
		NEO:         unmeasured,
	}
	small.Approaches = []*model.CloseApproach{c1}
	unmeasured.Approaches = []*model.CloseApproach{c2}

	return c1, c2
}

func sequenceOf(cas ...*model.CloseApproach) iter.Seq[*model.CloseApproach] {
	return slices.Values(cas)
}
