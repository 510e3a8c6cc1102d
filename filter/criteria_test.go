package filter

import (
	"slices"
	"testing"

	"github.com/hupe1980/neogo/model"
)

func TestComposeShape(t *testing.T) {
	wantOrder := []struct {
		field      Field
		comparison Comparison
	}{
		{FieldDate, Equal},
		{FieldDate, GreaterEqual},
		{FieldDate, LessEqual},
		{FieldDistance, GreaterEqual},
		{FieldDistance, LessEqual},
		{FieldVelocity, GreaterEqual},
		{FieldVelocity, LessEqual},
		{FieldDiameter, GreaterEqual},
		{FieldDiameter, LessEqual},
		{FieldHazardous, Equal},
	}

	set := Compose(Criteria{})
	if len(set) != len(wantOrder) {
		t.Fatalf("Compose() returned %d predicates, want %d", len(set), len(wantOrder))
	}

	for i, want := range wantOrder {
		p := set[i]
		if p.Field != want.field || p.Comparison != want.comparison {
			t.Errorf("predicate %d = %s %s, want %s %s", i, p.Field, p.Comparison, want.field, want.comparison)
		}
		if !p.Value.IsAbsent() {
			t.Errorf("predicate %d should be vacuous, got value %s", i, p.Value)
		}
	}
}

func TestComposeBindsValues(t *testing.T) {
	date := mustDate(t, "2020-01-01")
	set := Compose(Criteria{
		Date:        &date,
		DistanceMax: ptr(0.1),
		Hazardous:   ptr(false),
	})

	if got := set.Active(); got != 3 {
		t.Fatalf("Active() = %d, want 3", got)
	}

	if v, ok := set[0].Value.AsDate(); !ok || !v.Equal(date) {
		t.Errorf("exact-date slot holds %s, want %s", set[0].Value, date.Format("2006-01-02"))
	}
	if v, ok := set[4].Value.AsFloat(); !ok || v != 0.1 {
		t.Errorf("max-distance slot holds %s, want 0.1", set[4].Value)
	}
	if v, ok := set[9].Value.AsBool(); !ok || v {
		t.Errorf("hazardous slot holds %s, want false", set[9].Value)
	}
}

func TestComposeQueries(t *testing.T) {
	c1, c2 := sampleApproaches()

	tests := []struct {
		name     string
		criteria Criteria
		want     []*model.CloseApproach
	}{
		{
			name:     "no criteria matches everything",
			criteria: Criteria{},
			want:     []*model.CloseApproach{c1, c2},
		},
		{
			name: "end date with hazardous",
			criteria: Criteria{
				EndDate:   ptr(mustDate(t, "2020-01-01")),
				Hazardous: ptr(true),
			},
			want: []*model.CloseApproach{c1},
		},
		{
			name:     "distance ceiling",
			criteria: Criteria{DistanceMax: ptr(0.1)},
			want:     []*model.CloseApproach{c1},
		},
		{
			name:     "permissive diameter floor excludes unknown diameter",
			criteria: Criteria{DiameterMin: ptr(0.0)},
			want:     []*model.CloseApproach{c1},
		},
		{
			name:     "hazardous false selects only benign NEOs",
			criteria: Criteria{Hazardous: ptr(false)},
			want:     []*model.CloseApproach{c2},
		},
		{
			name: "date window",
			criteria: Criteria{
				StartDate: ptr(mustDate(t, "2020-01-02")),
				EndDate:   ptr(mustDate(t, "2020-01-05")),
			},
			want: []*model.CloseApproach{c2},
		},
		{
			name: "inverted date window matches nothing",
			criteria: Criteria{
				StartDate: ptr(mustDate(t, "2020-01-02")),
				EndDate:   ptr(mustDate(t, "2020-01-01")),
			},
			want: nil,
		},
		{
			name: "all ten criteria active",
			criteria: Criteria{
				Date:        ptr(mustDate(t, "2020-01-01")),
				StartDate:   ptr(mustDate(t, "2019-12-31")),
				EndDate:     ptr(mustDate(t, "2020-01-02")),
				DistanceMin: ptr(0.01),
				DistanceMax: ptr(0.1),
				VelocityMin: ptr(5.0),
				VelocityMax: ptr(15.0),
				DiameterMin: ptr(0.1),
				DiameterMax: ptr(1.0),
				Hazardous:   ptr(true),
			},
			want: []*model.CloseApproach{c1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := Compose(tt.criteria)
			got := slices.Collect(set.Apply(sequenceOf(c1, c2)))

			if !slices.Equal(got, tt.want) {
				t.Errorf("Apply() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComposeWithLimit(t *testing.T) {
	c1, c2 := sampleApproaches()

	set := Compose(Criteria{})
	got := slices.Collect(Limit(set.Apply(sequenceOf(c1, c2)), 1))

	if !slices.Equal(got, []*model.CloseApproach{c1}) {
		t.Errorf("limited query = %v, want [c1]", got)
	}
}
