package neogo_test

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/hupe1980/neogo"
	"github.com/hupe1980/neogo/model"
)

func exampleDB(optFns ...neogo.Option) *neogo.Neogo {
	neos := []*model.NearEarthObject{
		{Designation: "433", Name: "Eros", Diameter: 16.84},
		{Designation: "2019 AA", Diameter: 0.3, Hazardous: true},
		{Designation: "2020 BB", Diameter: math.NaN()},
	}

	approaches := []*model.CloseApproach{
		{Designation: "2019 AA", Time: time.Date(2020, 1, 1, 10, 30, 0, 0, time.UTC), Distance: 0.05, Velocity: 10},
		{Designation: "2020 BB", Time: time.Date(2020, 1, 2, 6, 0, 0, 0, time.UTC), Distance: 0.5, Velocity: 20},
		{Designation: "433", Time: time.Date(2020, 3, 15, 12, 0, 0, 0, time.UTC), Distance: 0.15, Velocity: 5.5},
	}

	return neogo.New(neos, approaches, optFns...)
}

// Example_build demonstrates building a database from loaded records.
func Example_build() {
	db := exampleDB()

	stats := db.Stats()
	fmt.Printf("%d NEOs, %d close approaches\n", stats.NEOs, stats.Approaches)
	// Output: 3 NEOs, 3 close approaches
}

// Example_lookup demonstrates looking up NEOs by designation and by name.
func Example_lookup() {
	db := exampleDB()

	eros, err := db.GetNEOByName("Eros")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(eros)
	// Output: NEO 433 (Eros) has a diameter of 16.840 km and is not potentially hazardous.
}

// Example_query demonstrates the fluent query builder.
func Example_query() {
	ctx := context.Background()
	db := exampleDB()

	results, err := db.Query().
		DistanceMax(0.1).
		Hazardous(true).
		Execute(ctx)
	if err != nil {
		log.Fatal(err)
	}

	for _, ca := range results {
		fmt.Println(ca)
	}
	// Output: On 2020-01-01 10:30, "2019 AA" approaches Earth at a distance of 0.05 au and a velocity of 10.00 km/s.
}

// Example_streamingQuery demonstrates streaming with early termination.
func Example_streamingQuery() {
	ctx := context.Background()
	db := exampleDB()

	count := 0
	for ca, err := range db.Query().EndDate(time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)).Stream(ctx) {
		if err != nil {
			log.Fatal(err)
		}
		if ca.Distance > 0.4 {
			break // Stop early
		}
		count++
	}

	fmt.Printf("Found %d approaches before the cutoff\n", count)
	// Output: Found 1 approaches before the cutoff
}

// Example_accelerated demonstrates the bitmap-accelerated query path.
func Example_accelerated() {
	ctx := context.Background()
	db := exampleDB(neogo.WithAccelerator())

	count, err := db.Query().
		Date(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)).
		Count(ctx)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Found %d approaches on 2020-01-01\n", count)
	// Output: Found 1 approaches on 2020-01-01
}
