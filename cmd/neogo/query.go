package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/neogo"
	"github.com/hupe1980/neogo/filter"
	"github.com/hupe1980/neogo/model"
	"github.com/hupe1980/neogo/output"
)

var (
	queryDate      string
	queryStartDate string
	queryEndDate   string

	queryMinDistance float64
	queryMaxDistance float64
	queryMinVelocity float64
	queryMaxVelocity float64
	queryMinDiameter float64
	queryMaxDiameter float64

	queryHazardous    bool
	queryNotHazardous bool

	queryLimit   int
	queryOutfile string
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query close approaches by date, distance, velocity, diameter, and hazard",
	Example: `  neogo query --date 2020-01-01
  neogo query --start-date 2020-01-01 --end-date 2020-12-31 --max-distance 0.1
  neogo query --hazardous --min-diameter 0.25 --limit 10 --outfile results.csv`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		criteria, err := buildCriteria(cmd)
		if err != nil {
			return err
		}

		db, err := openDB(cmd.Context(), neogo.WithAccelerator())
		if err != nil {
			return err
		}

		results, err := db.Query().
			Where(criteria).
			Limit(queryLimit).
			Execute(cmd.Context())
		if err != nil {
			return err
		}

		return writeResults(results)
	},
}

// buildCriteria converts the supplied flags into query criteria. Only flags
// the user actually set become constraints; zero is a legal bound.
func buildCriteria(cmd *cobra.Command) (filter.Criteria, error) {
	var c filter.Criteria

	flags := cmd.Flags()

	dates := []struct {
		name string
		raw  string
		dst  **time.Time
	}{
		{"date", queryDate, &c.Date},
		{"start-date", queryStartDate, &c.StartDate},
		{"end-date", queryEndDate, &c.EndDate},
	}
	for _, d := range dates {
		if !flags.Changed(d.name) {
			continue
		}
		t, err := time.ParseInLocation("2006-01-02", d.raw, time.UTC)
		if err != nil {
			return filter.Criteria{}, fmt.Errorf("invalid --%s %q: expected YYYY-MM-DD", d.name, d.raw)
		}
		*d.dst = &t
	}

	bounds := []struct {
		name  string
		value *float64
		dst   **float64
	}{
		{"min-distance", &queryMinDistance, &c.DistanceMin},
		{"max-distance", &queryMaxDistance, &c.DistanceMax},
		{"min-velocity", &queryMinVelocity, &c.VelocityMin},
		{"max-velocity", &queryMaxVelocity, &c.VelocityMax},
		{"min-diameter", &queryMinDiameter, &c.DiameterMin},
		{"max-diameter", &queryMaxDiameter, &c.DiameterMax},
	}
	for _, b := range bounds {
		if flags.Changed(b.name) {
			*b.dst = b.value
		}
	}

	if queryHazardous {
		h := true
		c.Hazardous = &h
	}
	if queryNotHazardous {
		h := false
		c.Hazardous = &h
	}

	return c, nil
}

// writeResults prints matches to stdout, or writes them to the outfile in
// the format named by its extension.
func writeResults(results []*model.CloseApproach) error {
	if queryOutfile == "" {
		if len(results) == 0 {
			fmt.Println("No matching close approaches found.")
			return nil
		}
		for _, ca := range results {
			fmt.Println(ca)
		}
		return nil
	}

	var write func(io.Writer, []*model.CloseApproach) error
	switch ext := strings.ToLower(filepath.Ext(queryOutfile)); ext {
	case ".csv":
		write = output.WriteCSV
	case ".json":
		write = output.WriteJSON
	default:
		return fmt.Errorf("unsupported outfile extension %q: expected .csv or .json", ext)
	}

	f, err := os.Create(queryOutfile)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", queryOutfile, err)
	}

	if err := write(f, results); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", queryOutfile, err)
	}

	fmt.Printf("Wrote %d close approaches to %s\n", len(results), queryOutfile)

	return nil
}

func init() {
	queryCmd.Flags().StringVar(&queryDate, "date", "", "Match approaches on this date (YYYY-MM-DD)")
	queryCmd.Flags().StringVar(&queryStartDate, "start-date", "", "Match approaches on or after this date (YYYY-MM-DD)")
	queryCmd.Flags().StringVar(&queryEndDate, "end-date", "", "Match approaches on or before this date (YYYY-MM-DD)")

	queryCmd.Flags().Float64Var(&queryMinDistance, "min-distance", 0, "Minimum approach distance in au")
	queryCmd.Flags().Float64Var(&queryMaxDistance, "max-distance", 0, "Maximum approach distance in au")
	queryCmd.Flags().Float64Var(&queryMinVelocity, "min-velocity", 0, "Minimum approach velocity in km/s")
	queryCmd.Flags().Float64Var(&queryMaxVelocity, "max-velocity", 0, "Maximum approach velocity in km/s")
	queryCmd.Flags().Float64Var(&queryMinDiameter, "min-diameter", 0, "Minimum NEO diameter in km")
	queryCmd.Flags().Float64Var(&queryMaxDiameter, "max-diameter", 0, "Maximum NEO diameter in km")

	queryCmd.Flags().BoolVar(&queryHazardous, "hazardous", false, "Match only potentially hazardous NEOs")
	queryCmd.Flags().BoolVar(&queryNotHazardous, "not-hazardous", false, "Match only NEOs not classified as hazardous")
	queryCmd.MarkFlagsMutuallyExclusive("hazardous", "not-hazardous")

	queryCmd.Flags().IntVar(&queryLimit, "limit", 0, "Maximum number of results (0 = all)")
	queryCmd.Flags().StringVarP(&queryOutfile, "outfile", "o", "", "Write results to this file (.csv or .json)")

	rootCmd.AddCommand(queryCmd)
}
