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
	"github.com/hupe1980/neogo/fetch"
)

var (
	fetchOut     string
	fetchDateMin string
	fetchDateMax string
	fetchDistMax float64
	fetchPublish bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download fresh datasets from the JPL SSD/CNEOS API",
	Example: `  neogo fetch --out ./data
  neogo fetch --date-min 2020-01-01 --date-max 2029-12-31 --dist-max 0.2
  neogo fetch --publish`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		out := fetchOut
		if out == "" {
			if strings.Contains(cfg.DatasetURI, "://") {
				out = "./data"
			} else {
				out = cfg.DatasetURI
			}
		}
		if err := os.MkdirAll(out, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", out, err)
		}

		client := fetch.New(func(o *fetch.Options) {
			o.RequestsPerSecond = cfg.APIRequestsPerSecond
			o.WindowYears = cfg.FetchWindowYears
			o.Concurrency = cfg.FetchConcurrency
		})

		collector := &neogo.BasicMetricsCollector{}

		neoPath := filepath.Join(out, cfg.NEOFile)
		neos, err := fetchInto(neoPath, func(w io.Writer) (int, error) {
			start := time.Now()
			n, err := client.FetchNEOs(ctx, w)
			collector.RecordFetch(time.Since(start), err)
			logger.LogFetch(ctx, cfg.NEOFile, n, err)
			return n, err
		})
		if err != nil {
			return err
		}
		fmt.Printf("Fetched %d NEOs to %s\n", neos, neoPath)

		cadOpts, err := cadOptions(cmd)
		if err != nil {
			return err
		}

		cadPath := filepath.Join(out, cfg.CADFile)
		approaches, err := fetchInto(cadPath, func(w io.Writer) (int, error) {
			start := time.Now()
			n, err := client.FetchApproaches(ctx, w, cadOpts...)
			collector.RecordFetch(time.Since(start), err)
			logger.LogFetch(ctx, cfg.CADFile, n, err)
			return n, err
		})
		if err != nil {
			return err
		}
		fmt.Printf("Fetched %d close approaches to %s\n", approaches, cadPath)

		stats := collector.GetStats()
		logger.DebugContext(ctx, "fetch metrics",
			"downloads", stats.FetchCount,
			"errors", stats.FetchErrors,
			"avg_nanos", stats.FetchAvgNanos,
		)

		if !fetchPublish {
			return nil
		}

		return publish(cmd, neoPath, cadPath)
	},
}

// cadOptions translates the date and distance flags into fetch options,
// leaving unset flags at the package defaults.
func cadOptions(cmd *cobra.Command) ([]func(o *fetch.FetchOptions), error) {
	flags := cmd.Flags()

	dates := map[string]time.Time{}
	for _, name := range []string{"date-min", "date-max"} {
		if !flags.Changed(name) {
			continue
		}
		raw, _ := flags.GetString(name)
		t, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("invalid --%s %q: expected YYYY-MM-DD", name, raw)
		}
		dates[name] = t
	}

	optFn := func(o *fetch.FetchOptions) {
		if t, ok := dates["date-min"]; ok {
			o.DateMin = t
		}
		if t, ok := dates["date-max"]; ok {
			o.DateMax = t
		}
		if flags.Changed("dist-max") {
			o.DistMax = fetchDistMax
		}
	}

	return []func(o *fetch.FetchOptions){optFn}, nil
}

// fetchInto streams one download into a freshly created file.
func fetchInto(path string, fn func(w io.Writer) (int, error)) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", path, err)
	}

	n, err := fn(f)
	if err != nil {
		_ = f.Close()
		return 0, err
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("failed to close %s: %w", path, err)
	}

	return n, nil
}

// publish pushes the freshly fetched payloads as a new snapshot version.
func publish(cmd *cobra.Command, neoPath, cadPath string) error {
	if !strings.HasPrefix(cfg.DatasetURI, "s3://") {
		return fmt.Errorf("publishing requires an s3:// dataset URI, got %q", cfg.DatasetURI)
	}

	cat, err := newCatalog(cmd.Context())
	if err != nil {
		return err
	}

	neoFile, err := os.Open(neoPath)
	if err != nil {
		return err
	}
	defer neoFile.Close()

	cadFile, err := os.Open(cadPath)
	if err != nil {
		return err
	}
	defer cadFile.Close()

	snap, err := cat.Publish(cmd.Context(), neoFile, cadFile)
	if err != nil {
		return err
	}

	fmt.Printf("Published snapshot v%d (%s, %s)\n", snap.Version, snap.NEOKey, snap.CADKey)

	return nil
}

func init() {
	fetchCmd.Flags().StringVar(&fetchOut, "out", "", "Directory for the downloaded datasets (defaults to the dataset URI for local paths)")
	fetchCmd.Flags().StringVar(&fetchDateMin, "date-min", "", "Earliest close approach date to fetch (YYYY-MM-DD)")
	fetchCmd.Flags().StringVar(&fetchDateMax, "date-max", "", "Latest close approach date to fetch (YYYY-MM-DD)")
	fetchCmd.Flags().Float64Var(&fetchDistMax, "dist-max", 0.5, "Maximum approach distance to fetch in au")
	fetchCmd.Flags().BoolVar(&fetchPublish, "publish", false, "Publish the fetched datasets as a new snapshot version")

	rootCmd.AddCommand(fetchCmd)
}
