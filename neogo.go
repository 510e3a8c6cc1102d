// Package neogo provides an embedded query engine for near-Earth object
// close approach data.
//
// Neogo loads the NASA/JPL small-body inventory and close-approach tables
// into memory, links them, and answers attribute queries over the result:
//
//   - Ten composable criteria: occurrence date (exact or windowed), approach
//     distance, relative velocity, NEO diameter, and hazardous designation
//   - Lazy streaming results with early termination (iter.Seq2)
//   - Optional Roaring Bitmap acceleration for equality criteria
//   - Dataset sources for local files, S3, MinIO, and cached remotes, with
//     transparent gzip/zstd/lz4 decompression
//   - Versioned dataset snapshots published through S3 + DynamoDB
//   - Refresh from the JPL SSD/CNEOS API
//
// # Quick Start
//
//	ctx := context.Background()
//	db, err := neogo.Open(ctx, dataset.NewLocal("./data"), "neos.csv", "cad.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Look up a NEO by primary designation or by IAU name.
//	neo, err := db.GetNEO("433")
//	neo, err = db.GetNEOByName("Eros")
//
//	// Query close approaches with the fluent builder.
//	results, err := db.Query().
//	    StartDate(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)).
//	    DistanceMax(0.1).
//	    Hazardous(true).
//	    Limit(10).
//	    Execute(ctx)
//
// Streaming for large result sets:
//
//	for ca, err := range db.Query().VelocityMin(25).Stream(ctx) {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    process(ca)
//	}
//
// # Query Semantics
//
// Criteria combine conjunctively: an approach matches when every supplied
// criterion holds. Unsupplied criteria match everything. Approaches whose
// NEO has an unknown diameter never match a diameter bound, in either
// direction. Results always come back in dataset order.
package neogo

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/hupe1980/neogo/dataset"
	"github.com/hupe1980/neogo/extract"
	"github.com/hupe1980/neogo/filter/index"
	"github.com/hupe1980/neogo/model"
	"golang.org/x/sync/errgroup"
)

// Neogo is an in-memory close approach database with attribute filtering.
type Neogo struct {
	neos       []*model.NearEarthObject
	approaches []*model.CloseApproach

	byDesignation map[string]*model.NearEarthObject
	byName        map[string]*model.NearEarthObject

	accel   *index.Index
	metrics MetricsCollector
	logger  *Logger
}

// New builds a database from already loaded NEOs and close approaches.
// Approaches are linked to their NEO by primary designation; approaches
// that reference an unknown designation are dropped and counted.
func New(neos []*model.NearEarthObject, approaches []*model.CloseApproach, optFns ...Option) *Neogo {
	opts := applyOptions(optFns)

	ng := &Neogo{
		neos:          neos,
		byDesignation: make(map[string]*model.NearEarthObject, len(neos)),
		byName:        make(map[string]*model.NearEarthObject),
		metrics:       opts.metricsCollector,
		logger:        opts.logger,
	}

	for _, neo := range neos {
		ng.byDesignation[neo.Designation] = neo
		if neo.Name != "" {
			ng.byName[neo.Name] = neo
		}
	}

	ng.approaches = make([]*model.CloseApproach, 0, len(approaches))
	dropped := 0
	for _, ca := range approaches {
		neo, ok := ng.byDesignation[ca.Designation]
		if !ok {
			dropped++
			continue
		}
		ca.NEO = neo
		neo.Approaches = append(neo.Approaches, ca)
		ng.approaches = append(ng.approaches, ca)
	}
	ng.logger.LogLink(context.Background(), len(ng.approaches), dropped)

	if opts.accelerated {
		ng.accel = index.New()
		for i, ca := range ng.approaches {
			ng.accel.Add(uint32(i), ca)
		}
	}

	return ng
}

// Open loads both dataset files from src and builds a database. The two
// datasets are independent until linking, so they load concurrently.
// Compressed datasets (.gz, .zst, .lz4) are decompressed transparently
// based on the name. neoName must name a csv dataset and cadName a json
// one; a name carrying a foreign extension is rejected before the source
// is opened.
func Open(ctx context.Context, src dataset.Source, neoName, cadName string, optFns ...Option) (*Neogo, error) {
	opts := applyOptions(optFns)
	start := time.Now()
	source := neoName + " " + cadName

	var (
		neos       []*model.NearEarthObject
		approaches []*model.CloseApproach
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		neos, err = loadNEOs(gctx, src, neoName)
		return err
	})
	g.Go(func() error {
		var err error
		approaches, err = loadApproaches(gctx, src, cadName)
		return err
	})
	if err := g.Wait(); err != nil {
		opts.metricsCollector.RecordLoad(time.Since(start), err)
		opts.logger.LogLoad(ctx, source, 0, 0, err)
		return nil, err
	}

	opts.metricsCollector.RecordLoad(time.Since(start), nil)
	opts.logger.LogLoad(ctx, source, len(neos), len(approaches), nil)

	return New(neos, approaches, optFns...), nil
}

func loadNEOs(ctx context.Context, src dataset.Source, name string) ([]*model.NearEarthObject, error) {
	if ext := extract.DataExt(name); ext != "" && ext != ".csv" {
		return nil, fmt.Errorf("neogo: %s is not a csv dataset", name)
	}

	rc, err := src.Open(ctx, name)
	if err != nil {
		return nil, translateError(err)
	}
	defer rc.Close()

	dr, err := extract.OpenDecompressed(name, rc)
	if err != nil {
		return nil, fmt.Errorf("neogo: failed to open %s: %w", name, err)
	}
	defer dr.Close()

	neos, err := extract.LoadNEOs(dr)
	if err != nil {
		return nil, fmt.Errorf("neogo: failed to load %s: %w", name, err)
	}
	return neos, nil
}

func loadApproaches(ctx context.Context, src dataset.Source, name string) ([]*model.CloseApproach, error) {
	if ext := extract.DataExt(name); ext != "" && ext != ".json" {
		return nil, fmt.Errorf("neogo: %s is not a json dataset", name)
	}

	rc, err := src.Open(ctx, name)
	if err != nil {
		return nil, translateError(err)
	}
	defer rc.Close()

	dr, err := extract.OpenDecompressed(name, rc)
	if err != nil {
		return nil, fmt.Errorf("neogo: failed to open %s: %w", name, err)
	}
	defer dr.Close()

	approaches, err := extract.LoadApproaches(dr)
	if err != nil {
		return nil, fmt.Errorf("neogo: failed to load %s: %w", name, err)
	}
	return approaches, nil
}

// GetNEO returns the NEO with the given primary designation.
func (ng *Neogo) GetNEO(designation string) (*model.NearEarthObject, error) {
	neo, ok := ng.byDesignation[designation]
	if !ok {
		return nil, fmt.Errorf("%w: designation %q", ErrNotFound, designation)
	}
	return neo, nil
}

// GetNEOByName returns the NEO with the given IAU name. Most NEOs are
// unnamed; the empty name never matches.
func (ng *Neogo) GetNEOByName(name string) (*model.NearEarthObject, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrNotFound)
	}

	neo, ok := ng.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: name %q", ErrNotFound, name)
	}
	return neo, nil
}

// NEOs iterates over all NEOs in load order.
func (ng *Neogo) NEOs() iter.Seq[*model.NearEarthObject] {
	return slices.Values(ng.neos)
}

// Approaches iterates over all linked close approaches in load order.
func (ng *Neogo) Approaches() iter.Seq[*model.CloseApproach] {
	return slices.Values(ng.approaches)
}

// Stats describes the loaded dataset.
type Stats struct {
	NEOs        int
	Approaches  int
	Accelerated bool
	Index       index.Stats
}

// Stats returns statistics about the loaded dataset.
func (ng *Neogo) Stats() Stats {
	s := Stats{
		NEOs:       len(ng.neos),
		Approaches: len(ng.approaches),
	}
	if ng.accel != nil {
		s.Accelerated = true
		s.Index = ng.accel.Stats()
	}
	return s
}
