package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"slices"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
)

// FetchOptions bounds a close-approach download.
type FetchOptions struct {
	// DateMin and DateMax bound the approach dates, inclusive.
	DateMin time.Time
	DateMax time.Time

	// DistMax is the maximum approach distance in astronomical units.
	DistMax float64
}

// DefaultFetchOptions covers the full range the API serves.
var DefaultFetchOptions = FetchOptions{
	DateMin: time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC),
	DateMax: time.Date(2100, time.January, 1, 0, 0, 0, 0, time.UTC),
	DistMax: 0.5,
}

// cadFields is the v1 field layout, used verbatim when every window comes
// back empty and no response carried a fields array.
var cadFields = []string{"des", "orbit_id", "jd", "cd", "dist", "dist_min", "dist_max", "v_rel", "v_inf", "t_sigma_f", "h"}

// cadDocument is the canonical cad.json payload. Field order matters:
// fields must precede data so the payload can be consumed in one streaming
// pass.
type cadDocument struct {
	Signature map[string]any `json:"signature"`
	Count     string         `json:"count"`
	Fields    []string       `json:"fields"`
	Data      [][]any        `json:"data"`
}

type window struct {
	start, end time.Time
}

// windows splits [min, max] into consecutive inclusive ranges of at most
// years length. Ranges never overlap, so an approach on a boundary date
// lands in exactly one window.
func windows(min, max time.Time, years int) []window {
	var ws []window
	for start := min; !start.After(max); {
		end := start.AddDate(years, 0, 0).AddDate(0, 0, -1)
		if end.After(max) {
			end = max
		}
		ws = append(ws, window{start: start, end: end})
		start = end.AddDate(0, 0, 1)
	}
	return ws
}

// FetchApproaches downloads close-approach records window by window and
// writes the merged result to w as a canonical cad.json payload. The API
// sorts each window by date and the windows are concatenated in order, so
// the merged data stays chronological. It returns the number of records
// written.
func (c *Client) FetchApproaches(ctx context.Context, w io.Writer, optFns ...func(o *FetchOptions)) (int, error) {
	opts := DefaultFetchOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.DateMax.Before(opts.DateMin) {
		return 0, fmt.Errorf("invalid date range: %s after %s", opts.DateMin.Format(dateLayout), opts.DateMax.Format(dateLayout))
	}

	ws := windows(opts.DateMin, opts.DateMax, c.windowYears)
	results := make([]*apiTable, len(ws))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, win := range ws {
		g.Go(func() error {
			query := url.Values{}
			query.Set("date-min", win.start.Format(dateLayout))
			query.Set("date-max", win.end.Format(dateLayout))
			query.Set("dist-max", strconv.FormatFloat(opts.DistMax, 'f', -1, 64))

			var table apiTable
			if err := c.getJSON(gctx, cadAPI, query, &table); err != nil {
				return fmt.Errorf("failed to fetch approaches %s..%s: %w", win.start.Format(dateLayout), win.end.Format(dateLayout), err)
			}
			results[i] = &table
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	doc := cadDocument{
		Data: make([][]any, 0),
	}
	for _, table := range results {
		if len(table.Fields) == 0 {
			continue
		}
		if doc.Fields == nil {
			doc.Signature = table.Signature
			doc.Fields = table.Fields
		} else if !slices.Equal(doc.Fields, table.Fields) {
			return 0, fmt.Errorf("field layout changed between windows: %v vs %v", doc.Fields, table.Fields)
		}
		doc.Data = append(doc.Data, table.Data...)
	}
	if doc.Fields == nil {
		doc.Fields = cadFields
	}
	doc.Count = strconv.Itoa(len(doc.Data))

	if err := json.NewEncoder(w).Encode(doc); err != nil {
		return 0, fmt.Errorf("failed to encode approaches: %w", err)
	}

	return len(doc.Data), nil
}
