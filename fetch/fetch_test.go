package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hupe1980/neogo/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler, optFns ...func(o *Options)) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	fns := append([]func(o *Options){func(o *Options) {
		o.BaseURL = srv.URL
		o.RequestsPerSecond = 1000
		o.Burst = 100
	}}, optFns...)

	return New(fns...)
}

// cadRow builds a response row in the v1 field layout.
func cadRow(des, cd, dist, vrel string) []any {
	return []any{des, "12", "2459000.5", cd, dist, dist, dist, vrel, vrel, "00:02", "22.1"}
}

func writeJSON(t *testing.T, w http.ResponseWriter, doc any) {
	t.Helper()
	require.NoError(t, json.NewEncoder(w).Encode(doc))
}

func TestFetchNEOs(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/sbdb_query.api", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pdes,name,diameter,pha", r.URL.Query().Get("fields"))
		assert.Equal(t, "neo", r.URL.Query().Get("sb-group"))

		writeJSON(t, w, map[string]any{
			"signature": map[string]any{"source": "NASA/JPL Small-Body DB Query API", "version": "1.0"},
			"count":     3,
			"fields":    []string{"pdes", "name", "diameter", "pha"},
			"data": [][]any{
				{"433", "Eros", "16.84", "N"},
				{"2020 AA", nil, nil, "Y"},
				{"1036", "Ganymed", "37.675", "N"},
			},
		})
	})

	client := newTestClient(t, mux)

	var buf bytes.Buffer
	n, err := client.FetchNEOs(context.Background(), &buf)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	// The payload must load like a shipped dataset.
	neos, err := extract.LoadNEOs(&buf)
	require.NoError(t, err)
	require.Len(t, neos, 3)

	assert.Equal(t, "Eros", neos[0].Name)
	assert.InDelta(t, 16.84, neos[0].Diameter, 1e-9)
	assert.False(t, neos[0].Hazardous)

	assert.Equal(t, "2020 AA", neos[1].Designation)
	assert.Empty(t, neos[1].Name)
	assert.False(t, neos[1].HasDiameter())
	assert.True(t, neos[1].Hazardous)
}

func TestFetchNEOsAPIError(t *testing.T) {
	var requests atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/sbdb_query.api", func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		http.Error(w, "no such endpoint", http.StatusNotFound)
	})

	client := newTestClient(t, mux)

	_, err := client.FetchNEOs(context.Background(), &bytes.Buffer{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)

	// 4xx responses other than 429 must not be retried.
	assert.EqualValues(t, 1, requests.Load())
}

func TestFetchNEOsRetriesServerErrors(t *testing.T) {
	var requests atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/sbdb_query.api", func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) < 3 {
			http.Error(w, "try later", http.StatusServiceUnavailable)
			return
		}
		writeJSON(t, w, map[string]any{
			"count":  0,
			"fields": []string{"pdes", "name", "diameter", "pha"},
			"data":   [][]any{},
		})
	})

	client := newTestClient(t, mux)

	n, err := client.FetchNEOs(context.Background(), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.EqualValues(t, 3, requests.Load())
}

func TestFetchApproachesWindows(t *testing.T) {
	var mu sync.Mutex
	ranges := make(map[string]string)

	mux := http.NewServeMux()
	mux.HandleFunc("/cad.api", func(w http.ResponseWriter, r *http.Request) {
		dateMin := r.URL.Query().Get("date-min")
		dateMax := r.URL.Query().Get("date-max")
		assert.Equal(t, "0.5", r.URL.Query().Get("dist-max"))

		mu.Lock()
		ranges[dateMin] = dateMax
		mu.Unlock()

		var rows [][]any
		switch dateMin {
		case "1900-01-01":
			rows = [][]any{cadRow("433", "1905-Jan-02 13:45", "0.12", "5.62")}
		case "1910-01-01":
			rows = [][]any{cadRow("1036", "1915-Jun-30 06:30", "0.3", "17.2")}
		}

		writeJSON(t, w, map[string]any{
			"signature": map[string]any{"source": "NASA/JPL SBDB Close Approach Data API", "version": "1.5"},
			"count":     len(rows),
			"fields":    cadFields,
			"data":      rows,
		})
	})

	client := newTestClient(t, mux)

	var buf bytes.Buffer
	n, err := client.FetchApproaches(context.Background(), &buf, func(o *FetchOptions) {
		o.DateMin = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)
		o.DateMax = time.Date(1919, time.December, 31, 0, 0, 0, 0, time.UTC)
	})
	require.NoError(t, err)
	require.Equal(t, 2, n)

	// Two non-overlapping windows.
	require.Equal(t, map[string]string{
		"1900-01-01": "1909-12-31",
		"1910-01-01": "1919-12-31",
	}, ranges)

	// fields must precede data for streaming consumers.
	payload := buf.String()
	assert.Less(t, bytes.Index(buf.Bytes(), []byte(`"fields"`)), bytes.Index(buf.Bytes(), []byte(`"data"`)), "payload: %s", payload)

	approaches, err := extract.LoadApproaches(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, approaches, 2)

	// Windows merge in chronological order.
	assert.Equal(t, "433", approaches[0].Designation)
	assert.Equal(t, "1036", approaches[1].Designation)
	assert.True(t, approaches[0].Time.Before(approaches[1].Time))
	assert.InDelta(t, 17.2, approaches[1].Velocity, 1e-9)
}

func TestFetchApproachesEmptyWindow(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/cad.api", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("date-min") == "1900-01-01" {
			// Zero-row responses omit fields and data.
			writeJSON(t, w, map[string]any{"count": "0"})
			return
		}
		writeJSON(t, w, map[string]any{
			"count":  1,
			"fields": cadFields,
			"data":   [][]any{cadRow("433", "1915-Jan-02 13:45", "0.12", "5.62")},
		})
	})

	client := newTestClient(t, mux)

	var buf bytes.Buffer
	n, err := client.FetchApproaches(context.Background(), &buf, func(o *FetchOptions) {
		o.DateMin = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)
		o.DateMax = time.Date(1919, time.December, 31, 0, 0, 0, 0, time.UTC)
	})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	approaches, err := extract.LoadApproaches(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, approaches, 1)
}

func TestFetchApproachesAllEmpty(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/cad.api", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"count": "0"})
	})

	client := newTestClient(t, mux)

	var buf bytes.Buffer
	n, err := client.FetchApproaches(context.Background(), &buf)
	require.NoError(t, err)
	require.Equal(t, 0, n)

	// Still a loadable canonical payload.
	approaches, err := extract.LoadApproaches(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Empty(t, approaches)
}

func TestFetchApproachesFieldMismatch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/cad.api", func(w http.ResponseWriter, r *http.Request) {
		fields := cadFields
		if r.URL.Query().Get("date-min") == "1910-01-01" {
			fields = []string{"des", "cd", "dist", "v_rel"}
		}
		writeJSON(t, w, map[string]any{
			"count":  1,
			"fields": fields,
			"data":   [][]any{cadRow("433", "1905-Jan-02 13:45", "0.12", "5.62")},
		})
	})

	client := newTestClient(t, mux)

	_, err := client.FetchApproaches(context.Background(), &bytes.Buffer{}, func(o *FetchOptions) {
		o.DateMin = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)
		o.DateMax = time.Date(1919, time.December, 31, 0, 0, 0, 0, time.UTC)
	})
	require.ErrorContains(t, err, "field layout changed")
}

func TestFetchApproachesInvalidRange(t *testing.T) {
	client := New()

	_, err := client.FetchApproaches(context.Background(), &bytes.Buffer{}, func(o *FetchOptions) {
		o.DateMin = time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)
		o.DateMax = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	})
	require.ErrorContains(t, err, "invalid date range")
}

func TestWindows(t *testing.T) {
	min := time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)
	max := time.Date(2100, time.January, 1, 0, 0, 0, 0, time.UTC)

	ws := windows(min, max, 10)
	require.Len(t, ws, 21)

	assert.Equal(t, min, ws[0].start)
	assert.Equal(t, max, ws[len(ws)-1].end)

	for i := 1; i < len(ws); i++ {
		assert.Equal(t, ws[i-1].end.AddDate(0, 0, 1), ws[i].start, "window %d must start right after its predecessor", i)
	}

	// A range smaller than one window collapses to a single request.
	small := windows(min, min.AddDate(0, 6, 0), 10)
	require.Len(t, small, 1)
	assert.Equal(t, min, small[0].start)
	assert.Equal(t, min.AddDate(0, 6, 0), small[0].end)
}
