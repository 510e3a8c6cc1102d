package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	sbdbAPI = "sbdb_query.api"
	cadAPI  = "cad.api"

	dateLayout = "2006-01-02"
)

// Options contains configuration for the JPL client.
type Options struct {
	// BaseURL is the JPL SSD/CNEOS API root.
	BaseURL string

	// HTTPClient is the underlying HTTP client.
	// Default is a client with a 60s timeout.
	HTTPClient *http.Client

	// RequestsPerSecond throttles all outgoing requests across every
	// endpoint and window. JPL asks batch consumers to keep rates low.
	RequestsPerSecond float64

	// Burst is the limiter burst size.
	Burst int

	// MaxRetries for 429 and 5xx responses. Other failures are returned
	// immediately.
	MaxRetries int

	// Concurrency caps how many close-approach windows are fetched in
	// parallel.
	Concurrency int

	// WindowYears is the size of one close-approach date window.
	WindowYears int

	// UserAgent identifies this client to the API.
	UserAgent string
}

// DefaultOptions contains the default client configuration.
var DefaultOptions = Options{
	BaseURL:           "https://ssd-api.jpl.nasa.gov",
	RequestsPerSecond: 2,
	Burst:             1,
	MaxRetries:        3,
	Concurrency:       4,
	WindowYears:       10,
	UserAgent:         "neogo/1.0",
}

// Client fetches datasets from the JPL SSD/CNEOS API.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	limiter     *rate.Limiter
	maxRetries  int
	concurrency int
	windowYears int
	userAgent   string
}

// New creates a new JPL client.
func New(optFns ...func(o *Options)) *Client {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 60 * time.Second}
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = DefaultOptions.RequestsPerSecond
	}
	if opts.Burst < 1 {
		opts.Burst = 1
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.WindowYears < 1 {
		opts.WindowYears = 1
	}

	return &Client{
		baseURL:     strings.TrimSuffix(opts.BaseURL, "/"),
		httpClient:  opts.HTTPClient,
		limiter:     rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		maxRetries:  opts.MaxRetries,
		concurrency: opts.Concurrency,
		windowYears: opts.WindowYears,
		userAgent:   opts.UserAgent,
	}
}

// APIError represents a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("jpl api: http %d: %s", e.StatusCode, e.Message)
}

// retryable reports whether the request should be attempted again.
func retryable(err error) bool {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}
	return false
}

// getJSON performs a rate-limited GET with retries and decodes the response
// body into out.
func (c *Client) getJSON(ctx context.Context, api string, query url.Values, out any) error {
	endpoint := c.baseURL + "/" + api + "?" + query.Encode()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * 100 * time.Millisecond
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		lastErr = c.getJSONOnce(ctx, endpoint, out)
		if lastErr == nil {
			return nil
		}
		if !retryable(lastErr) {
			return lastErr
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *Client) getJSONOnce(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// apiTable is the common envelope of SSD API table responses. Zero-row
// responses omit fields and data entirely.
type apiTable struct {
	Signature map[string]any `json:"signature"`
	Count     json.Number    `json:"count"`
	Fields    []string       `json:"fields"`
	Data      [][]any        `json:"data"`
}

// cellString renders one table cell the way it appeared on the wire.
// The API encodes values as strings or nulls; numbers only show up when a
// response was produced with full precision off.
func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
