package clocksync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/rook-computer/minihost/internal/logging"
	"github.com/rook-computer/minihost/internal/memo"
)

const (
	DefaultTimeURL = "http://worldtimeapi.org/api/timezone/Etc/UTC"

	datetimeField = "datetime"
	maxBodyBytes  = 64 << 10
)

var (
	ErrMalformedBody   = errors.New("time service body is not valid json")
	ErrMissingDatetime = errors.New("time service body has no datetime string")
)

// TimeSource returns the current remote instant.
type TimeSource interface {
	Fetch(ctx context.Context) (time.Time, error)
}

type FetchOptions struct {
	Timeout time.Duration
	// Retries is the number of transport-level retries for the single fetch.
	Retries   int
	UserAgent string
	// Transport replaces the pooled default transport when set.
	Transport http.RoundTripper
}

// Fetcher reads the remote time from a JSON time service.
// The connection pool and the HTTP session are each built on first use and
// reused for the life of the process.
type Fetcher struct {
	URL string

	pool    *memo.Value[*retryablehttp.Client]
	session *memo.Value[*resty.Client]
}

func NewFetcher(url string, opts FetchOptions) *Fetcher {
	if url == "" {
		url = DefaultTimeURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "minihost/1.0"
	}

	fetcher := &Fetcher{URL: url}
	fetcher.pool = memo.New(func() *retryablehttp.Client {
		pool := retryablehttp.NewClient()
		pool.RetryMax = opts.Retries
		pool.RetryWaitMin = 500 * time.Millisecond
		pool.RetryWaitMax = 5 * time.Second
		pool.Logger = nil
		if opts.Transport != nil {
			pool.HTTPClient.Transport = opts.Transport
		}
		return pool
	})
	fetcher.session = memo.New(func() *resty.Client {
		return resty.NewWithClient(fetcher.pool.Get().StandardClient()).
			SetTimeout(opts.Timeout).
			SetHeader("Accept", "application/json").
			SetHeader("User-Agent", opts.UserAgent)
	})
	return fetcher
}

// Fetch performs one GET against the time service. The response body is
// closed on every return path.
func (f *Fetcher) Fetch(ctx context.Context) (time.Time, error) {
	resp, err := f.session.Get().R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(f.URL)
	if resp != nil && resp.RawBody() != nil {
		defer func() { _ = resp.RawBody().Close() }()
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("get %s: %w", f.URL, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return time.Time{}, fmt.Errorf("get %s: unexpected status %d", f.URL, resp.StatusCode())
	}
	if resp.RawBody() == nil {
		return time.Time{}, fmt.Errorf("get %s: empty response", f.URL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.RawBody(), maxBodyBytes))
	if err != nil {
		return time.Time{}, fmt.Errorf("read %s: %w", f.URL, err)
	}
	return ParseDatetime(body)
}

// ParseDatetime extracts the ISO-8601 datetime field from a time service body.
func ParseDatetime(body []byte) (time.Time, error) {
	if !gjson.ValidBytes(body) {
		return time.Time{}, ErrMalformedBody
	}
	field := gjson.GetBytes(body, datetimeField)
	if !field.Exists() || field.Type != gjson.String {
		return time.Time{}, ErrMissingDatetime
	}
	parsed, err := time.Parse(time.RFC3339, field.String())
	if err != nil {
		return time.Time{}, fmt.Errorf("parse datetime %q: %w", field.String(), err)
	}
	return parsed, nil
}

// SyncFromNetwork fetches the remote time once and captures it as the
// reference. Failures are logged and leave sync without a reference.
func SyncFromNetwork(ctx context.Context, source TimeSource, sync *Sync, logger logging.Logger) bool {
	remote, err := source.Fetch(ctx)
	if err != nil {
		if logger != nil {
			logger.Errorf("clock", "error getting time: %v", err)
		}
		return false
	}
	sync.Capture(remote)
	if logger != nil {
		logger.Infof("clock", "finished setting reference time: %s", remote.Format(time.RFC3339))
	}
	return true
}
