package clocksync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	infos  []string
	errors []string
}

func (l *recordingLogger) Infof(component, format string, args ...interface{}) {
	l.infos = append(l.infos, component+": "+fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Errorf(component, format string, args ...interface{}) {
	l.errors = append(l.errors, component+": "+fmt.Sprintf(format, args...))
}

type stubSource struct {
	at  time.Time
	err error
}

func (s stubSource) Fetch(context.Context) (time.Time, error) { return s.at, s.err }

func TestParseDatetime(t *testing.T) {
	t.Run("worldtimeapi body", func(t *testing.T) {
		body := []byte(`{"abbreviation":"UTC","datetime":"2024-01-01T00:00:10.123456+00:00","unixtime":1704067210}`)
		got, err := ParseDatetime(body)
		require.NoError(t, err)
		assert.True(t, got.Equal(time.Date(2024, 1, 1, 0, 0, 10, 123456000, time.UTC)))
	})

	t.Run("zulu suffix", func(t *testing.T) {
		got, err := ParseDatetime([]byte(`{"datetime":"2024-03-10T07:00:00Z"}`))
		require.NoError(t, err)
		assert.Equal(t, 7, got.Hour())
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := ParseDatetime([]byte(`<html>busy</html>`))
		assert.ErrorIs(t, err, ErrMalformedBody)
	})

	t.Run("missing field", func(t *testing.T) {
		_, err := ParseDatetime([]byte(`{"unixtime":1704067210}`))
		assert.ErrorIs(t, err, ErrMissingDatetime)
	})

	t.Run("non string field", func(t *testing.T) {
		_, err := ParseDatetime([]byte(`{"datetime":1704067210}`))
		assert.ErrorIs(t, err, ErrMissingDatetime)
	})

	t.Run("bad timestamp", func(t *testing.T) {
		_, err := ParseDatetime([]byte(`{"datetime":"yesterday"}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "yesterday")
	})
}

func TestFetcherReadsDatetime(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"datetime":"2024-01-01T00:00:10+00:00"}`))
	}))
	defer server.Close()

	fetcher := NewFetcher(server.URL, FetchOptions{Timeout: time.Second})
	got, err := fetcher.Fetch(context.Background())
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 1, 1, 0, 0, 10, 0, time.UTC)))

	_, err = fetcher.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
	assert.True(t, fetcher.session.Done())
	assert.True(t, fetcher.pool.Done())
}

func TestFetcherReusesSession(t *testing.T) {
	fetcher := NewFetcher("", FetchOptions{})
	assert.Equal(t, DefaultTimeURL, fetcher.URL)
	assert.False(t, fetcher.session.Done())

	first := fetcher.session.Get()
	assert.Same(t, first, fetcher.session.Get())
	assert.True(t, fetcher.pool.Done())
}

func TestFetcherRejectsBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewFetcher(server.URL, FetchOptions{Timeout: time.Second}).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestFetcherRejectsMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"datetime":`))
	}))
	defer server.Close()

	_, err := NewFetcher(server.URL, FetchOptions{Timeout: time.Second}).Fetch(context.Background())
	assert.ErrorIs(t, err, ErrMalformedBody)
}

func TestFetcherUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewFetcher(url, FetchOptions{Timeout: time.Second}).Fetch(context.Background())
	assert.Error(t, err)
}

type countingBody struct {
	io.Reader
	closes *atomic.Int32
}

func (b countingBody) Close() error {
	b.closes.Add(1)
	return nil
}

// cannedTransport answers every request with one status and body and counts
// how often the body is closed.
type cannedTransport struct {
	status int
	body   string
	closes atomic.Int32
}

func (c *cannedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return &http.Response{
		StatusCode: c.status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       countingBody{Reader: strings.NewReader(c.body), closes: &c.closes},
		Request:    req,
	}, nil
}

func TestFetcherClosesBodyOnEveryPath(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "ok", status: http.StatusOK, body: `{"datetime":"2024-01-01T00:00:10+00:00"}`},
		{name: "bad status", status: http.StatusNotFound, body: `{"error":"unknown location"}`},
		{name: "malformed json", status: http.StatusOK, body: `{"datetime":`, wantErr: ErrMalformedBody},
		{name: "missing datetime", status: http.StatusOK, body: `{"unixtime":1704067210}`, wantErr: ErrMissingDatetime},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			transport := &cannedTransport{status: tc.status, body: tc.body}
			fetcher := NewFetcher("http://time.test/api", FetchOptions{Timeout: time.Second, Transport: transport})

			_, err := fetcher.Fetch(context.Background())
			switch {
			case tc.status != http.StatusOK:
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unexpected status 404")
			case tc.wantErr != nil:
				require.ErrorIs(t, err, tc.wantErr)
			default:
				require.NoError(t, err)
			}
			assert.Equal(t, int32(1), transport.closes.Load())
		})
	}
}

func TestSyncFromNetworkCapturesReference(t *testing.T) {
	ticks := &fixedTicks{now: 1000}
	sync := New(ticks, -4*time.Hour)
	logger := &recordingLogger{}

	ok := SyncFromNetwork(context.Background(), stubSource{at: time.Date(2024, 1, 1, 0, 0, 10, 0, time.UTC)}, sync, logger)
	require.True(t, ok)

	ref, captured := sync.Reference()
	require.True(t, captured)
	assert.Equal(t, int64(1000), ref.CapturedAt)
	assert.Len(t, logger.infos, 1)
	assert.Empty(t, logger.errors)

	ticks.now = 1065
	assert.Equal(t, "20:01:15", sync.Display())
}

func TestSyncFromNetworkSwallowsFailure(t *testing.T) {
	sync := New(&fixedTicks{}, 0)
	logger := &recordingLogger{}

	ok := SyncFromNetwork(context.Background(), stubSource{err: errors.New("dns lookup failed")}, sync, logger)
	assert.False(t, ok)

	_, captured := sync.Reference()
	assert.False(t, captured)
	require.Len(t, logger.errors, 1)
	assert.Contains(t, logger.errors[0], "dns lookup failed")
	assert.Equal(t, UnavailableMarker, sync.Display())
}
