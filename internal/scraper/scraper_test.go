package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	tests := []struct {
		name        string
		htmlContent string
		statusCode  int
		wantError   bool
		wantStatus  int
	}{
		{
			name:        "successful fetch",
			htmlContent: `<html><body><div id="residential-offer-list"></div></body></html>`,
			statusCode:  http.StatusOK,
		},
		{
			name:       "HTTP error",
			statusCode: http.StatusNotFound,
			wantError:  true,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "server error",
			statusCode: http.StatusServiceUnavailable,
			wantError:  true,
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if ua := r.Header.Get("User-Agent"); !strings.HasPrefix(ua, "Mozilla/5.0") {
					t.Errorf("User-Agent = %q, want a browser-like agent", ua)
				}
				if r.URL.RawQuery != "" {
					t.Errorf("unexpected query %q", r.URL.RawQuery)
				}
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.htmlContent)) // nolint:errcheck
			}))
			defer server.Close()

			f := New(Options{URL: server.URL})
			body, err := f.Fetch(context.Background())

			if !tt.wantError {
				require.NoError(t, err)
				assert.Equal(t, tt.htmlContent, string(body))
				return
			}

			var fetchErr *FetchError
			require.ErrorAs(t, err, &fetchErr)
			assert.Equal(t, tt.wantStatus, fetchErr.StatusCode)
			assert.Equal(t, server.URL, fetchErr.URL)
		})
	}
}

func TestFetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	f := New(Options{URL: server.URL, Timeout: 50 * time.Millisecond})
	_, err := f.Fetch(context.Background())

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Zero(t, fetchErr.StatusCode)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestFetch_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := New(Options{URL: url}).Fetch(context.Background())

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), url)
}

func TestFetch_CustomUserAgent(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	_, err := New(Options{URL: server.URL, UserAgent: "room-watch-test/1.0"}).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "room-watch-test/1.0", got)
}

func TestNew(t *testing.T) {
	f := New(Options{})

	require.NotNil(t, f)
	require.NotNil(t, f.client)
	assert.Equal(t, ListingsURL, f.URL())
	assert.Equal(t, UserAgent, f.userAgent)
	assert.Equal(t, Timeout, f.client.Timeout)
}
