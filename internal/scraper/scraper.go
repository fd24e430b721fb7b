package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	ListingsURL = "https://www.stwdo.de/wohnen/aktuelle-wohnangebote"
	UserAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	Timeout     = 15 * time.Second

	maxBodyBytes = 10 << 20
)

// Options configures a Fetcher. Zero values fall back to the package defaults.
type Options struct {
	URL       string
	UserAgent string
	Timeout   time.Duration
}

// Fetcher retrieves the listings page
type Fetcher struct {
	client    *http.Client
	url       string
	userAgent string
}

// New creates a new Fetcher
func New(opts Options) *Fetcher {
	if opts.URL == "" {
		opts.URL = ListingsURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = UserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = Timeout
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: opts.Timeout,
		},
		url:       opts.URL,
		userAgent: opts.UserAgent,
	}
}

// URL returns the page the fetcher requests
func (f *Fetcher) URL() string {
	return f.url
}

// Fetch downloads the listings page. Every failure is a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, &FetchError{URL: f.url, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: f.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: f.url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &FetchError{URL: f.url, Err: fmt.Errorf("reading body: %w", err)}
	}

	return body, nil
}
