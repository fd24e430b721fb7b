package scraper

import "fmt"

// FetchError is returned when the listings page could not be retrieved
type FetchError struct {
	URL        string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: unexpected status code: %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError is returned alongside a conservative "not available" signal when the page
// structure could not be interpreted
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parsing page: %s: %v", e.Reason, e.Err)
	}
	return "parsing page: " + e.Reason
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
