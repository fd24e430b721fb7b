// Package scraper fetches the housing office listings page and classifies it.
//
// The Fetcher issues a single GET with a browser-like User-Agent and a timeout. The
// Classifier inspects the returned HTML for a known container, an explicit "no offers"
// marker inside it, and concrete offer links. Structural surprises are reported as
// ParseError and always classified as "no vacancy" so a layout change never triggers a
// false alert.
package scraper
