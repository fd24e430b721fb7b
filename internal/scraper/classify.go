package scraper

import (
	"bytes"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/room-watch/internal/availability"
)

// FallbackDetails is reported when offers are present but no offer card could be read
const FallbackDetails = "Offers appear to be listed, but no offer details could be extracted. Check the page directly."

// Selectors locate the structural parts of the listings page
type Selectors struct {
	// Container wraps the offer list and is expected on every version of the page
	Container string
	// NoOffers is a marker element that only appears inside Container when nothing is
	// listed. General notices use NoOfferPhrases instead.
	NoOffers string
	// Offer matches one concrete offer link
	Offer string
	// Card matches the element whose text describes one offer
	Card string
	// NoOfferPhrases are matched case-insensitively against the Container text
	NoOfferPhrases []string
}

// DefaultSelectors returns the selectors for the current listings page layout
func DefaultSelectors() Selectors {
	return Selectors{
		Container: "#residential-offer-list",
		NoOffers:  ".no-offers",
		Offer:     "a[href]",
		Card:      ".residential-offer-card",
		NoOfferPhrases: []string{
			"currently have no vacancies",
			"keine freien wohnangebote",
		},
	}
}

// Classifier turns a listings page into an availability signal
type Classifier struct {
	sel Selectors
}

// NewClassifier creates a Classifier; empty selector fields use the defaults
func NewClassifier(sel Selectors) *Classifier {
	def := DefaultSelectors()
	if sel.Container == "" {
		sel.Container = def.Container
	}
	if sel.NoOffers == "" {
		sel.NoOffers = def.NoOffers
	}
	if sel.Offer == "" {
		sel.Offer = def.Offer
	}
	if sel.Card == "" {
		sel.Card = def.Card
	}
	if sel.NoOfferPhrases == nil {
		sel.NoOfferPhrases = def.NoOfferPhrases
	}
	return &Classifier{sel: sel}
}

// ClassifyBytes is Classify over an in-memory page
func (c *Classifier) ClassifyBytes(page []byte) (availability.Signal, error) {
	return c.Classify(bytes.NewReader(page))
}

// Classify inspects the page. The returned signal is always usable: when err is a
// *ParseError the signal reports no vacancy.
func (c *Classifier) Classify(r io.Reader) (availability.Signal, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return availability.Signal{}, &ParseError{Reason: "invalid HTML", Err: err}
	}

	container := doc.Find(c.sel.Container).First()
	if container.Length() == 0 {
		return availability.Signal{}, &ParseError{Reason: "container " + c.sel.Container + " missing"}
	}

	// Scripts and styles never carry offer text
	container.Find("script, style, noscript").Remove()

	if container.Find(c.sel.NoOffers).Length() > 0 {
		return availability.Signal{}, nil
	}

	if c.hasNoOfferPhrase(container) {
		return availability.Signal{}, nil
	}

	if container.Find(c.sel.Offer).Length() == 0 {
		return availability.Signal{}, nil
	}

	return availability.Signal{
		Available: true,
		Details:   c.extractDetails(container),
	}, nil
}

func (c *Classifier) hasNoOfferPhrase(container *goquery.Selection) bool {
	text := strings.ToLower(normalizeSpace(container.Text()))
	for _, phrase := range c.sel.NoOfferPhrases {
		phrase = strings.ToLower(normalizeSpace(phrase))
		if phrase != "" && strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

// extractDetails concatenates the visible text of every offer card in document order
func (c *Classifier) extractDetails(container *goquery.Selection) string {
	cards := make([]string, 0)
	container.Find(c.sel.Card).Each(func(i int, card *goquery.Selection) {
		if text := normalizeSpace(card.Text()); text != "" {
			cards = append(cards, text)
		}
	})

	if len(cards) == 0 {
		return FallbackDetails
	}
	return strings.Join(cards, "\n\n")
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
