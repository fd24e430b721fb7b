package scraper

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err, "failed to load test fixture")
	return data
}

func TestClassify_Fixtures(t *testing.T) {
	c := NewClassifier(Selectors{})

	t.Run("no vacancies notice", func(t *testing.T) {
		sig, err := c.ClassifyBytes(loadFixture(t, "no_offers.html"))
		require.NoError(t, err)
		assert.False(t, sig.Available)
		assert.Empty(t, sig.Details)
	})

	t.Run("three offers", func(t *testing.T) {
		sig, err := c.ClassifyBytes(loadFixture(t, "three_offers.html"))
		require.NoError(t, err)
		assert.True(t, sig.Available)

		cards := strings.Split(sig.Details, "\n\n")
		require.Len(t, cards, 3)
		assert.Equal(t, "Single apartment, Emil-Figge-Str. 50 Rent: 312 EUR", cards[0])
		assert.Contains(t, cards[1], "Vogelpothsweg 16")
		assert.Contains(t, cards[2], "Meitnerweg 6")
	})

	t.Run("missing container", func(t *testing.T) {
		sig, err := c.ClassifyBytes(loadFixture(t, "missing_container.html"))
		assert.False(t, sig.Available)
		assert.Empty(t, sig.Details)

		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Contains(t, parseErr.Reason, "missing")
	})
}

func TestClassify_EdgeCases(t *testing.T) {
	tests := []struct {
		name          string
		html          string
		wantAvailable bool
		wantDetails   string
		wantParseErr  bool
	}{
		{
			name:          "empty container",
			html:          `<div id="residential-offer-list"></div>`,
			wantAvailable: false,
		},
		{
			name:          "marker wins over links",
			html:          `<div id="residential-offer-list"><div class="no-offers">Nothing</div><a href="/x">Old link</a></div>`,
			wantAvailable: false,
		},
		{
			name:          "phrase without marker element",
			html:          `<div id="residential-offer-list"><p>We Currently   have no vacancies.</p><a href="/faq">FAQ</a></div>`,
			wantAvailable: false,
		},
		{
			name:          "links outside container are ignored",
			html:          `<nav><a href="/a">A</a></nav><div id="residential-offer-list"><p>Loading</p></div>`,
			wantAvailable: false,
		},
		{
			name:          "anchors without href are not offers",
			html:          `<div id="residential-offer-list"><a name="top">Top</a></div>`,
			wantAvailable: false,
		},
		{
			name:          "unrelated notice does not hide offers",
			html:          `<div id="residential-offer-list"><div class="notification">Applications for the winter term close on Friday.</div><div class="residential-offer-card"><a href="/o/2">Room 12, Meitnerweg</a></div></div>`,
			wantAvailable: true,
			wantDetails:   "Room 12, Meitnerweg",
		},
		{
			name:          "notice carrying the no-vacancy phrase",
			html:          `<div id="residential-offer-list"><div class="notification">We currently have no vacancies.</div></div>`,
			wantAvailable: false,
		},
		{
			name:          "links without cards use fallback details",
			html:          `<div id="residential-offer-list"><a href="/offer/1">Offer</a></div>`,
			wantAvailable: true,
			wantDetails:   FallbackDetails,
		},
		{
			name:          "script text is not offer text",
			html:          `<div id="residential-offer-list"><script>var s = "currently have no vacancies";</script><div class="residential-offer-card"><a href="/o/1">Room 7</a></div></div>`,
			wantAvailable: true,
			wantDetails:   "Room 7",
		},
		{
			name:          "no container at all",
			html:          `<p>hello</p>`,
			wantAvailable: false,
			wantParseErr:  true,
		},
		{
			name:          "empty document",
			html:          ``,
			wantAvailable: false,
			wantParseErr:  true,
		},
	}

	c := NewClassifier(Selectors{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, err := c.Classify(strings.NewReader(tt.html))

			if tt.wantParseErr {
				var parseErr *ParseError
				assert.ErrorAs(t, err, &parseErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantAvailable, sig.Available)
			assert.Equal(t, tt.wantDetails, sig.Details)
		})
	}
}

func TestClassify_CustomSelectors(t *testing.T) {
	c := NewClassifier(Selectors{
		Container:      "main .offers",
		NoOffers:       ".empty",
		Offer:          "li.offer",
		Card:           "li.offer",
		NoOfferPhrases: []string{},
	})

	sig, err := c.Classify(strings.NewReader(`<main><ul class="offers"><li class="offer">Room A</li><li class="offer">Room B</li></ul></main>`))
	require.NoError(t, err)
	assert.True(t, sig.Available)
	assert.Equal(t, "Room A\n\nRoom B", sig.Details)

	sig, err = c.Classify(strings.NewReader(`<main><ul class="offers"><li class="empty">None</li></ul></main>`))
	require.NoError(t, err)
	assert.False(t, sig.Available)
}

func TestNewClassifier_Defaults(t *testing.T) {
	c := NewClassifier(Selectors{Container: "#custom"})

	def := DefaultSelectors()
	assert.Equal(t, "#custom", c.sel.Container)
	assert.Equal(t, def.NoOffers, c.sel.NoOffers)
	assert.Equal(t, def.Offer, c.sel.Offer)
	assert.Equal(t, def.Card, c.sel.Card)
	assert.Equal(t, def.NoOfferPhrases, c.sel.NoOfferPhrases)
}

func TestNormalizeSpace(t *testing.T) {
	assert.Equal(t, "a b c", normalizeSpace("  a\n\tb   c "))
	assert.Equal(t, "", normalizeSpace(" \n "))
}
