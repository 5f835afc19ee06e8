package timify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"slot-aggregator/core/browser/browsertest"
	"slot-aggregator/core/provider"
	"slot-aggregator/core/scrape"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(filter string) provider.Config {
	raw := map[string]any{
		"id":           "tf",
		"name":         "Praxis T",
		"scraper_type": Type,
		"booking_url":  "https://book.timify.com/?accountId=abc",
	}
	if filter != "" {
		raw["service_filter"] = filter
	}
	return provider.FromMap(raw)
}

func testOptions(t *testing.T, session *browsertest.Session) scrape.Options {
	loc, err := time.LoadLocation("Europe/Vienna")
	require.NoError(t, err)
	return scrape.Options{
		Browser:  &browsertest.Launcher{Session: session},
		Location: loc,
		Sleep:    func(context.Context, time.Duration) error { return nil },
	}
}

func TestScrape_ReadsWeeks(t *testing.T) {
	weeks := [][]RawSlot{
		{
			{Text: "9:40\nfrei", Label: "ta-slot-2026-04-07 other"},
			{Text: "10:00", Label: "ta-slot-2026-04-07"},
			{Text: "kein Termin", Label: "ta-slot-2026-04-07"},
		},
		{
			{Text: "10:00", Label: "ta-slot-2026-04-07"},
			{Text: "08:00", Label: "ta-slot-2026-04-14"},
		},
	}
	week := 0
	session := &browsertest.Session{Eval: func(expr string) (any, error) {
		switch {
		case strings.Contains(expr, serviceSelector):
			assert.Contains(t, expr, `"vorsorge"`)
			return "Vorsorgeuntersuchung", nil
		case strings.Contains(expr, showMoreSelector):
			return true, nil
		case strings.Contains(expr, "aria-labelledby"):
			return weeks[week], nil
		case strings.Contains(expr, nextSelector):
			week++
			return week < len(weeks), nil
		}
		return nil, nil
	}}

	a, err := New(testConfig("Vorsorge"), testOptions(t, session))
	require.NoError(t, err)

	entities, err := a.Scrape(context.Background())
	require.NoError(t, err)
	require.Len(t, entities, 1)

	e := entities[0]
	assert.Equal(t, "Praxis T (Vorsorge)", e.Name)
	var got []string
	for _, s := range e.Slots {
		got = append(got, provider.FormatSlot(s.Start))
	}
	assert.Equal(t, []string{
		"2026-04-07T09:40:00+02:00",
		"2026-04-07T10:00:00+02:00",
		"2026-04-14T08:00:00+02:00",
	}, got)
	assert.Equal(t, []string{nextSelector}, session.Clicked)
	assert.True(t, session.Closed)
}

func TestScrape_NoSlotsAndNoResources(t *testing.T) {
	session := &browsertest.Session{
		Visible: map[string]bool{serviceSelector: true},
		Eval: func(expr string) (any, error) {
			if strings.Contains(expr, serviceSelector) {
				return "Erstordination", nil
			}
			return 0, nil
		},
	}

	a, err := New(testConfig(""), testOptions(t, session))
	require.NoError(t, err)

	entities, err := a.Scrape(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Praxis T", entities[0].Name)
	assert.Empty(t, entities[0].Slots)
	assert.Empty(t, session.Clicked)
}

func TestScrape_ResourceSelection(t *testing.T) {
	session := &browsertest.Session{
		Visible: map[string]bool{serviceSelector: true},
		Eval: func(expr string) (any, error) {
			switch {
			case strings.Contains(expr, serviceSelector):
				return "Erstordination", nil
			case strings.Contains(expr, resourceSelector):
				return 2, nil
			}
			return nil, nil
		},
	}

	a, err := New(testConfig(""), testOptions(t, session))
	require.NoError(t, err)

	entities, err := a.Scrape(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entities[0].Slots)
	assert.Equal(t, []string{resourceSelector}, session.Clicked)
}

func TestScrape_ServicesNeverLoad(t *testing.T) {
	session := &browsertest.Session{Visible: map[string]bool{}}

	a, err := New(testConfig(""), testOptions(t, session))
	require.NoError(t, err)

	entities, err := a.Scrape(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entities[0].Slots)
	assert.Empty(t, session.Evaluated)
}

func TestParseSlot(t *testing.T) {
	got, ok := ParseSlot(RawSlot{Text: "9:05", Label: "x ta-slot-2026-01-02"}, time.UTC)
	require.True(t, ok)
	assert.Equal(t, "2026-01-02T09:05:00Z", provider.FormatSlot(got))

	_, ok = ParseSlot(RawSlot{Text: "9:05", Label: ""}, time.UTC)
	assert.False(t, ok)
}

func TestNew_RequiresBookingURL(t *testing.T) {
	cfg := testConfig("")
	cfg.BookingURL = ""
	_, err := New(cfg, testOptions(t, &browsertest.Session{}))
	assert.True(t, errors.Is(err, provider.ErrConfig))
}
