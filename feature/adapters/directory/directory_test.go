package directory

import (
	"context"
	"testing"

	"slot-aggregator/core/provider"
	"slot-aggregator/core/scrape"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrape_ZeroSlotEntry(t *testing.T) {
	cfg := provider.FromMap(map[string]any{
		"id":           "ps",
		"name":         "Perfect Smile",
		"scraper_type": "custom_perfect_smile",
		"address":      "Klagenfurt",
		"speciality":   "Zahnarzt",
		"booking_url":  "https://example.at/login",
	})

	a, err := New(cfg, scrape.Options{})
	require.NoError(t, err)
	assert.Equal(t, "ps", a.Name())

	entities, err := a.Scrape(context.Background())
	require.NoError(t, err)
	require.Len(t, entities, 1)

	e := entities[0]
	assert.Equal(t, "Perfect Smile", e.Name)
	assert.Equal(t, provider.StringList{"Zahnarzt"}, e.Speciality)
	assert.NotNil(t, e.Slots)
	assert.Empty(t, e.Slots)
	assert.True(t, e.ShowTime)
}
