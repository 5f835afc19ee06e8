package latido

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"slot-aggregator/core/httpx"
	"slot-aggregator/core/provider"
	"slot-aggregator/core/scrape"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(endpoint string) provider.Config {
	return provider.FromMap(map[string]any{
		"id":           "A",
		"name":         "Dr. A",
		"scraper_type": Type,
		"doctor_id":    "11",
		"calendar_id":  "22",
		"type_id":      "33",
		"api_url":      endpoint,
	})
}

func testOptions(now time.Time, pauses *[]time.Duration) scrape.Options {
	return scrape.Options{
		HTTP:     httpx.NewClient(5*time.Second, "test", nil),
		Location: time.UTC,
		Now:      func() time.Time { return now },
		Sleep: func(_ context.Context, d time.Duration) error {
			*pauses = append(*pauses, d)
			return nil
		},
	}
}

func TestScrape_PagesInChunks(t *testing.T) {
	var mu sync.Mutex
	var windows [][2]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "11", q.Get("doctorid"))
		assert.Equal(t, "22", q.Get("calendarid"))
		assert.Equal(t, "33", q.Get("typeid"))

		mu.Lock()
		windows = append(windows, [2]string{q.Get("start"), q.Get("end")})
		first := len(windows) == 1
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if first {
			_, _ = w.Write([]byte(`[{"start":"2025-12-04T07:00:00.000Z"},{"start":"2025-12-03T09:30:00Z"},{"start":"garbage"}]`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	now := time.Date(2025, 12, 1, 10, 0, 0, 0, time.UTC)
	var pauses []time.Duration
	a, err := New(testConfig(srv.URL), testOptions(now, &pauses))
	require.NoError(t, err)

	entities, err := a.Scrape(context.Background())
	require.NoError(t, err)
	require.Len(t, entities, 1)

	e := entities[0]
	assert.Equal(t, "A", e.ID)
	require.Len(t, e.Slots, 2)
	assert.Equal(t, "2025-12-03T09:30:00Z", provider.FormatSlot(e.Slots[0].Start))
	assert.Equal(t, "2025-12-04T07:00:00Z", provider.FormatSlot(e.Slots[1].Start))

	require.Len(t, windows, 2)
	assert.Equal(t, "2025-12-01T10:00:00.000Z", windows[0][0])
	assert.Equal(t, "2026-03-01T09:59:59.999Z", windows[0][1])
	assert.Equal(t, "2026-03-01T10:00:00.000Z", windows[1][0])
	assert.Equal(t, "2026-05-30T09:59:59.999Z", windows[1][1])
	assert.Equal(t, []time.Duration{pace}, pauses)
}

func TestScrape_UpstreamErrorYieldsZeroSlots(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	var pauses []time.Duration
	a, err := New(testConfig(srv.URL), testOptions(time.Now(), &pauses))
	require.NoError(t, err)

	entities, err := a.Scrape(context.Background())
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Empty(t, entities[0].Slots)
	assert.Empty(t, pauses)
}

func TestScrape_MalformedBodyYieldsZeroSlots(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"unexpected":true}`))
	}))
	defer srv.Close()

	var pauses []time.Duration
	a, err := New(testConfig(srv.URL), testOptions(time.Now(), &pauses))
	require.NoError(t, err)

	entities, err := a.Scrape(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entities[0].Slots)
}

func TestNew_RequiresIdentifiers(t *testing.T) {
	cfg := testConfig("http://localhost")
	delete(cfg.Params, "calendar_id")

	var pauses []time.Duration
	_, err := New(cfg, testOptions(time.Now(), &pauses))
	require.Error(t, err)
	assert.True(t, errors.Is(err, provider.ErrConfig))
}

func TestNew_RequiresHTTPClient(t *testing.T) {
	_, err := New(testConfig("http://localhost"), scrape.Options{})
	assert.True(t, errors.Is(err, provider.ErrConfig))
}
