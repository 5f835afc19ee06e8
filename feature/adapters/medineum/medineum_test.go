package medineum

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"slot-aggregator/core/browser/browsertest"
	"slot-aggregator/core/provider"
	"slot-aggregator/core/scrape"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const token = "eyJ0eXAiOiJKV1QiLCJhbGciOi"

func testConfig() provider.Config {
	return provider.FromMap(map[string]any{
		"id":                  "med",
		"name":                "Medineum",
		"scraper_type":        Type,
		"institution_id":      "ef406de6",
		"appointment_type_id": "42",
	})
}

func testOptions(t *testing.T, l *browsertest.Launcher) scrape.Options {
	loc, err := time.LoadLocation("Europe/Vienna")
	require.NoError(t, err)
	return scrape.Options{
		Browser:  l,
		Location: loc,
		Now:      func() time.Time { return time.Date(2026, 2, 2, 9, 0, 0, 0, loc) },
		Sleep:    func(context.Context, time.Duration) error { return nil },
	}
}

func TestScrape_PagesWithCapturedToken(t *testing.T) {
	pages := []string{
		`[{"date":"2026-02-03","time":"08:15:00"},{"date":"2026-02-04","time":"9:30"}]`,
		`[{"date":"2026-02-10","time":"11:00:00"},{"date":"2026-02-10","time":"nope"}]`,
		`[]`,
	}
	calls := 0
	session := &browsertest.Session{
		Headers: map[string]string{"Cgm-Identity": token},
		Eval: func(expr string) (any, error) {
			assert.Contains(t, expr, token)
			assert.Contains(t, expr, `[\"ef406de6\",[\"42\"]`)
			body := pages[calls]
			calls++
			return body, nil
		},
	}

	a, err := New(testConfig(), testOptions(t, &browsertest.Launcher{Session: session}))
	require.NoError(t, err)

	entities, err := a.Scrape(context.Background())
	require.NoError(t, err)
	require.Len(t, entities, 1)

	var got []string
	for _, s := range entities[0].Slots {
		got = append(got, provider.FormatSlot(s.Start))
	}
	assert.Equal(t, []string{
		"2026-02-03T08:15:00+01:00",
		"2026-02-04T09:30:00+01:00",
		"2026-02-10T11:00:00+01:00",
	}, got)

	assert.Equal(t, 3, calls)
	assert.Equal(t, []string{defaultPage + "ef406de6"}, session.Navigated)
	require.Len(t, session.Evaluated, 3)
	assert.Contains(t, session.Evaluated[0], `\"2026-02-02\"`)
	assert.Contains(t, session.Evaluated[1], `\"2026-02-05\"`)
	assert.Contains(t, session.Evaluated[2], `\"2026-02-11\"`)
	assert.True(t, session.Closed)
}

func TestScrape_StopsAfterMaxPages(t *testing.T) {
	day := 3
	session := &browsertest.Session{
		Headers: map[string]string{"cgm-identity": token},
		Eval: func(string) (any, error) {
			day++
			return fmt.Sprintf(`[{"date":"2026-02-%02d","time":"10:00"}]`, day), nil
		},
	}

	a, err := New(testConfig(), testOptions(t, &browsertest.Launcher{Session: session}))
	require.NoError(t, err)

	entities, err := a.Scrape(context.Background())
	require.NoError(t, err)
	assert.Len(t, entities[0].Slots, maxPages)
	assert.Len(t, session.Evaluated, maxPages)
}

func TestScrape_LaterPageFailureKeepsEarlierSlots(t *testing.T) {
	calls := 0
	session := &browsertest.Session{
		Headers: map[string]string{"cgm-identity": token},
		Eval: func(string) (any, error) {
			calls++
			if calls == 1 {
				return `[{"date":"2026-02-03","time":"08:00"}]`, nil
			}
			return nil, provider.Transientf("status 429")
		},
	}

	a, err := New(testConfig(), testOptions(t, &browsertest.Launcher{Session: session}))
	require.NoError(t, err)

	entities, err := a.Scrape(context.Background())
	require.NoError(t, err)
	assert.Len(t, entities[0].Slots, 1)
}

func TestScrape_NoTokenYieldsZeroSlots(t *testing.T) {
	session := &browsertest.Session{Headers: map[string]string{"cgm-identity": "short"}}

	a, err := New(testConfig(), testOptions(t, &browsertest.Launcher{Session: session}))
	require.NoError(t, err)

	entities, err := a.Scrape(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entities[0].Slots)
	assert.Empty(t, session.Evaluated)
	assert.True(t, session.Closed)
}

func TestNew_RequiresIdentifiers(t *testing.T) {
	cfg := testConfig()
	delete(cfg.Params, "appointment_type_id")
	_, err := New(cfg, testOptions(t, &browsertest.Launcher{}))
	assert.True(t, errors.Is(err, provider.ErrConfig))
}
