// Package latido reads free slots from the Latido patient API.
package latido

import (
	"context"
	"net/url"
	"time"

	"slot-aggregator/core/httpx"
	"slot-aggregator/core/provider"
	"slot-aggregator/core/scrape"

	"go.uber.org/zap"
)

// Type is the registry dispatch key.
const Type = "latido"

const (
	defaultEndpoint = "https://patient.latido.at/api/appointments/freeslots"
	chunk           = 90 * 24 * time.Hour
	horizon         = 180 * 24 * time.Hour
	pace            = 100 * time.Millisecond

	stamp = "2006-01-02T15:04:05"
)

// Adapter pages through the free-slot endpoint in 90 day windows.
type Adapter struct {
	scrape.Base
	http     httpx.Doer
	endpoint string
	doctor   string
	calendar string
	apptType string
}

// New builds the adapter. doctor_id, calendar_id and type_id are required.
func New(cfg provider.Config, opts scrape.Options) (scrape.Adapter, error) {
	doer, err := opts.HTTPClient()
	if err != nil {
		return nil, err
	}
	a := &Adapter{
		Base:     scrape.NewBase(cfg, opts),
		http:     doer,
		endpoint: cfg.String("api_url", defaultEndpoint),
	}
	if a.doctor, err = cfg.RequireString("doctor_id"); err != nil {
		return nil, err
	}
	if a.calendar, err = cfg.RequireString("calendar_id"); err != nil {
		return nil, err
	}
	if a.apptType, err = cfg.RequireString("type_id"); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Adapter) Scrape(ctx context.Context) ([]provider.Entity, error) {
	slots, err := a.fetch(ctx)
	return a.Finish(slots, err)
}

type freeSlot struct {
	Start any `json:"start"`
}

func (a *Adapter) fetch(ctx context.Context) ([]provider.Slot, error) {
	now := a.Opts.Clock().UTC().Truncate(time.Second)
	limit := now.Add(horizon)

	var out []provider.Slot
	for from := now; from.Before(limit); {
		to := from.Add(chunk)
		if to.After(limit) {
			to = limit
		}

		page, err := a.window(ctx, from, to.Add(-time.Second))
		if err != nil {
			return nil, err
		}
		out = append(out, page...)

		from = to
		if from.Before(limit) {
			if err := a.Opts.Pause(ctx, pace); err != nil {
				return nil, provider.Transientf("paging interrupted: %v", err)
			}
		}
	}
	return out, nil
}

func (a *Adapter) window(ctx context.Context, from, to time.Time) ([]provider.Slot, error) {
	resp, err := a.http.Do(ctx, httpx.Request{
		URL: a.endpoint,
		Query: url.Values{
			"doctorid":   {a.doctor},
			"calendarid": {a.calendar},
			"typeid":     {a.apptType},
			"start":      {from.Format(stamp) + ".000Z"},
			"end":        {to.Format(stamp) + ".999Z"},
		},
	})
	if err != nil {
		return nil, err
	}

	var items []freeSlot
	if err := resp.DecodeJSON(&items); err != nil {
		return nil, err
	}

	out := make([]provider.Slot, 0, len(items))
	for _, it := range items {
		if it.Start == nil {
			continue
		}
		t, err := provider.ParseTimestamp(it.Start, a.Opts.Loc())
		if err != nil {
			a.Log.Debug("Skipping unparseable slot", zap.Any("start", it.Start), zap.Error(err))
			continue
		}
		out = append(out, provider.At(t))
	}
	return out, nil
}
