// Package wisitor reads the day calendar exposed by Wisitor practice pages.
//
// The freieTage endpoint answers with one map from date to day status:
// "VOLL" for a full day, {"Termine": "LEER"} for an open day without detail, or
// {"Termine": [...]} with a list of times. Depending on the practice the list holds
// the free start times (entries: free) or the booked blocks (entries: busy). Busy
// blocks and detail-less days are turned into slots through availability.Resolver.
package wisitor

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"slot-aggregator/core/availability"
	"slot-aggregator/core/httpx"
	"slot-aggregator/core/provider"
	"slot-aggregator/core/scrape"
	"slot-aggregator/core/utils"

	"go.uber.org/zap"
)

// Type is the registry dispatch key.
const Type = "wisitor"

const (
	defaultEndpoint = "https://www.wisitor.at/php/Termine/freieTage.php"
	defaultHours    = "08:00-19:00"
	defaultDuration = 20
	defaultQuantum  = 10
	defaultDays     = 120
)

// EntryMode tells how the times listed for a day are to be read.
type EntryMode string

const (
	EntriesFree EntryMode = "free"
	EntriesBusy EntryMode = "busy"
)

// Adapter queries freieTage.php once per run.
type Adapter struct {
	scrape.Base
	http     httpx.Doer
	endpoint string
	query    url.Values
	entries  EntryMode
	resolver availability.Resolver
}

// New builds the adapter. Either token or a complete api_url is required.
func New(cfg provider.Config, opts scrape.Options) (scrape.Adapter, error) {
	doer, err := opts.HTTPClient()
	if err != nil {
		return nil, err
	}

	endpoint := cfg.String("api_url", cfg.String("url", ""))
	token := cfg.String("token", "")
	if endpoint == "" && token == "" {
		return nil, provider.Configf("provider %q: wisitor needs token or api_url", cfg.ID)
	}
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	mode := EntryMode(strings.ToLower(cfg.String("entries", string(EntriesFree))))
	if mode != EntriesFree && mode != EntriesBusy {
		return nil, provider.Configf("provider %q: entries must be free or busy, got %q", cfg.ID, mode)
	}

	resolver, err := resolverFor(cfg, opts)
	if err != nil {
		return nil, provider.Configf("provider %q: %v", cfg.ID, err)
	}

	a := &Adapter{
		Base:     scrape.NewBase(cfg, opts),
		http:     doer,
		endpoint: endpoint,
		entries:  mode,
		resolver: resolver,
	}
	if token != "" {
		ordination := cfg.String("ordination", "")
		list := cfg.String("ordination_list", "")
		a.query = url.Values{
			"o":               {ordination},
			"l":               {list},
			"t":               {token},
			"Bis":             {strconv.Itoa(cfg.Int("days", defaultDays))},
			"Grund":           {cfg.String("reason", "")},
			"Ordination":      {ordination},
			"OrdinationListe": {list},
			"Token":           {token},
			"s":               {cfg.String("variant", "standard")},
		}
	}
	return a, nil
}

func resolverFor(cfg provider.Config, opts scrape.Options) (availability.Resolver, error) {
	hours, err := availability.ParseHours(cfg.String("hours", defaultHours))
	if err != nil {
		return availability.Resolver{}, err
	}
	policy, err := availability.ParseEmptyPolicy(cfg.String("empty_policy", ""))
	if err != nil {
		return availability.Resolver{}, err
	}
	closed := make(map[time.Weekday]bool)
	for _, name := range utils.ToStrings(cfg.Params["closed"]) {
		d, err := availability.ParseWeekday(name)
		if err != nil {
			return availability.Resolver{}, err
		}
		closed[d] = true
	}

	duration := cfg.Int("duration", defaultDuration)
	quantum := cfg.Int("quantum", defaultQuantum)
	if duration <= 0 || quantum <= 0 {
		return availability.Resolver{}, provider.Configf("duration and quantum must be positive")
	}

	return availability.Resolver{
		Schedule: availability.Schedule{Location: opts.Loc(), Default: hours, Closed: closed},
		Grid: availability.Grid{
			Duration: time.Duration(duration) * time.Minute,
			Quantum:  time.Duration(quantum) * time.Minute,
			LeadTime: opts.LeadTime,
		},
		Empty: policy,
		Now:   opts.Clock,
	}, nil
}

func (a *Adapter) Scrape(ctx context.Context) ([]provider.Entity, error) {
	slots, err := a.fetch(ctx)
	return a.Finish(slots, err)
}

func (a *Adapter) fetch(ctx context.Context) ([]provider.Slot, error) {
	req := httpx.Request{URL: a.endpoint}
	if a.query != nil {
		q := url.Values{}
		for k, v := range a.query {
			q[k] = v
		}
		q.Set("Datum", a.Opts.Clock().In(a.Opts.Loc()).Format("2006-01-02"))
		req.Query = q
	}

	resp, err := a.http.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	cal, err := ParseCalendar(resp.Body, a.Opts.Loc(), a.entries, a.resolver.Grid.Duration)
	if err != nil {
		return nil, err
	}
	for _, s := range cal.Skipped {
		a.Log.Debug("Skipping unreadable day entry", zap.String("date", s))
	}

	var out []provider.Slot
	for _, t := range cal.Free {
		out = append(out, provider.At(t))
	}
	for _, t := range a.resolver.ResolveDays(cal.Days) {
		out = append(out, provider.At(t))
	}
	return out, nil
}
