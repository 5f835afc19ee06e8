// Package kutschera reads the PHP booking calendar hosted on termin.kutschera.co.at.
//
// The endpoints only answer inside a browser session opened on the practice page,
// so every call is issued through browser.Fetch from that page.
package kutschera

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"slot-aggregator/core/browser"
	"slot-aggregator/core/provider"
	"slot-aggregator/core/scrape"

	"go.uber.org/zap"
)

// Type is the registry dispatch key.
const Type = "kutschera"

const (
	defaultBase      = "https://termin.kutschera.co.at/bootstrap/php"
	defaultPage      = "https://termin.kutschera.co.at/eckhardtm/"
	defaultCustomer  = "385"
	defaultBlockTime = 30
	horizon          = 180
	maxDays          = 10
	pace             = 100 * time.Millisecond
)

// Adapter walks candidate days until maxDays of them produced slots.
type Adapter struct {
	scrape.Base
	browser   browser.Launcher
	page      string
	base      string
	customer  string
	blockTime int
}

// New builds the adapter. Without kunden_id or a page the Eckhardt calendar is used;
// the page is page_url, then booking_url.
func New(cfg provider.Config, opts scrape.Options) (scrape.Adapter, error) {
	launcher, err := opts.Launcher()
	if err != nil {
		return nil, err
	}
	customer := cfg.String("kunden_id", defaultCustomer)
	page := cfg.String("page_url", cfg.BookingURL)
	if page == "" {
		page = defaultPage
	}
	if cfg.Address == "" {
		cfg.Address = "Graz"
	}
	if len(cfg.Speciality) == 0 {
		cfg.Speciality = provider.StringList{"Augenarzt"}
	}
	if len(cfg.Insurance) == 0 {
		cfg.Insurance = []string{"ÖGK", "BVAEB"}
	}
	return &Adapter{
		Base:      scrape.NewBase(cfg, opts),
		browser:   launcher,
		page:      page,
		base:      strings.TrimRight(cfg.String("api_url", defaultBase), "/"),
		customer:  customer,
		blockTime: cfg.Int("blockzeit", defaultBlockTime),
	}, nil
}

func (a *Adapter) Scrape(ctx context.Context) ([]provider.Entity, error) {
	var slots []provider.Slot
	err := browser.Do(ctx, a.browser, func(s browser.Session) error {
		var err error
		slots, err = a.collect(ctx, s)
		return err
	})
	return a.Finish(slots, err)
}

func (a *Adapter) collect(ctx context.Context, s browser.Session) ([]provider.Slot, error) {
	if err := s.Navigate(a.page); err != nil {
		return nil, err
	}

	loc := a.Opts.Loc()
	today := a.Opts.Clock().In(loc)
	rangeForm := url.Values{
		"kunden_id":   {a.customer},
		"datum_start": {today.Format("2006-01-02")},
		"datum_ende":  {today.AddDate(0, 0, horizon).Format("2006-01-02")},
	}

	holidays := a.holidays(s, rangeForm)

	candidates, err := a.candidates(s, rangeForm)
	if err != nil {
		return nil, err
	}

	var out []provider.Slot
	found := 0
	for _, day := range candidates {
		if found >= maxDays {
			break
		}
		if holidays[day] {
			continue
		}
		date, err := time.ParseInLocation("2006-01-02", day, loc)
		if err != nil {
			a.Log.Debug("Skipping unreadable day", zap.String("day", day))
			continue
		}

		html, err := browser.Fetch(s, browser.FetchRequest{
			Method: "POST",
			URL:    a.base + "/wochentag.php",
			Form: url.Values{
				"kunden_id": {a.customer},
				"wochentag": {strconv.Itoa(int(date.Weekday()))},
				"blockzeit": {strconv.Itoa(a.blockTime)},
				"datum":     {day},
			},
		})
		if err != nil {
			a.Log.Debug("Day detail failed", zap.String("day", day), zap.Error(err))
			continue
		}

		daySlots := 0
		for _, clock := range ParseDay(html) {
			t, err := provider.DayClock(day, clock, loc)
			if err != nil {
				continue
			}
			out = append(out, provider.At(t))
			daySlots++
		}
		if daySlots > 0 {
			found++
		}

		if err := a.Opts.Pause(ctx, pace); err != nil {
			return nil, provider.Transientf("paging interrupted: %v", err)
		}
	}
	return out, nil
}

// holidays returns the closed dates. A broken answer is logged and treated as none.
func (a *Adapter) holidays(s browser.Session, form url.Values) map[string]bool {
	out := make(map[string]bool)
	text, err := browser.Fetch(s, browser.FetchRequest{Method: "POST", URL: a.base + "/get_urlaub.php", Form: form})
	if err != nil {
		a.Log.Warn("Holiday lookup failed", zap.Error(err))
		return out
	}
	var days []string
	if err := json.Unmarshal([]byte(text), &days); err != nil {
		a.Log.Warn("Holiday list unreadable", zap.String("body", truncate(text, 100)))
		return out
	}
	for _, d := range days {
		out[d] = true
	}
	return out
}

// candidates returns the dates offered by get_termine.php in upstream order.
func (a *Adapter) candidates(s browser.Session, rangeForm url.Values) ([]string, error) {
	form := url.Values{}
	for k, v := range rangeForm {
		form[k] = v
	}
	form.Set("blockzeit", strconv.Itoa(a.blockTime))

	text, err := browser.Fetch(s, browser.FetchRequest{Method: "POST", URL: a.base + "/get_termine.php", Form: form})
	if err != nil {
		return nil, err
	}
	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(text), &entries); err != nil {
		return nil, provider.Parsef("decode candidate days: %v", err)
	}

	out := make([]string, 0, len(entries))
	for _, raw := range entries {
		if d := candidateDate(raw); d != "" {
			out = append(out, d)
		}
	}
	return out, nil
}

// candidateDate accepts ["2026-01-05", ...], {"datum": "2026-01-05"} and "2026-01-05".
func candidateDate(raw json.RawMessage) string {
	var list []any
	if json.Unmarshal(raw, &list) == nil {
		if len(list) > 0 {
			if s, ok := list[0].(string); ok {
				return s
			}
		}
		return ""
	}
	var obj struct {
		Datum string `json:"datum"`
	}
	if json.Unmarshal(raw, &obj) == nil && obj.Datum != "" {
		return obj.Datum
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
