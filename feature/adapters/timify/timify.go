// Package timify reads slots from the Timify booking widget by driving its UI.
package timify

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"slot-aggregator/core/browser"
	"slot-aggregator/core/provider"
	"slot-aggregator/core/scrape"

	"go.uber.org/zap"
)

// Type is the registry dispatch key.
const Type = "timify"

const (
	serviceSelector  = ".ta-services__service"
	slotSelector     = ".ta-slots__slot"
	showMoreSelector = ".ta-slots__show-more"
	nextSelector     = ".ta-datepicker__next"
	resourceSelector = ".ta-resource-item"

	weeks        = 4
	serviceWait  = 20 * time.Second
	slotWait     = 15 * time.Second
	resourceWait = 10 * time.Second
	weekWait     = 5 * time.Second
	weekSettle   = 2 * time.Second
)

var (
	clockPattern = regexp.MustCompile(`(\d{1,2}:\d{2})`)
	datePattern  = regexp.MustCompile(`ta-slot-(\d{4}-\d{2}-\d{2})`)
)

// Adapter selects a service and reads four weeks of slots.
type Adapter struct {
	scrape.Base
	browser browser.Launcher
	service string
}

// New builds the adapter. booking_url is required; service_filter picks the service by text.
func New(cfg provider.Config, opts scrape.Options) (scrape.Adapter, error) {
	launcher, err := opts.Launcher()
	if err != nil {
		return nil, err
	}
	if cfg.BookingURL == "" {
		return nil, provider.Configf("provider %q: missing booking_url", cfg.ID)
	}
	service := cfg.String("service_filter", "")
	if service != "" && !strings.Contains(cfg.Name, "(") {
		cfg.Name = fmt.Sprintf("%s (%s)", cfg.Name, service)
	}
	return &Adapter{Base: scrape.NewBase(cfg, opts), browser: launcher, service: service}, nil
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

// RawSlot is what the page reports for one slot element.
type RawSlot struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

func (a *Adapter) collect(ctx context.Context, s browser.Session) ([]provider.Slot, error) {
	if err := s.Navigate(a.Config.BookingURL); err != nil {
		return nil, err
	}
	if err := s.WaitVisible(serviceSelector, serviceWait); err != nil {
		return nil, err
	}

	var chosen string
	if err := s.Evaluate(selectServiceJS(a.service), &chosen); err != nil {
		return nil, err
	}
	if chosen == "" {
		return nil, provider.Parsef("no service could be selected")
	}
	if a.service != "" && !strings.Contains(strings.ToLower(chosen), strings.ToLower(a.service)) {
		a.Log.Info("Service filter not matched, using first service", zap.String("filter", a.service), zap.String("service", chosen))
	}

	if err := s.WaitVisible(slotSelector, slotWait); err != nil {
		var resources int
		if evalErr := s.Evaluate(countJS(resourceSelector), &resources); evalErr != nil || resources == 0 {
			a.Log.Info("No slots offered")
			return nil, nil
		}
		if err := s.Click(resourceSelector); err != nil {
			return nil, err
		}
		if err := s.WaitVisible(slotSelector, resourceWait); err != nil {
			a.Log.Info("No slots offered after selecting a resource")
			return nil, nil
		}
	}

	loc := a.Opts.Loc()
	seen := make(map[string]bool)
	var out []provider.Slot
	for week := 0; week < weeks; week++ {
		if err := s.Evaluate(showMoreJS, nil); err != nil {
			a.Log.Debug("Expanding slots failed", zap.Error(err))
		}

		var raw []RawSlot
		if err := s.Evaluate(readSlotsJS, &raw); err != nil {
			return nil, err
		}
		for _, r := range raw {
			t, ok := ParseSlot(r, loc)
			if !ok {
				continue
			}
			key := provider.FormatSlot(t)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, provider.At(t))
		}

		var next bool
		if err := s.Evaluate(nextEnabledJS, &next); err != nil || !next {
			break
		}
		if err := s.Click(nextSelector); err != nil {
			return nil, err
		}
		if err := a.Opts.Pause(ctx, weekSettle); err != nil {
			return nil, provider.Transientf("week navigation interrupted: %v", err)
		}
		// An empty week leaves no slot element to wait for.
		_ = s.WaitVisible(slotSelector, weekWait)
	}
	return out, nil
}

// ParseSlot combines the clock from the element text with the date from its label.
func ParseSlot(r RawSlot, loc *time.Location) (time.Time, bool) {
	clock := clockPattern.FindStringSubmatch(r.Text)
	date := datePattern.FindStringSubmatch(r.Label)
	if clock == nil || date == nil {
		return time.Time{}, false
	}
	t, err := provider.DayClock(date[1], clock[1], loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func selectServiceJS(filter string) string {
	f, _ := json.Marshal(strings.ToLower(filter))
	return fmt.Sprintf(`(() => {
  const items = Array.from(document.querySelectorAll(%q));
  const filter = %s;
  const hit = (filter && items.find(i => i.innerText.toLowerCase().includes(filter))) || items[0];
  if (!hit) { return ""; }
  hit.scrollIntoView();
  hit.click();
  return hit.innerText.trim();
})()`, serviceSelector, f)
}

func countJS(selector string) string {
	return fmt.Sprintf(`document.querySelectorAll(%q).length`, selector)
}

var showMoreJS = fmt.Sprintf(`(async () => {
  for (const b of Array.from(document.querySelectorAll(%q))) {
    if (b.offsetParent !== null) { b.click(); await new Promise(r => setTimeout(r, 500)); }
  }
  return true;
})()`, showMoreSelector)

var readSlotsJS = fmt.Sprintf(`Array.from(document.querySelectorAll(%q)).map(el => ({
  text: el.innerText,
  label: el.getAttribute("aria-labelledby") || ""
}))`, slotSelector)

var nextEnabledJS = fmt.Sprintf(`(() => {
  const b = document.querySelector(%q);
  return !!b && b.offsetParent !== null && !b.disabled;
})()`, nextSelector)
