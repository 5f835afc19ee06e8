// Package doctena reads slots from a Doctena practice booking page.
package doctena

import (
	"context"
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
const Type = "doctena"

const (
	alertSelector = ".alert.alert-warning"
	slotSelector  = ".availabilities-slot"
	notPossible   = "nicht möglich"
	bodyWait      = 30 * time.Second
)

var clockPattern = regexp.MustCompile(`(\d{1,2}:\d{2})`)

// Adapter loads the booking page once and reads whatever slots it renders.
type Adapter struct {
	scrape.Base
	browser browser.Launcher
}

// New builds the adapter. booking_url is required.
func New(cfg provider.Config, opts scrape.Options) (scrape.Adapter, error) {
	launcher, err := opts.Launcher()
	if err != nil {
		return nil, err
	}
	if cfg.BookingURL == "" {
		return nil, provider.Configf("provider %q: missing booking_url", cfg.ID)
	}
	return &Adapter{Base: scrape.NewBase(cfg, opts), browser: launcher}, nil
}

func (a *Adapter) Scrape(ctx context.Context) ([]provider.Entity, error) {
	var slots []provider.Slot
	err := browser.Do(ctx, a.browser, func(s browser.Session) error {
		var err error
		slots, err = a.collect(s)
		return err
	})
	return a.Finish(slots, err)
}

// Page is the state read from the booking page.
type Page struct {
	Alert string     `json:"alert"`
	Slots []PageSlot `json:"slots"`
}

// PageSlot is one rendered slot element.
type PageSlot struct {
	Text     string `json:"text"`
	DateTime string `json:"datetime"`
	Date     string `json:"date"`
}

func (a *Adapter) collect(s browser.Session) ([]provider.Slot, error) {
	if err := s.Navigate(a.Config.BookingURL); err != nil {
		return nil, err
	}
	if err := s.WaitVisible("body", bodyWait); err != nil {
		return nil, err
	}

	var page Page
	if err := s.Evaluate(readPageJS, &page); err != nil {
		return nil, err
	}
	if strings.Contains(strings.ToLower(page.Alert), notPossible) {
		a.Log.Info("Online booking not possible")
		return nil, nil
	}

	loc := a.Opts.Loc()
	out := make([]provider.Slot, 0, len(page.Slots))
	for _, ps := range page.Slots {
		t, ok := ParseSlot(ps, loc)
		if !ok {
			a.Log.Debug("Skipping unreadable slot", zap.String("text", ps.Text))
			continue
		}
		out = append(out, provider.At(t))
	}
	return out, nil
}

// ParseSlot prefers a machine-readable timestamp and falls back to date plus clock text.
func ParseSlot(ps PageSlot, loc *time.Location) (time.Time, bool) {
	if ps.DateTime != "" {
		if t, err := provider.ParseTimestamp(ps.DateTime, loc); err == nil {
			return t, true
		}
	}
	clock := clockPattern.FindStringSubmatch(ps.Text)
	if ps.Date == "" || clock == nil {
		return time.Time{}, false
	}
	t, err := provider.DayClock(ps.Date, clock[1], loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

var readPageJS = fmt.Sprintf(`(() => {
  const alert = document.querySelector(%q);
  const slots = Array.from(document.querySelectorAll(%q)).map(el => {
    const day = el.closest("[data-date]");
    return {
      text: el.innerText || "",
      datetime: el.getAttribute("data-datetime") || el.getAttribute("datetime") || "",
      date: day ? day.getAttribute("data-date") : ""
    };
  });
  return { alert: alert ? alert.innerText : "", slots: slots };
})()`, alertSelector, slotSelector)
