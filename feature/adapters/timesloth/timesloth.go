// Package timesloth reads slots from the Timesloth appointments API.
package timesloth

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"slot-aggregator/core/httpx"
	"slot-aggregator/core/provider"
	"slot-aggregator/core/scrape"

	"go.uber.org/zap"
)

// Type is the registry dispatch key.
const Type = "timesloth"

const defaultAPI = "https://api.timesloth.io"

// Adapter derives the customer and event from the booking URL.
type Adapter struct {
	scrape.Base
	http     httpx.Doer
	endpoint string
}

// New builds the adapter. booking_url must look like .../a/{customer}/{event}.
func New(cfg provider.Config, opts scrape.Options) (scrape.Adapter, error) {
	doer, err := opts.HTTPClient()
	if err != nil {
		return nil, err
	}
	customer, event, err := ParseBookingURL(cfg.BookingURL)
	if err != nil {
		return nil, provider.Configf("provider %q: %v", cfg.ID, err)
	}
	base := strings.TrimRight(cfg.String("api_url", defaultAPI), "/")
	return &Adapter{
		Base: scrape.NewBase(cfg, opts),
		http: doer,
		endpoint: fmt.Sprintf("%s/integrations/appointments/customers/%s/events/%s/slots",
			base, url.PathEscape(customer), url.PathEscape(event)),
	}, nil
}

// ParseBookingURL extracts the customer and event slugs from a shop URL such as
// https://shop.timesloth.io/de/a/{customer}/{event}?backButton=true.
func ParseBookingURL(raw string) (customer, event string, err error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", fmt.Errorf("invalid booking url %q: %w", raw, err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, p := range parts {
		if p == "a" && i+2 < len(parts) && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", fmt.Errorf("booking url %q has no /a/{customer}/{event} segment", raw)
}

func (a *Adapter) Scrape(ctx context.Context) ([]provider.Entity, error) {
	slots, err := a.fetch(ctx)
	return a.Finish(slots, err)
}

func (a *Adapter) fetch(ctx context.Context) ([]provider.Slot, error) {
	resp, err := a.http.Do(ctx, httpx.Request{URL: a.endpoint})
	if err != nil {
		return nil, err
	}

	var items []struct {
		Start any `json:"start"`
	}
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
