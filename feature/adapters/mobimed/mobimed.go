// Package mobimed reads slots from the Mobimed scheduler API.
package mobimed

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"slot-aggregator/core/httpx"
	"slot-aggregator/core/provider"
	"slot-aggregator/core/scrape"

	"go.uber.org/zap"
)

// Type is the registry dispatch key.
const Type = "mobimed"

const (
	defaultEndpoint = "https://scheduler.mobimed.at/api/scheduler/slots"
	referer         = "https://scheduler.mobimed.at/ensat/"
	defaultService  = 21
	horizon         = 60 * 24 * time.Hour
)

// Adapter queries one user and service for the next 60 days.
type Adapter struct {
	scrape.Base
	http     httpx.Doer
	endpoint string
	user     string
	service  int
	token    string
}

// New builds the adapter. mobimed_user_id is required; token is sent as a bearer token when set.
func New(cfg provider.Config, opts scrape.Options) (scrape.Adapter, error) {
	doer, err := opts.HTTPClient()
	if err != nil {
		return nil, err
	}
	user, err := cfg.RequireString("mobimed_user_id")
	if err != nil {
		return nil, err
	}
	return &Adapter{
		Base:     scrape.NewBase(cfg, opts),
		http:     doer,
		endpoint: cfg.String("api_url", defaultEndpoint),
		user:     user,
		service:  cfg.Int("mobimed_service_id", defaultService),
		token:    cfg.String("token", ""),
	}, nil
}

func (a *Adapter) Scrape(ctx context.Context) ([]provider.Entity, error) {
	slots, err := a.fetch(ctx)
	return a.Finish(slots, err)
}

type slot struct {
	Date any `json:"date"`
}

func (a *Adapter) fetch(ctx context.Context) ([]provider.Slot, error) {
	from := a.Opts.Clock().UTC().Truncate(time.Second)
	to := from.Add(horizon)

	header := http.Header{}
	header.Set("Referer", referer)
	header.Set("Accept", "application/json")
	if a.token != "" {
		header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.http.Do(ctx, httpx.Request{
		URL: a.endpoint,
		Query: url.Values{
			"from":    {from.Format("2006-01-02T15:04:05") + ".000Z"},
			"to":      {to.Format("2006-01-02T15:04:05") + ".000Z"},
			"service": {strconv.Itoa(a.service)},
			"user":    {a.user},
		},
		Header: header,
	})
	if err != nil {
		return nil, err
	}

	items, err := decodeSlots(resp.Body)
	if err != nil {
		return nil, err
	}

	out := make([]provider.Slot, 0, len(items))
	for _, it := range items {
		if it.Date == nil {
			continue
		}
		t, err := provider.ParseTimestamp(it.Date, a.Opts.Loc())
		if err != nil {
			a.Log.Debug("Skipping unparseable slot", zap.Any("date", it.Date), zap.Error(err))
			continue
		}
		out = append(out, provider.At(t))
	}
	return out, nil
}

// decodeSlots accepts both {"slots": [...]} and a bare list.
func decodeSlots(body []byte) ([]slot, error) {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		var list []slot
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, provider.Parsef("decode slot list: %v", err)
		}
		return list, nil
	}

	var wrapped struct {
		Slots []slot `json:"slots"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, provider.Parsef("decode slot object: %v", err)
	}
	return wrapped.Slots, nil
}
