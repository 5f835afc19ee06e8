// Package medineum reads appointment proposals from the CGM Life eServices API.
//
// The API wants a cgm-identity header that the web app obtains on load. The
// adapter opens the practice page, captures that header from the app's own
// requests and replays it on paged proposal queries issued from the page.
package medineum

import (
	"context"
	"encoding/json"
	"time"

	"slot-aggregator/core/browser"
	"slot-aggregator/core/provider"
	"slot-aggregator/core/scrape"

	"go.uber.org/zap"
)

// Type is the registry dispatch key.
const Type = "medineum"

const (
	defaultEndpoint = "https://de.cgmlife.com/Appointment/AppointmentService/getNextPossibleProposals"
	defaultPage     = "https://de.cgmlife.com/eservices/#/?institution="
	identityHeader  = "cgm-identity"
	identityMinLen  = 10
	identityWait    = 10 * time.Second
	maxPages        = 5
	horizonDays     = 365
	pace            = 200 * time.Millisecond
)

// Adapter pages through proposals for one institution and appointment type.
type Adapter struct {
	scrape.Base
	browser     browser.Launcher
	page        string
	endpoint    string
	institution string
	apptType    string
}

// New builds the adapter. institution_id and appointment_type_id are required.
func New(cfg provider.Config, opts scrape.Options) (scrape.Adapter, error) {
	launcher, err := opts.Launcher()
	if err != nil {
		return nil, err
	}
	institution, err := cfg.RequireString("institution_id")
	if err != nil {
		return nil, err
	}
	apptType, err := cfg.RequireString("appointment_type_id")
	if err != nil {
		return nil, err
	}
	return &Adapter{
		Base:        scrape.NewBase(cfg, opts),
		browser:     launcher,
		page:        cfg.String("page_url", defaultPage+institution),
		endpoint:    cfg.String("api_url", defaultEndpoint),
		institution: institution,
		apptType:    apptType,
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

type proposal struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

func (a *Adapter) collect(ctx context.Context, s browser.Session) ([]provider.Slot, error) {
	capture, err := s.CaptureHeader(identityHeader, identityMinLen)
	if err != nil {
		return nil, err
	}
	if err := s.Navigate(a.page); err != nil {
		return nil, err
	}
	token, err := capture.Wait(identityWait)
	if err != nil {
		return nil, err
	}

	loc := a.Opts.Loc()
	today := a.Opts.Clock().In(loc)
	end := today.AddDate(0, 0, horizonDays)
	from := today

	var out []provider.Slot
	for page := 0; page < maxPages; page++ {
		proposals, err := a.proposals(s, token, from, end)
		if err != nil {
			if page == 0 {
				return nil, err
			}
			a.Log.Warn("Proposal paging stopped early", zap.Int("page", page), zap.Error(err))
			break
		}
		if len(proposals) == 0 {
			break
		}

		for _, p := range proposals {
			t, err := provider.DayClock(p.Date, p.Time, loc)
			if err != nil {
				a.Log.Debug("Skipping unparseable proposal", zap.String("date", p.Date), zap.String("time", p.Time))
				continue
			}
			out = append(out, provider.At(t))
		}

		last, err := time.ParseInLocation("2006-01-02", proposals[len(proposals)-1].Date, loc)
		if err != nil {
			break
		}
		from = last.AddDate(0, 0, 1)
		if from.After(end) {
			break
		}
		if err := a.Opts.Pause(ctx, pace); err != nil {
			return nil, provider.Transientf("paging interrupted: %v", err)
		}
	}
	return out, nil
}

func (a *Adapter) proposals(s browser.Session, token string, from, end time.Time) ([]proposal, error) {
	text, err := browser.Fetch(s, browser.FetchRequest{
		Method: "POST",
		URL:    a.endpoint,
		Header: map[string]string{
			identityHeader: token,
			"Accept":       "application/json",
		},
		JSON: []any{
			a.institution,
			[]string{a.apptType},
			from.Format("2006-01-02"),
			end.Format("2006-01-02"),
			nil, nil, nil,
		},
	})
	if err != nil {
		return nil, err
	}
	var out []proposal
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, provider.Parsef("decode proposals: %v", err)
	}
	return out, nil
}
