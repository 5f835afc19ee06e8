package wisitor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"slot-aggregator/core/availability"
	"slot-aggregator/core/provider"
	"slot-aggregator/core/utils"
)

const (
	statusFull  = "VOLL"
	statusEmpty = "LEER"
)

// Calendar is a decoded freieTage answer.
type Calendar struct {
	// Free holds start times listed explicitly in free mode.
	Free []time.Time
	// Days holds the days left to the resolver.
	Days []availability.Day
	// Skipped names the dates whose entry could not be read.
	Skipped []string
}

type entry struct {
	BeginnSTD any `json:"BeginnSTD"`
	BeginnMIN any `json:"BeginnMIN"`
	EndeSTD   any `json:"EndeSTD"`
	EndeMIN   any `json:"EndeMIN"`
}

// ParseCalendar decodes the body. duration closes busy blocks that only carry a start.
func ParseCalendar(body []byte, loc *time.Location, mode EntryMode, duration time.Duration) (Calendar, error) {
	var top []json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return Calendar{}, provider.Parsef("decode day list: %v", err)
	}
	var cal Calendar
	if len(top) == 0 || isNull(top[0]) {
		return cal, nil
	}

	var days map[string]json.RawMessage
	if err := json.Unmarshal(top[0], &days); err != nil {
		return Calendar{}, provider.Parsef("decode day map: %v", err)
	}

	dates := make([]string, 0, len(days))
	for d := range days {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	for _, ds := range dates {
		date, err := time.ParseInLocation("2006-01-02", ds, loc)
		if err != nil {
			cal.Skipped = append(cal.Skipped, ds)
			continue
		}
		if err := cal.add(date, days[ds], mode, duration); err != nil {
			cal.Skipped = append(cal.Skipped, ds)
		}
	}
	return cal, nil
}

func (c *Calendar) add(date time.Time, raw json.RawMessage, mode EntryMode, duration time.Duration) error {
	var status string
	if json.Unmarshal(raw, &status) == nil {
		return c.addStatus(date, status)
	}

	var info struct {
		Termine json.RawMessage `json:"Termine"`
	}
	if err := json.Unmarshal(raw, &info); err != nil {
		return err
	}
	if len(info.Termine) == 0 || isNull(info.Termine) {
		return fmt.Errorf("no Termine")
	}
	if json.Unmarshal(info.Termine, &status) == nil {
		return c.addStatus(date, status)
	}

	var entries []entry
	if err := json.Unmarshal(info.Termine, &entries); err != nil {
		return err
	}

	switch mode {
	case EntriesBusy:
		busy := make([]availability.BusyInterval, 0, len(entries))
		for _, e := range entries {
			start, ok := clock(date, e.BeginnSTD, e.BeginnMIN)
			if !ok {
				continue
			}
			end, ok := clock(date, e.EndeSTD, e.EndeMIN)
			if !ok || !end.After(start) {
				end = start.Add(duration)
			}
			busy = append(busy, availability.BusyInterval{Start: start, End: end})
		}
		c.Days = append(c.Days, availability.Partial(date, busy))
	default:
		for _, e := range entries {
			if t, ok := clock(date, e.BeginnSTD, e.BeginnMIN); ok {
				c.Free = append(c.Free, t)
			}
		}
	}
	return nil
}

func (c *Calendar) addStatus(date time.Time, status string) error {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case statusFull:
		c.Days = append(c.Days, availability.Full(date))
	case statusEmpty:
		c.Days = append(c.Days, availability.Empty(date))
	default:
		return fmt.Errorf("unknown day status %q", status)
	}
	return nil
}

func clock(date time.Time, hour, minute any) (time.Time, bool) {
	h, ok := utils.ToInt(hour)
	if !ok || h < 0 || h > 23 {
		return time.Time{}, false
	}
	m, ok := utils.ToInt(minute)
	if !ok || m < 0 || m > 59 {
		return time.Time{}, false
	}
	y, mo, d := date.Date()
	return time.Date(y, mo, d, h, m, 0, 0, date.Location()), true
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
