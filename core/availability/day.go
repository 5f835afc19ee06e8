package availability

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Status is the day-level availability reported by an upstream.
type Status int

const (
	// StatusEmpty means the upstream only flagged the day as open, without details.
	StatusEmpty Status = iota
	// StatusFull means no slot is possible on that day.
	StatusFull
	// StatusPartial means the day carries busy intervals.
	StatusPartial
)

func (s Status) String() string {
	switch s {
	case StatusFull:
		return "full"
	case StatusPartial:
		return "partial"
	default:
		return "empty"
	}
}

// EmptyPolicy decides what an EMPTY day produces.
// It is declared by the adapter because upstreams differ in precision.
type EmptyPolicy int

const (
	// Placeholder emits a single sentinel slot at the opening time.
	Placeholder EmptyPolicy = iota
	// ExactGrid sweeps the whole opening window.
	ExactGrid
	// SkipEmpty ignores EMPTY days.
	SkipEmpty
)

// ParseEmptyPolicy maps a registry value to a policy. Unknown values are rejected.
func ParseEmptyPolicy(s string) (EmptyPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "placeholder":
		return Placeholder, nil
	case "exact_grid", "grid":
		return ExactGrid, nil
	case "skip":
		return SkipEmpty, nil
	default:
		return Placeholder, fmt.Errorf("unknown empty policy %q", s)
	}
}

// Day is the availability of one calendar date.
type Day struct {
	// Date is midnight of the day in the provider's location.
	Date   time.Time
	Status Status
	Busy   []BusyInterval
}

// Full returns a FULL day.
func Full(date time.Time) Day { return Day{Date: date, Status: StatusFull} }

// Empty returns an EMPTY day.
func Empty(date time.Time) Day { return Day{Date: date, Status: StatusEmpty} }

// Partial returns a PARTIAL day with the given busy intervals.
func Partial(date time.Time, busy []BusyInterval) Day {
	return Day{Date: date, Status: StatusPartial, Busy: busy}
}

// Resolver turns day availability into slot starts.
type Resolver struct {
	Schedule Schedule
	Grid     Grid
	Empty    EmptyPolicy
	// Now returns the reference time for the lead-time rule.
	Now func() time.Time
}

func (r Resolver) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// ResolveDay returns the slots for one day.
// FULL days return nothing without looking at busy intervals.
func (r Resolver) ResolveDay(day Day) []time.Time {
	if day.Status == StatusFull {
		return nil
	}

	open, close, ok := r.Schedule.Window(day.Date)
	if !ok {
		return nil
	}
	now := r.now()

	switch day.Status {
	case StatusEmpty:
		switch r.Empty {
		case SkipEmpty:
			return nil
		case ExactGrid:
			return Sweep(open, close, nil, r.Grid, now)
		}
		if close.After(now) {
			return []time.Time{open}
		}
		return nil
	default:
		return Sweep(open, close, day.Busy, r.Grid, now)
	}
}

// ResolveDays resolves every day and returns one chronologically sorted, duplicate-free list.
func (r Resolver) ResolveDays(days []Day) []time.Time {
	var all []time.Time
	for _, d := range days {
		all = append(all, r.ResolveDay(d)...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Before(all[j]) })

	out := all[:0]
	for i, t := range all {
		if i > 0 && t.Equal(out[len(out)-1]) {
			continue
		}
		out = append(out, t)
	}
	return out
}
