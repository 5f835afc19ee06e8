package availability

import (
	"sort"
	"time"
)

// BusyInterval is a known-occupied period within one day.
// Intervals are half-open: [Start, End).
type BusyInterval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether [start, end) intersects the interval.
// Touching at either boundary is not an overlap.
func (b BusyInterval) Overlaps(start, end time.Time) bool {
	return start.Before(b.End) && b.Start.Before(end)
}

// Contains reports whether t lies inside the interval.
func (b BusyInterval) Contains(t time.Time) bool {
	return !t.Before(b.Start) && t.Before(b.End)
}

// Grid describes the slot grid of a day.
type Grid struct {
	// Duration is the length of one appointment.
	Duration time.Duration
	// Quantum is the alignment step relative to the opening time.
	Quantum time.Duration
	// LeadTime is the minimum distance between now and a bookable start.
	LeadTime time.Duration
}

// Valid reports whether the grid can produce slots.
func (g Grid) Valid() bool {
	return g.Duration > 0 && g.Quantum > 0
}

// Sweep returns the bookable slot starts between open and close.
//
// Every returned start s is aligned to the quantum relative to open, satisfies
// s >= max(open, now+lead) and s+duration <= close, and [s, s+duration) does not intersect
// any busy interval. Results are strictly increasing.
func Sweep(open, close time.Time, busy []BusyInterval, g Grid, now time.Time) []time.Time {
	if !g.Valid() || !close.After(open) {
		return nil
	}

	intervals := normalize(busy)

	cursor := open
	if earliest := now.Add(g.LeadTime); earliest.After(cursor) {
		cursor = snap(open, earliest, g.Quantum)
	}

	var slots []time.Time
	for !cursor.Add(g.Duration).After(close) {
		end := cursor.Add(g.Duration)

		if b, ok := containing(intervals, cursor); ok {
			cursor = snap(open, b.End, g.Quantum)
			continue
		}
		if b, ok := firstOverlap(intervals, cursor, end); ok {
			cursor = snap(open, b.End, g.Quantum)
			continue
		}

		slots = append(slots, cursor)
		cursor = snap(open, end, g.Quantum)
	}
	return slots
}

// snap rounds t up to the next grid point open + k*quantum.
func snap(open, t time.Time, quantum time.Duration) time.Time {
	if !t.After(open) {
		return open
	}
	offset := t.Sub(open)
	steps := offset / quantum
	if offset%quantum != 0 {
		steps++
	}
	return open.Add(steps * quantum)
}

// normalize drops empty intervals and sorts by start.
func normalize(busy []BusyInterval) []BusyInterval {
	out := make([]BusyInterval, 0, len(busy))
	for _, b := range busy {
		if b.End.After(b.Start) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start.Equal(out[j].Start) {
			return out[i].End.After(out[j].End)
		}
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

func containing(intervals []BusyInterval, t time.Time) (BusyInterval, bool) {
	for _, b := range intervals {
		if b.Start.After(t) {
			break
		}
		if b.Contains(t) {
			return b, true
		}
	}
	return BusyInterval{}, false
}

func firstOverlap(intervals []BusyInterval, start, end time.Time) (BusyInterval, bool) {
	for _, b := range intervals {
		if !b.Start.Before(end) {
			break
		}
		if b.Overlaps(start, end) {
			return b, true
		}
	}
	return BusyInterval{}, false
}
