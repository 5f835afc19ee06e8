package availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Hours is an opening window expressed as minutes after midnight.
type Hours struct {
	Open  int
	Close int
}

// ParseHours parses "HH:MM-HH:MM".
func ParseHours(s string) (Hours, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return Hours{}, fmt.Errorf("invalid hours %q: expected HH:MM-HH:MM", s)
	}
	open, err := parseClock(parts[0])
	if err != nil {
		return Hours{}, err
	}
	close, err := parseClock(parts[1])
	if err != nil {
		return Hours{}, err
	}
	if close <= open {
		return Hours{}, fmt.Errorf("invalid hours %q: close must be after open", s)
	}
	return Hours{Open: open, Close: close}, nil
}

func parseClock(s string) (int, error) {
	hm := strings.Split(strings.TrimSpace(s), ":")
	if len(hm) != 2 {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	h, err := strconv.Atoi(hm[0])
	if err != nil || h < 0 || h > 24 {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	m, err := strconv.Atoi(hm[1])
	if err != nil || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	return h*60 + m, nil
}

// Schedule maps a date to its opening window.
type Schedule struct {
	Location *time.Location
	// Default applies to every weekday without an override.
	Default Hours
	// Weekdays overrides Default per weekday.
	Weekdays map[time.Weekday]Hours
	// Closed lists weekdays without any opening window.
	Closed map[time.Weekday]bool
}

// Window returns the opening and closing instants for the date.
// ok is false on closed weekdays.
func (s Schedule) Window(date time.Time) (open, close time.Time, ok bool) {
	loc := s.Location
	if loc == nil {
		loc = date.Location()
	}
	d := date.In(loc)
	if s.Closed[d.Weekday()] {
		return time.Time{}, time.Time{}, false
	}

	h := s.Default
	if override, exists := s.Weekdays[d.Weekday()]; exists {
		h = override
	}
	if h.Close <= h.Open {
		return time.Time{}, time.Time{}, false
	}

	y, m, day := d.Date()
	open = time.Date(y, m, day, 0, h.Open, 0, 0, loc)
	close = time.Date(y, m, day, 0, h.Close, 0, 0, loc)
	return open, close, true
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// ParseWeekday accepts English weekday names and their three-letter forms.
func ParseWeekday(s string) (time.Weekday, error) {
	d, ok := weekdayNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return time.Sunday, fmt.Errorf("unknown weekday %q", s)
	}
	return d, nil
}
