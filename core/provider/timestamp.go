package provider

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Naive layouts seen on upstreams that send local wall-clock times without an offset.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseTimestamp normalizes an upstream timestamp.
// Accepted inputs: RFC 3339 strings (with Z or an offset), naive local strings which are
// interpreted in loc, and epoch milliseconds as a number or a digit-only string.
func ParseTimestamp(v any, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	switch val := v.(type) {
	case time.Time:
		return val, nil
	case float64:
		return time.UnixMilli(int64(val)).In(loc), nil
	case int64:
		return time.UnixMilli(val).In(loc), nil
	case int:
		return time.UnixMilli(int64(val)).In(loc), nil
	case json.Number:
		ms, err := val.Int64()
		if err != nil {
			return time.Time{}, Parsef("invalid epoch value %q", val.String())
		}
		return time.UnixMilli(ms).In(loc), nil
	case string:
		return parseTimestampString(strings.TrimSpace(val), loc)
	default:
		return time.Time{}, Parsef("unsupported timestamp type %T", v)
	}
}

func parseTimestampString(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, Parsef("empty timestamp")
	}

	if isDigits(s) && len(s) >= 12 {
		ms, err := strconv.ParseInt(s, 10, 64)
		if err == nil {
			return time.UnixMilli(ms).In(loc), nil
		}
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}

	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, Parsef("unrecognized timestamp %q", s)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// FormatSlot renders a slot start as RFC 3339 with second precision.
// UTC times keep the Z suffix; zoned times keep their offset.
func FormatSlot(t time.Time) string {
	return t.Truncate(time.Second).Format(time.RFC3339)
}

// DayClock combines a calendar day with an "HH:MM" or "HH:MM:SS" clock string in loc.
func DayClock(date, clock string, loc *time.Location) (time.Time, error) {
	clock = strings.TrimSpace(clock)
	if len(clock) == 4 && clock[1] == ':' {
		clock = "0" + clock
	}
	return parseTimestampString(strings.TrimSpace(date)+"T"+clock, loc)
}
