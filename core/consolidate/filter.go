package consolidate

import (
	"strings"
	"time"

	"slot-aggregator/core/provider"
)

// UnknownCity is reported for entities without an address.
const UnknownCity = "Unbekannt"

// CityOf extracts the city from an address like "Street 1, 1234 City".
// The city is the last comma-separated part with a leading 4-digit postal code removed.
func CityOf(address string) string {
	address = strings.TrimSpace(address)
	if address == "" {
		return UnknownCity
	}
	parts := strings.Split(address, ",")
	if len(parts) < 2 {
		return address
	}
	city := strings.TrimSpace(parts[len(parts)-1])
	if head, rest, ok := strings.Cut(city, " "); ok && len(head) == 4 && isDigits(head) {
		return strings.TrimSpace(rest)
	}
	return city
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// Filter narrows a snapshot before Build. Empty fields match everything.
type Filter struct {
	Specialities []string
	Insurances   []string
	Cities       []string
	// From and To bound slots to [From, To). Zero values are unbounded.
	From time.Time
	To   time.Time
}

// Active reports whether the filter restricts anything.
func (f Filter) Active() bool {
	return len(f.Specialities) > 0 || len(f.Insurances) > 0 || len(f.Cities) > 0 || f.bounded()
}

func (f Filter) bounded() bool {
	return !f.From.IsZero() || !f.To.IsZero()
}

// Apply returns the matching entities. With a date range, slots outside it are dropped
// and entities left without slots are removed.
func (f Filter) Apply(snapshot map[string]provider.Entity) map[string]provider.Entity {
	out := make(map[string]provider.Entity, len(snapshot))
	for id, e := range snapshot {
		if len(f.Specialities) > 0 && !anyFold(f.Specialities, e.Speciality) {
			continue
		}
		if len(f.Insurances) > 0 && !anyFold(f.Insurances, e.Insurance) {
			continue
		}
		if len(f.Cities) > 0 && !anyFold(f.Cities, []string{CityOf(e.Address)}) {
			continue
		}
		if f.bounded() {
			var slots []provider.Slot
			for _, s := range e.Slots {
				if !f.From.IsZero() && s.Start.Before(f.From) {
					continue
				}
				if !f.To.IsZero() && !s.Start.Before(f.To) {
					continue
				}
				slots = append(slots, s)
			}
			if len(slots) == 0 {
				continue
			}
			e.Slots = slots
		}
		out[id] = e
	}
	return out
}

func anyFold(wanted, have []string) bool {
	for _, w := range wanted {
		for _, h := range have {
			if strings.EqualFold(strings.TrimSpace(w), strings.TrimSpace(h)) {
				return true
			}
		}
	}
	return false
}
