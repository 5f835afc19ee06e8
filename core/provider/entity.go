package provider

import (
	"bytes"
	"encoding/json"
	"sort"
	"time"
)

// Entity is the normalized per-provider record persisted in the store.
// Slots is the snapshot of the most recent scrape, never an accumulation.
type Entity struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Address    string       `json:"address"`
	Speciality StringList   `json:"speciality"`
	Insurance  []string     `json:"insurance"`
	Slots      []Slot       `json:"slots"`
	BookingURL string       `json:"booking_url"`
	ShowTime   bool         `json:"show_time"`
	Group      string       `json:"group,omitempty"`
	Location   *Coordinates `json:"location,omitempty"`
}

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// SortSlots orders the slots chronologically. Equal instants keep their order.
func (e *Entity) SortSlots() {
	sort.SliceStable(e.Slots, func(i, j int) bool {
		return e.Slots[i].Start.Before(e.Slots[j].Start)
	})
}

// CapSlots sorts the slots and keeps at most max of the earliest ones.
// max <= 0 disables the cap.
func (e *Entity) CapSlots(max int) {
	e.SortSlots()
	if max > 0 && len(e.Slots) > max {
		e.Slots = e.Slots[:max]
	}
}

// Slot is a single bookable start time. It is always persisted as an RFC 3339 string.
type Slot struct {
	Start time.Time
}

// At returns the slot starting at t.
func At(t time.Time) Slot {
	return Slot{Start: t}
}

// legacySlot is the object shape older stores wrote for slots with extras.
type legacySlot struct {
	Start string `json:"start"`
}

// MarshalJSON encodes the slot as an RFC 3339 string.
func (s Slot) MarshalJSON() ([]byte, error) {
	return json.Marshal(FormatSlot(s.Start))
}

// UnmarshalJSON accepts a timestamp string or a legacy {"start": ...} object.
func (s *Slot) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	var str string
	if len(data) > 0 && data[0] == '{' {
		var obj legacySlot
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		str = obj.Start
	} else if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	t, err := ParseTimestamp(str, time.UTC)
	if err != nil {
		return err
	}
	*s = Slot{Start: t}
	return nil
}

// StringList is a list that is also accepted (and written) as a single string.
type StringList []string

// MarshalJSON writes a single value as a plain string.
func (l StringList) MarshalJSON() ([]byte, error) {
	switch len(l) {
	case 0:
		return json.Marshal("")
	case 1:
		return json.Marshal(l[0])
	default:
		return json.Marshal([]string(l))
	}
}

// UnmarshalJSON accepts a string or a list of strings.
func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*l = list
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*l = nil
		return nil
	}
	*l = StringList{s}
	return nil
}

// Contains reports whether v is one of the values.
func (l StringList) Contains(v string) bool {
	for _, s := range l {
		if s == v {
			return true
		}
	}
	return false
}
