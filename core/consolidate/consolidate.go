package consolidate

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"slot-aggregator/core/geo"
	"slot-aggregator/core/provider"
)

// nameSeparator splits a display name into group key and variant, e.g.
// "Dr. Huber (Kontrolle)" belongs to group "Dr. Huber".
const nameSeparator = " ("

// Order selects how groups are sorted.
type Order string

const (
	// OrderNext sorts by next available slot, groups without one last.
	OrderNext Order = "next"
	// OrderDistance sorts by distance from Options.Origin, groups without coordinates last.
	OrderDistance Order = "distance"
	// OrderName sorts by group key.
	OrderName Order = "name"
)

// ParseOrder validates an ordering name. Empty means OrderNext.
func ParseOrder(s string) (Order, error) {
	switch Order(strings.ToLower(strings.TrimSpace(s))) {
	case "", OrderNext:
		return OrderNext, nil
	case OrderDistance:
		return OrderDistance, nil
	case OrderName:
		return OrderName, nil
	default:
		return OrderNext, fmt.Errorf("unknown sort order %q", s)
	}
}

// Options controls Build.
type Options struct {
	// Now separates past slots from the next available one.
	Now   time.Time
	Order Order
	// Origin is required for OrderDistance; without it distance ordering falls back to next.
	Origin *provider.Coordinates
}

// Group is the consolidated view of entities sharing a group key.
type Group struct {
	Key           string                `json:"key"`
	Members       []string              `json:"members"`
	Address       string                `json:"address"`
	City          string                `json:"city"`
	Speciality    []string              `json:"speciality"`
	Insurance     []string              `json:"insurance"`
	BookingURL    string                `json:"booking_url"`
	ShowTime      bool                  `json:"show_time"`
	Location      *provider.Coordinates `json:"location,omitempty"`
	Slots         []provider.Slot       `json:"slots"`
	NextAvailable *time.Time            `json:"next_available"`
	DistanceKM    *float64              `json:"distance_km,omitempty"`
}

// GroupKey returns the explicit group, else the name prefix before " (", else the id.
func GroupKey(e provider.Entity) string {
	if g := strings.TrimSpace(e.Group); g != "" {
		return g
	}
	name := e.Name
	if i := strings.Index(name, nameSeparator); i >= 0 {
		name = name[:i]
	}
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	return e.ID
}

// Build groups a store snapshot. The result depends only on the snapshot and opts,
// so building twice from the same snapshot yields identical output.
func Build(snapshot map[string]provider.Entity, opts Options) []Group {
	ids := make([]string, 0, len(snapshot))
	for id := range snapshot {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	byKey := make(map[string]*Group)
	var keys []string
	for _, id := range ids {
		e := snapshot[id]
		key := GroupKey(e)
		g, ok := byKey[key]
		if !ok {
			g = &Group{Key: key, Address: e.Address, City: CityOf(e.Address), BookingURL: e.BookingURL}
			byKey[key] = g
			keys = append(keys, key)
		}
		merge(g, id, e)
	}

	groups := make([]Group, 0, len(keys))
	for _, key := range keys {
		g := byKey[key]
		g.Slots = dedupe(g.Slots)
		g.NextAvailable = nextAvailable(g.Slots, opts.Now)
		if opts.Origin != nil && g.Location != nil {
			d := geo.Haversine(*opts.Origin, *g.Location)
			g.DistanceKM = &d
		}
		if g.Speciality == nil {
			g.Speciality = []string{}
		}
		if g.Insurance == nil {
			g.Insurance = []string{}
		}
		groups = append(groups, *g)
	}

	order := opts.Order
	if order == OrderDistance && opts.Origin == nil {
		order = OrderNext
	}
	sortGroups(groups, order)
	return groups
}

func merge(g *Group, id string, e provider.Entity) {
	g.Members = append(g.Members, id)
	g.Speciality = union(g.Speciality, e.Speciality)
	g.Insurance = union(g.Insurance, e.Insurance)
	g.ShowTime = g.ShowTime || e.ShowTime
	if g.BookingURL == "" {
		g.BookingURL = e.BookingURL
	}
	if g.Address == "" {
		g.Address = e.Address
		g.City = CityOf(e.Address)
	}
	if g.Location == nil && e.Location != nil {
		loc := *e.Location
		g.Location = &loc
	}
	g.Slots = append(g.Slots, e.Slots...)
}

func union(dst, src []string) []string {
	for _, v := range src {
		v = strings.TrimSpace(v)
		if v == "" || contains(dst, v) {
			continue
		}
		dst = append(dst, v)
	}
	return dst
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// dedupe sorts slots and keeps the first slot of every instant.
func dedupe(slots []provider.Slot) []provider.Slot {
	out := make([]provider.Slot, len(slots))
	copy(out, slots)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })

	kept := out[:0]
	for i, s := range out {
		if i > 0 && s.Start.Equal(kept[len(kept)-1].Start) {
			continue
		}
		kept = append(kept, s)
	}
	return kept
}

func nextAvailable(sorted []provider.Slot, now time.Time) *time.Time {
	for _, s := range sorted {
		if !s.Start.Before(now) {
			t := s.Start
			return &t
		}
	}
	return nil
}

func sortGroups(groups []Group, order Order) {
	byNext := func(a, b Group) bool {
		switch {
		case a.NextAvailable != nil && b.NextAvailable != nil:
			if !a.NextAvailable.Equal(*b.NextAvailable) {
				return a.NextAvailable.Before(*b.NextAvailable)
			}
		case a.NextAvailable != nil:
			return true
		case b.NextAvailable != nil:
			return false
		}
		return a.Key < b.Key
	}

	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		switch order {
		case OrderDistance:
			switch {
			case a.DistanceKM != nil && b.DistanceKM != nil:
				if *a.DistanceKM != *b.DistanceKM {
					return *a.DistanceKM < *b.DistanceKM
				}
			case a.DistanceKM != nil:
				return true
			case b.DistanceKM != nil:
				return false
			}
			return byNext(a, b)
		case OrderName:
			la, lb := strings.ToLower(a.Key), strings.ToLower(b.Key)
			if la != lb {
				return la < lb
			}
			return a.Key < b.Key
		default:
			return byNext(a, b)
		}
	})
}
