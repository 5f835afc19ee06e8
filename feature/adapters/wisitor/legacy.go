package wisitor

import (
	"slot-aggregator/core/provider"
	"slot-aggregator/core/scrape"
)

// Legacy per-practice keys. Each one fills in the practice's known parameters
// before handing the record to New, so a bare record keeps working.
const (
	TypeAichinger = "custom_aichinger"
	TypePalasser  = "custom_palasser"
)

// preset holds the defaults a legacy key applies under the record.
type preset struct {
	params     map[string]any
	address    string
	speciality string
	insurance  []string
}

var aichinger = preset{
	params: map[string]any{
		"token":           "ITOR10001400001000070012300200",
		"ordination":      "123",
		"ordination_list": "200",
		"reason":          "399",
		"days":            120,
		"entries":         string(EntriesFree),
		"empty_policy":    "skip",
	},
	address:    "Klagenfurt",
	speciality: "Hautarzt",
	insurance:  []string{"Alle Kassen"},
}

// The Palasser calendar lists bookings, and an open day without detail
// still gets its opening-time placeholder. api_url stays mandatory.
var palasser = preset{
	params: map[string]any{
		"entries":      string(EntriesBusy),
		"empty_policy": "placeholder",
	},
	address:    "Lienz",
	speciality: "Internist",
	insurance:  []string{"Wahlarzt"},
}

// NewAichinger builds the adapter for custom_aichinger records.
func NewAichinger(cfg provider.Config, opts scrape.Options) (scrape.Adapter, error) {
	return New(aichinger.apply(cfg), opts)
}

// NewPalasser builds the adapter for custom_palasser records.
func NewPalasser(cfg provider.Config, opts scrape.Options) (scrape.Adapter, error) {
	return New(palasser.apply(cfg), opts)
}

// apply returns a copy of cfg with the preset filled in wherever the record is silent.
func (p preset) apply(cfg provider.Config) provider.Config {
	params := make(map[string]any, len(cfg.Params)+len(p.params))
	for k, v := range p.params {
		params[k] = v
	}
	for k, v := range cfg.Params {
		params[k] = v
	}
	cfg.Params = params

	if cfg.Address == "" {
		cfg.Address = p.address
	}
	if len(cfg.Speciality) == 0 && p.speciality != "" {
		cfg.Speciality = provider.StringList{p.speciality}
	}
	if len(cfg.Insurance) == 0 {
		cfg.Insurance = append([]string(nil), p.insurance...)
	}
	return cfg
}
