package provider

import (
	"encoding/json"
	"strings"

	"slot-aggregator/core/utils"
)

// Config is one registry record describing an upstream source.
// The generic fields are lifted out of the raw record; everything else stays in Params
// and is interpreted only by the adapter selected through Type.
type Config struct {
	ID         string
	Name       string
	Type       string
	Address    string
	Speciality StringList
	Insurance  []string
	BookingURL string
	// ShowTime is nil when the record does not set show_time.
	ShowTime *bool
	Group    string
	Location *Coordinates
	Params   map[string]any
}

// UnmarshalJSON decodes a registry record, keeping every key in Params.
func (c *Config) UnmarshalJSON(data []byte) error {
	raw := make(map[string]any)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = FromMap(raw)
	return nil
}

// MarshalJSON writes the record back in registry shape.
func (c Config) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Params)+4)
	for k, v := range c.Params {
		out[k] = v
	}
	out["id"] = c.ID
	out["name"] = c.Name
	out["scraper_type"] = c.Type
	return json.Marshal(out)
}

// FromMap builds a Config from an already decoded record.
func FromMap(raw map[string]any) Config {
	c := Config{Params: raw}
	c.ID = strings.TrimSpace(utils.ToString(raw["id"]))
	c.Name = utils.ToString(raw["name"])
	c.Type = utils.ToString(raw["scraper_type"])
	if c.Type == "" {
		c.Type = utils.ToString(raw["type"])
	}
	c.Address = utils.ToString(raw["address"])
	c.Speciality = StringList(utils.ToStrings(raw["speciality"]))
	c.Insurance = utils.ToStrings(raw["insurance"])
	c.BookingURL = utils.ToString(raw["booking_url"])
	c.Group = utils.ToString(raw["group"])
	if v, ok := utils.ToBool(raw["show_time"]); ok {
		c.ShowTime = &v
	}
	lat, latOK := utils.ToFloat(raw["latitude"])
	lon, lonOK := utils.ToFloat(raw["longitude"])
	if latOK && lonOK {
		c.Location = &Coordinates{Lat: lat, Lon: lon}
	}
	return c
}

// String returns a parameter as string, or def when absent or empty.
func (c Config) String(key, def string) string {
	if s := utils.ToString(c.Params[key]); s != "" {
		return s
	}
	return def
}

// Int returns a parameter as int, or def when absent or not numeric.
func (c Config) Int(key string, def int) int {
	if v, ok := utils.ToInt(c.Params[key]); ok {
		return v
	}
	return def
}

// Bool returns a parameter as bool, or def when absent.
func (c Config) Bool(key string, def bool) bool {
	if v, ok := utils.ToBool(c.Params[key]); ok {
		return v
	}
	return def
}

// RequireString returns a mandatory parameter or an ErrConfig error.
func (c Config) RequireString(key string) (string, error) {
	s := c.String(key, "")
	if s == "" {
		return "", Configf("provider %q: missing required field %q", c.ID, key)
	}
	return s, nil
}

// NewEntity builds the entity for this record with the given slots.
// Generic fields are copied; the defaults apply where the record is silent.
func (c Config) NewEntity(slots []Slot) Entity {
	showTime := true
	if c.ShowTime != nil {
		showTime = *c.ShowTime
	}
	insurance := c.Insurance
	if insurance == nil {
		insurance = []string{}
	}
	if slots == nil {
		slots = []Slot{}
	}
	return Entity{
		ID:         c.ID,
		Name:       c.Name,
		Address:    c.Address,
		Speciality: c.Speciality,
		Insurance:  insurance,
		Slots:      slots,
		BookingURL: c.BookingURL,
		ShowTime:   showTime,
		Group:      c.Group,
		Location:   c.Location,
	}
}
