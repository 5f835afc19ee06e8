package geo

import (
	"context"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"slot-aggregator/core/httpx"
	"slot-aggregator/core/provider"
)

const (
	earthRadiusKM = 6371.0

	// NominatimURL is the public OpenStreetMap search endpoint.
	NominatimURL = "https://nominatim.openstreetmap.org/search"
)

// Haversine returns the great-circle distance between a and b in kilometres.
func Haversine(a, b provider.Coordinates) float64 {
	lat1, lon1 := radians(a.Lat), radians(a.Lon)
	lat2, lon2 := radians(b.Lat), radians(b.Lon)

	dlat := lat2 - lat1
	dlon := lon2 - lon1
	h := math.Sin(dlat/2)*math.Sin(dlat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	return 2 * earthRadiusKM * math.Asin(math.Sqrt(h))
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

// Geocoder resolves free-form addresses through a Nominatim-compatible API.
type Geocoder struct {
	http         httpx.Doer
	baseURL      string
	countryCodes string
	userAgent    string
}

// NewGeocoder creates a geocoder. An empty baseURL uses the public Nominatim instance.
func NewGeocoder(doer httpx.Doer, baseURL, countryCodes, userAgent string) *Geocoder {
	if baseURL == "" {
		baseURL = NominatimURL
	}
	return &Geocoder{http: doer, baseURL: baseURL, countryCodes: countryCodes, userAgent: userAgent}
}

type place struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode returns the best match for address, or nil when nothing matches.
func (g *Geocoder) Geocode(ctx context.Context, address string) (*provider.Coordinates, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, nil
	}

	q := url.Values{
		"q":      {address},
		"format": {"json"},
		"limit":  {"1"},
	}
	if g.countryCodes != "" {
		q.Set("countrycodes", g.countryCodes)
	}
	req := httpx.Request{URL: g.baseURL, Query: q}
	if g.userAgent != "" {
		req.Header = http.Header{"User-Agent": {g.userAgent}}
	}

	resp, err := g.http.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	var places []place
	if err := resp.DecodeJSON(&places); err != nil {
		return nil, err
	}
	if len(places) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return nil, provider.Parsef("latitude %q", places[0].Lat)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return nil, provider.Parsef("longitude %q", places[0].Lon)
	}
	return &provider.Coordinates{Lat: lat, Lon: lon}, nil
}
