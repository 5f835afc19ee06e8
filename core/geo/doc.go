// Package geo provides distance and geocoding helpers for the read side.
//
// Haversine computes great-circle distances between coordinates. Geocoder resolves a
// user-supplied address to coordinates through Nominatim, restricted to the configured
// country codes.
package geo
