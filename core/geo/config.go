package geo

// Config holds configuration for address lookups.
type Config struct {
	// URL is a Nominatim-compatible search endpoint. Empty uses the public instance.
	URL string `mapstructure:"url" default:""`
	// CountryCodes restricts matches, comma separated ISO 3166-1 alpha-2 codes.
	CountryCodes string `mapstructure:"country_codes" default:"at"`
}
