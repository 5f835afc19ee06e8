package store

// Config selects and configures the persistence backend.
type Config struct {
	// Driver is the backend (file, sql, s3).
	Driver string `mapstructure:"driver" default:"file"`
	// Path is the JSON file of the file backend.
	Path string `mapstructure:"path" default:"data/appointments.json"`
	// Object is the object name of the s3 backend.
	Object string `mapstructure:"object" default:"appointments.json"`
}
