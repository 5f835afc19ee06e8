package registry

// Config locates the provider registry.
type Config struct {
	// Dir holds the *.json registry files.
	Dir string `mapstructure:"dir" default:"registry"`
	// BucketEnabled also reads registry files from the storage bucket.
	BucketEnabled bool `mapstructure:"bucket_enabled" default:"false"`
	// Prefix is the object prefix of registry files in the bucket.
	Prefix string `mapstructure:"prefix" default:"registry/"`
}
