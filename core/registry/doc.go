// Package registry loads provider configurations.
//
// A registry is a set of JSON files, each holding an array of provider records.
// All files in the configured directory are concatenated in name order; when enabled,
// objects under a bucket prefix are appended the same way. A file that is not an array
// is skipped with a warning. Failing to read the directory itself aborts the run.
package registry
