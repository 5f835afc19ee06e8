// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind a small Client interface, which supports both
// AWS S3 and self-hosted MinIO instances and can be mocked in tests (see core/storage/mocks).
//
// # Consumers
//
//   - The s3 store backend keeps the entity snapshot as one JSON object.
//   - The registry loader optionally reads provider files from a bucket prefix.
//
// # Helpers
//
//   - EnsureBucket: creates the bucket when missing.
//   - ReadObject: downloads an object into memory.
//   - IsNotFound: detects a missing object.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	data, err := storage.ReadObject(ctx, client, cfg.Storage.Bucket, "appointments.json")
package storage
