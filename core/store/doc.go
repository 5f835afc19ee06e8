// Package store persists the normalized entities produced by a scrape run.
//
// The Store interface is a durable id to entity map with three operations: Load the
// snapshot, Upsert one entity as a whole-record replace, and RemoveStale to evict ids
// that left the registry. Load never fails; a missing or corrupt store reads as empty
// and heals on the next write.
//
// # Backends
//
//   - file: one indented JSON object keyed by id, replaced through temp file and rename.
//   - sql: the entities table through GORM (MySQL or SQLite), list fields as JSON text.
//   - s3: one JSON object in the configured bucket.
//
// Every backend serializes writers with a mutex; one run is the only writer.
package store
