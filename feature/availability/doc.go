// Package availability implements the HTTP view of the aggregated slots.
//
// It reads the entity store written by the scrape runs and serves it either raw or
// consolidated into groups (see core/consolidate). Store snapshots are cached for a
// short TTL; concurrent requests on an expired cache share one load.
//
// # Components
//
//   - Service: Loads and caches snapshots, builds views and triggers refreshes.
//   - Handler: Exposes the HTTP endpoints.
//   - Loader: Registers the feature with the application.
//
// # HTTP Endpoints
//
//   - GET /health : Liveness and provider count.
//   - GET /availability : Consolidated groups. Filters: speciality, insurance, city, days.
//     Ordering: sort=next|distance|name with lat/lon or near=<address>.
//   - GET /availability/raw : Stored entities ordered by id.
//   - POST /availability/refresh : Runs a batch scrape and returns its report.
package availability
