// Package provider defines the normalized data model shared by every part of the pipeline.
//
// # Records
//
//   - Config: one registry record. Generic fields (id, name, scraper_type, address,
//     speciality, insurance, booking_url, show_time, group, latitude/longitude) are lifted
//     into typed fields; the full record stays available through Params and the typed
//     accessors String, Int, Bool and RequireString.
//   - Entity: the per-provider record persisted by the store. Its slot list is always the
//     snapshot of the latest scrape.
//   - Slot: one bookable start time, always persisted as an RFC 3339 string. Objects of
//     the form {"start": ...} written by older stores are still read.
//
// # Timestamps
//
// Upstreams send UTC ISO strings, naive local strings and epoch milliseconds. ParseTimestamp
// accepts all three and FormatSlot renders the canonical form, so every entity carries
// timezone-explicit slots.
//
// # Errors
//
// ErrTransient, ErrParse, ErrConfig and ErrStoreCorrupt classify failures across packages.
package provider
