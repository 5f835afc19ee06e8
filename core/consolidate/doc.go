// Package consolidate builds the read-side view of a store snapshot.
//
// Entities sharing a group key (explicit group, else the name before " (") are merged
// into one Group: slots are deduplicated by instant and sorted, the earliest slot not in
// the past becomes NextAvailable, and groups are ordered by next availability, distance
// from an origin, or name. Build is pure, so the same snapshot always yields the same view.
//
// Filter narrows a snapshot by speciality, insurance, city and date range before Build.
package consolidate
