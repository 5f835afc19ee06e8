// Package scrape runs adapters and hands their results to the store.
//
// # Adapter contract
//
// An Adapter turns one provider configuration into zero or more entities. Factories
// are registered in a Registry under the configuration's dispatch key (scraper_type),
// optionally with aliases. Base.Finish implements the shared error policy: transient and
// parse failures yield an entity with no slots, configuration errors yield no entity.
//
// # Runner
//
// Runner.Run performs one batch:
//  1. Validate rejects configurations with missing or duplicate ids and unknown types.
//  2. Stale eviction removes stored ids that are no longer configured.
//  3. Every adapter scrapes in its own goroutine. Panics are recovered and reported
//     as failures of that provider only.
//  4. Each entity's slots are sorted and capped, then upserted.
//
// There is no batch-wide deadline or rate limit; each adapter bounds its own I/O.
package scrape
