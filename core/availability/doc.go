// Package availability turns day-level availability into concrete slot starts.
//
// Some upstreams only report, per calendar day, whether the day is FULL, EMPTY
// or PARTIAL with a list of busy intervals. The Resolver combines that with the
// provider's opening hours (Schedule) and appointment grid (Grid) to produce
// bookable start times.
//
// # Sweep
//
// Sweep walks the opening window from the opening time in quantum steps. A candidate
// [s, s+duration) is emitted only when it fits before closing and does not intersect a
// busy interval. Intervals are half-open, so an appointment ending exactly when a busy
// block starts is not a conflict. When a candidate collides, the cursor jumps to the
// end of the colliding interval, rounded up to the grid.
//
// # EMPTY days
//
// An EMPTY day carries no detail. Adapters declare an EmptyPolicy: Placeholder emits a
// single slot at the opening time, ExactGrid sweeps the whole window, SkipEmpty drops it.
//
// # Usage
//
//	r := availability.Resolver{
//	    Schedule: availability.Schedule{Location: loc, Default: hours},
//	    Grid:     availability.Grid{Duration: 20 * time.Minute, Quantum: 10 * time.Minute},
//	}
//	starts := r.ResolveDays(days)
package availability
