// Package chain implements the chain-search engine: given a catalog of stage
// descriptors and a route (a source and destination capability set), find the
// shortest ordered sequence of stages whose capabilities connect the two.
//
// # How It Works
//
// The search explores chain lengths from zero upward. For each length, a lazy
// generator enumerates every ordered sequence of catalog entries (repetition
// allowed) in catalog order, using a mixed-radix odometer over cursor indices
// so memory stays proportional to the chain length. Each candidate is handed
// to an ordered validator pipeline; a validator either accepts the chain or
// reports the shallowest cursor position known to be responsible for the
// failure. That depth feeds back into the generator's advance, which skips
// every permutation differing only below the failing position in a single
// step. A single incompatibility at position D therefore prunes a factor of
// catalog-size^D candidates without enumerating them.
//
// The first fully valid chain wins: shortest length first, catalog order
// within a length, so results are deterministic for identical catalogs and
// routes.
//
// # Relationship with Other Components
//
//   - catalog: read-only index the cursors point into
//   - caps: intersection tests between adjacent chain positions
//   - planner: drives one search per route once boundaries are negotiated
package chain
