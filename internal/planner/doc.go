// Package planner is the surface the hosting pipeline runtime talks to. It
// tracks the external boundaries of the conversion graph, waits until every
// boundary has a negotiated capability set, and then runs one chain search
// per declared route against the published catalog.
//
// # Readiness Gating
//
// Boundaries are declared up front and negotiated one at a time as the host
// learns their capability sets. The planner fires a search batch only once
// every declared boundary is fixed, mirroring the rule that graph building
// must wait until every sink has received its capability event. Renegotiating
// any boundary re-arms the gate; the next time all boundaries are fixed a
// fresh batch runs against the current catalog.
//
// # Catalog Publication
//
// The catalog is immutable. Rebuilds produce a new value and SwapCatalog
// publishes it atomically, so in-flight searches keep their snapshot and new
// batches observe the replacement without locking.
//
// # Merging
//
// Combining the chosen chains of overlapping routes into a single shared
// graph is an explicitly open design question upstream. The planner exposes
// it as the Merger extension point; the default PassthroughMerger emits one
// independent chain per route and shares nothing.
package planner
