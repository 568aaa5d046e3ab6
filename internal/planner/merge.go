package planner

import "context"

// Merger combines the per-route chains of a completed batch into the final
// plan. Implementations may rewrite the plan to share stages between routes;
// the core ships only the non-sharing default.
type Merger interface {
	Merge(ctx context.Context, plan *Plan) *Plan
}

// PassthroughMerger returns the plan unchanged: every route keeps its own
// independent chain.
type PassthroughMerger struct{}

// Merge implements Merger.
func (PassthroughMerger) Merge(_ context.Context, plan *Plan) *Plan {
	return plan
}
