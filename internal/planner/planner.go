package planner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/capchain/capchain/internal/caps"
	"github.com/capchain/capchain/internal/catalog"
	"github.com/capchain/capchain/internal/chain"
	"github.com/capchain/capchain/internal/ctxlog"
	"github.com/capchain/capchain/internal/metrics"
)

// Side distinguishes the two kinds of external boundary.
type Side int

const (
	// SideInput is a boundary where data enters the conversion graph; its
	// negotiated caps become a route's source capability set.
	SideInput Side = iota
	// SideOutput is a boundary where data leaves the conversion graph; its
	// negotiated caps become a route's destination capability set.
	SideOutput
)

// String implements fmt.Stringer for log output.
func (s Side) String() string {
	if s == SideInput {
		return "input"
	}
	return "output"
}

// RouteSpec declares one route between two boundaries.
type RouteSpec struct {
	ID        string
	From      string // input-side boundary id
	To        string // output-side boundary id
	MaxLength int
}

// Plan is the outcome of one search batch. Every declared route appears in
// exactly one of Chains or Unsatisfied.
type Plan struct {
	BatchID     string
	Chains      map[string]chain.Chain
	Unsatisfied map[string]error
}

// boundary is the tracked negotiation state of one external pad.
type boundary struct {
	side  Side
	caps  caps.Caps
	fixed bool
}

// Options configures a Planner. Zero values select the defaults: four
// workers, the default validator pipeline, the passthrough merger and no
// metrics.
type Options struct {
	Workers    int
	Validators []chain.Validator
	Merger     Merger
	Metrics    *metrics.Metrics
}

// Planner owns the boundary state and drives search batches. Boundary and
// route mutations are serialized by an internal mutex; the catalog reference
// is independent and swapped atomically.
type Planner struct {
	cat        atomic.Pointer[catalog.Catalog]
	workers    int
	validators []chain.Validator
	merger     Merger
	metrics    *metrics.Metrics

	mu         sync.Mutex
	boundaries map[string]*boundary
	routes     []RouteSpec
}

// New creates a planner over the given catalog.
func New(cat *catalog.Catalog, opts Options) *Planner {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.Validators == nil {
		opts.Validators = chain.DefaultValidators()
	}
	if opts.Merger == nil {
		opts.Merger = PassthroughMerger{}
	}

	p := &Planner{
		workers:    opts.Workers,
		validators: opts.Validators,
		merger:     opts.Merger,
		metrics:    opts.Metrics,
		boundaries: make(map[string]*boundary),
	}
	p.publish(cat)
	return p
}

// publish records the catalog and updates the gauge.
func (p *Planner) publish(cat *catalog.Catalog) {
	p.cat.Store(cat)
	if p.metrics != nil {
		p.metrics.CatalogEntries.Set(float64(cat.Len()))
	}
}

// SwapCatalog atomically publishes a rebuilt catalog. In-flight searches
// keep the snapshot they started with.
func (p *Planner) SwapCatalog(cat *catalog.Catalog) {
	p.publish(cat)
}

// Catalog returns the currently published catalog.
func (p *Planner) Catalog() *catalog.Catalog {
	return p.cat.Load()
}

// AddBoundary declares an external boundary that must be negotiated before
// any batch runs.
func (p *Planner) AddBoundary(id string, side Side) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.boundaries[id]; exists {
		return fmt.Errorf("boundary %q already declared", id)
	}
	p.boundaries[id] = &boundary{side: side}
	return nil
}

// AddRoute declares a route between an input-side and an output-side
// boundary. MaxLength must be non-negative.
func (p *Planner) AddRoute(spec RouteSpec) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	from, ok := p.boundaries[spec.From]
	if !ok {
		return fmt.Errorf("route %q: unknown boundary %q", spec.ID, spec.From)
	}
	to, ok := p.boundaries[spec.To]
	if !ok {
		return fmt.Errorf("route %q: unknown boundary %q", spec.ID, spec.To)
	}
	if from.side != SideInput || to.side != SideOutput {
		return fmt.Errorf("route %q: must run from an input boundary to an output boundary", spec.ID)
	}
	if spec.MaxLength < 0 {
		return fmt.Errorf("route %q: negative max length", spec.ID)
	}
	for _, r := range p.routes {
		if r.ID == spec.ID {
			return fmt.Errorf("route %q already declared", spec.ID)
		}
	}
	p.routes = append(p.routes, spec)
	return nil
}

// NegotiateBoundary fixes the capability set of one boundary. When this call
// fixes the last outstanding boundary, it runs the search batch and returns
// the resulting plan; otherwise it returns (nil, nil). Renegotiating an
// already-fixed boundary replaces its caps and, with all boundaries fixed,
// immediately triggers a fresh batch.
func (p *Planner) NegotiateBoundary(ctx context.Context, id string, c caps.Caps) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)

	p.mu.Lock()
	b, ok := p.boundaries[id]
	if !ok {
		p.mu.Unlock()
		return nil, fmt.Errorf("unknown boundary %q", id)
	}
	b.caps = c
	b.fixed = true

	remaining := 0
	for _, other := range p.boundaries {
		if !other.fixed {
			remaining++
		}
	}
	if remaining > 0 {
		p.mu.Unlock()
		logger.Debug("Boundary negotiated; batch still waiting.",
			"boundary", id, "caps", c, "unfixed_boundaries", remaining)
		return nil, nil
	}

	// Snapshot the routes and boundary caps so the batch can run unlocked.
	routes := make([]RouteSpec, len(p.routes))
	copy(routes, p.routes)
	sources := make(map[string]caps.Caps, len(p.boundaries))
	for bid, bd := range p.boundaries {
		sources[bid] = bd.caps
	}
	p.mu.Unlock()

	logger.Debug("All boundaries negotiated; running search batch.", "routes", len(routes))
	return p.buildPlan(ctx, routes, sources)
}

// buildPlan runs one search per route on a bounded worker pool. The catalog
// snapshot is taken once so every route in the batch searches the same
// immutable index.
func (p *Planner) buildPlan(ctx context.Context, routes []RouteSpec, boundaryCaps map[string]caps.Caps) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)
	cat := p.cat.Load()

	plan := &Plan{
		BatchID:     uuid.NewString(),
		Chains:      make(map[string]chain.Chain, len(routes)),
		Unsatisfied: make(map[string]error),
	}

	jobs := make(chan RouteSpec)
	var (
		wg     sync.WaitGroup
		planMu sync.Mutex
	)

	workers := p.workers
	if workers > len(routes) {
		workers = len(routes)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			searcher := &chain.Searcher{Catalog: cat, Validators: p.validators, Metrics: p.metrics}
			for spec := range jobs {
				route := chain.Route{
					Source:      boundaryCaps[spec.From],
					Destination: boundaryCaps[spec.To],
				}
				found, err := searcher.FindChain(ctx, route, spec.MaxLength)

				planMu.Lock()
				if err != nil {
					plan.Unsatisfied[spec.ID] = err
				} else {
					plan.Chains[spec.ID] = found
				}
				planMu.Unlock()
			}
		}()
	}

	for _, spec := range routes {
		select {
		case jobs <- spec:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	for id, err := range plan.Unsatisfied {
		var unsat *chain.UnsatisfiableError
		if !errors.As(err, &unsat) {
			return nil, fmt.Errorf("route %q search failed: %w", id, err)
		}
	}

	if p.metrics != nil {
		p.metrics.PlansBuiltTotal.Inc()
	}
	logger.Info("Search batch complete.",
		"batch_id", plan.BatchID, "resolved", len(plan.Chains), "unsatisfied", len(plan.Unsatisfied))
	return p.merger.Merge(ctx, plan), nil
}

// QueryCaps answers a capability query on one boundary: the union of the
// fixed peer caps on the opposite side and this side's catalog aggregate,
// intersected with the optional filter, then normalized. A zero-value filter
// means unfiltered.
func (p *Planner) QueryCaps(id string, filter caps.Caps) (caps.Caps, error) {
	p.mu.Lock()
	b, ok := p.boundaries[id]
	if !ok {
		p.mu.Unlock()
		return caps.Caps{}, fmt.Errorf("unknown boundary %q", id)
	}
	side := b.side

	peers := caps.Empty()
	for _, other := range p.boundaries {
		if other.side != side && other.fixed {
			peers = caps.Merge(peers, other.caps)
		}
	}
	p.mu.Unlock()

	cat := p.cat.Load()
	aggregate := cat.AllInputs()
	if side == SideOutput {
		aggregate = cat.AllOutputs()
	}

	if !filter.IsEmpty() {
		peers = caps.IntersectFirst(filter, peers)
		aggregate = caps.IntersectFirst(filter, aggregate)
	}
	return caps.Normalize(caps.Merge(peers, aggregate)), nil
}
