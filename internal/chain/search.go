package chain

import (
	"context"
	"time"

	"github.com/capchain/capchain/internal/catalog"
	"github.com/capchain/capchain/internal/ctxlog"
	"github.com/capchain/capchain/internal/metrics"
)

// Searcher runs route searches against one immutable catalog. The validator
// pipeline and metrics are injected at construction; a Searcher holds no
// per-search state, so a single instance may serve concurrent searches.
type Searcher struct {
	Catalog    *catalog.Catalog
	Validators []Validator
	Metrics    *metrics.Metrics
}

// NewSearcher returns a searcher over cat with the default validator
// pipeline.
func NewSearcher(cat *catalog.Catalog) *Searcher {
	return &Searcher{Catalog: cat, Validators: DefaultValidators()}
}

// FindChain returns the first valid chain of length at most maxLength that
// bridges the route, or an *UnsatisfiableError if none exists within the
// bound. Shorter chains win; within a length, the first candidate in catalog
// order wins, so the result is deterministic for identical catalogs and
// routes.
//
// Length zero is a legal outcome meaning the source and destination
// capabilities already intersect directly. maxLength is the only built-in
// termination control; pathological catalogs can still make the search
// combinatorially large, so responsiveness-sensitive callers should bound
// FindChain externally.
func (s *Searcher) FindChain(ctx context.Context, route Route, maxLength int) (Chain, error) {
	logger := ctxlog.FromContext(ctx)
	started := time.Now()
	visited := 0

	defer func() {
		if s.Metrics != nil {
			s.Metrics.CandidatesVisited.Add(float64(visited))
			s.Metrics.SearchDuration.Observe(time.Since(started).Seconds())
		}
	}()

	for length := 0; length <= maxLength; length++ {
		gen := NewGenerator(s.Catalog, length)
		for !gen.Exhausted() {
			candidate := gen.Current()
			visited++

			depth := s.validate(route, candidate)
			if depth == Valid {
				found := make(Chain, len(candidate))
				copy(found, candidate)
				logger.Debug("Route search found a chain.",
					"chain", found, "length", length, "candidates_visited", visited)
				if s.Metrics != nil {
					s.Metrics.SearchesTotal.WithLabelValues(metrics.OutcomeFound).Inc()
				}
				return found, nil
			}
			gen.Advance(depth)
		}
	}

	logger.Debug("Route search exhausted the length bound.",
		"max_length", maxLength, "candidates_visited", visited,
		"source", route.Source, "destination", route.Destination)
	if s.Metrics != nil {
		s.Metrics.SearchesTotal.WithLabelValues(metrics.OutcomeUnsatisfiable).Inc()
	}
	return nil, &UnsatisfiableError{Route: route, MaxLength: maxLength}
}

// validate runs the pipeline in order; the first invalid report wins.
func (s *Searcher) validate(route Route, candidate Chain) int {
	for _, v := range s.Validators {
		if depth := v.Validate(route, candidate); depth != Valid {
			return depth
		}
	}
	return Valid
}
