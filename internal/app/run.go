package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/capchain/capchain/internal/ctxlog"
	"github.com/capchain/capchain/internal/planner"
)

// Run executes the main application logic: load the route file, declare its
// boundaries on a planner, negotiate them all, and report the resulting plan.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.MetricsPort > 0 {
		a.startMetricsServer(a.config.MetricsPort)
	}

	requests, err := a.loadRoutes(ctx)
	if err != nil {
		return err
	}
	if len(requests) == 0 {
		a.logger.Warn("No routes found in route file, nothing to plan.")
		return nil
	}

	pl := planner.New(a.catalog, planner.Options{
		Workers: a.config.WorkerCount,
		Metrics: a.metrics,
	})

	// The route file fixes every boundary up front, so negotiation completes
	// on the last boundary and returns the plan directly.
	for _, req := range requests {
		if err := pl.AddBoundary(req.name+".source", planner.SideInput); err != nil {
			return err
		}
		if err := pl.AddBoundary(req.name+".destination", planner.SideOutput); err != nil {
			return err
		}
		if err := pl.AddRoute(planner.RouteSpec{
			ID:        req.name,
			From:      req.name + ".source",
			To:        req.name + ".destination",
			MaxLength: req.maxLength,
		}); err != nil {
			return err
		}
	}

	var plan *planner.Plan
	for _, req := range requests {
		if _, err := pl.NegotiateBoundary(ctx, req.name+".source", req.source); err != nil {
			return err
		}
		plan, err = pl.NegotiateBoundary(ctx, req.name+".destination", req.destination)
		if err != nil {
			return err
		}
	}
	if plan == nil {
		return fmt.Errorf("internal: negotiation completed without producing a plan")
	}

	a.printPlan(plan)
	a.logger.Debug("App.Run method finished.")

	if len(plan.Unsatisfied) > 0 {
		return fmt.Errorf("%d of %d routes have no chain within their length bound",
			len(plan.Unsatisfied), len(requests))
	}
	return nil
}

// printPlan writes the per-route outcome to the application's output writer
// in route-name order.
func (a *App) printPlan(plan *planner.Plan) {
	names := make([]string, 0, len(plan.Chains)+len(plan.Unsatisfied))
	for name := range plan.Chains {
		names = append(names, name)
	}
	for name := range plan.Unsatisfied {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if found, ok := plan.Chains[name]; ok {
			fmt.Fprintf(a.outW, "route %s: %s (length %d)\n", name, found, len(found))
		} else {
			fmt.Fprintf(a.outW, "route %s: no chain found\n", name)
		}
	}
}
