package app

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/capchain/capchain/internal/caps"
	"github.com/capchain/capchain/internal/ctxlog"
	"github.com/capchain/capchain/internal/schema"
)

// routeRequest is one decoded route block, ready for the planner.
type routeRequest struct {
	name        string
	source      caps.Caps
	destination caps.Caps
	maxLength   int
}

// loadRoutes parses the route file into planner-ready requests. Unlike
// stage-manifest roles, route caps must evaluate: a route we cannot express
// is a user error, not something to skip silently.
func (a *App) loadRoutes(ctx context.Context) ([]routeRequest, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading route file...", "path", a.config.RoutePath)

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(a.config.RoutePath)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing route file %s: %w", a.config.RoutePath, diags)
	}

	var routeFile schema.RouteFile
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &routeFile); diags.HasErrors() {
		return nil, fmt.Errorf("decoding route file %s: %w", a.config.RoutePath, diags)
	}

	requests := make([]routeRequest, 0, len(routeFile.Routes))
	for _, block := range routeFile.Routes {
		if block.Source == nil || block.Destination == nil {
			return nil, fmt.Errorf("route %q: source and destination blocks are required", block.Name)
		}

		source, err := block.Source.Caps()
		if err != nil {
			return nil, fmt.Errorf("route %q source: %w", block.Name, err)
		}
		destination, err := block.Destination.Caps()
		if err != nil {
			return nil, fmt.Errorf("route %q destination: %w", block.Name, err)
		}

		maxLength := a.config.MaxLength
		if block.MaxLength != nil {
			if *block.MaxLength < 0 {
				return nil, fmt.Errorf("route %q: negative max_length", block.Name)
			}
			maxLength = *block.MaxLength
		}

		requests = append(requests, routeRequest{
			name:        block.Name,
			source:      source,
			destination: destination,
			maxLength:   maxLength,
		})
	}

	logger.Debug("Route file loaded.", "routes", len(requests))
	return requests, nil
}
