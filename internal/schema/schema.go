// Package schema defines the HCL shapes shared by the stage-manifest loader
// and the route-file loader, plus the decoding of free-form capability
// attributes into caps values.
package schema

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"

	"github.com/capchain/capchain/internal/caps"
)

// CapsBlock is the body shared by `input`, `output`, `source` and
// `destination` blocks: a required media name plus free-form constraint
// attributes.
type CapsBlock struct {
	Media  string   `hcl:"media"`
	Remain hcl.Body `hcl:",remain"`
}

// StageManifest represents one `stage` block from a manifest file. A stage
// declares its capability roles; the catalog decides eligibility.
type StageManifest struct {
	Type        string       `hcl:"type,label"`
	Description string       `hcl:"description,optional"`
	Inputs      []*CapsBlock `hcl:"input,block"`
	Outputs     []*CapsBlock `hcl:"output,block"`
}

// ManifestFile represents the top-level structure of a stage manifest file.
type ManifestFile struct {
	Stages []*StageManifest `hcl:"stage,block"`
}

// RouteBlock represents one `route` block from a route file: a named
// source/destination capability pair with an optional per-route length bound.
type RouteBlock struct {
	Name        string     `hcl:"name,label"`
	MaxLength   *int       `hcl:"max_length,optional"`
	Source      *CapsBlock `hcl:"source,block"`
	Destination *CapsBlock `hcl:"destination,block"`
}

// RouteFile represents the top-level structure of a route file.
type RouteFile struct {
	Routes []*RouteBlock `hcl:"route,block"`
}

// Caps evaluates the block's free-form attributes into a single-structure
// capability set. Attributes decode per caps.FromCty: primitives are
// scalars, lists are alternatives, min/max objects are ranges.
func (b *CapsBlock) Caps() (caps.Caps, error) {
	attrs, diags := b.Remain.JustAttributes()
	if diags.HasErrors() {
		return caps.Caps{}, fmt.Errorf("reading capability attributes: %w", diags)
	}

	// Sort for deterministic diagnostics; attrs is a map.
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make(map[string]caps.Value, len(attrs))
	for _, name := range names {
		v, diags := attrs[name].Expr.Value(nil)
		if diags.HasErrors() {
			return caps.Caps{}, fmt.Errorf("evaluating attribute %q: %w", name, diags)
		}
		fv, err := caps.FromCty(v)
		if err != nil {
			return caps.Caps{}, fmt.Errorf("attribute %q: %w", name, err)
		}
		fields[name] = fv
	}
	return caps.Simple(b.Media, fields), nil
}
