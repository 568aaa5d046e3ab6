// Package catalog indexes the available stage factories into the read-only
// structure the chain search runs against.
//
// A factory participates in linear chain search only if it declares exactly
// one input role and one output role; anything else cannot sit in the middle
// of a chain and is excluded at build time. The built Catalog is immutable:
// rebuilds construct a new value and the owner publishes it atomically, so
// concurrent searches never observe a half-built index.
package catalog

import (
	"context"

	"github.com/capchain/capchain/internal/caps"
	"github.com/capchain/capchain/internal/ctxlog"
)

// Role is one declared capability role of a factory.
type Role struct {
	Name string
	Caps caps.Caps
}

// Factory describes an installable stage: a named type with declared input
// and output capability roles.
type Factory interface {
	Type() string
	InputRoles() []Role
	OutputRoles() []Role
}

// StaticFactory is a Factory with fixed roles, for programmatic catalogs and
// tests. Manifest-backed factories live in the registry package.
type StaticFactory struct {
	Name   string
	Input  caps.Caps
	Output caps.Caps
}

func (f *StaticFactory) Type() string        { return f.Name }
func (f *StaticFactory) InputRoles() []Role  { return []Role{{Name: "input", Caps: f.Input}} }
func (f *StaticFactory) OutputRoles() []Role { return []Role{{Name: "output", Caps: f.Output}} }

// Descriptor is one admitted catalog entry: the factory plus its resolved
// input and output capability sets. Immutable after Build.
type Descriptor struct {
	Factory    Factory
	InputCaps  caps.Caps
	OutputCaps caps.Caps
}

// Catalog is the ordered, immutable index of admitted descriptors plus the
// aggregate capability unions across all entries.
type Catalog struct {
	entries    []*Descriptor
	allInputs  caps.Caps
	allOutputs caps.Caps
}

// Build indexes the given factories, in order. Factories without exactly one
// input and one output role are silently excluded; factories claiming a role
// but exposing an empty capability set are malformed and skipped with a
// diagnostic. An empty result is valid: searches simply find no chains of
// length one or more.
func Build(ctx context.Context, factories []Factory) *Catalog {
	logger := ctxlog.FromContext(ctx)

	cat := &Catalog{}
	for _, factory := range factories {
		inputs, outputs := factory.InputRoles(), factory.OutputRoles()
		if len(inputs) != 1 || len(outputs) != 1 {
			logger.Debug("Excluding factory from catalog: needs exactly one input and one output role.",
				"factory", factory.Type(), "input_roles", len(inputs), "output_roles", len(outputs))
			continue
		}
		if inputs[0].Caps.IsEmpty() || outputs[0].Caps.IsEmpty() {
			logger.Warn("Skipping malformed factory: role declared without an extractable capability set.",
				"factory", factory.Type())
			continue
		}

		cat.entries = append(cat.entries, &Descriptor{
			Factory:    factory,
			InputCaps:  inputs[0].Caps,
			OutputCaps: outputs[0].Caps,
		})
		cat.allInputs = caps.Merge(cat.allInputs, inputs[0].Caps)
		cat.allOutputs = caps.Merge(cat.allOutputs, outputs[0].Caps)
	}

	if len(cat.entries) == 0 {
		logger.Warn("Catalog is empty: no factory qualified during indexing.")
	} else {
		logger.Debug("Catalog built.", "entries", len(cat.entries))
	}
	return cat
}

// Len returns the number of admitted descriptors.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entry returns the i-th descriptor in catalog order.
func (c *Catalog) Entry(i int) *Descriptor {
	return c.entries[i]
}

// AllInputs returns the union of every entry's input capability set.
func (c *Catalog) AllInputs() caps.Caps {
	return c.allInputs
}

// AllOutputs returns the union of every entry's output capability set.
func (c *Catalog) AllOutputs() caps.Caps {
	return c.allOutputs
}
