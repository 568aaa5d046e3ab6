package registry

import (
	"github.com/capchain/capchain/internal/caps"
	"github.com/capchain/capchain/internal/catalog"
)

// StageDefinition is a manifest-backed stage factory. It implements
// catalog.Factory; roles are resolved at load time and immutable afterwards.
type StageDefinition struct {
	name        string
	description string
	inputs      []catalog.Role
	outputs     []catalog.Role
}

// Type returns the stage type name from the manifest label.
func (d *StageDefinition) Type() string { return d.name }

// Description returns the manifest description, if any.
func (d *StageDefinition) Description() string { return d.description }

// InputRoles implements catalog.Factory.
func (d *StageDefinition) InputRoles() []catalog.Role { return d.inputs }

// OutputRoles implements catalog.Factory.
func (d *StageDefinition) OutputRoles() []catalog.Role { return d.outputs }

// Registry holds the loaded stage definitions for a single application
// instance, in manifest order.
type Registry struct {
	stages []*StageDefinition
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{}
}

// Len returns the number of loaded stage definitions.
func (r *Registry) Len() int {
	return len(r.stages)
}

// Stage returns the definition with the given type name, or nil.
func (r *Registry) Stage(name string) *StageDefinition {
	for _, s := range r.stages {
		if s.name == name {
			return s
		}
	}
	return nil
}

// Factories returns the loaded definitions as the factory listing consumed
// by catalog.Build. The slice is rebuilt per call; the definitions are
// shared.
func (r *Registry) Factories() []catalog.Factory {
	factories := make([]catalog.Factory, len(r.stages))
	for i, s := range r.stages {
		factories[i] = s
	}
	return factories
}

// add appends a definition; used by the loader.
func (r *Registry) add(d *StageDefinition) {
	r.stages = append(r.stages, d)
}

// emptyRole builds a role whose capability set is empty, marking a role the
// manifest claimed but could not resolve.
func emptyRole(name string) catalog.Role {
	return catalog.Role{Name: name, Caps: caps.Empty()}
}
