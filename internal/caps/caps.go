// Package caps models capability sets: declarative constraints over a
// structured attribute space. A Caps value is an ordered list of structures,
// each naming a media type and constraining its fields. The package provides
// the three operations the chain planner needs: intersection testing between
// adjacent stages, union for catalog aggregation, and filtered intersection
// at the negotiation boundary.
//
// Caps values are immutable by convention. They may be freely shared across
// concurrent searches; any mutation must go through Clone first. Field values
// build on go-cty so manifest attributes decode into constraints without an
// intermediate representation.
package caps

import "strings"

// Caps is a capability set. The zero value is the empty set, which accepts
// nothing and intersects nothing.
type Caps struct {
	structures []Structure
}

// Empty returns the empty capability set.
func Empty() Caps {
	return Caps{}
}

// New builds a capability set from the given structures, in order.
func New(structures ...Structure) Caps {
	out := make([]Structure, len(structures))
	copy(out, structures)
	return Caps{structures: out}
}

// Simple builds a single-structure capability set. The fields map is copied.
func Simple(media string, fields map[string]Value) Caps {
	return New(NewStructure(media, fields))
}

// IsEmpty reports whether the set accepts nothing.
func (c Caps) IsEmpty() bool {
	return len(c.structures) == 0
}

// Len returns the number of structures in the set.
func (c Caps) Len() int {
	return len(c.structures)
}

// Structure returns the i-th structure. The returned value shares the
// underlying field map and must not be mutated.
func (c Caps) Structure(i int) Structure {
	return c.structures[i]
}

// Clone returns a deep copy, the copy-on-write moment for shared sets.
func (c Caps) Clone() Caps {
	out := make([]Structure, len(c.structures))
	for i, s := range c.structures {
		out[i] = s.Clone()
	}
	return Caps{structures: out}
}

// CanIntersect reports whether at least one concrete tuple satisfies both
// sets. Commutative, and reflexive for non-empty sets; the empty set
// intersects nothing.
func (c Caps) CanIntersect(o Caps) bool {
	for _, s := range c.structures {
		for _, os := range o.structures {
			if s.CanIntersect(os) {
				return true
			}
		}
	}
	return false
}

// Merge returns the union of a and b: the smallest set accepting anything
// accepted by either input. Structures of b already subsumed by a structure
// of a are not duplicated, and vice versa for the structures a contributes.
func Merge(a, b Caps) Caps {
	var out []Structure
	append_ := func(s Structure) {
		for _, have := range out {
			if have.Subsumes(s) {
				return
			}
		}
		out = append(out, s)
	}
	for _, s := range a.structures {
		append_(s)
	}
	for _, s := range b.structures {
		append_(s)
	}
	return Caps{structures: out}
}

// IntersectFirst returns the full intersection of filter and other, keeping
// the iteration order of the filter side. Used only at the negotiation
// boundary; the search loop relies on CanIntersect alone.
func IntersectFirst(filter, other Caps) Caps {
	var out []Structure
	for _, fs := range filter.structures {
		for _, os := range other.structures {
			if merged, ok := fs.Intersect(os); ok {
				out = append(out, merged)
			}
		}
	}
	return Caps{structures: out}
}

// Normalize expands every alternatives constraint into separate structures,
// so each resulting structure holds only scalars and ranges. Expansion order
// is deterministic: structures in set order, fields in sorted name order.
func Normalize(c Caps) Caps {
	var out []Structure
	for _, s := range c.structures {
		out = appendNormalized(out, s)
	}
	return Caps{structures: out}
}

// appendNormalized expands the first alternatives field it finds and recurses
// until the structure is free of alternatives.
func appendNormalized(out []Structure, s Structure) []Structure {
	for _, name := range s.fieldNames() {
		v := s.Fields[name]
		members, enum := v.expand()
		if !enum || len(members) <= 1 {
			continue
		}
		for _, m := range members {
			variant := s.Clone()
			variant.Fields[name] = Scalar(m)
			out = appendNormalized(out, variant)
		}
		return out
	}
	return append(out, s)
}

// Equal reports structural equality: the same structures in the same order.
func (c Caps) Equal(o Caps) bool {
	if len(c.structures) != len(o.structures) {
		return false
	}
	for i := range c.structures {
		if !c.structures[i].Equal(o.structures[i]) {
			return false
		}
	}
	return true
}

// IsFixed reports whether the set admits exactly one concrete tuple.
func (c Caps) IsFixed() bool {
	return len(c.structures) == 1 && c.structures[0].IsFixed()
}

// String renders the set for logs; structures are separated by "; ".
func (c Caps) String() string {
	if c.IsEmpty() {
		return "EMPTY"
	}
	parts := make([]string, len(c.structures))
	for i, s := range c.structures {
		parts[i] = s.String()
	}
	return strings.Join(parts, "; ")
}
