package caps

import (
	"sort"
	"strings"
)

// Structure is one member of a capability set: a media name plus a map of
// field constraints. A field absent from the map is unconstrained. Structures
// are immutable by convention; mutation goes through Clone.
type Structure struct {
	Media  string
	Fields map[string]Value
}

// NewStructure builds a structure from a media name and field constraints.
// The fields map is copied so the caller may reuse it.
func NewStructure(media string, fields map[string]Value) Structure {
	s := Structure{Media: media, Fields: make(map[string]Value, len(fields))}
	for name, v := range fields {
		s.Fields[name] = v
	}
	return s
}

// Clone returns an independent copy of the structure.
func (s Structure) Clone() Structure {
	return NewStructure(s.Media, s.Fields)
}

// fieldNames returns the constraint names in sorted order, for deterministic
// iteration.
func (s Structure) fieldNames() []string {
	names := make([]string, 0, len(s.Fields))
	for name := range s.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Intersect returns the structure accepting exactly the tuples accepted by
// both inputs, or ok=false when no tuple satisfies both. Fields constrained
// on only one side carry over unchanged.
func (s Structure) Intersect(o Structure) (Structure, bool) {
	if s.Media != o.Media {
		return Structure{}, false
	}

	out := Structure{Media: s.Media, Fields: make(map[string]Value, len(s.Fields)+len(o.Fields))}
	for name, sv := range s.Fields {
		ov, shared := o.Fields[name]
		if !shared {
			out.Fields[name] = sv
			continue
		}
		merged, ok := sv.Intersect(ov)
		if !ok {
			return Structure{}, false
		}
		out.Fields[name] = merged
	}
	for name, ov := range o.Fields {
		if _, shared := s.Fields[name]; !shared {
			out.Fields[name] = ov
		}
	}
	return out, true
}

// CanIntersect reports whether at least one tuple satisfies both structures.
func (s Structure) CanIntersect(o Structure) bool {
	_, ok := s.Intersect(o)
	return ok
}

// Subsumes reports whether the receiver accepts every tuple accepted by o.
// Every field the receiver constrains must be constrained at least as
// tightly by o.
func (s Structure) Subsumes(o Structure) bool {
	if s.Media != o.Media {
		return false
	}
	for name, sv := range s.Fields {
		ov, ok := o.Fields[name]
		if !ok {
			// o leaves the field open while the receiver constrains it.
			return false
		}
		if !sv.ContainsAll(ov) {
			return false
		}
	}
	return true
}

// Equal reports structural equality: same media, same field set, same
// constraints. Field order is irrelevant.
func (s Structure) Equal(o Structure) bool {
	if s.Media != o.Media || len(s.Fields) != len(o.Fields) {
		return false
	}
	for name, sv := range s.Fields {
		ov, ok := o.Fields[name]
		if !ok || !sv.Equal(ov) {
			return false
		}
	}
	return true
}

// IsFixed reports whether every field admits exactly one member.
func (s Structure) IsFixed() bool {
	for _, v := range s.Fields {
		if !v.IsFixed() {
			return false
		}
	}
	return true
}

// String renders the structure as "media, field=constraint, ..." with fields
// in sorted order.
func (s Structure) String() string {
	var b strings.Builder
	b.WriteString(s.Media)
	for _, name := range s.fieldNames() {
		b.WriteString(", ")
		b.WriteString(name)
		b.WriteString("=")
		b.WriteString(s.Fields[name].String())
	}
	return b.String()
}
