package caps

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// valueKind discriminates the three constraint shapes a field value can take.
type valueKind int

const (
	kindScalar valueKind = iota
	kindAlternatives
	kindRange
)

// Value constrains a single structure field. It is one of:
//   - a scalar: exactly one acceptable cty value,
//   - alternatives: an ordered set of acceptable cty values,
//   - a range: an inclusive numeric interval.
//
// Values are immutable; all operations return new Values.
type Value struct {
	kind valueKind
	one  cty.Value
	alts []cty.Value
	lo   cty.Value
	hi   cty.Value
}

// Scalar returns a Value accepting exactly v.
func Scalar(v cty.Value) Value {
	return Value{kind: kindScalar, one: v}
}

// Alternatives returns a Value accepting any of vs. A single alternative
// collapses to a scalar; an empty list is not a meaningful constraint and
// callers must not construct one.
func Alternatives(vs ...cty.Value) Value {
	if len(vs) == 1 {
		return Scalar(vs[0])
	}
	alts := make([]cty.Value, len(vs))
	copy(alts, vs)
	return Value{kind: kindAlternatives, alts: alts}
}

// Range returns a Value accepting any number in [lo, hi]. Both bounds must be
// cty numbers; a degenerate range where lo equals hi collapses to a scalar.
func Range(lo, hi cty.Value) Value {
	if lo.RawEquals(hi) {
		return Scalar(lo)
	}
	return Value{kind: kindRange, lo: lo, hi: hi}
}

// Str is shorthand for a scalar string constraint.
func Str(s string) Value {
	return Scalar(cty.StringVal(s))
}

// Strings is shorthand for a string alternatives constraint.
func Strings(ss ...string) Value {
	vs := make([]cty.Value, len(ss))
	for i, s := range ss {
		vs[i] = cty.StringVal(s)
	}
	return Alternatives(vs...)
}

// Int is shorthand for a scalar integer constraint.
func Int(n int64) Value {
	return Scalar(cty.NumberIntVal(n))
}

// IntRange is shorthand for an inclusive integer range constraint.
func IntRange(lo, hi int64) Value {
	return Range(cty.NumberIntVal(lo), cty.NumberIntVal(hi))
}

// IsFixed reports whether the value admits exactly one concrete tuple member.
func (v Value) IsFixed() bool {
	return v.kind == kindScalar
}

// expand returns the concrete members of a scalar or alternatives value.
// Ranges are continuous and return ok=false.
func (v Value) expand() ([]cty.Value, bool) {
	switch v.kind {
	case kindScalar:
		return []cty.Value{v.one}, true
	case kindAlternatives:
		return v.alts, true
	default:
		return nil, false
	}
}

// inRange reports whether member lies inside the receiver's interval. Only
// meaningful for kindRange with numeric members.
func (v Value) inRange(member cty.Value) bool {
	if member.Type() != cty.Number {
		return false
	}
	return member.GreaterThanOrEqualTo(v.lo).True() &&
		member.LessThanOrEqualTo(v.hi).True()
}

// contains reports whether the receiver accepts the single concrete member.
func (v Value) contains(member cty.Value) bool {
	switch v.kind {
	case kindScalar:
		return v.one.RawEquals(member)
	case kindAlternatives:
		for _, a := range v.alts {
			if a.RawEquals(member) {
				return true
			}
		}
		return false
	default:
		return v.inRange(member)
	}
}

// Intersect returns the constraint accepting exactly the members accepted by
// both values. ok is false when the intersection is empty.
func (v Value) Intersect(o Value) (Value, bool) {
	// Whenever either side is enumerable, filter its members through the
	// other side. Member order follows the receiver.
	if members, enum := v.expand(); enum {
		var kept []cty.Value
		for _, m := range members {
			if o.contains(m) {
				kept = append(kept, m)
			}
		}
		if len(kept) == 0 {
			return Value{}, false
		}
		return Alternatives(kept...), true
	}
	if members, enum := o.expand(); enum {
		var kept []cty.Value
		for _, m := range members {
			if v.contains(m) {
				kept = append(kept, m)
			}
		}
		if len(kept) == 0 {
			return Value{}, false
		}
		return Alternatives(kept...), true
	}

	// Range against range: clamp the interval.
	lo := v.lo
	if o.lo.GreaterThan(lo).True() {
		lo = o.lo
	}
	hi := v.hi
	if o.hi.LessThan(hi).True() {
		hi = o.hi
	}
	if lo.GreaterThan(hi).True() {
		return Value{}, false
	}
	return Range(lo, hi), true
}

// ContainsAll reports whether every member accepted by o is accepted by the
// receiver, i.e. the receiver is a superset constraint.
func (v Value) ContainsAll(o Value) bool {
	if members, enum := o.expand(); enum {
		for _, m := range members {
			if !v.contains(m) {
				return false
			}
		}
		return true
	}
	// o is a continuous range; only another range can cover it.
	if v.kind != kindRange {
		return false
	}
	return v.lo.LessThanOrEqualTo(o.lo).True() &&
		v.hi.GreaterThanOrEqualTo(o.hi).True()
}

// Equal reports structural equality between constraints.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case kindScalar:
		return v.one.RawEquals(o.one)
	case kindAlternatives:
		if len(v.alts) != len(o.alts) {
			return false
		}
		for i := range v.alts {
			if !v.alts[i].RawEquals(o.alts[i]) {
				return false
			}
		}
		return true
	default:
		return v.lo.RawEquals(o.lo) && v.hi.RawEquals(o.hi)
	}
}

// String renders the constraint for logs and error messages.
func (v Value) String() string {
	switch v.kind {
	case kindScalar:
		return formatCty(v.one)
	case kindAlternatives:
		parts := make([]string, len(v.alts))
		for i, a := range v.alts {
			parts[i] = formatCty(a)
		}
		return "{" + strings.Join(parts, ",") + "}"
	default:
		return fmt.Sprintf("[%s..%s]", formatCty(v.lo), formatCty(v.hi))
	}
}

// formatCty renders a cty value compactly, without type annotations.
func formatCty(v cty.Value) string {
	switch {
	case v.Type() == cty.String:
		return v.AsString()
	case v.Type() == cty.Number:
		return v.AsBigFloat().Text('g', -1)
	case v.Type() == cty.Bool:
		if v.True() {
			return "true"
		}
		return "false"
	default:
		return v.GoString()
	}
}
