package caps

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// FromCty converts a decoded manifest attribute into a field constraint.
// The mapping follows the manifest conventions:
//   - a primitive (string, number, bool) becomes a scalar,
//   - a tuple or list becomes an alternatives constraint,
//   - an object with exactly the keys "min" and "max" becomes a range.
func FromCty(v cty.Value) (Value, error) {
	if v.IsNull() || !v.IsKnown() {
		return Value{}, fmt.Errorf("attribute value must be known and non-null")
	}

	t := v.Type()
	switch {
	case t.IsPrimitiveType():
		return Scalar(v), nil

	case t.IsTupleType() || t.IsListType() || t.IsSetType():
		members := v.AsValueSlice()
		if len(members) == 0 {
			return Value{}, fmt.Errorf("alternatives list must not be empty")
		}
		for _, m := range members {
			if !m.Type().IsPrimitiveType() {
				return Value{}, fmt.Errorf("alternatives must be primitive values, got %s", m.Type().FriendlyName())
			}
		}
		return Alternatives(members...), nil

	case t.IsObjectType() || t.IsMapType():
		members := v.AsValueMap()
		lo, hasLo := members["min"]
		hi, hasHi := members["max"]
		if !hasLo || !hasHi || len(members) != 2 {
			return Value{}, fmt.Errorf("range object must have exactly the keys min and max")
		}
		if lo.Type() != cty.Number || hi.Type() != cty.Number {
			return Value{}, fmt.Errorf("range bounds must be numbers")
		}
		if lo.GreaterThan(hi).True() {
			return Value{}, fmt.Errorf("range min %s exceeds max %s", formatCty(lo), formatCty(hi))
		}
		return Range(lo, hi), nil

	default:
		return Value{}, fmt.Errorf("unsupported attribute type %s", t.FriendlyName())
	}
}
