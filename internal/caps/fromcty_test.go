package caps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestFromCty(t *testing.T) {
	t.Run("primitive becomes scalar", func(t *testing.T) {
		v, err := FromCty(cty.StringVal("RGB"))
		require.NoError(t, err)
		assert.True(t, v.Equal(Str("RGB")))
	})

	t.Run("tuple becomes alternatives", func(t *testing.T) {
		v, err := FromCty(cty.TupleVal([]cty.Value{cty.StringVal("RGB"), cty.StringVal("BGR")}))
		require.NoError(t, err)
		assert.True(t, v.Equal(Strings("RGB", "BGR")))
	})

	t.Run("min max object becomes range", func(t *testing.T) {
		v, err := FromCty(cty.ObjectVal(map[string]cty.Value{
			"min": cty.NumberIntVal(1),
			"max": cty.NumberIntVal(1920),
		}))
		require.NoError(t, err)
		assert.True(t, v.Equal(IntRange(1, 1920)))
	})

	t.Run("rejects empty alternatives", func(t *testing.T) {
		_, err := FromCty(cty.EmptyTupleVal)
		assert.ErrorContains(t, err, "must not be empty")
	})

	t.Run("rejects inverted range", func(t *testing.T) {
		_, err := FromCty(cty.ObjectVal(map[string]cty.Value{
			"min": cty.NumberIntVal(10),
			"max": cty.NumberIntVal(1),
		}))
		assert.ErrorContains(t, err, "exceeds max")
	})

	t.Run("rejects object without min max", func(t *testing.T) {
		_, err := FromCty(cty.ObjectVal(map[string]cty.Value{
			"low": cty.NumberIntVal(1),
		}))
		assert.ErrorContains(t, err, "exactly the keys min and max")
	})

	t.Run("rejects null", func(t *testing.T) {
		_, err := FromCty(cty.NullVal(cty.String))
		assert.ErrorContains(t, err, "non-null")
	})
}
