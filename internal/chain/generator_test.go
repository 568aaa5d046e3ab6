package chain

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capchain/capchain/internal/caps"
	"github.com/capchain/capchain/internal/catalog"
)

// testCatalog builds a catalog of n passthrough stages named s0..s(n-1).
func testCatalog(t *testing.T, n int) *catalog.Catalog {
	t.Helper()
	factories := make([]catalog.Factory, n)
	for i := range factories {
		factories[i] = &catalog.StaticFactory{
			Name:   fmt.Sprintf("s%d", i),
			Input:  caps.Simple("video/x-raw", nil),
			Output: caps.Simple("video/x-raw", nil),
		}
	}
	return catalog.Build(context.Background(), factories)
}

func chainKey(c Chain) string {
	key := ""
	for _, d := range c {
		key += d.Factory.Type() + "."
	}
	return key
}

func TestGeneratorFullEnumeration(t *testing.T) {
	// Advancing always at position 0, the fastest digit, degenerates to
	// plain enumeration: every one of the K^N permutations exactly once.
	const k, n = 3, 3
	cat := testCatalog(t, k)
	gen := NewGenerator(cat, n)

	seen := make(map[string]int)
	count := 0
	for !gen.Exhausted() {
		seen[chainKey(gen.Current())]++
		count++
		gen.Advance(0)
	}

	assert.Equal(t, 27, count)
	assert.Len(t, seen, 27)
	for key, visits := range seen {
		assert.Equal(t, 1, visits, "candidate %s visited more than once", key)
	}
}

func TestGeneratorStartsAtFirstEntry(t *testing.T) {
	cat := testCatalog(t, 3)
	gen := NewGenerator(cat, 2)

	require.False(t, gen.Exhausted())
	current := gen.Current()
	assert.Equal(t, "s0", current[0].Factory.Type())
	assert.Equal(t, "s0", current[1].Factory.Type())
}

func TestGeneratorAdvanceCarries(t *testing.T) {
	cat := testCatalog(t, 2)
	gen := NewGenerator(cat, 2)

	// s0,s0 -> s1,s0 -> s0,s1 -> s1,s1 -> exhausted.
	require.True(t, gen.Advance(0))
	assert.Equal(t, "s1", gen.Current()[0].Factory.Type())
	assert.Equal(t, "s0", gen.Current()[1].Factory.Type())

	require.True(t, gen.Advance(0))
	assert.Equal(t, "s0", gen.Current()[0].Factory.Type())
	assert.Equal(t, "s1", gen.Current()[1].Factory.Type())

	require.True(t, gen.Advance(0))
	assert.Equal(t, "s1", gen.Current()[0].Factory.Type())
	assert.Equal(t, "s1", gen.Current()[1].Factory.Type())

	assert.False(t, gen.Advance(0))
	assert.True(t, gen.Exhausted())
}

func TestGeneratorPruneResetsLowerPositions(t *testing.T) {
	cat := testCatalog(t, 3)
	gen := NewGenerator(cat, 3)

	// Walk position 0 away from the start first.
	require.True(t, gen.Advance(0))
	require.True(t, gen.Advance(0))
	assert.Equal(t, "s2", gen.Current()[0].Factory.Type())

	// Pruning at depth 2 must advance position 2 and reset positions 0 and 1.
	require.True(t, gen.Advance(2))
	current := gen.Current()
	assert.Equal(t, "s0", current[0].Factory.Type())
	assert.Equal(t, "s0", current[1].Factory.Type())
	assert.Equal(t, "s1", current[2].Factory.Type())
}

func TestGeneratorPruningSkipCount(t *testing.T) {
	// Pruning at depth D skips every permutation differing only below D:
	// with K=4, N=3, always pruning at depth 1 visits K^2 candidates
	// instead of K^3.
	const k, n = 4, 3
	cat := testCatalog(t, k)
	gen := NewGenerator(cat, n)

	count := 0
	for !gen.Exhausted() {
		count++
		gen.Advance(1)
	}
	assert.Equal(t, 16, count)
}

func TestGeneratorAdvanceAtLastPositionVisitsSlowestDigitOnly(t *testing.T) {
	// The last position is the slowest digit: advancing there on every
	// candidate leaves all lower cursors at entry 0 and walks just the K
	// values of the final position.
	const k, n = 3, 3
	cat := testCatalog(t, k)
	gen := NewGenerator(cat, n)

	var keys []string
	for !gen.Exhausted() {
		keys = append(keys, chainKey(gen.Current()))
		gen.Advance(n - 1)
	}

	assert.Equal(t, []string{"s0.s0.s0.", "s0.s0.s1.", "s0.s0.s2."}, keys)
}

func TestGeneratorZeroLength(t *testing.T) {
	cat := testCatalog(t, 3)
	gen := NewGenerator(cat, 0)

	// Exactly one candidate: the empty chain.
	require.False(t, gen.Exhausted())
	assert.Empty(t, gen.Current())
	assert.False(t, gen.Advance(0))
	assert.True(t, gen.Exhausted())
}

func TestGeneratorEmptyCatalog(t *testing.T) {
	cat := catalog.Build(context.Background(), nil)

	t.Run("non-zero length is exhausted immediately", func(t *testing.T) {
		gen := NewGenerator(cat, 2)
		assert.True(t, gen.Exhausted())
	})

	t.Run("zero length still yields the empty chain", func(t *testing.T) {
		gen := NewGenerator(cat, 0)
		assert.False(t, gen.Exhausted())
	})
}
