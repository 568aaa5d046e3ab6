package chain

import "github.com/capchain/capchain/internal/catalog"

// Generator lazily enumerates every ordered sequence of catalog entries of a
// fixed length, in catalog order, with repetition allowed. It is an odometer
// over cursor indices: memory is O(length) regardless of catalog size.
//
// A generator starts Ready on the first candidate (all cursors at entry zero)
// and moves through candidates via Advance until it reaches the terminal
// Exhausted state. Generators are single-search state and must not be shared
// across goroutines.
type Generator struct {
	cat       *catalog.Catalog
	cursors   []int
	current   []*catalog.Descriptor
	exhausted bool
}

// NewGenerator returns a generator for chains of the given length. With an
// empty catalog and a non-zero length the generator is exhausted immediately;
// length zero always yields exactly one candidate, the empty chain.
func NewGenerator(cat *catalog.Catalog, length int) *Generator {
	return &Generator{
		cat:       cat,
		cursors:   make([]int, length),
		current:   make([]*catalog.Descriptor, length),
		exhausted: cat.Len() == 0 && length > 0,
	}
}

// Length returns the fixed chain length being enumerated.
func (g *Generator) Length() int {
	return len(g.cursors)
}

// Exhausted reports whether the generator has run out of candidates.
func (g *Generator) Exhausted() bool {
	return g.exhausted
}

// Current returns the candidate chain under the cursors. The returned slice
// is reused across calls and is only valid until the next Advance; callers
// keeping a chain must copy it.
func (g *Generator) Current() Chain {
	for i, cursor := range g.cursors {
		g.current[i] = g.cat.Entry(cursor)
	}
	return g.current
}

// Advance moves to the next candidate, treating fromDepth as the odometer
// digit to increment: the cursor at fromDepth steps to the next catalog
// entry, wrapping to the first entry and carrying upward as needed. A carry
// past the last position exhausts the generator. On success every cursor
// below fromDepth resets to the first entry; this is the pruning contract:
// when a validator reports position fromDepth invalid, no combination
// differing only below that position can repair the failure, so none of them
// are visited.
//
// Advance(0) degenerates to plain enumeration, visiting all
// catalog-size^length permutations exactly once.
func (g *Generator) Advance(fromDepth int) bool {
	if g.exhausted {
		return false
	}

	i := fromDepth
	for ; i < len(g.cursors); i++ {
		g.cursors[i]++
		if g.cursors[i] < g.cat.Len() {
			break
		}
		g.cursors[i] = 0
	}
	if i == len(g.cursors) {
		g.exhausted = true
		return false
	}

	for j := 0; j < fromDepth; j++ {
		g.cursors[j] = 0
	}
	return true
}
