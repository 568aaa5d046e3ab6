package chain

import (
	"fmt"
	"strings"

	"github.com/capchain/capchain/internal/caps"
	"github.com/capchain/capchain/internal/catalog"
)

// Route is one pending bridge request: the capability sets already fixed on
// the external boundaries. Transient; lives for the duration of one search.
type Route struct {
	Source      caps.Caps
	Destination caps.Caps
}

// Chain is an ordered sequence of catalog entries proposed to bridge a route.
// Entries are borrowed from the catalog and must not be mutated.
type Chain []*catalog.Descriptor

// String renders the chain as "a -> b -> c", or "<direct>" for a length-0
// chain.
func (c Chain) String() string {
	if len(c) == 0 {
		return "<direct>"
	}
	parts := make([]string, len(c))
	for i, d := range c {
		parts[i] = d.Factory.Type()
	}
	return strings.Join(parts, " -> ")
}

// UnsatisfiableError reports that a route search exhausted its length bound
// without finding a valid chain.
type UnsatisfiableError struct {
	Route     Route
	MaxLength int
}

// Error implements the error interface.
func (e *UnsatisfiableError) Error() string {
	return fmt.Sprintf("no chain of length <= %d bridges %s to %s",
		e.MaxLength, e.Route.Source, e.Route.Destination)
}
