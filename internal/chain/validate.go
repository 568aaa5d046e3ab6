package chain

// Valid is the sentinel a validator returns for a chain that passes its
// check.
const Valid = -1

// Validator inspects a candidate chain against a route. It returns Valid, or
// the cursor position in [0, len(chain)-1] that is the shallowest position
// known responsible for the failure. The reported depth feeds
// Generator.Advance, so a validator must never blame a position deeper than
// the true failure: that would skip candidates that might have been valid.
//
// Validators run in pipeline order and the first invalid report
// short-circuits the rest; a chain passes only if every validator returns
// Valid.
type Validator interface {
	Validate(route Route, candidate Chain) int
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(route Route, candidate Chain) int

// Validate implements Validator.
func (f ValidatorFunc) Validate(route Route, candidate Chain) int {
	return f(route, candidate)
}

// DefaultValidators returns the standard pipeline: capability continuity
// first, then the adjacent-duplicate check.
func DefaultValidators() []Validator {
	return []Validator{
		ValidatorFunc(ValidateContinuity),
		ValidatorFunc(ValidateNoAdjacentDuplicates),
	}
}

// ValidateContinuity checks the N+1 capability boundaries of an N-stage
// chain: the route source before position 0, the route destination after the
// last position, and each output/input pair in between. Boundaries are
// walked from the destination end toward the source, because later positions
// change fastest during enumeration, so failures near the destination are
// the ones worth discovering first.
//
// A failing boundary b (between positions b-1 and b) reports depth b-1: only
// a change at or above that position can repair the boundary. The source
// boundary reports depth 0, which for a length-0 chain exhausts the
// generator outright.
func ValidateContinuity(route Route, candidate Chain) int {
	n := len(candidate)
	for b := n; b >= 0; b-- {
		upstream := route.Source
		if b > 0 {
			upstream = candidate[b-1].OutputCaps
		}
		downstream := route.Destination
		if b < n {
			downstream = candidate[b].InputCaps
		}

		if !upstream.CanIntersect(downstream) {
			if b > 0 {
				return b - 1
			}
			return 0
		}
	}
	return Valid
}

// ValidateNoAdjacentDuplicates rejects chains placing the same catalog entry
// at two consecutive positions, a redundant no-op pair. Scanning runs from
// the end so the innermost duplicate is reported; the returned depth is the
// lower position of the pair, since advancing there breaks the duplication.
func ValidateNoAdjacentDuplicates(_ Route, candidate Chain) int {
	for d := len(candidate) - 2; d >= 0; d-- {
		if candidate[d] == candidate[d+1] {
			return d
		}
	}
	return Valid
}
