package random

import "errors"

// A Random produces the stream of draws that drives a simulation.
//
// Implementations must be deterministic: the value of a draw is a pure
// function of the oracle's construction and the sequence of prior calls.
// The simulator holds the oracle by reference and never owns it, so a
// caller can keep wrapping or inspecting it across a run.
type Random interface {
	// Draw a double in [0, 1).
	Random01() (float64, error)

	// Draw an int32 r with lo <= r < hi. Requires lo < hi.
	RandomInt(lo, hi int32) (int32, error)
}

// Returned by a replay oracle when the byte buffer cannot satisfy the next draw.
// It is a benign termination signal, not a failure. It is caught at the fuzz
// driver boundary and nowhere else.
var EndOfInputError = errors.New("random: replay input exhausted")

// The number of bytes used to encode an offset into a range of n values.
//
// It is the smallest k such that 256^k >= n. A range holding a single value
// encodes in zero bytes: the draw is fully determined and consumes no input.
func byteLen(n uint64) int {
	k := 0
	for n > 1 {
		n = (n + 255) / 256
		k++
	}
	return k
}
