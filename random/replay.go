package random

import "encoding/binary"

// A Replay oracle consumes draws from a fixed byte string.
//
// The byte format is the one produced by Record: 4 little-endian bytes per
// Random01 draw, and ceil(log_256(hi-lo)) little-endian bytes per RandomInt
// draw. Feeding Record's output to Replay reproduces the recorded draw
// sequence exactly, and with it the simulation run, up to the point where
// the buffer runs out.
//
// Any byte string is a valid input, which is what makes the simulator
// drivable by a coverage-guided fuzzer: the fuzzer mutates bytes, Replay
// turns them into schedules.
type Replay struct {
	bytes  []byte
	cursor int
}

// Create a new Replay oracle over the given bytes. The buffer is not copied;
// the caller must not mutate it during the run.
func NewReplay(bytes []byte) *Replay {
	return &Replay{bytes: bytes}
}

// Consume n bytes, little-endian, as an unsigned integer.
// Fails with EndOfInputError without consuming if fewer than n bytes remain.
func (r *Replay) consume(n int) (uint64, error) {
	if len(r.bytes)-r.cursor < n {
		return 0, EndOfInputError
	}
	var v uint64
	for i := n - 1; i >= 0; i-- {
		v = v<<8 | uint64(r.bytes[r.cursor+i])
	}
	r.cursor += n
	return v, nil
}

func (r *Replay) Random01() (float64, error) {
	if len(r.bytes)-r.cursor < 4 {
		return 0, EndOfInputError
	}
	u := binary.LittleEndian.Uint32(r.bytes[r.cursor:])
	r.cursor += 4
	return float64(u) / (1 << 32), nil
}

func (r *Replay) RandomInt(lo, hi int32) (int32, error) {
	if lo >= hi {
		panic("random: RandomInt requires lo < hi")
	}
	delta, err := r.consume(byteLen(uint64(hi - lo)))
	if err != nil {
		return 0, err
	}
	v := int64(lo) + int64(delta)
	if v > int64(hi-1) {
		v = int64(hi - 1)
	}
	return int32(v), nil
}
