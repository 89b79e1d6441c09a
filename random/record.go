package random

import (
	"encoding/binary"
	"math"
)

// A Record oracle delegates every draw to an inner oracle and appends the
// byte encoding of the result to a growing buffer.
//
// The buffer is the exact input that makes Replay reproduce the inner
// oracle's draws, so recording a seeded run yields a regression artifact: a
// byte string that a fuzzer can shrink and that replays the run, crash
// included, without the seed.
type Record struct {
	inner Random
	bytes []byte
}

// Create a new Record oracle wrapping inner.
func NewRecord(inner Random) *Record {
	return &Record{inner: inner}
}

// The bytes recorded so far. The returned slice aliases the internal buffer
// and remains valid until the next draw.
func (r *Record) Bytes() []byte {
	return r.bytes
}

func (r *Record) Random01() (float64, error) {
	v, err := r.inner.Random01()
	if err != nil {
		return 0, err
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(math.Floor(v*(1<<32))))
	r.bytes = append(r.bytes, buf[:]...)
	return v, nil
}

func (r *Record) RandomInt(lo, hi int32) (int32, error) {
	v, err := r.inner.RandomInt(lo, hi)
	if err != nil {
		return 0, err
	}
	delta := uint64(v - lo)
	for i := 0; i < byteLen(uint64(hi-lo)); i++ {
		r.bytes = append(r.bytes, byte(delta))
		delta >>= 8
	}
	return v, nil
}
