package random

import (
	"errors"
	"testing"
)

func TestByteLen(t *testing.T) {
	cases := []struct {
		n    uint64
		want int
	}{
		{1, 0},
		{2, 1},
		{255, 1},
		{256, 1},
		{257, 2},
		{65536, 2},
		{65537, 3},
		{1 << 24, 3},
		{1<<24 + 1, 4},
		{1 << 31, 4},
	}
	for _, c := range cases {
		if got := byteLen(c.n); got != c.want {
			t.Errorf("byteLen(%v): expected %v. Got: %v", c.n, c.want, got)
		}
	}
}

func TestReplayRandom01(t *testing.T) {
	r := NewReplay([]byte{0, 0, 0, 0, 0xff, 0xff, 0xff, 0xff})

	v, err := r.Random01()
	if err != nil {
		t.Fatalf("Did not expect an error. Got: %v", err)
	}
	if v != 0 {
		t.Errorf("Expected the zero word to decode to 0. Got: %v", v)
	}

	v, err = r.Random01()
	if err != nil {
		t.Fatalf("Did not expect an error. Got: %v", err)
	}
	want := float64(^uint32(0)) / (1 << 32)
	if v != want {
		t.Errorf("Expected the all-ones word to decode to %v. Got: %v", want, v)
	}
	if v >= 1 {
		t.Errorf("Expected every decoded draw to stay below 1. Got: %v", v)
	}
}

func TestReplayRandomIntWidths(t *testing.T) {
	// One value: zero bytes consumed. Small range: one byte. Wide range: two.
	r := NewReplay([]byte{7, 0x34, 0x12})

	v, err := r.RandomInt(5, 6)
	if err != nil {
		t.Fatalf("Did not expect an error. Got: %v", err)
	}
	if v != 5 {
		t.Errorf("Expected a single-value range to decode without input. Got: %v", v)
	}

	v, err = r.RandomInt(10, 20)
	if err != nil {
		t.Fatalf("Did not expect an error. Got: %v", err)
	}
	if v != 17 {
		t.Errorf("Expected 10+7 = 17. Got: %v", v)
	}

	v, err = r.RandomInt(0, 1000)
	if err != nil {
		t.Fatalf("Did not expect an error. Got: %v", err)
	}
	// 0x1234 little-endian exceeds the range and clamps to hi-1
	if v != 999 {
		t.Errorf("Expected an out-of-range offset to clamp to 999. Got: %v", v)
	}
}

func TestReplayEndOfInput(t *testing.T) {
	r := NewReplay([]byte{1, 2, 3})

	_, err := r.Random01()
	if !errors.Is(err, EndOfInputError) {
		t.Errorf("Expected a partial word to fail with EndOfInputError. Got: %v", err)
	}

	// The failed read must not consume; a narrower draw can still succeed.
	v, err := r.RandomInt(0, 256)
	if err != nil {
		t.Fatalf("Did not expect an error. Got: %v", err)
	}
	if v != 1 {
		t.Errorf("Expected the first byte to survive the failed read. Got: %v", v)
	}

	if _, err := r.RandomInt(0, 1<<16); err != nil {
		t.Fatalf("Did not expect an error. Got: %v", err)
	}
	if _, err := r.RandomInt(0, 2); !errors.Is(err, EndOfInputError) {
		t.Errorf("Expected an exhausted buffer to fail with EndOfInputError. Got: %v", err)
	}
}
