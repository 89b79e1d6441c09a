// Package workload holds the demonstration service the simulator fuzzes: an
// in-memory array whose swap operation suspends between its reads and its
// writes. Under an ordered schedule the suspension is harmless; under a
// randomized schedule two overlapping swaps interleave and corrupt the
// array, which the invariant checker turns into a crash.
package workload

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/atn34/simfuzz/simulator"
	"github.com/atn34/simfuzz/task"
)

// Raised when a supposedly infinite task terminates, e.g. the client set
// drains under its supervisor. Always a programming mistake; drivers abort
// on it.
var InternalError = errors.New("workload: supervised client set drained")

// An InvariantViolation is the panic value raised when the checker finds
// the element set corrupted. It is deliberately a panic rather than an
// error return: it must abort the run through every intermediate task so
// that a fuzz harness captures a crash signature, and so that no task code
// can accidentally swallow it.
type InvariantViolation struct {
	Time  float64
	Index int32
	Value int32
}

func (v *InvariantViolation) Error() string {
	return fmt.Sprintf("workload: invariant violated at %f: sorted[%d] = %d", v.Time, v.Index, v.Value)
}

// Service is the example workload: elements starts as the identity
// permutation of [0, size) and every completed swap must preserve that it
// remains a permutation.
type Service struct {
	sim      *simulator.Simulator
	elements []int32
	tracer   Tracer

	// Swap ids are only for tracing. The counter lives on the service, not
	// in a process-wide global, so concurrent simulations never share state.
	nextSwapID int64
}

// Create a new Service with elements [0, size).
func NewService(sim *simulator.Simulator, size int32, tracer Tracer) *Service {
	elements := make([]int32, size)
	for i := range elements {
		elements[i] = int32(i)
	}
	return &Service{
		sim:      sim,
		elements: elements,
		tracer:   tracer,
	}
}

// Swap exchanges elements i and j as its own task and returns its
// completion future.
func (s *Service) Swap(i, j int32) *task.Future[task.Unit] {
	id := s.nextSwapID
	s.nextSwapID++
	return s.sim.Spawn(func(t *task.T) error {
		s.tracer.Trace(s.sim.Now(), id, "Begin", fmt.Sprintf("swap(%d, %d)", i, j))
		x := s.elements[i]
		y := s.elements[j]
		// This wait is the bug: the swap is not atomic across it.
		if _, err := s.sim.Delay(0).Await(t); err != nil {
			return err
		}
		s.elements[i] = y
		s.elements[j] = x
		s.tracer.Trace(s.sim.Now(), id, "End", fmt.Sprintf("swap(%d, %d)", i, j))
		return nil
	})
}

// CheckInvariant verifies that elements is still a permutation of
// [0, len). A violation aborts the simulation.
func (s *Service) CheckInvariant() {
	s.tracer.Trace(s.sim.Now(), -1, "", "checkInvariant()")
	sorted := slices.Clone(s.elements)
	slices.Sort(sorted)
	for i, v := range sorted {
		if v != int32(i) {
			panic(&InvariantViolation{Time: s.sim.Now(), Index: int32(i), Value: v})
		}
	}
}
