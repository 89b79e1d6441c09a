// Package simulator implements the deterministic discrete-event scheduler:
// a virtual clock, a queue of deferred continuations and a probabilistic
// delay inflator that widens the set of schedules a run explores.
package simulator

import (
	"container/heap"
	"math"

	"github.com/atn34/simfuzz/random"
	"github.com/atn34/simfuzz/task"
)

// SchedulingStrategy selects how the dispatch loop picks the next task.
type SchedulingStrategy int

const (
	// InOrder dispatches pending tasks by (deadline, enqueue order), so two
	// tasks scheduled for the same instant resume in the order they were
	// scheduled.
	InOrder SchedulingStrategy = iota

	// RandomOrder dispatches a uniformly random pending task, deliberately
	// ignoring deadlines to expose interleavings an ordered schedule masks.
	RandomOrder
)

func (s SchedulingStrategy) String() string {
	switch s {
	case InOrder:
		return "in-order"
	case RandomOrder:
		return "random-order"
	}
	return "unknown"
}

// A pending continuation: wake the waker once virtual time reaches deadline.
// seq is unique within a simulator and breaks deadline ties.
type entry struct {
	deadline float64
	seq      uint64
	waker    *task.Promise[task.Unit]
}

type entryHeap []*entry

func (h entryHeap) Len() int { return len(h) }
func (h entryHeap) Less(i, j int) bool {
	if h[i].deadline != h[j].deadline {
		return h[i].deadline < h[j].deadline
	}
	return h[i].seq < h[j].seq
}
func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x any) { *h = append(*h, x.(*entry)) }
func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// Simulator owns the virtual clock and the pending task queue. The
// randomness oracle is borrowed, never owned, so callers can wrap it in a
// recorder or swap in a replay.
//
// All state is mutated under a single control token (the dispatch loop and
// the tasks it resumes, one at a time), so no locking is needed or used.
type Simulator struct {
	rand     random.Random
	strategy SchedulingStrategy
	rt       *task.Runtime

	now     float64
	heap    entryHeap // pending under InOrder
	bag     []*entry  // pending under RandomOrder
	nextSeq uint64
	running bool
	closed  bool

	buggify           bool
	maxBuggifiedDelay float64
}

// An Option configures a Simulator at construction.
type Option func(*Simulator)

// WithoutBuggification disables delay perturbation entirely: no draws are
// consumed and no jitter is added.
func WithoutBuggification() Option {
	return func(s *Simulator) { s.buggify = false }
}

// Create a new Simulator over the given oracle.
//
// Under InOrder the perturbation bound is drawn here as 0.2 * Random01(), so
// every simulation explores a different jitter regime. Under RandomOrder the
// bound is zero and no draw is consumed: random order already scrambles
// schedules, so extra jitter is redundant.
func New(r random.Random, strategy SchedulingStrategy, opts ...Option) (*Simulator, error) {
	s := &Simulator{
		rand:     r,
		strategy: strategy,
		rt:       task.NewRuntime(),
		running:  true,
		buggify:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.buggify && strategy == InOrder {
		d, err := r.Random01()
		if err != nil {
			return nil, err
		}
		s.maxBuggifiedDelay = 0.2 * d
	}
	return s, nil
}

// Delay schedules a wakeup once virtual time reaches Now()+seconds and
// returns the consumer handle the calling task awaits.
//
// A quarter of delays are inflated by maxBuggifiedDelay * j^1000 for a fresh
// draw j. The heavy tail keeps most perturbations near zero while
// occasionally stretching a delay by up to the bound, biasing exploration
// toward ordering corners. The draws are consumed under both strategies so
// that byte replay is strategy-independent.
//
// If the oracle fails, the returned future is already failed with its error.
func (s *Simulator) Delay(seconds float64) *task.Future[task.Unit] {
	if s.closed {
		return task.FailedFuture[task.Unit](task.CancelledError)
	}
	if s.buggify {
		roll, err := s.rand.Random01()
		if err != nil {
			return task.FailedFuture[task.Unit](err)
		}
		if roll < 0.25 {
			j, err := s.rand.Random01()
			if err != nil {
				return task.FailedFuture[task.Unit](err)
			}
			seconds += s.maxBuggifiedDelay * math.Pow(j, 1000)
		}
	}
	p := task.NewPromise[task.Unit]()
	e := &entry{deadline: s.now + seconds, seq: s.nextSeq, waker: p}
	s.nextSeq++
	switch s.strategy {
	case InOrder:
		heap.Push(&s.heap, e)
	case RandomOrder:
		s.bag = append(s.bag, e)
	}
	return p.Future()
}

// The current virtual time. Starts at zero and never decreases.
func (s *Simulator) Now() float64 {
	return s.now
}

// Stop terminates the dispatch loop before its next iteration.
func (s *Simulator) Stop() {
	s.running = false
}

func (s *Simulator) Random01() (float64, error) {
	return s.rand.Random01()
}

func (s *Simulator) RandomInt(lo, hi int32) (int32, error) {
	return s.rand.RandomInt(lo, hi)
}

// Spawn starts fn as a task and runs it to its first suspension point.
func (s *Simulator) Spawn(fn func(*task.T) error) *task.Future[task.Unit] {
	return s.rt.Spawn(fn)
}

func (s *Simulator) pending() int {
	return len(s.heap) + len(s.bag)
}

// Run drives the dispatch loop: select the next pending task per the
// strategy, advance the clock, wake the task and let it run to its next
// suspension point. Continuations may schedule further tasks before handing
// control back.
//
// Returns nil on stop or quiescence. An error escaping a continuation chain
// without being consumed by an await aborts the loop and is returned; under
// a replay oracle that is how EndOfInputError reaches the fuzz driver.
func (s *Simulator) Run() error {
	for s.running && s.pending() > 0 {
		var e *entry
		switch s.strategy {
		case InOrder:
			e = heap.Pop(&s.heap).(*entry)
		case RandomOrder:
			i, err := s.RandomInt(0, int32(len(s.bag)))
			if err != nil {
				return err
			}
			e = s.bag[i]
			// Swap-remove. This changes the order of the slice, but the next
			// pick is random anyway so the order does not matter.
			s.bag[i] = s.bag[len(s.bag)-1]
			s.bag[len(s.bag)-1] = nil
			s.bag = s.bag[:len(s.bag)-1]
		}
		// Under random order a later-deadline task may be picked before an
		// earlier one; the clock skips forward but never runs backwards.
		if e.deadline > s.now {
			s.now = e.deadline
		}
		if err := e.waker.Send(task.Unit{}); err != nil {
			return err
		}
	}
	return nil
}

// Close drops every unsent waker and cancels the tasks still suspended,
// then shuts the task runtime down. Safe to call after Run returns and from
// a deferred driver cleanup; idempotent.
func (s *Simulator) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.running = false
	s.heap = nil
	s.bag = nil
	s.rt.Close()
}
