package workload

import (
	"github.com/atn34/simfuzz/random"
	"github.com/atn34/simfuzz/simulator"
	"github.com/atn34/simfuzz/task"
)

// Config sizes the workload.
type Config struct {
	// Number of elements in the service array.
	Elements int32
	// Number of concurrent client tasks.
	Clients int
	// Mean seconds between operations of one client.
	MeanInterval float64
	// One in this many operations is an invariant check instead of a swap.
	CheckOneIn int32
	// Virtual seconds before the simulation stops itself.
	StopAfterSeconds float64
}

// DefaultConfig matches the demonstration workload.
func DefaultConfig() Config {
	return Config{
		Elements:         1000,
		Clients:          5,
		MeanInterval:     1,
		CheckOneIn:       100,
		StopAfterSeconds: 100,
	}
}

// Draw i < j, both in [0, size).
func distinctOrderedPair(s *simulator.Simulator, size int32) (int32, int32, error) {
	i, err := s.RandomInt(0, size-1)
	if err != nil {
		return 0, 0, err
	}
	j, err := s.RandomInt(i+1, size)
	if err != nil {
		return 0, 0, err
	}
	return i, j, nil
}

// A client mixes swaps over random distinct pairs with occasional invariant
// checks, at Poisson arrivals. It runs until stopped or cancelled.
func client(s *simulator.Simulator, svc *Service, cfg Config) func(*task.T) error {
	return func(t *task.T) error {
		last := s.Now()
		for {
			if err := simulator.Poisson(t, s, &last, cfg.MeanInterval); err != nil {
				return err
			}
			roll, err := s.RandomInt(0, cfg.CheckOneIn)
			if err != nil {
				return err
			}
			if roll == 0 {
				svc.CheckInvariant()
				continue
			}
			i, j, err := distinctOrderedPair(s, cfg.Elements)
			if err != nil {
				return err
			}
			if _, err := svc.Swap(i, j).Await(t); err != nil {
				return err
			}
		}
	}
}

// The supervisor holds the client tasks in a collection that never resolves
// on emptiness. The clients are supposed to run forever, so the aggregate
// resolving cleanly means a client leaked out of the set.
func clients(s *simulator.Simulator, svc *Service, cfg Config) func(*task.T) error {
	return func(t *task.T) error {
		actors := task.NewCollection(false)
		for i := 0; i < cfg.Clients; i++ {
			actors.Add(s.Spawn(client(s, svc, cfg)))
		}
		if _, err := actors.Result().Await(t); err != nil {
			return err
		}
		return InternalError
	}
}

func stopAfter(s *simulator.Simulator, seconds float64) func(*task.T) error {
	return func(t *task.T) error {
		if _, err := s.Delay(seconds).Await(t); err != nil {
			return err
		}
		s.Stop()
		return nil
	}
}

// RunSimulation builds the service and its clients over the given oracle
// and drives the simulation until it stops itself, goes quiescent, or an
// error escapes.
//
// EndOfInputError means a replay oracle ran dry: the benign end of a fuzz
// run. InternalError means the supervisor caught a bug. An invariant
// violation does not return at all; it aborts by panic.
func RunSimulation(r random.Random, strategy simulator.SchedulingStrategy, cfg Config, tracer Tracer, opts ...simulator.Option) error {
	s, err := simulator.New(r, strategy, opts...)
	if err != nil {
		return err
	}
	defer s.Close()
	svc := NewService(s, cfg.Elements, tracer)
	s.Spawn(clients(s, svc, cfg))
	s.Spawn(stopAfter(s, cfg.StopAfterSeconds))
	return s.Run()
}
