package workload

import (
	"errors"

	"github.com/atn34/simfuzz/random"
	"github.com/atn34/simfuzz/simulator"
)

// Fuzz is the fuzzing entry point: data drives every scheduling and
// workload decision of one randomly ordered simulation, so a byte-string
// fuzzer mutates schedules directly. Running out of input ends the run
// benignly; an invariant violation aborts, handing the harness its crash.
//
// Identical input produces identical execution.
func Fuzz(data []byte) int {
	err := RunSimulation(random.NewReplay(data), simulator.RandomOrder, DefaultConfig(), NopTracer())
	if err != nil && !errors.Is(err, random.EndOfInputError) {
		panic(err)
	}
	return 0
}
