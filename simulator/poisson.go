package simulator

import (
	"math"

	"github.com/atn34/simfuzz/task"
)

// Poisson suspends the calling task until the next arrival of a Poisson
// process with rate 1/mean.
//
// last holds the previous arrival's virtual time and is owned by the caller;
// it is advanced by an exponentially distributed interval before waiting.
// Keeping the arrival clock in last rather than Now() makes the process
// honest even when buggified delays overshoot an arrival.
func Poisson(t *task.T, s *Simulator, last *float64, mean float64) error {
	r, err := s.Random01()
	if err != nil {
		return err
	}
	*last += mean * -math.Log(r)
	_, err = s.Delay(*last - s.Now()).Await(t)
	return err
}
