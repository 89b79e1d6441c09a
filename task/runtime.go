package task

import "errors"

// Completion of futures handed out after the runtime has shut down. Tasks
// parked at a suspension point when the runtime closes do not see this
// error; they are unwound directly.
var CancelledError = errors.New("task: cancelled")

// Runtime owns every fiber spawned through it and cancels the survivors on
// Close. One runtime per simulator instance.
type Runtime struct {
	fibers []*fiber
	closed bool
}

// Create a new Runtime.
func NewRuntime() *Runtime {
	return &Runtime{}
}

// Spawn starts fn as a task and runs it synchronously to its first
// suspension point before returning. The returned future resolves when fn
// returns, carrying its error.
//
// Must be called while holding control: from the goroutine driving the
// dispatch loop or from a running task.
func (rt *Runtime) Spawn(fn func(*T) error) *Future[Unit] {
	if rt.closed {
		return FailedFuture[Unit](CancelledError)
	}
	comp := NewPromise[Unit]()
	f := newFiber()
	rt.fibers = append(rt.fibers, f)
	f.launch(rt, fn, comp)
	// An error from a task that completed before its first suspension is
	// carried by the returned future, not raised here.
	f.resume()
	return comp.Future()
}

// Close cancels every task still live. Parked fibers are woken into a clean
// unwind; deferred functions run on the way out, and Close waits for every
// unwind to finish. Producer handles those tasks were awaiting are simply
// dropped. Idempotent.
func (rt *Runtime) Close() {
	if rt.closed {
		return
	}
	rt.closed = true
	fibers := rt.fibers
	rt.fibers = nil
	for _, f := range fibers {
		if !f.done {
			close(f.wake)
		}
	}
	for _, f := range fibers {
		<-f.dead
		select {
		case p := <-f.panicChan:
			// A panic out of deferred cleanup during cancellation is a
			// programming bug.
			panic(p)
		default:
		}
	}
}
