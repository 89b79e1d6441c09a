package task

// A Future is the consumer half of a one-shot rendezvous. At most one task
// awaits it; once resolved, repeated awaits return the same result without
// suspending.
type Future[V any] struct {
	resolved bool
	val      V
	err      error
	cbs      []func(V, error) error
}

// Await suspends the calling task until the future resolves. If the value
// was produced before the first await, it returns immediately.
func (f *Future[V]) Await(t *T) (V, error) {
	if !f.resolved {
		fib := t.fib
		f.cbs = append(f.cbs, func(V, error) error {
			y := fib.resume()
			return y.err
		})
		fib.yieldControl()
	}
	return f.val, f.err
}

// Register a completion callback. Runs immediately if already resolved.
// The error a callback returns is a task failure it could not consume; it
// propagates to the completer.
func (f *Future[V]) onReady(cb func(V, error) error) {
	if f.resolved {
		cb(f.val, f.err)
		return
	}
	f.cbs = append(f.cbs, cb)
}

func (f *Future[V]) completeWith(v V, err error) error {
	if f.resolved {
		panic("task: future completed twice")
	}
	f.resolved = true
	f.val = v
	f.err = err
	cbs := f.cbs
	f.cbs = nil
	if len(cbs) == 0 {
		// Nobody listening. A failure escapes to the resumer.
		return err
	}
	var out error
	for _, cb := range cbs {
		if e := cb(v, err); e != nil && out == nil {
			out = e
		}
	}
	return out
}

// A Promise is the producer half of the pair. After Send or Fail the handle
// is inert; completing twice panics.
type Promise[V any] struct {
	fut  *Future[V]
	sent bool
}

// Create a new promise. The matching consumer handle is Future().
func NewPromise[V any]() *Promise[V] {
	return &Promise[V]{fut: &Future[V]{}}
}

func (p *Promise[V]) Future() *Future[V] {
	return p.fut
}

// Send resolves the pair with a value, waking the awaiting task, if any, and
// running it to its next suspension point before returning.
//
// The returned error is a failure that propagated out of the woken
// continuation chain without being consumed by an await.
func (p *Promise[V]) Send(v V) error {
	return p.complete(v, nil)
}

// Fail resolves the pair with an error; the awaiting task receives it from
// Await.
func (p *Promise[V]) Fail(err error) error {
	var zero V
	return p.complete(zero, err)
}

func (p *Promise[V]) complete(v V, err error) error {
	if p.sent {
		panic("task: promise already completed")
	}
	p.sent = true
	return p.fut.completeWith(v, err)
}

// FailedFuture returns a future already resolved with err.
func FailedFuture[V any](err error) *Future[V] {
	var f Future[V]
	f.resolved = true
	f.err = err
	return &f
}
