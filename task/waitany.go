package task

// WaitAny returns a future that resolves with the first input to resolve,
// value or error. Later inputs are left untouched; a later failure that
// nothing else consumes propagates to its resumer.
func WaitAny[V any](futs ...*Future[V]) *Future[V] {
	p := NewPromise[V]()
	for _, f := range futs {
		f.onReady(func(v V, err error) error {
			if p.sent {
				return err
			}
			return p.complete(v, err)
		})
	}
	return p.Future()
}
