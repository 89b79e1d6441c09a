package task

// A Collection supervises a dynamic set of running tasks.
//
// With returnWhenEmptied, the aggregate future resolves to Unit the first
// time the set drains after at least one Add. Without it the aggregate
// never resolves on emptiness, which keeps a supervisor alive across quiet
// periods. In both modes the aggregate resolves with the error of the first
// member to fail.
type Collection struct {
	p                 *Promise[Unit]
	outstanding       int
	returnWhenEmptied bool
}

// Create a new Collection.
func NewCollection(returnWhenEmptied bool) *Collection {
	return &Collection{
		p:                 NewPromise[Unit](),
		returnWhenEmptied: returnWhenEmptied,
	}
}

// The aggregate completion future.
func (c *Collection) Result() *Future[Unit] {
	return c.p.Future()
}

// Add a running task to the set. Legal at any time, including from a member.
func (c *Collection) Add(f *Future[Unit]) {
	c.outstanding++
	f.onReady(func(_ Unit, err error) error {
		c.outstanding--
		if c.p.sent {
			// The aggregate already resolved; a late failure propagates to
			// the resumer instead of being swallowed.
			return err
		}
		if err != nil {
			return c.p.Fail(err)
		}
		if c.outstanding == 0 && c.returnWhenEmptied {
			return c.p.Send(Unit{})
		}
		return nil
	})
}
