package driver

import "sync/atomic"

// Clock hands out the seqs that order a session's events and snapshots.
// Replay sorts by seq alone, so a recorded session never depends on wall
// time. Safe for concurrent use.
type Clock struct {
	seq atomic.Int64
}

// NewClock returns a clock whose first seq is last+1. A new session
// passes 0; a resumed session passes its last stored seq.
func NewClock(last int64) *Clock {
	c := &Clock{}
	c.seq.Store(last)
	return c
}

// Next stamps one more recorded item.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Last returns the most recently issued seq, or the starting point when
// nothing has been stamped.
func (c *Clock) Last() int64 {
	return c.seq.Load()
}
