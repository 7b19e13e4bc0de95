package processor

import "github.com/roach88/neurograph/internal/ir"

// SpikeQueue is a FIFO of spikes awaiting the next Run.
//
// Back-ends queue validated spikes here and drain the whole queue at the
// start of Run, so spikes are consumed even when the run fails.
//
// Not safe for concurrent use.
type SpikeQueue struct {
	spikes []ir.Spike
}

// NewSpikeQueue creates an empty queue.
func NewSpikeQueue() *SpikeQueue {
	return &SpikeQueue{spikes: make([]ir.Spike, 0, 64)}
}

// Push appends s to the back of the queue.
func (q *SpikeQueue) Push(s ir.Spike) {
	q.spikes = append(q.spikes, s)
}

// Len returns the number of queued spikes.
func (q *SpikeQueue) Len() int {
	return len(q.spikes)
}

// Drain removes and returns every queued spike in arrival order.
func (q *SpikeQueue) Drain() []ir.Spike {
	out := q.spikes
	// Fresh backing array: the caller owns out.
	q.spikes = make([]ir.Spike, 0, cap(out))
	return out
}

// Reset drops every queued spike.
func (q *SpikeQueue) Reset() {
	clear(q.spikes)
	q.spikes = q.spikes[:0]
}
