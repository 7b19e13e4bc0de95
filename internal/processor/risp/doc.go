// Package risp is the reference processor back-end: a reduced
// instruction spiking processor with integrate-and-fire neurons,
// weighted synapses, and integer delays.
//
// Simulation proceeds in unit time steps. At each step the neurons that
// receive events first apply leak (when enabled) and the minimum
// potential floor, then accumulate the event values. A neuron whose
// charge reaches its threshold fires: it schedules its synapse weights
// on the targets at step+delay and resets to zero charge.
//
// Fire times, counts, and last-fire times are relative to the start of
// the most recent Run and are cleared when the next Run begins.
package risp
