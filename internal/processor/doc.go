// Package processor defines the contract a simulation back-end satisfies.
//
// A Processor binds at most one network at a time, accepts timed spikes on
// input channels, advances simulated time, and reports telemetry. Per-neuron
// telemetry vectors are indexed by the graph.Order the network was bound
// with; outputs are addressed by channel id.
//
// State machine:
//
//	Unbound --LoadNetwork ok--> Bound --Clear--> Unbound
//	Bound --ClearActivity--> Bound
//
// Any LoadNetwork failure leaves the processor Unbound.
//
// An empty telemetry collection returned while neurons are bound means the
// metric is unsupported by the back-end. It is never reported as an error.
//
// Back-ends are selected by name through a Registry so that callers depend
// only on the interfaces here.
package processor
