// Package driver binds a network to a processor and drives simulation.
//
// The driver owns a private clone of the bound network together with the
// graph.Order it was sorted into. Every telemetry Snapshot carries that
// order, so callers can tell whether their own copy of the network has
// moved on since binding.
//
// Spikes and tracking requests are addressed by node id at this layer and
// translated to the processor's input and output channels. Range and time
// checks run here, before the processor sees a spike.
//
// # Recording and Replay
//
// When a Recorder is attached, each operation that changes simulation
// state is appended to a session log as canonical JSON with a logical
// sequence number. Replay re-executes a log against a freshly built
// processor; the same log always produces the same snapshots, which is
// how determinism is checked.
//
// Thread-safety: a Driver is not safe for concurrent use. One operation
// runs to completion before the next is accepted.
package driver
