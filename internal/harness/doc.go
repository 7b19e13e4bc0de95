// Package harness runs YAML scenarios against a real processor through
// the simulation driver and checks the outcome.
//
// # Scenario Format
//
//	name: risp_chain
//	description: "What this scenario validates"
//	processor: risp
//	params: { max_threshold: 2, ... }   # optional, processor-specific
//	network:
//	  file: nets/chain.json              # OR the inline form below
//	  nodes:
//	    - { id: 0, name: head, values: { Threshold: 1 } }
//	  edges:
//	    - { from: 0, to: 1, values: { Weight: 1, Delay: 1 } }
//	  inputs: [0]
//	  outputs: [1]
//	flow:
//	  - { op: track_neuron, node: 1 }
//	  - { op: spike, node: 0, time: 0, value: 1 }
//	  - { op: spike, node: 0, value: 1.5, expect_error: SPIKE_RANGE }
//	  - { op: run, duration: 5 }
//	  - { op: run_and_track, duration: 4, rows: ["10", "01", "00", "00"] }
//	assertions:
//	  - { type: fires, node: 1, times: [1] }
//	  - { type: trace_order, ops: [bind, spike, run] }
//
// # Assertion Types
//
//   - fires, count, last_fire, charge: per-neuron telemetry of the final snapshot
//   - output_count: fire count of a node's output channel
//   - time: simulated time at the end of the flow
//   - trace_count, trace_order: recorded operations
//   - deterministic: replaying the recorded session reproduces every snapshot
//
// # Deterministic Testing
//
// Every scenario records into a fresh in-memory session log under a fixed
// session id (scenario.session_id, or "test-session-default"), so traces
// are byte-identical across runs and can be compared with golden files.
package harness
