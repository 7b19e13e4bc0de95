package ir

import "encoding/json"

// EventKind names a recorded driver operation.
type EventKind string

// Recorded driver operations. Only operations that change simulation
// state are recorded; telemetry reads are not.
const (
	EventBind          EventKind = "bind"
	EventUnbind        EventKind = "unbind"
	EventSpike         EventKind = "spike"
	EventRun           EventKind = "run"
	EventClearActivity EventKind = "clear_activity"
	EventTrackNeuron   EventKind = "track_neuron"
	EventTrackOutput   EventKind = "track_output"
)

// Session describes one recorded driver session: the processor it drove
// and the parameters it was built with.
type Session struct {
	ID        string          `json:"id"`
	Processor string          `json:"processor"`
	Params    json.RawMessage `json:"params"`
	Seq       int64           `json:"seq"`
}

// Event is one recorded operation. Payload is canonical JSON.
type Event struct {
	SessionID string          `json:"session_id"`
	Seq       int64           `json:"seq"`
	Kind      EventKind       `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
}

// Snapshot is a recorded telemetry snapshot. Hash is the snapshot
// fingerprint under DomainSnapshot; replay compares hashes.
type Snapshot struct {
	SessionID string          `json:"session_id"`
	Seq       int64           `json:"seq"`
	Hash      string          `json:"hash"`
	Payload   json.RawMessage `json:"payload"`
}

// BindPayload records the network a session bound.
type BindPayload struct {
	Network NetworkDoc `json:"network"`
}

// SpikePayload records a spike applied at the driver boundary.
// Spike.ID is the target node id.
type SpikePayload struct {
	Spike      Spike `json:"spike"`
	Normalized bool  `json:"normalized"`
}

// RunPayload records a run.
type RunPayload struct {
	Duration float64 `json:"duration"`
	Tracked  bool    `json:"tracked,omitempty"`
}

// TrackPayload records a tracking toggle. ID is always a node id;
// track_output resolves it to the node's output channel on replay.
type TrackPayload struct {
	ID int64 `json:"id"`
	On bool  `json:"on"`
}
