package harness

import "github.com/roach88/neurograph/internal/driver"

// TraceEvent is one recorded operation or snapshot, in seq order.
type TraceEvent struct {
	Seq  int64  `json:"seq"`
	Op   string `json:"op"`
	Args any    `json:"args"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every step expectation and assertion held.
	Pass bool `json:"pass"`

	// Trace is the recorded session, read back from the session log.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// SessionID is the recorded session.
	SessionID string `json:"session_id"`

	// Final is the snapshot taken after the flow, nil if the flow unbound.
	Final *driver.Snapshot `json:"final,omitempty"`

	// Outputs is the per-output telemetry after the flow.
	Outputs []driver.OutputBinding `json:"outputs,omitempty"`

	// Rasters holds the rows of every run_and_track step.
	Rasters [][]string `json:"rasters,omitempty"`

	// Deterministic reports whether replaying the session reproduced
	// every recorded snapshot.
	Deterministic bool `json:"deterministic"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
