package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/neurograph/internal/ir"
)

// TraceSnapshot captures the recorded trace and final telemetry of a
// scenario execution. It is serialized as canonical JSON for
// deterministic comparison.
type TraceSnapshot struct {
	ScenarioName string         `json:"scenario_name"`
	SessionID    string         `json:"session_id"`
	Trace        []TraceEvent   `json:"trace"`
	Final        *FinalSnapshot `json:"final,omitempty"`
	Rasters      [][]string     `json:"rasters,omitempty"`
}

// FinalSnapshot is the subset of the final telemetry kept in golden files.
// Charges and synapse weights are left out; assertions cover them.
type FinalSnapshot struct {
	Time          float64     `json:"time"`
	Order         []uint32    `json:"order"`
	Counts        []int       `json:"counts"`
	LastFires     []float64   `json:"last_fires"`
	Vectors       [][]float64 `json:"vectors"`
	OutputVectors [][]float64 `json:"output_vectors"`
}

// NewTraceSnapshot builds the golden form of a result.
func NewTraceSnapshot(scenarioName string, result *Result) TraceSnapshot {
	snap := TraceSnapshot{
		ScenarioName: scenarioName,
		SessionID:    result.SessionID,
		Trace:        result.Trace,
		Rasters:      result.Rasters,
	}
	if f := result.Final; f != nil {
		snap.Final = &FinalSnapshot{
			Time:          f.Time,
			Order:         f.Order,
			Counts:        f.Counts,
			LastFires:     f.LastFires,
			Vectors:       f.Vectors,
			OutputVectors: f.OutputVectors,
		}
	}
	return snap
}

// Canonical returns the canonical JSON encoding of the snapshot.
func (s TraceSnapshot) Canonical() ([]byte, error) {
	return ir.MarshalCanonical(s)
}

// RunWithGolden executes a scenario and compares its trace against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can check Pass. Test failure (via goldie)
// occurs if the trace doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := NewTraceSnapshot(scenarioName, result).Canonical()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
