package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultSessionID is used when a scenario does not name its session.
const DefaultSessionID = "test-session-default"

// Scenario defines a driver scenario: a network, a flow of driver
// operations, and assertions on the outcome.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Processor is the registered processor name.
	Processor string `yaml:"processor"`

	// Params are the processor construction parameters. Absent means
	// the processor's defaults.
	Params map[string]any `yaml:"params,omitempty"`

	// Network is bound before the flow runs.
	Network NetworkSpec `yaml:"network"`

	// Flow is the sequence of driver operations.
	Flow []Step `yaml:"flow"`

	// Assertions validate the final telemetry and the recorded trace.
	Assertions []Assertion `yaml:"assertions"`

	// SessionID fixes the recorded session id. Defaults to DefaultSessionID.
	SessionID string `yaml:"session_id,omitempty"`
}

// NetworkSpec is either a network JSON file or an inline description
// built over the processor's schema. Properties a node or edge does not
// list keep their defaults.
type NetworkSpec struct {
	File    string     `yaml:"file,omitempty"`
	Nodes   []NodeSpec `yaml:"nodes,omitempty"`
	Edges   []EdgeSpec `yaml:"edges,omitempty"`
	Inputs  []uint32   `yaml:"inputs,omitempty"`
	Outputs []uint32   `yaml:"outputs,omitempty"`
}

// NodeSpec describes one inline node.
type NodeSpec struct {
	ID     uint32             `yaml:"id"`
	Name   string             `yaml:"name,omitempty"`
	Values map[string]float64 `yaml:"values,omitempty"`
}

// EdgeSpec describes one inline edge.
type EdgeSpec struct {
	From   uint32             `yaml:"from"`
	To     uint32             `yaml:"to"`
	Values map[string]float64 `yaml:"values,omitempty"`
}

// Step is one driver operation.
type Step struct {
	// Op selects the operation; see the Op* constants.
	Op string `yaml:"op"`

	// Node is the target node id for spike, raster, and tracking ops.
	Node *uint32 `yaml:"node,omitempty"`

	Time float64 `yaml:"time,omitempty"`

	// Value defaults to 1.
	Value *float64 `yaml:"value,omitempty"`

	// Raw applies the spike value unscaled instead of normalized.
	Raw bool `yaml:"raw,omitempty"`

	Raster   string  `yaml:"raster,omitempty"`
	Duration float64 `yaml:"duration,omitempty"`

	// On defaults to true for tracking ops.
	On *bool `yaml:"on,omitempty"`

	// ExpectError is the error code the step must fail with.
	ExpectError string `yaml:"expect_error,omitempty"`

	// Rows are the expected raster rows of a run_and_track step.
	Rows []string `yaml:"rows,omitempty"`
}

// Step operations.
const (
	OpSpike           = "spike"
	OpRaster          = "raster"
	OpRun             = "run"
	OpRunAndTrack     = "run_and_track"
	OpClearActivity   = "clear_activity"
	OpTrackNeuron     = "track_neuron"
	OpTrackOutput     = "track_output"
	OpTrackAllNeurons = "track_all_neurons"
	OpTrackAllOutputs = "track_all_outputs"
	OpSnapshot        = "snapshot"
	OpUnbind          = "unbind"
)

// Assertion validates final telemetry or the trace.
type Assertion struct {
	// Type specifies the assertion type; see the Assert* constants.
	Type string `yaml:"type"`

	Node  *uint32   `yaml:"node,omitempty"`
	Times []float64 `yaml:"times,omitempty"`
	Count *int      `yaml:"count,omitempty"`
	Value *float64  `yaml:"value,omitempty"`

	// Op is the recorded operation kind (trace_count).
	Op string `yaml:"op,omitempty"`

	// Ops is the expected operation order (trace_order).
	Ops []string `yaml:"ops,omitempty"`
}

// Assertion type constants.
const (
	AssertFires         = "fires"
	AssertCount         = "count"
	AssertLastFire      = "last_fire"
	AssertCharge        = "charge"
	AssertOutputCount   = "output_count"
	AssertTime          = "time"
	AssertTraceCount    = "trace_count"
	AssertTraceOrder    = "trace_order"
	AssertDeterministic = "deterministic"
)

// LoadScenario reads and parses a scenario YAML file. A network file
// path is resolved relative to the scenario file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	s, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}
	if f := s.Network.File; f != "" && !filepath.IsAbs(f) {
		s.Network.File = filepath.Join(filepath.Dir(path), f)
	}
	return s, nil
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Processor == "" {
		return fmt.Errorf("processor is required")
	}
	inline := len(s.Network.Nodes) > 0 || len(s.Network.Edges) > 0 || len(s.Network.Inputs) > 0 || len(s.Network.Outputs) > 0
	if s.Network.File != "" && inline {
		return fmt.Errorf("network: give either file or an inline network, not both")
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Flow {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(i int, st *Step) error {
	switch st.Op {
	case OpSpike, OpTrackNeuron, OpTrackOutput:
		if st.Node == nil {
			return fmt.Errorf("flow[%d]: node is required for %s", i, st.Op)
		}
	case OpRaster:
		if st.Node == nil || st.Raster == "" {
			return fmt.Errorf("flow[%d]: node and raster are required for raster", i)
		}
	case OpRun, OpRunAndTrack:
		if len(st.Rows) > 0 && st.Op != OpRunAndTrack {
			return fmt.Errorf("flow[%d]: rows only apply to run_and_track", i)
		}
	case OpClearActivity, OpTrackAllNeurons, OpTrackAllOutputs, OpSnapshot, OpUnbind:
	case "":
		return fmt.Errorf("flow[%d]: op is required", i)
	default:
		return fmt.Errorf("flow[%d]: unknown op %q", i, st.Op)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertFires:
		if a.Node == nil || a.Times == nil {
			return fmt.Errorf("assertions[%d]: node and times are required for fires", index)
		}
	case AssertCount, AssertOutputCount:
		if a.Node == nil || a.Count == nil {
			return fmt.Errorf("assertions[%d]: node and count are required for %s", index, a.Type)
		}
	case AssertLastFire, AssertCharge:
		if a.Node == nil || a.Value == nil {
			return fmt.Errorf("assertions[%d]: node and value are required for %s", index, a.Type)
		}
	case AssertTime:
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for time", index)
		}
	case AssertTraceCount:
		if a.Op == "" || a.Count == nil {
			return fmt.Errorf("assertions[%d]: op and count are required for trace_count", index)
		}
		if *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertTraceOrder:
		if len(a.Ops) == 0 {
			return fmt.Errorf("assertions[%d]: ops list is required for trace_order", index)
		}
	case AssertDeterministic:
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
