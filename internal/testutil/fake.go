package testutil

import (
	"encoding/json"

	"github.com/roach88/neurograph/internal/graph"
	"github.com/roach88/neurograph/internal/ir"
	"github.com/roach88/neurograph/internal/network"
	"github.com/roach88/neurograph/internal/processor"
	"github.com/roach88/neurograph/internal/property"
)

// FakeProcessor is a processor that records calls and simulates nothing.
//
// Every telemetry method returns an empty result, which the driver
// reports as an unsupported metric. Spikes are queued and counted so
// tests can assert whether a spike reached the processor at all.
type FakeProcessor struct {
	Schema *property.Pack

	// LoadErr, when set, is returned by LoadNetwork.
	LoadErr error

	// Calls counts invocations per method name.
	Calls map[string]int

	// Applied holds every spike accepted since the last Run or Clear.
	Applied []ir.Spike

	state processor.State
	time  float64
}

// NewFakeProcessor creates a fake requiring schema.
func NewFakeProcessor(schema *property.Pack) *FakeProcessor {
	return &FakeProcessor{Schema: schema, Calls: make(map[string]int)}
}

func (f *FakeProcessor) call(name string) { f.Calls[name]++ }

// Name implements processor.Engine.
func (f *FakeProcessor) Name() string { return "fake" }

// Params implements processor.Engine.
func (f *FakeProcessor) Params() json.RawMessage { return json.RawMessage(`{}`) }

// Properties implements processor.Engine.
func (f *FakeProcessor) Properties() *property.Pack { return f.Schema.Clone() }

// State implements processor.Engine.
func (f *FakeProcessor) State() processor.State { return f.state }

// LoadNetwork implements processor.Engine.
func (f *FakeProcessor) LoadNetwork(net *network.Network, order *graph.Order) error {
	f.call("LoadNetwork")
	f.Clear()
	if f.LoadErr != nil {
		return f.LoadErr
	}
	if err := processor.CheckSchema(f.Schema, net); err != nil {
		return err
	}
	if err := processor.CheckOrder(net, order); err != nil {
		return err
	}
	f.state = processor.Bound
	return nil
}

// Clear implements processor.Engine.
func (f *FakeProcessor) Clear() {
	f.call("Clear")
	f.state = processor.Unbound
	f.Applied = nil
	f.time = 0
}

// ClearActivity implements processor.Engine.
func (f *FakeProcessor) ClearActivity() {
	f.call("ClearActivity")
	f.Applied = nil
	f.time = 0
}

// ApplySpike implements processor.Engine.
func (f *FakeProcessor) ApplySpike(s ir.Spike, normalized bool) error {
	f.call("ApplySpike")
	if f.state != processor.Bound {
		return processor.NewError(processor.ErrCodeNotBound, "fake: not bound")
	}
	if err := processor.ValidateSpike(s, normalized); err != nil {
		return err
	}
	f.Applied = append(f.Applied, s)
	return nil
}

// PendingSpikes implements processor.Engine.
func (f *FakeProcessor) PendingSpikes() int { return len(f.Applied) }

// Run implements processor.Engine.
func (f *FakeProcessor) Run(duration float64) error {
	f.call("Run")
	f.Applied = nil
	if f.state != processor.Bound {
		return processor.NewError(processor.ErrCodeNotBound, "fake: not bound")
	}
	if duration < 0 {
		return processor.NewError(processor.ErrCodeNegativeTime, "fake: negative duration")
	}
	f.time += duration
	return nil
}

// Time implements processor.Engine.
func (f *FakeProcessor) Time() float64 { return f.time }

// TrackNeuronEvents implements processor.Engine.
func (f *FakeProcessor) TrackNeuronEvents(uint32, bool) error {
	f.call("TrackNeuronEvents")
	return nil
}

// TrackOutputEvents implements processor.Engine.
func (f *FakeProcessor) TrackOutputEvents(int, bool) error {
	f.call("TrackOutputEvents")
	return nil
}

// NeuronLastFires implements processor.Telemetry.
func (f *FakeProcessor) NeuronLastFires() []float64 { return nil }

// NeuronCounts implements processor.Telemetry.
func (f *FakeProcessor) NeuronCounts() []int { return nil }

// NeuronCharges implements processor.Telemetry.
func (f *FakeProcessor) NeuronCharges() []float64 { return nil }

// NeuronVectors implements processor.Telemetry.
func (f *FakeProcessor) NeuronVectors() [][]float64 { return nil }

// OutputLastFire implements processor.Telemetry.
func (f *FakeProcessor) OutputLastFire(int) (float64, error) { return -1, nil }

// OutputLastFires implements processor.Telemetry.
func (f *FakeProcessor) OutputLastFires() []float64 { return nil }

// OutputCount implements processor.Telemetry.
func (f *FakeProcessor) OutputCount(int) (int, error) { return 0, nil }

// OutputCounts implements processor.Telemetry.
func (f *FakeProcessor) OutputCounts() []int { return nil }

// OutputVector implements processor.Telemetry.
func (f *FakeProcessor) OutputVector(int) ([]float64, error) { return nil, nil }

// OutputVectors implements processor.Telemetry.
func (f *FakeProcessor) OutputVectors() [][]float64 { return nil }

// SynapseWeights implements processor.Telemetry.
func (f *FakeProcessor) SynapseWeights() processor.Synapses { return processor.Synapses{} }

var _ processor.Processor = (*FakeProcessor)(nil)
