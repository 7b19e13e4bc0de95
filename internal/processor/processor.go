package processor

import (
	"encoding/json"

	"github.com/roach88/neurograph/internal/graph"
	"github.com/roach88/neurograph/internal/ir"
	"github.com/roach88/neurograph/internal/network"
	"github.com/roach88/neurograph/internal/property"
)

// State is the binding state of a processor.
type State int

const (
	// Unbound means no network is loaded.
	Unbound State = iota
	// Bound means a network is loaded and telemetry is meaningful.
	Bound
)

// String returns the state name.
func (s State) String() string {
	if s == Bound {
		return "bound"
	}
	return "unbound"
}

// Engine covers the lifecycle and stimulus half of the contract.
type Engine interface {
	// Name returns the registered back-end name.
	Name() string

	// Params returns the construction parameters with defaults filled in.
	Params() json.RawMessage

	// Properties returns the property schema a bound network must carry.
	Properties() *property.Pack

	// State reports whether a network is bound.
	State() State

	// LoadNetwork binds net, replacing any prior binding. order must be a
	// fresh sort of net; telemetry is indexed by it.
	LoadNetwork(net *network.Network, order *graph.Order) error

	// Clear unbinds the network and drops all simulation state.
	Clear()

	// ClearActivity resets charge, firing history, pending spikes, and time
	// while keeping the binding.
	ClearActivity()

	// ApplySpike queues s on input channel s.ID.
	ApplySpike(s ir.Spike, normalized bool) error

	// PendingSpikes returns the number of queued spikes.
	PendingSpikes() int

	// Run advances simulated time by duration. Queued spikes are consumed
	// whether or not the run succeeds.
	Run(duration float64) error

	// Time returns the simulated time elapsed since binding or the last
	// ClearActivity.
	Time() float64

	// TrackNeuronEvents toggles retention of firing times for node id.
	TrackNeuronEvents(id uint32, on bool) error

	// TrackOutputEvents toggles retention of firing times for output channel id.
	TrackOutputEvents(id int, on bool) error
}

// Synapses holds parallel pre, post, and weight arrays.
type Synapses struct {
	Pre     []uint32  `json:"pre"`
	Post    []uint32  `json:"post"`
	Weights []float64 `json:"weights"`
}

// Len returns the number of synapses.
func (s Synapses) Len() int {
	return len(s.Pre)
}

// Telemetry is the read-only half of the contract.
//
// Neuron* results are indexed by the bound order. Output* results are
// indexed by output channel.
type Telemetry interface {
	NeuronLastFires() []float64
	NeuronCounts() []int
	NeuronCharges() []float64
	NeuronVectors() [][]float64

	OutputLastFire(id int) (float64, error)
	OutputLastFires() []float64
	OutputCount(id int) (int, error)
	OutputCounts() []int
	OutputVector(id int) ([]float64, error)
	OutputVectors() [][]float64

	SynapseWeights() Synapses
}

// Processor is a complete simulation back-end.
type Processor interface {
	Engine
	Telemetry
}

// WeightSource is implemented by back-ends that can name the edge property
// their synapse weights are written back to.
type WeightSource interface {
	WeightProperty() string
}
