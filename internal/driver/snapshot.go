package driver

import (
	"context"
	"fmt"

	"github.com/roach88/neurograph/internal/graph"
	"github.com/roach88/neurograph/internal/ir"
	"github.com/roach88/neurograph/internal/network"
	"github.com/roach88/neurograph/internal/processor"
)

// Metric names reported in Snapshot.Unsupported.
const (
	MetricLastFires       = "neuron_last_fires"
	MetricCounts          = "neuron_counts"
	MetricCharges         = "neuron_charges"
	MetricVectors         = "neuron_vectors"
	MetricOutputLastFires = "output_last_fires"
	MetricOutputCounts    = "output_counts"
	MetricOutputVectors   = "output_vectors"
	MetricSynapses        = "synapse_weights"
)

// Snapshot is the full telemetry of a bound processor at one instant.
//
// Per-neuron vectors are indexed by Order. A metric the processor does
// not support comes back empty and is listed in Unsupported, which is
// how callers tell it apart from a metric with nothing recorded.
type Snapshot struct {
	Time             float64            `json:"time"`
	Order            []uint32           `json:"order"`
	OrderFingerprint string             `json:"order_fingerprint"`
	LastFires        []float64          `json:"last_fires"`
	Counts           []int              `json:"counts"`
	Charges          []float64          `json:"charges"`
	Vectors          [][]float64        `json:"vectors"`
	OutputLastFires  []float64          `json:"output_last_fires"`
	OutputCounts     []int              `json:"output_counts"`
	OutputVectors    [][]float64        `json:"output_vectors"`
	Synapses         processor.Synapses `json:"synapses"`
	Unsupported      []string           `json:"unsupported,omitempty"`

	// Hash is the snapshot fingerprint. Equal telemetry, equal hash.
	Hash string `json:"-"`

	order *graph.Order
}

// StaleFor reports whether net has changed structurally since the
// snapshot's order was computed, i.e. whether indexing net's nodes by
// this snapshot would be wrong.
func (s *Snapshot) StaleFor(net *network.Network) bool {
	if s.order == nil {
		return true
	}
	return s.order.Stale(net)
}

// Index returns the position of node id in the snapshot's vectors.
func (s *Snapshot) Index(id uint32) (int, bool) {
	if s.order == nil {
		return 0, false
	}
	return s.order.Index(id)
}

// Snapshot collects every telemetry metric and records it when a
// recorder is attached.
func (d *Driver) Snapshot(ctx context.Context) (*Snapshot, error) {
	if d.net == nil {
		return nil, notBound("snapshot")
	}
	snap := d.collect()
	hash, err := ir.Fingerprint(ir.DomainSnapshot, snap)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	snap.Hash = hash

	if d.recorder != nil {
		if err := d.recorder.Snapshot(ctx, snap); err != nil {
			return nil, fmt.Errorf("record snapshot: %w", err)
		}
	}
	return snap, nil
}

func (d *Driver) collect() *Snapshot {
	p := d.proc
	snap := &Snapshot{
		Time:             p.Time(),
		Order:            d.order.IDs(),
		OrderFingerprint: d.order.Fingerprint(),
		LastFires:        p.NeuronLastFires(),
		Counts:           p.NeuronCounts(),
		Charges:          p.NeuronCharges(),
		Vectors:          p.NeuronVectors(),
		OutputLastFires:  p.OutputLastFires(),
		OutputCounts:     p.OutputCounts(),
		OutputVectors:    p.OutputVectors(),
		Synapses:         p.SynapseWeights(),
		order:            d.order,
	}

	neurons := d.order.Len() > 0
	outputs := d.net.NumOutputs() > 0
	for _, m := range []struct {
		name    string
		empty   bool
		expects bool
	}{
		{MetricLastFires, len(snap.LastFires) == 0, neurons},
		{MetricCounts, len(snap.Counts) == 0, neurons},
		{MetricCharges, len(snap.Charges) == 0, neurons},
		{MetricVectors, len(snap.Vectors) == 0, neurons},
		{MetricOutputLastFires, len(snap.OutputLastFires) == 0, outputs},
		{MetricOutputCounts, len(snap.OutputCounts) == 0, outputs},
		{MetricOutputVectors, len(snap.OutputVectors) == 0, outputs},
		{MetricSynapses, snap.Synapses.Len() == 0, d.net.NumEdges() > 0},
	} {
		if m.empty && m.expects {
			snap.Unsupported = append(snap.Unsupported, m.name)
		}
	}
	return snap
}
