package risp

import (
	"slices"

	"github.com/roach88/neurograph/internal/processor"
)

// NeuronLastFires returns each neuron's last fire time in the current
// run, or -1, in bound order.
func (p *Processor) NeuronLastFires() []float64 {
	return collect(p.neurons, func(n *neuron) float64 { return n.lastFire })
}

// NeuronCounts returns each neuron's fire count in the current run.
func (p *Processor) NeuronCounts() []int {
	return collect(p.neurons, func(n *neuron) int { return n.count })
}

// NeuronCharges returns each neuron's charge.
func (p *Processor) NeuronCharges() []float64 {
	return collect(p.neurons, func(n *neuron) float64 { return n.charge })
}

// NeuronVectors returns each neuron's fire times. Untracked neurons have
// an empty vector.
func (p *Processor) NeuronVectors() [][]float64 {
	return collect(p.neurons, func(n *neuron) []float64 { return fireTimes(n) })
}

// OutputLastFire returns the last fire time of output channel id.
func (p *Processor) OutputLastFire(id int) (float64, error) {
	n, err := p.output(id)
	if err != nil {
		return 0, err
	}
	return n.lastFire, nil
}

// OutputLastFires returns the last fire time of every output channel.
// Vacant channels report -1.
func (p *Processor) OutputLastFires() []float64 {
	return collect(p.outputs, func(n *neuron) float64 {
		if n == nil {
			return -1
		}
		return n.lastFire
	})
}

// OutputCount returns the fire count of output channel id.
func (p *Processor) OutputCount(id int) (int, error) {
	n, err := p.output(id)
	if err != nil {
		return 0, err
	}
	return n.count, nil
}

// OutputCounts returns the fire count of every output channel.
func (p *Processor) OutputCounts() []int {
	return collect(p.outputs, func(n *neuron) int {
		if n == nil {
			return 0
		}
		return n.count
	})
}

// OutputVector returns the fire times of output channel id.
func (p *Processor) OutputVector(id int) ([]float64, error) {
	n, err := p.output(id)
	if err != nil {
		return nil, err
	}
	return fireTimes(n), nil
}

// OutputVectors returns the fire times of every output channel.
func (p *Processor) OutputVectors() [][]float64 {
	return collect(p.outputs, func(n *neuron) []float64 {
		if n == nil {
			return []float64{}
		}
		return fireTimes(n)
	})
}

// SynapseWeights lists every synapse, grouped by presynaptic neuron in
// bound order and by ascending target id within a neuron.
func (p *Processor) SynapseWeights() processor.Synapses {
	var out processor.Synapses
	for _, n := range p.neurons {
		for _, s := range n.synapses {
			out.Pre = append(out.Pre, n.id)
			out.Post = append(out.Post, s.to.id)
			out.Weights = append(out.Weights, s.weight)
		}
	}
	return out
}

func (p *Processor) output(id int) (*neuron, error) {
	if p.state != processor.Bound {
		return nil, processor.NewError(processor.ErrCodeNotBound, "risp: no network loaded")
	}
	return channel(p.outputs, id, "output")
}

func fireTimes(n *neuron) []float64 {
	if n.fireTimes == nil {
		return []float64{}
	}
	return slices.Clone(n.fireTimes)
}

func collect[T any](list []*neuron, f func(*neuron) T) []T {
	if list == nil {
		return nil
	}
	out := make([]T, len(list))
	for i, n := range list {
		out[i] = f(n)
	}
	return out
}
