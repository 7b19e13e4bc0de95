package risp

import (
	"encoding/json"
	"log/slog"
	"math"

	"github.com/roach88/neurograph/internal/graph"
	"github.com/roach88/neurograph/internal/ir"
	"github.com/roach88/neurograph/internal/network"
	"github.com/roach88/neurograph/internal/processor"
	"github.com/roach88/neurograph/internal/property"
)

// Name is the registry name of this back-end.
const Name = "risp"

// thresholdEpsilon makes a continuous threshold exclusive.
const thresholdEpsilon = 1e-7

type neuron struct {
	id        uint32
	threshold float64
	leak      bool
	charge    float64
	lastFire  float64
	count     int
	fireTimes []float64
	synapses  []synapse

	trackNeuron bool
	trackOutput bool
	check       bool
}

func (n *neuron) tracked() bool {
	return n.trackNeuron || n.trackOutput
}

func (n *neuron) fire(t int) {
	if n.tracked() {
		n.fireTimes = append(n.fireTimes, float64(t))
	}
	n.lastFire = float64(t)
	n.count++
	n.charge = 0
}

func (n *neuron) resetTracking() {
	n.lastFire = -1
	n.count = 0
	n.fireTimes = n.fireTimes[:0]
}

type synapse struct {
	to     *neuron
	weight float64
	delay  int
}

type event struct {
	to    *neuron
	value float64
}

// Processor simulates one bound network.
//
// Not safe for concurrent use.
type Processor struct {
	params Params
	pack   *property.Pack
	logger *slog.Logger

	state   processor.State
	queue   *processor.SpikeQueue
	order   *graph.Order
	neurons []*neuron // in bound order
	byID    map[uint32]*neuron
	inputs  []*neuron // by input channel; nil for a vacant channel
	outputs []*neuron // by output channel; nil for a vacant channel

	// events[t] holds the deliveries t steps after the start of the next run.
	events [][]event
	time   float64
	fires  int
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the logger used for load and run diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(p *Processor) { p.logger = l }
}

// New constructs an unbound processor from a parameter blob.
func New(raw json.RawMessage, opts ...Option) (*Processor, error) {
	params, err := ParseParams(raw)
	if err != nil {
		return nil, err
	}
	return NewWithParams(params, opts...)
}

// NewWithParams constructs an unbound processor from resolved parameters.
func NewWithParams(params Params, opts ...Option) (*Processor, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	p := &Processor{
		params: params,
		pack:   params.Properties(),
		logger: slog.Default(),
		queue:  processor.NewSpikeQueue(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Register adds the risp factory to reg.
func Register(reg *processor.Registry) error {
	return reg.Register(Name, func(raw json.RawMessage) (processor.Processor, error) {
		return New(raw)
	})
}

// Name returns the registry name.
func (p *Processor) Name() string { return Name }

// Params returns the resolved parameters as JSON.
func (p *Processor) Params() json.RawMessage {
	// Params holds only finite numbers, bools, and strings.
	data, _ := json.Marshal(p.params)
	return data
}

// Resolved returns the resolved parameters.
func (p *Processor) Resolved() Params { return p.params }

// Properties returns the schema a network must carry.
func (p *Processor) Properties() *property.Pack { return p.pack.Clone() }

// WeightProperty names the edge property synapse weights map to.
func (p *Processor) WeightProperty() string { return PropWeight }

// State reports the binding state.
func (p *Processor) State() processor.State { return p.state }

// Fires returns the number of neuron firings since binding or the last
// ClearActivity.
func (p *Processor) Fires() int { return p.fires }

// LoadNetwork binds net, replacing any prior binding. On failure the
// processor is left unbound.
func (p *Processor) LoadNetwork(net *network.Network, order *graph.Order) error {
	p.Clear()

	if err := processor.CheckSchema(p.pack, net); err != nil {
		return err
	}
	if err := processor.CheckOrder(net, order); err != nil {
		return err
	}

	neurons := make([]*neuron, order.Len())
	byID := make(map[uint32]*neuron, order.Len())
	for i, id := range order.IDs() {
		n, err := p.buildNeuron(net, id)
		if err != nil {
			return err
		}
		neurons[i] = n
		byID[id] = n
	}

	synapses := 0
	for _, e := range net.Edges() {
		s, err := p.buildSynapse(net, e, byID)
		if err != nil {
			return err
		}
		from := byID[e.From]
		from.synapses = append(from.synapses, s)
		synapses++
	}

	p.neurons = neurons
	p.byID = byID
	p.inputs = channels(net.Inputs(), byID)
	p.outputs = channels(net.Outputs(), byID)
	p.order = order
	p.state = processor.Bound

	p.logger.Debug("risp network loaded",
		"neurons", len(neurons),
		"synapses", synapses,
		"inputs", len(p.inputs),
		"outputs", len(p.outputs),
	)
	return nil
}

func (p *Processor) buildNeuron(net *network.Network, id uint32) (*neuron, error) {
	threshold, err := net.NodeValue(id, PropThreshold)
	if err != nil {
		return nil, err
	}
	if !p.params.ThresholdInclusive {
		if p.params.Discrete {
			threshold++
		} else {
			threshold += thresholdEpsilon
		}
	}

	leak := p.params.LeakMode == LeakAll
	if p.params.LeakMode == LeakConfigurable {
		v, err := net.NodeValue(id, PropLeak)
		if err != nil {
			return nil, err
		}
		leak = v != 0
	}

	return &neuron{id: id, threshold: threshold, leak: leak, lastFire: -1}, nil
}

func (p *Processor) buildSynapse(net *network.Network, e network.Edge, byID map[uint32]*neuron) (synapse, error) {
	weight, err := net.EdgeValue(e.From, e.To, PropWeight)
	if err != nil {
		return synapse{}, err
	}
	delay, err := net.EdgeValue(e.From, e.To, PropDelay)
	if err != nil {
		return synapse{}, err
	}
	// Delay 0 would deliver into the step being processed.
	d := max(int(delay), 1)
	return synapse{to: byID[e.To], weight: weight, delay: d}, nil
}

func channels(list []int64, byID map[uint32]*neuron) []*neuron {
	out := make([]*neuron, len(list))
	for i, id := range list {
		if id >= 0 {
			out[i] = byID[uint32(id)]
		}
	}
	return out
}

// Clear unbinds the network and drops all simulation state.
func (p *Processor) Clear() {
	p.state = processor.Unbound
	p.neurons = nil
	p.byID = nil
	p.inputs = nil
	p.outputs = nil
	p.order = nil
	p.events = nil
	p.time = 0
	p.fires = 0
	p.queue.Reset()
}

// ClearActivity resets charges, firing history, pending events, and time.
// Tracking toggles and the binding are kept.
func (p *Processor) ClearActivity() {
	for _, n := range p.neurons {
		n.charge = 0
		n.check = false
		n.resetTracking()
	}
	p.events = nil
	p.time = 0
	p.fires = 0
	p.queue.Reset()
}

// ApplySpike queues s on input channel s.ID. Normalized values are scaled
// by spike_value_factor when the spike is scheduled.
func (p *Processor) ApplySpike(s ir.Spike, normalized bool) error {
	if p.state != processor.Bound {
		return processor.NewError(processor.ErrCodeNotBound, "risp: apply spike with no network loaded")
	}
	if err := processor.ValidateSpike(s, normalized); err != nil {
		return err
	}
	if _, err := channel(p.inputs, s.ID, "input"); err != nil {
		return err
	}
	if normalized {
		s.Value *= p.params.SpikeValueFactor
	}
	p.queue.Push(s)
	return nil
}

// PendingSpikes returns the number of spikes queued for the next run.
func (p *Processor) PendingSpikes() int { return p.queue.Len() }

// Time returns simulated time since binding or the last ClearActivity.
func (p *Processor) Time() float64 { return p.time }

// Run advances simulated time by duration.
//
// Steps 0 through duration-1 are processed, or through duration when
// run_time_inclusive is set. Events scheduled past the last step carry
// over to the next run.
func (p *Processor) Run(duration float64) error {
	spikes := p.queue.Drain()
	if p.state != processor.Bound {
		return processor.NewError(processor.ErrCodeNotBound, "risp: run with no network loaded")
	}
	if math.IsNaN(duration) || duration < 0 {
		return processor.NewError(processor.ErrCodeNegativeTime, "risp: run duration %v must be non-negative", duration)
	}

	for _, s := range spikes {
		p.schedule(p.inputs[s.ID], int(math.Floor(s.Time)), p.quantize(s.Value))
	}
	for _, n := range p.neurons {
		n.resetTracking()
	}

	last := int(math.Floor(duration))
	if !p.params.RunTimeInclusive {
		last--
	}
	for t := 0; t <= last; t++ {
		p.step(t)
	}

	consumed := last + 1
	if consumed >= len(p.events) {
		p.events = p.events[:0]
	} else {
		p.events = p.events[consumed:]
	}

	for _, n := range p.neurons {
		p.settle(n)
	}
	p.time += float64(consumed)
	return nil
}

func (p *Processor) quantize(v float64) float64 {
	if p.params.Discrete {
		return math.Floor(v)
	}
	return v
}

func (p *Processor) schedule(n *neuron, t int, v float64) {
	for len(p.events) <= t {
		p.events = append(p.events, nil)
	}
	p.events[t] = append(p.events[t], event{to: n, value: v})
}

// settle applies leak and the minimum potential floor.
func (p *Processor) settle(n *neuron) {
	if n.leak {
		n.charge = 0
	}
	if n.charge < p.params.MinPotential {
		n.charge = p.params.MinPotential
	}
}

// step processes the events due at time t of the current run.
func (p *Processor) step(t int) {
	if t >= len(p.events) {
		return
	}
	es := p.events[t]
	p.events[t] = nil

	// CRITICAL: leak and floor apply before any event of this step lands,
	// and only to neurons that receive one.
	for _, e := range es {
		p.settle(e.to)
	}
	for _, e := range es {
		e.to.check = true
		e.to.charge += e.value
	}
	for _, e := range es {
		n := e.to
		if !n.check {
			continue
		}
		n.check = false
		if n.charge < n.threshold {
			continue
		}
		for _, s := range n.synapses {
			p.schedule(s.to, t+s.delay, s.weight)
		}
		n.fire(t)
		p.fires++
	}
}

// TrackNeuronEvents toggles firing-time retention for node id.
func (p *Processor) TrackNeuronEvents(id uint32, on bool) error {
	if p.state != processor.Bound {
		return processor.NewError(processor.ErrCodeNotBound, "risp: track with no network loaded")
	}
	n, ok := p.byID[id]
	if !ok {
		return processor.NewError(processor.ErrCodeUnknownNeuron, "risp: node %d is not bound", id)
	}
	n.trackNeuron = on
	return nil
}

// TrackOutputEvents toggles firing-time retention for output channel id.
func (p *Processor) TrackOutputEvents(id int, on bool) error {
	if p.state != processor.Bound {
		return processor.NewError(processor.ErrCodeNotBound, "risp: track with no network loaded")
	}
	n, err := channel(p.outputs, id, "output")
	if err != nil {
		return err
	}
	n.trackOutput = on
	return nil
}

func channel(list []*neuron, id int, kind string) (*neuron, error) {
	if id < 0 || id >= len(list) || list[id] == nil {
		return nil, processor.NewError(processor.ErrCodeUnknownChannel, "risp: %s channel %d is not valid", kind, id)
	}
	return list[id], nil
}

var (
	_ processor.Processor    = (*Processor)(nil)
	_ processor.WeightSource = (*Processor)(nil)
)
