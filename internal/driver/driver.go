package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/neurograph/internal/graph"
	"github.com/roach88/neurograph/internal/ir"
	"github.com/roach88/neurograph/internal/logging"
	"github.com/roach88/neurograph/internal/network"
	"github.com/roach88/neurograph/internal/processor"
)

// Driver bridges a network and a processor.
//
// INVARIANTS:
//   - net and order are both nil or both set, and order is a fresh sort of net
//   - net is a private clone; callers never hold a reference to it
//   - tracked only holds ids of nodes in net
type Driver struct {
	proc     processor.Processor
	net      *network.Network
	order    *graph.Order
	tracked  map[uint32]bool
	logger   *slog.Logger
	recorder Recorder
	metrics  *Metrics
}

// Option configures a Driver.
type Option func(*driverConfig)

type driverConfig struct {
	logger   *slog.Logger
	recorder Recorder
	registry prometheus.Registerer
	metrics  *Metrics
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *driverConfig) { c.logger = l }
}

// WithRecorder records every state-changing operation.
func WithRecorder(r Recorder) Option {
	return func(c *driverConfig) { c.recorder = r }
}

// WithRegisterer registers the driver's metrics with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *driverConfig) { c.registry = reg }
}

// WithMetrics shares an existing collector set, e.g. across a replay and
// the session it reproduces.
func WithMetrics(m *Metrics) Option {
	return func(c *driverConfig) { c.metrics = m }
}

// New creates a driver for proc. The driver starts unbound even if proc
// is bound; call Bind.
func New(proc processor.Processor, opts ...Option) *Driver {
	cfg := driverConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	m := cfg.metrics
	if m == nil {
		m = NewMetrics(cfg.registry)
	}
	return &Driver{
		proc:     proc,
		tracked:  make(map[uint32]bool),
		logger:   cfg.logger,
		recorder: cfg.recorder,
		metrics:  m,
	}
}

// Processor returns the driven processor.
func (d *Driver) Processor() processor.Processor { return d.proc }

// Metrics returns the driver's collectors.
func (d *Driver) Metrics() *Metrics { return d.metrics }

// Bound reports whether a network is bound.
func (d *Driver) Bound() bool { return d.net != nil }

// Network returns a copy of the bound network, or nil.
func (d *Driver) Network() *network.Network {
	if d.net == nil {
		return nil
	}
	return d.net.Clone()
}

// Lookup resolves a display name or decimal id on the bound network.
func (d *Driver) Lookup(token string) (uint32, error) {
	if d.net == nil {
		return 0, notBound("lookup")
	}
	return d.net.Lookup(token)
}

// NodeName returns the display name of node id, or "" when the node has
// none or nothing is bound.
func (d *Driver) NodeName(id uint32) string {
	if d.net == nil {
		return ""
	}
	return d.net.Names().Name(id)
}

// Order returns the order telemetry is indexed by, or nil when unbound.
func (d *Driver) Order() *graph.Order { return d.order }

// Tracked returns the ids of neurons with event tracking on, in bound order.
func (d *Driver) Tracked() []uint32 {
	if d.order == nil {
		return nil
	}
	var ids []uint32
	for _, id := range d.order.IDs() {
		if d.tracked[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

func (d *Driver) record(ctx context.Context, kind ir.EventKind, payload any) error {
	if d.recorder == nil {
		return nil
	}
	if err := d.recorder.Record(ctx, kind, payload); err != nil {
		return fmt.Errorf("record %s: %w", kind, err)
	}
	return nil
}

// Bind sorts a clone of net, checks the processor schema, and loads it.
//
// On any failure the processor is cleared and the driver is unbound:
// a failed bind never leaves a stale prior binding in place.
func (d *Driver) Bind(ctx context.Context, net *network.Network) error {
	clone := net.Clone()
	d.reset()

	if err := processor.CheckSchema(d.proc.Properties(), clone); err != nil {
		d.proc.Clear()
		d.metrics.Binds.WithLabelValues("schema_mismatch").Inc()
		d.logger.Warn("bind rejected", "processor", d.proc.Name(), "error", err)
		return newError(ErrCodeBindFailed, err, "bind %s", d.proc.Name())
	}

	order := graph.Sort(clone)
	if err := d.proc.LoadNetwork(clone, order); err != nil {
		d.proc.Clear()
		d.metrics.Binds.WithLabelValues("error").Inc()
		d.logger.Warn("bind failed", "processor", d.proc.Name(), "error", err)
		return newError(ErrCodeBindFailed, err, "bind %s", d.proc.Name())
	}

	d.net = clone
	d.order = order
	d.metrics.Binds.WithLabelValues("ok").Inc()
	d.metrics.BoundNeurons.Set(float64(order.Len()))
	d.logger.Info("network bound",
		"processor", d.proc.Name(),
		"nodes", clone.NumNodes(),
		"edges", clone.NumEdges(),
		"order", order.Fingerprint()[:12],
	)
	return d.record(ctx, ir.EventBind, ir.BindPayload{Network: clone.ToDoc()})
}

func (d *Driver) reset() {
	d.net = nil
	d.order = nil
	clear(d.tracked)
	d.metrics.BoundNeurons.Set(0)
}

// Unbind clears the processor and drops the binding.
func (d *Driver) Unbind(ctx context.Context) error {
	d.proc.Clear()
	d.reset()
	return d.record(ctx, ir.EventUnbind, struct{}{})
}

// ApplySpike queues a spike on the input channel of node id.
// Range and time checks run before the processor is called.
func (d *Driver) ApplySpike(ctx context.Context, id uint32, t, v float64, normalized bool) error {
	if d.net == nil {
		d.metrics.SpikesRejected.WithLabelValues(string(ErrCodeNotBound)).Inc()
		return notBound("apply spike")
	}
	node, err := d.net.Node(id)
	if err != nil {
		d.metrics.SpikesRejected.WithLabelValues(string(network.CodeOf(err))).Inc()
		return err
	}
	if !node.IsInput() {
		d.metrics.SpikesRejected.WithLabelValues(string(ErrCodeNotInput)).Inc()
		return newError(ErrCodeNotInput, nil, "node %d is not an input", id)
	}

	spike := ir.Spike{ID: node.InputID, Time: t, Value: v}
	if err := processor.ValidateSpike(spike, normalized); err != nil {
		d.metrics.SpikesRejected.WithLabelValues(string(processor.CodeOf(err))).Inc()
		return err
	}
	if err := d.proc.ApplySpike(spike, normalized); err != nil {
		d.metrics.SpikesRejected.WithLabelValues(string(processor.CodeOf(err))).Inc()
		return err
	}
	d.metrics.SpikesApplied.Inc()
	d.logger.Log(ctx, logging.LevelTrace, "spike applied", "node", id, "input", node.InputID, "time", t, "value", v)

	return d.record(ctx, ir.EventSpike, ir.SpikePayload{
		Spike:      ir.Spike{ID: int(id), Time: t, Value: v},
		Normalized: normalized,
	})
}

// ApplySpikeRaster applies a normalized spike of value 1 to node id at
// each time whose raster character is '1'. The raster is checked before
// any spike is applied.
func (d *Driver) ApplySpikeRaster(ctx context.Context, id uint32, raster string) error {
	for i, c := range raster {
		if c != '0' && c != '1' {
			return newError(ErrCodeBadRaster, nil, "raster %q: character %d is %q", raster, i, c)
		}
	}
	for i, c := range raster {
		if c == '1' {
			if err := d.ApplySpike(ctx, id, float64(i), 1, true); err != nil {
				return err
			}
		}
	}
	return nil
}

// PendingSpikes returns the processor's queued spike count.
func (d *Driver) PendingSpikes() int { return d.proc.PendingSpikes() }

// Time returns the processor's simulated time.
func (d *Driver) Time() float64 { return d.proc.Time() }

// Run advances simulated time by duration.
func (d *Driver) Run(ctx context.Context, duration float64) error {
	if d.net == nil {
		return notBound("run")
	}
	if err := d.proc.Run(duration); err != nil {
		return err
	}
	d.metrics.Runs.Inc()
	d.metrics.SimulatedTime.Add(duration)
	d.logger.Log(ctx, logging.LevelTrace, "run", "duration", duration, "time", d.proc.Time())
	return d.record(ctx, ir.EventRun, ir.RunPayload{Duration: duration})
}

// ClearActivity resets transient simulation state, keeping the binding.
func (d *Driver) ClearActivity(ctx context.Context) error {
	d.proc.ClearActivity()
	return d.record(ctx, ir.EventClearActivity, struct{}{})
}

// TrackNeuron toggles firing-time retention for node id.
func (d *Driver) TrackNeuron(ctx context.Context, id uint32, on bool) error {
	if d.net == nil {
		return notBound("track neuron")
	}
	if _, err := d.net.Node(id); err != nil {
		return err
	}
	if err := d.proc.TrackNeuronEvents(id, on); err != nil {
		return err
	}
	if on {
		d.tracked[id] = true
	} else {
		delete(d.tracked, id)
	}
	return d.record(ctx, ir.EventTrackNeuron, ir.TrackPayload{ID: int64(id), On: on})
}

// TrackOutput toggles firing-time retention for the output channel of node id.
func (d *Driver) TrackOutput(ctx context.Context, id uint32, on bool) error {
	if d.net == nil {
		return notBound("track output")
	}
	node, err := d.net.Node(id)
	if err != nil {
		return err
	}
	if !node.IsOutput() {
		return newError(ErrCodeNotOutput, nil, "node %d is not an output", id)
	}
	if err := d.proc.TrackOutputEvents(node.OutputID, on); err != nil {
		return err
	}
	return d.record(ctx, ir.EventTrackOutput, ir.TrackPayload{ID: int64(id), On: on})
}

// TrackAllNeurons toggles tracking on every bound neuron.
func (d *Driver) TrackAllNeurons(ctx context.Context, on bool) (network.BatchReport, error) {
	if d.net == nil {
		return network.BatchReport{}, notBound("track neurons")
	}
	return network.Apply(d.net.NodeIDs(), network.NodeLabel, func(id uint32) error {
		return d.TrackNeuron(ctx, id, on)
	}), nil
}

// TrackAllOutputs toggles tracking on every attached output channel.
func (d *Driver) TrackAllOutputs(ctx context.Context, on bool) (network.BatchReport, error) {
	if d.net == nil {
		return network.BatchReport{}, notBound("track outputs")
	}
	var ids []uint32
	for _, id := range d.net.Outputs() {
		if id >= 0 {
			ids = append(ids, uint32(id))
		}
	}
	return network.Apply(ids, network.NodeLabel, func(id uint32) error {
		return d.TrackOutput(ctx, id, on)
	}), nil
}

// OutputBinding pairs an output channel with its node and telemetry.
type OutputBinding struct {
	Channel  int       `json:"channel"`
	NodeID   uint32    `json:"node_id"`
	LastFire float64   `json:"last_fire"`
	Count    int       `json:"count"`
	Vector   []float64 `json:"vector"`
}

// OutputsByNode returns telemetry for every attached output channel in
// channel order. Vacant channels are skipped.
func (d *Driver) OutputsByNode() ([]OutputBinding, error) {
	if d.net == nil {
		return nil, notBound("outputs")
	}
	var out []OutputBinding
	for ch, id := range d.net.Outputs() {
		if id < 0 {
			continue
		}
		b := OutputBinding{Channel: ch, NodeID: uint32(id)}
		var err error
		if b.LastFire, err = d.proc.OutputLastFire(ch); err != nil {
			return nil, err
		}
		if b.Count, err = d.proc.OutputCount(ch); err != nil {
			return nil, err
		}
		if b.Vector, err = d.proc.OutputVector(ch); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// PullNetwork returns a copy of the bound network with edge weights
// replaced by the processor's current synapse weights, when the
// processor names its weight property. Weights for edges the processor
// does not report are left unchanged.
func (d *Driver) PullNetwork() (*network.Network, error) {
	if d.net == nil {
		return nil, notBound("pull network")
	}
	pulled := d.net.Clone()
	ws, ok := d.proc.(processor.WeightSource)
	if !ok {
		return pulled, nil
	}
	prop := ws.WeightProperty()
	syn := d.proc.SynapseWeights()
	for i := range syn.Len() {
		err := pulled.SetEdgeProperty(syn.Pre[i], syn.Post[i], prop, syn.Weights[i])
		if err != nil && !errors.Is(err, network.ErrUnknownEdge) {
			return nil, fmt.Errorf("pull network: %w", err)
		}
	}
	return pulled, nil
}
