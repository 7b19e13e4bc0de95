package shell

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/neurograph/internal/driver"
	"github.com/roach88/neurograph/internal/ir"
	"github.com/roach88/neurograph/internal/network"
	"github.com/roach88/neurograph/internal/processor"
	"github.com/roach88/neurograph/internal/processor/builtin"
	"github.com/roach88/neurograph/internal/schema"
)

// ProcTool is the interactive processor driver.
//
// It holds at most one processor at a time, made with MAKE or ML, and the
// driver wrapping it. Every processor made shares one set of driver metrics.
type ProcTool struct {
	*Shell
	reg       *processor.Registry
	gatherer  *prometheus.Registry
	metrics   *driver.Metrics
	recorders RecorderFactory
	d         *driver.Driver

	// applied lists the spikes applied since the last run.
	applied []ir.Spike
}

// NewProcTool creates a processor driver with no processor.
func NewProcTool(in io.Reader, out io.Writer, opts ...Option) *ProcTool {
	o := resolve(opts)
	if o.registry == nil {
		o.registry = builtin.Registry()
	}
	if o.registerer == nil {
		o.registerer = prometheus.NewRegistry()
	}
	t := &ProcTool{
		Shell:     newShell(in, out, "This is the processor tool.", o),
		reg:       o.registry,
		gatherer:  o.registerer,
		metrics:   driver.NewMetrics(o.registerer),
		recorders: o.recorders,
	}

	t.add("Action Commands",
		Command{Names: []string{"MAKE", "M"}, Args: "name [params_file]", Help: "Make a new processor with no network. Params JSON follows when no file is given.", Run: t.make},
		Command{Names: []string{"LOAD", "L"}, Args: "[network_file]", Help: "Load a network on the processor.", Run: t.load},
		Command{Names: []string{"ML"}, Args: "[network_file]", Help: "Make the processor named by the network and load the network.", Run: t.makeLoad},
		Command{Names: []string{"AS"}, Args: "node time value ...", Help: "Apply normalized spikes (node id, not input id).", Run: t.applySpikes(true)},
		Command{Names: []string{"ASV"}, Args: "node time value ...", Help: "Apply unnormalized spikes (node id, not input id).", Run: t.applySpikes(false)},
		Command{Names: []string{"ASR"}, Args: "node raster", Help: "Apply a spike raster string of 0s and 1s (node id, not input id).", Run: t.applyRaster},
		Command{Names: []string{"RUN"}, Args: "time", Help: "Run the network for time cycles.", Run: t.run},
		Command{Names: []string{"RSC", "RUN_SR_CH"}, Args: "time [node ...]", Help: "Run one cycle at a time and print spike raster and charge columns.", Run: t.runTracked},
		Command{Names: []string{"CA", "CLEAR-A"}, Help: "Clear the network's activity.", Run: t.clearActivity},
		Command{Names: []string{"C", "CLEAR"}, Help: "Remove the network from the processor.", Run: t.unbind},
	)
	t.add("Output Tracking Commands",
		Command{Names: []string{"OLF"}, Args: "[node ...]", Help: "Print the last fire time of the given outputs or all outputs.", Run: t.outputLastFires},
		Command{Names: []string{"OC"}, Args: "[node ...]", Help: "Print the fire count of the given outputs or all outputs.", Run: t.outputCounts},
		Command{Names: []string{"OT", "OV"}, Args: "[node ...]", Help: "Print the fire times of the given outputs or all outputs.", Run: t.outputVectors},
		Command{Names: []string{"TRACK_O"}, Args: "[node ...]", Help: "Track output events (empty means all).", Run: t.trackOutputs(true)},
		Command{Names: []string{"UNTRACK_O"}, Args: "[node ...]", Help: "Untrack output events (empty means all).", Run: t.trackOutputs(false)},
	)
	t.add("Neuron and Synapse Commands",
		Command{Names: []string{"NLF"}, Args: "T|F", Help: "Print neuron last fire times. T includes neurons that did not fire.", Run: t.neuronLastFires},
		Command{Names: []string{"NC"}, Args: "T|F", Help: "Print neuron fire counts. T includes neurons that did not fire.", Run: t.neuronCounts},
		Command{Names: []string{"TNC"}, Help: "Print the total fire count of all neurons.", Run: t.totalCount},
		Command{Names: []string{"NT", "NV"}, Args: "T|F", Help: "Print fire times of tracked neurons. T includes neurons that did not fire.", Run: t.neuronVectors},
		Command{Names: []string{"GSR"}, Args: "[T|F] [node ...]", Help: "Print the spike raster of tracked neurons. F hides hidden neurons.", Run: t.spikeRaster},
		Command{Names: []string{"NCH"}, Args: "[node ...]", Help: "Print neuron charges (empty means all).", Run: t.neuronCharges},
		Command{Names: []string{"NLFJ"}, Help: "Print neuron last fire times as JSON.", Run: t.metricJSON(driver.MetricLastFires)},
		Command{Names: []string{"NCJ"}, Help: "Print neuron fire counts as JSON.", Run: t.metricJSON(driver.MetricCounts)},
		Command{Names: []string{"NVJ"}, Help: "Print neuron fire times as JSON.", Run: t.metricJSON(driver.MetricVectors)},
		Command{Names: []string{"NCHJ"}, Help: "Print neuron charges as JSON.", Run: t.metricJSON(driver.MetricCharges)},
		Command{Names: []string{"TRACK_N"}, Args: "[node ...]", Help: "Track neuron events (empty means all).", Run: t.trackNeurons(true)},
		Command{Names: []string{"UNTRACK_N"}, Args: "[node ...]", Help: "Untrack neuron events (empty means all).", Run: t.trackNeurons(false)},
		Command{Names: []string{"SW"}, Args: "[from to]", Help: "Print synapse weights, or one synapse.", Run: t.synapseWeights},
		Command{Names: []string{"PULL_NETWORK"}, Args: "[file]", Help: "Write the network with the processor's current weights.", Run: t.pullNetwork},
	)
	t.add("Other Info Commands",
		Command{Names: []string{"PARAMS"}, Args: "[file]", Help: "Print the JSON that recreates the processor.", Run: t.params},
		Command{Names: []string{"NP", "PPACK"}, Help: "Print the property pack networks need for this processor.", Run: t.propertyPack},
		Command{Names: []string{"NAME"}, Help: "Print the processor's name.", Run: t.name},
		Command{Names: []string{"EMPTYNET"}, Args: "[file]", Help: "Write an empty network for this processor.", Run: t.emptyNetwork},
		Command{Names: []string{"INFO"}, Help: "Print the bound node ids and tracked neurons.", Run: t.info},
		Command{Names: []string{"PS"}, Help: "Print the spikes applied since the last run.", Run: t.pendingSpikes},
		Command{Names: []string{"TIME", "GT"}, Help: "Print the simulated time.", Run: t.time},
		Command{Names: []string{"SNAPSHOT"}, Help: "Print every telemetry metric and its hash as JSON.", Run: t.snapshot},
		Command{Names: []string{"METRICS"}, Help: "Print the driver metrics.", Run: t.printMetrics},
	)
	return t
}

// Driver returns the current driver, or nil before MAKE.
func (t *ProcTool) Driver() *driver.Driver { return t.d }

func (t *ProcTool) newDriver(ctx context.Context, proc processor.Processor) (*driver.Driver, error) {
	opts := []driver.Option{driver.WithLogger(t.logger), driver.WithMetrics(t.metrics)}
	if t.recorders != nil {
		rec, err := t.recorders(ctx, proc)
		if err != nil {
			return nil, err
		}
		opts = append(opts, driver.WithRecorder(rec))
	}
	return driver.New(proc, opts...), nil
}

// requireProcessor fails unless a processor has been made.
func (t *ProcTool) requireProcessor() error {
	if t.d == nil {
		return fmt.Errorf("must make a processor first")
	}
	return nil
}

// requireBound fails unless a network is loaded.
func (t *ProcTool) requireBound() error {
	if err := t.requireProcessor(); err != nil {
		return err
	}
	if !t.d.Bound() {
		return fmt.Errorf("must load a network first")
	}
	return nil
}

func (t *ProcTool) label(id uint32) string {
	if name := t.d.NodeName(id); name != "" {
		return fmt.Sprintf("%d(%s)", id, name)
	}
	return strconv.FormatUint(uint64(id), 10)
}

func (t *ProcTool) lookup(tok string) (uint32, error) {
	return t.d.Lookup(tok)
}

func (t *ProcTool) make(ctx context.Context, args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return errUsage
	}
	params, err := t.readJSON(args[1:])
	if err != nil {
		return err
	}
	return t.Make(ctx, args[0], params)
}

// Make replaces the current processor with a new one built by the
// registry. Any bound network is dropped with the old processor.
func (t *ProcTool) Make(ctx context.Context, name string, params json.RawMessage) error {
	proc, err := t.reg.Make(name, params)
	if err != nil {
		return err
	}
	d, err := t.newDriver(ctx, proc)
	if err != nil {
		return err
	}
	t.d = d
	t.applied = nil
	return nil
}

func (t *ProcTool) readNetwork(args []string) (*network.Network, error) {
	if len(args) > 1 {
		return nil, errUsage
	}
	data, err := t.readJSON(args)
	if err != nil {
		return nil, err
	}
	name := "<input>"
	if len(args) > 0 {
		name = args[0]
	}
	if err := schema.ValidateNetwork(name, data); err != nil {
		return nil, err
	}
	return network.Read(bytes.NewReader(data))
}

func (t *ProcTool) load(ctx context.Context, args []string) error {
	if err := t.requireProcessor(); err != nil {
		return err
	}
	net, err := t.readNetwork(args)
	if err != nil {
		return err
	}
	t.applied = nil
	return t.d.Bind(ctx, net)
}

func (t *ProcTool) makeLoad(ctx context.Context, args []string) error {
	net, err := t.readNetwork(args)
	if err != nil {
		return err
	}
	name, params, err := net.ProcessorSpec()
	if err != nil {
		return err
	}
	if err := t.Make(ctx, name, params); err != nil {
		return err
	}
	return t.d.Bind(ctx, net)
}

func (t *ProcTool) applySpikes(normalized bool) func(context.Context, []string) error {
	return func(ctx context.Context, args []string) error {
		if len(args) == 0 || len(args)%3 != 0 {
			return errUsage
		}
		if err := t.requireBound(); err != nil {
			return err
		}
		for i := 0; i < len(args); i += 3 {
			if err := t.applySpike(ctx, args[i:i+3], normalized); err != nil {
				t.printf("%v\n", err)
			}
		}
		return nil
	}
}

func (t *ProcTool) applySpike(ctx context.Context, args []string, normalized bool) error {
	id, err := t.lookup(args[0])
	if err != nil {
		return err
	}
	at, err := parseFloat(args[1])
	if err != nil {
		return err
	}
	v, err := parseFloat(args[2])
	if err != nil {
		return err
	}
	if err := t.d.ApplySpike(ctx, id, at, v, normalized); err != nil {
		return err
	}
	t.applied = append(t.applied, ir.Spike{ID: int(id), Time: at, Value: v})
	return nil
}

func (t *ProcTool) applyRaster(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	if err := t.requireBound(); err != nil {
		return err
	}
	id, err := t.lookup(args[0])
	if err != nil {
		return err
	}
	if err := t.d.ApplySpikeRaster(ctx, id, args[1]); err != nil {
		return err
	}
	for i, c := range args[1] {
		if c == '1' {
			t.applied = append(t.applied, ir.Spike{ID: int(id), Time: float64(i), Value: 1})
		}
	}
	return nil
}

func parseDuration(tok string) (float64, error) {
	v, err := parseFloat(tok)
	if err != nil || v < 0 {
		return 0, usage("time must be a number >= 0")
	}
	return v, nil
}

func (t *ProcTool) run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	if err := t.requireBound(); err != nil {
		return err
	}
	duration, err := parseDuration(args[0])
	if err != nil {
		return err
	}
	t.applied = nil
	return t.d.Run(ctx, duration)
}

// runTracked runs one cycle at a time, printing a row of fired flags and
// a row of charges per cycle for the selected nodes in order.
func (t *ProcTool) runTracked(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	if err := t.requireBound(); err != nil {
		return err
	}
	duration, err := parseDuration(args[0])
	if err != nil {
		return err
	}
	order := t.d.Order()
	var selected []uint32
	for _, tok := range args[1:] {
		id, err := t.lookup(tok)
		if err != nil {
			return err
		}
		selected = append(selected, id)
	}

	// Charges are reported for every neuron, so track them all for the
	// run and restore the caller's tracking afterwards.
	before := t.d.Tracked()
	if _, err := t.d.TrackAllNeurons(ctx, true); err != nil {
		return err
	}
	t.applied = nil
	r, runErr := t.d.RunAndTrack(ctx, duration)
	for _, id := range order.IDs() {
		if !slices.Contains(before, id) {
			if err := t.d.TrackNeuron(ctx, id, false); err != nil {
				return err
			}
		}
	}
	if runErr != nil {
		return runErr
	}

	var cols []int
	var names []string
	for j, id := range r.Columns {
		if len(selected) > 0 && !slices.Contains(selected, id) {
			continue
		}
		cols = append(cols, j)
		names = append(names, t.label(id))
	}
	width := 4
	for _, n := range names {
		width = max(width, len(n))
	}

	var b strings.Builder
	b.WriteString("Time")
	for _, n := range names {
		fmt.Fprintf(&b, " %*s", width, n)
	}
	b.WriteString(" |")
	for _, n := range names {
		fmt.Fprintf(&b, " %*s", width, n)
	}
	t.printf("%s\n", b.String())

	for i, row := range r.Spikes {
		b.Reset()
		fmt.Fprintf(&b, "%4d", int(r.Start)+i)
		for _, j := range cols {
			mark := "-"
			if row[j] {
				mark = "*"
			}
			fmt.Fprintf(&b, " %*s", width, mark)
		}
		b.WriteString(" |")
		for _, j := range cols {
			fmt.Fprintf(&b, " %*s", width, strconv.FormatFloat(r.Charges[i][j], 'g', -1, 64))
		}
		t.printf("%s\n", b.String())
	}
	return nil
}

func (t *ProcTool) clearActivity(ctx context.Context, _ []string) error {
	if err := t.requireProcessor(); err != nil {
		return err
	}
	t.applied = nil
	return t.d.ClearActivity(ctx)
}

func (t *ProcTool) unbind(ctx context.Context, _ []string) error {
	if err := t.requireProcessor(); err != nil {
		return err
	}
	t.applied = nil
	return t.d.Unbind(ctx)
}

// outputs resolves output node tokens, or every attached output.
func (t *ProcTool) outputs(args []string) ([]driver.OutputBinding, error) {
	all, err := t.d.OutputsByNode()
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return all, nil
	}
	var out []driver.OutputBinding
	for _, tok := range args {
		id, err := t.lookup(tok)
		if err != nil {
			return nil, err
		}
		i := slices.IndexFunc(all, func(b driver.OutputBinding) bool { return b.NodeID == id })
		if i < 0 {
			return nil, fmt.Errorf("node %s is not an output node", tok)
		}
		out = append(out, all[i])
	}
	return out, nil
}

func (t *ProcTool) outputLastFires(_ context.Context, args []string) error {
	if err := t.requireBound(); err != nil {
		return err
	}
	outs, err := t.outputs(args)
	if err != nil {
		return err
	}
	for _, o := range outs {
		t.printf("node %s last fire time: %s\n", t.label(o.NodeID), formatTime(o.LastFire))
	}
	return nil
}

func (t *ProcTool) outputCounts(_ context.Context, args []string) error {
	if err := t.requireBound(); err != nil {
		return err
	}
	outs, err := t.outputs(args)
	if err != nil {
		return err
	}
	for _, o := range outs {
		t.printf("node %s spike counts: %d\n", t.label(o.NodeID), o.Count)
	}
	return nil
}

func (t *ProcTool) outputVectors(_ context.Context, args []string) error {
	if err := t.requireBound(); err != nil {
		return err
	}
	outs, err := t.outputs(args)
	if err != nil {
		return err
	}
	for _, o := range outs {
		t.printf("node %s spike times:%s\n", t.label(o.NodeID), formatTimes(o.Vector))
	}
	return nil
}

func formatTimes(vs []float64) string {
	var b strings.Builder
	for _, v := range vs {
		b.WriteByte(' ')
		b.WriteString(formatTime(v))
	}
	return b.String()
}

// nodeTargets resolves node tokens, or returns nil for "all".
func (t *ProcTool) nodeTargets(args []string) ([]uint32, error) {
	var ids []uint32
	for _, tok := range args {
		id, err := t.lookup(tok)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (t *ProcTool) trackOutputs(on bool) func(context.Context, []string) error {
	return func(ctx context.Context, args []string) error {
		if err := t.requireBound(); err != nil {
			return err
		}
		if len(args) == 0 {
			report, err := t.d.TrackAllOutputs(ctx, on)
			if err != nil {
				return err
			}
			return report.Err()
		}
		ids, err := t.nodeTargets(args)
		if err != nil {
			return err
		}
		return network.Apply(ids, network.NodeLabel, func(id uint32) error {
			return t.d.TrackOutput(ctx, id, on)
		}).Err()
	}
}

func (t *ProcTool) trackNeurons(on bool) func(context.Context, []string) error {
	return func(ctx context.Context, args []string) error {
		if err := t.requireBound(); err != nil {
			return err
		}
		if len(args) == 0 {
			report, err := t.d.TrackAllNeurons(ctx, on)
			if err != nil {
				return err
			}
			return report.Err()
		}
		ids, err := t.nodeTargets(args)
		if err != nil {
			return err
		}
		return network.Apply(ids, network.NodeLabel, func(id uint32) error {
			return t.d.TrackNeuron(ctx, id, on)
		}).Err()
	}
}

// telemetry takes a snapshot, printing nothing for metrics the processor
// does not support.
func (t *ProcTool) telemetry(ctx context.Context, metric string) (*driver.Snapshot, bool, error) {
	if err := t.requireBound(); err != nil {
		return nil, false, err
	}
	snap, err := t.d.Snapshot(ctx)
	if err != nil {
		return nil, false, err
	}
	if slices.Contains(snap.Unsupported, metric) {
		t.printf("%s is not implemented by %s\n", metric, t.d.Processor().Name())
		return snap, false, nil
	}
	return snap, true, nil
}

func showFlag(args []string) (bool, error) {
	if len(args) != 1 {
		return false, errUsage
	}
	all, ok := parseFlag(args[0])
	if !ok {
		return false, errUsage
	}
	return all, nil
}

func (t *ProcTool) neuronLastFires(ctx context.Context, args []string) error {
	all, err := showFlag(args)
	if err != nil {
		return err
	}
	snap, ok, err := t.telemetry(ctx, driver.MetricLastFires)
	if err != nil || !ok {
		return err
	}
	for i, id := range snap.Order {
		if snap.LastFires[i] != -1 || all {
			t.printf("Node %s last fire: %s\n", t.label(id), formatTime(snap.LastFires[i]))
		}
	}
	return nil
}

func (t *ProcTool) neuronCounts(ctx context.Context, args []string) error {
	all, err := showFlag(args)
	if err != nil {
		return err
	}
	snap, ok, err := t.telemetry(ctx, driver.MetricCounts)
	if err != nil || !ok {
		return err
	}
	for i, id := range snap.Order {
		if snap.Counts[i] != 0 || all {
			t.printf("Node %s fire count: %d\n", t.label(id), snap.Counts[i])
		}
	}
	return nil
}

func (t *ProcTool) totalCount(ctx context.Context, _ []string) error {
	snap, ok, err := t.telemetry(ctx, driver.MetricCounts)
	if err != nil || !ok {
		return err
	}
	total := 0
	for _, c := range snap.Counts {
		total += c
	}
	t.printf("%d\n", total)
	return nil
}

func (t *ProcTool) neuronVectors(ctx context.Context, args []string) error {
	all, err := showFlag(args)
	if err != nil {
		return err
	}
	snap, ok, err := t.telemetry(ctx, driver.MetricVectors)
	if err != nil || !ok {
		return err
	}
	for i, id := range snap.Order {
		if len(snap.Vectors[i]) > 0 || all {
			t.printf("Node %s fire times:%s\n", t.label(id), formatTimes(snap.Vectors[i]))
		}
	}
	return nil
}

// spikeRaster prints each tracked neuron's fire times over the last run as
// a string of 0s and 1s, labelled with the neuron's role.
func (t *ProcTool) spikeRaster(ctx context.Context, args []string) error {
	hidden := true
	if len(args) > 0 {
		if flag, ok := parseFlag(args[0]); ok {
			hidden = flag
			args = args[1:]
		}
	}
	snap, ok, err := t.telemetry(ctx, driver.MetricVectors)
	if err != nil || !ok {
		return err
	}
	selected, err := t.nodeTargets(args)
	if err != nil {
		return err
	}

	duration := 0
	for _, v := range snap.Vectors {
		for _, ft := range v {
			duration = max(duration, int(ft)+1)
		}
	}
	rows := driver.FormatRaster(snap.Vectors, duration)
	net := t.d.Network()
	for i, id := range snap.Order {
		if len(selected) > 0 && !slices.Contains(selected, id) {
			continue
		}
		nd, err := net.Node(id)
		if err != nil {
			return err
		}
		role := "HIDDEN"
		switch {
		case nd.IsInput():
			role = "INPUT "
		case nd.IsOutput():
			role = "OUTPUT"
		case !hidden:
			continue
		}
		t.printf("%s : %s : %s\n", t.label(id), role, rows[i])
	}
	return nil
}

func (t *ProcTool) neuronCharges(ctx context.Context, args []string) error {
	snap, ok, err := t.telemetry(ctx, driver.MetricCharges)
	if err != nil || !ok {
		return err
	}
	selected, err := t.nodeTargets(args)
	if err != nil {
		return err
	}
	for i, id := range snap.Order {
		if len(selected) == 0 || slices.Contains(selected, id) {
			t.printf("Node %s charge: %s\n", t.label(id), strconv.FormatFloat(snap.Charges[i], 'g', -1, 64))
		}
	}
	return nil
}

// metricJSON prints one per-neuron metric with the order it is indexed by.
func (t *ProcTool) metricJSON(metric string) func(context.Context, []string) error {
	return func(ctx context.Context, _ []string) error {
		snap, ok, err := t.telemetry(ctx, metric)
		if err != nil || !ok {
			return err
		}
		var values any
		switch metric {
		case driver.MetricLastFires:
			values = snap.LastFires
		case driver.MetricCounts:
			values = snap.Counts
		case driver.MetricVectors:
			values = snap.Vectors
		case driver.MetricCharges:
			values = snap.Charges
		}
		data, err := json.Marshal(map[string]any{
			"order":             snap.Order,
			"order_fingerprint": snap.OrderFingerprint,
			metric:              values,
		})
		if err != nil {
			return err
		}
		t.printf("%s\n", data)
		return nil
	}
}

func (t *ProcTool) synapseWeights(ctx context.Context, args []string) error {
	if len(args) != 0 && len(args) != 2 {
		return errUsage
	}
	snap, ok, err := t.telemetry(ctx, driver.MetricSynapses)
	if err != nil || !ok {
		return err
	}
	var from, to uint32
	if len(args) == 2 {
		if from, err = t.lookup(args[0]); err != nil {
			return err
		}
		if to, err = t.lookup(args[1]); err != nil {
			return err
		}
	}
	s := snap.Synapses
	for i := range s.Len() {
		if len(args) == 2 && (s.Pre[i] != from || s.Post[i] != to) {
			continue
		}
		t.printf("  %4d -> %4d : %7.4f\n", s.Pre[i], s.Post[i], s.Weights[i])
	}
	return nil
}

func (t *ProcTool) writeNetwork(path string, net *network.Network) error {
	if path == "" {
		return net.Write(t.out, true)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := net.Write(f, true); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (t *ProcTool) pullNetwork(_ context.Context, args []string) error {
	if len(args) > 1 {
		return errUsage
	}
	if err := t.requireBound(); err != nil {
		return err
	}
	net, err := t.d.PullNetwork()
	if err != nil {
		return err
	}
	return t.writeNetwork(firstArg(args), net)
}

func (t *ProcTool) params(_ context.Context, args []string) error {
	if len(args) > 1 {
		return errUsage
	}
	if err := t.requireProcessor(); err != nil {
		return err
	}
	return t.writeJSON(firstArg(args), t.d.Processor().Params())
}

func (t *ProcTool) propertyPack(_ context.Context, _ []string) error {
	if err := t.requireProcessor(); err != nil {
		return err
	}
	return t.writeJSON("", t.d.Processor().Properties().Doc())
}

func (t *ProcTool) name(_ context.Context, _ []string) error {
	if err := t.requireProcessor(); err != nil {
		return err
	}
	t.printf("%s\n", t.d.Processor().Name())
	return nil
}

func (t *ProcTool) emptyNetwork(_ context.Context, args []string) error {
	if len(args) > 1 {
		return errUsage
	}
	if err := t.requireProcessor(); err != nil {
		return err
	}
	net, err := driver.EmptyNetwork(t.d.Processor())
	if err != nil {
		return err
	}
	return t.writeNetwork(firstArg(args), net)
}

func (t *ProcTool) info(_ context.Context, _ []string) error {
	if err := t.requireBound(); err != nil {
		return err
	}
	net := t.d.Network()
	var inputs, hidden, outputs, tracked []string
	for _, id := range net.Inputs() {
		if id >= 0 {
			inputs = append(inputs, t.label(uint32(id)))
		}
	}
	for _, id := range t.d.Order().IDs() {
		if nd, err := net.Node(id); err == nil && nd.IsHidden() {
			hidden = append(hidden, t.label(id))
		}
	}
	for _, id := range net.Outputs() {
		if id >= 0 {
			outputs = append(outputs, t.label(uint32(id)))
		}
	}
	for _, id := range t.d.Tracked() {
		tracked = append(tracked, t.label(id))
	}
	t.printf("Input nodes:   %s\n", strings.Join(inputs, " "))
	t.printf("Hidden nodes:  %s\n", strings.Join(hidden, " "))
	t.printf("Output nodes:  %s\n", strings.Join(outputs, " "))
	t.printf("Tracked nodes: %s\n", strings.Join(tracked, " "))
	return nil
}

func (t *ProcTool) pendingSpikes(_ context.Context, _ []string) error {
	if err := t.requireProcessor(); err != nil {
		return err
	}
	for _, s := range t.applied {
		t.printf("Spike: [%d,%s,%s]\n", s.ID,
			strconv.FormatFloat(s.Time, 'g', -1, 64),
			strconv.FormatFloat(s.Value, 'g', -1, 64))
	}
	t.printf("Pending: %d\n", t.d.PendingSpikes())
	return nil
}

func (t *ProcTool) time(_ context.Context, _ []string) error {
	if err := t.requireBound(); err != nil {
		return err
	}
	t.printf("time: %s\n", formatTime(t.d.Time()))
	return nil
}

func (t *ProcTool) snapshot(ctx context.Context, _ []string) error {
	if err := t.requireBound(); err != nil {
		return err
	}
	snap, err := t.d.Snapshot(ctx)
	if err != nil {
		return err
	}
	return t.writeJSON("", struct {
		*driver.Snapshot
		Hash string `json:"hash"`
	}{snap, snap.Hash})
}

// printMetrics prints every gathered sample as "name{labels} value".
func (t *ProcTool) printMetrics(_ context.Context, _ []string) error {
	families, err := t.gatherer.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			var v float64
			switch {
			case m.GetCounter() != nil:
				v = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				v = m.GetGauge().GetValue()
			case m.GetUntyped() != nil:
				v = m.GetUntyped().GetValue()
			}
			t.printf("%s %s\n", name, strconv.FormatFloat(v, 'g', -1, 64))
		}
	}
	return nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
