package harness

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/roach88/neurograph/internal/driver"
	"github.com/roach88/neurograph/internal/ir"
	"github.com/roach88/neurograph/internal/logging"
	"github.com/roach88/neurograph/internal/network"
	"github.com/roach88/neurograph/internal/processor"
	"github.com/roach88/neurograph/internal/processor/builtin"
	"github.com/roach88/neurograph/internal/schema"
	"github.com/roach88/neurograph/internal/store"
)

// Harness executes one scenario.
type Harness struct {
	store    *store.Store
	registry *processor.Registry
	driver   *driver.Driver
	logger   *slog.Logger
}

// Option configures Run.
type Option func(*runConfig)

type runConfig struct {
	registry *processor.Registry
	logger   *slog.Logger
}

// WithRegistry runs scenarios against reg instead of the built-in processors.
func WithRegistry(reg *processor.Registry) Option {
	return func(c *runConfig) { c.registry = reg }
}

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *runConfig) { c.logger = l }
}

// Run executes a scenario and returns the result.
//
// Each scenario records into a fresh in-memory session log. Execution flow:
//  1. Build the processor from the registry
//  2. Build and bind the network
//  3. Execute flow steps, checking expect_error and rows
//  4. Take the final snapshot and read the trace back from the log
//  5. Replay the session and evaluate assertions
//
// An error is returned only when the scenario cannot be executed at all;
// failed expectations are reported in the result.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	cfg := runConfig{logger: logging.Discard()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.registry == nil {
		cfg.registry = builtin.Registry()
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	params, err := encodeParams(scenario.Params)
	if err != nil {
		return nil, err
	}
	proc, err := cfg.registry.Make(scenario.Processor, params)
	if err != nil {
		return nil, fmt.Errorf("failed to build processor: %w", err)
	}

	sessionID := cmp.Or(scenario.SessionID, DefaultSessionID)
	rec, err := driver.NewStoreRecorder(ctx, st, driver.NewFixedGenerator(sessionID), proc.Name(), proc.Params())
	if err != nil {
		return nil, err
	}

	h := &Harness{
		store:    st,
		registry: cfg.registry,
		driver:   driver.New(proc, driver.WithRecorder(rec), driver.WithLogger(cfg.logger)),
		logger:   cfg.logger,
	}

	net, err := buildNetwork(scenario.Network, proc)
	if err != nil {
		return nil, fmt.Errorf("failed to build network: %w", err)
	}
	if err := h.driver.Bind(ctx, net); err != nil {
		return nil, fmt.Errorf("failed to bind network: %w", err)
	}

	result := NewResult()
	result.SessionID = sessionID
	for i, step := range scenario.Flow {
		h.executeStep(ctx, i, step, result)
	}

	if h.driver.Bound() {
		if result.Final, err = h.driver.Snapshot(ctx); err != nil {
			return nil, fmt.Errorf("final snapshot: %w", err)
		}
		if result.Outputs, err = h.driver.OutputsByNode(); err != nil {
			return nil, fmt.Errorf("final outputs: %w", err)
		}
	}

	if result.Trace, err = h.readTrace(ctx, sessionID); err != nil {
		return nil, err
	}

	replay, err := driver.ReplaySession(ctx, st, cfg.registry, sessionID, driver.WithLogger(cfg.logger))
	if err != nil {
		result.AddError(fmt.Sprintf("replay: %v", err))
	} else {
		result.Deterministic = replay.Deterministic()
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// executeStep runs one flow step and records any unmet expectation.
func (h *Harness) executeStep(ctx context.Context, i int, step Step, result *Result) {
	rows, err := h.apply(ctx, step)
	if rows != nil {
		result.Rasters = append(result.Rasters, rows)
	}

	switch {
	case step.ExpectError != "" && err == nil:
		result.AddError(fmt.Sprintf("flow[%d] %s: expected error %s, got success", i, step.Op, step.ExpectError))
	case step.ExpectError != "" && ErrorCode(err) != step.ExpectError:
		result.AddError(fmt.Sprintf("flow[%d] %s: expected error %s, got %v", i, step.Op, step.ExpectError, err))
	case step.ExpectError == "" && err != nil:
		result.AddError(fmt.Sprintf("flow[%d] %s: %v", i, step.Op, err))
	case step.Rows != nil && !slices.Equal(step.Rows, rows):
		result.AddError(fmt.Sprintf("flow[%d] %s: expected rows %v, got %v", i, step.Op, step.Rows, rows))
	}

	h.logger.Debug("flow step completed", "step", i, "op", step.Op, "error", err)
}

func (h *Harness) apply(ctx context.Context, step Step) ([]string, error) {
	d := h.driver
	on := step.On == nil || *step.On
	switch step.Op {
	case OpSpike:
		value := 1.0
		if step.Value != nil {
			value = *step.Value
		}
		return nil, d.ApplySpike(ctx, *step.Node, step.Time, value, !step.Raw)
	case OpRaster:
		return nil, d.ApplySpikeRaster(ctx, *step.Node, step.Raster)
	case OpRun:
		return nil, d.Run(ctx, step.Duration)
	case OpRunAndTrack:
		r, err := d.RunAndTrack(ctx, step.Duration)
		if r == nil {
			return nil, err
		}
		return r.Rows(), err
	case OpClearActivity:
		return nil, d.ClearActivity(ctx)
	case OpTrackNeuron:
		return nil, d.TrackNeuron(ctx, *step.Node, on)
	case OpTrackOutput:
		return nil, d.TrackOutput(ctx, *step.Node, on)
	case OpTrackAllNeurons:
		report, err := d.TrackAllNeurons(ctx, on)
		if err != nil {
			return nil, err
		}
		return nil, report.Err()
	case OpTrackAllOutputs:
		report, err := d.TrackAllOutputs(ctx, on)
		if err != nil {
			return nil, err
		}
		return nil, report.Err()
	case OpSnapshot:
		_, err := d.Snapshot(ctx)
		return nil, err
	case OpUnbind:
		return nil, d.Unbind(ctx)
	default:
		return nil, fmt.Errorf("unknown op %q", step.Op)
	}
}

// readTrace merges recorded events and snapshots by seq.
func (h *Harness) readTrace(ctx context.Context, sessionID string) ([]TraceEvent, error) {
	events, err := h.store.ReadEvents(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}
	snaps, err := h.store.ReadSnapshots(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}

	trace := make([]TraceEvent, 0, len(events)+len(snaps))
	for _, ev := range events {
		args, err := traceArgs(ev)
		if err != nil {
			return nil, fmt.Errorf("read trace: event %d: %w", ev.Seq, err)
		}
		trace = append(trace, TraceEvent{Seq: ev.Seq, Op: string(ev.Kind), Args: args})
	}
	for _, s := range snaps {
		var snap struct {
			Time float64 `json:"time"`
		}
		if err := json.Unmarshal(s.Payload, &snap); err != nil {
			return nil, fmt.Errorf("read trace: snapshot %d: %w", s.Seq, err)
		}
		trace = append(trace, TraceEvent{Seq: s.Seq, Op: OpSnapshot, Args: map[string]any{"time": snap.Time}})
	}
	slices.SortFunc(trace, func(a, b TraceEvent) int { return cmp.Compare(a.Seq, b.Seq) })
	return trace, nil
}

// traceArgs summarizes a bind by its shape; other payloads are kept as is.
func traceArgs(ev ir.Event) (any, error) {
	if ev.Kind != ir.EventBind {
		return ev.Payload, nil
	}
	var p ir.BindPayload
	if err := store.UnmarshalPayload(ev.Payload, &p); err != nil {
		return nil, err
	}
	return map[string]any{
		"nodes":   len(p.Network.Nodes),
		"edges":   len(p.Network.Edges),
		"inputs":  p.Network.Inputs,
		"outputs": p.Network.Outputs,
	}, nil
}

func encodeParams(params map[string]any) (json.RawMessage, error) {
	if params == nil {
		return nil, nil
	}
	data, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encode params: %w", err)
	}
	return data, nil
}

// buildNetwork reads the network file, or builds the inline network over
// proc's schema.
func buildNetwork(spec NetworkSpec, proc processor.Processor) (*network.Network, error) {
	if spec.File != "" {
		data, err := os.ReadFile(spec.File)
		if err != nil {
			return nil, err
		}
		if err := schema.ValidateNetwork(spec.File, data); err != nil {
			return nil, err
		}
		var doc ir.NetworkDoc
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return network.FromDoc(doc)
	}

	net, err := driver.EmptyNetwork(proc)
	if err != nil {
		return nil, err
	}
	for _, n := range spec.Nodes {
		if err := net.AddNode(n.ID); err != nil {
			return nil, err
		}
		if n.Name != "" {
			if err := net.SetName(n.ID, n.Name); err != nil {
				return nil, err
			}
		}
		for _, name := range sortedKeys(n.Values) {
			if err := net.SetNodeProperty(n.ID, name, n.Values[name]); err != nil {
				return nil, err
			}
		}
	}
	for _, e := range spec.Edges {
		if err := net.AddEdge(e.From, e.To); err != nil {
			return nil, err
		}
		for _, name := range sortedKeys(e.Values) {
			if err := net.SetEdgeProperty(e.From, e.To, name, e.Values[name]); err != nil {
				return nil, err
			}
		}
	}
	for _, id := range spec.Inputs {
		if _, err := net.AddInput(id); err != nil {
			return nil, err
		}
	}
	for _, id := range spec.Outputs {
		if _, err := net.AddOutput(id); err != nil {
			return nil, err
		}
	}
	return net, nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// ErrorCode returns the code of a driver, processor, or network error,
// or "" when err carries none.
func ErrorCode(err error) string {
	var de *driver.Error
	if errors.As(err, &de) {
		return string(de.Code)
	}
	if code := processor.CodeOf(err); code != "" {
		return string(code)
	}
	if code := network.CodeOf(err); code != "" {
		return string(code)
	}
	return ""
}
