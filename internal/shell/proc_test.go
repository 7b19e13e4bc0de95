package shell

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/neurograph/internal/driver"
	"github.com/roach88/neurograph/internal/ir"
	"github.com/roach88/neurograph/internal/processor"
	"github.com/roach88/neurograph/internal/processor/builtin"
)

// loadScript makes a default risp processor and loads the two-node pair:
// in(0) -> out(1), weight 1, delay 2.
const loadScript = "MAKE risp\n{}\nLOAD testdata/pair.json\n"

func runProc(t *testing.T, script string, opts ...Option) (*ProcTool, string) {
	t.Helper()
	var out bytes.Buffer
	tool := NewProcTool(strings.NewReader(script), &out, opts...)
	require.NoError(t, tool.Run(context.Background()))
	return tool, out.String()
}

func TestProcTool_RequiresProcessor(t *testing.T) {
	_, out := runProc(t, "RUN 1\nLOAD testdata/pair.json\nNAME\n")
	assert.Equal(t, strings.Repeat("must make a processor first\n", 3), out)
}

func TestProcTool_RequiresNetwork(t *testing.T) {
	_, out := runProc(t, "MAKE risp\n{}\nRUN 1\nOC\n")
	assert.Equal(t, strings.Repeat("must load a network first\n", 2), out)
}

func TestProcTool_UnknownProcessor(t *testing.T) {
	tool, out := runProc(t, "MAKE nope\n{}\n")
	assert.Nil(t, tool.Driver())
	assert.Contains(t, out, "nope")
}

func TestProcTool_SpikeAndRun(t *testing.T) {
	tool, out := runProc(t, loadScript+"TRACK_O\nAS in 0 1\nPS\nRUN 4\nPS\nOLF\nOC\nOT\nTIME\n")

	assert.Equal(t, strings.Join([]string{
		"Spike: [0,0,1]",
		"Pending: 1",
		"Pending: 0",
		"node 1(out) last fire time: 2.0",
		"node 1(out) spike counts: 1",
		"node 1(out) spike times: 2.0",
		"time: 4.0",
	}, "\n")+"\n", out)
	assert.Equal(t, 4.0, tool.Driver().Time())
}

func TestProcTool_SpikeErrors(t *testing.T) {
	_, out := runProc(t, loadScript+"AS out 0 1\nAS in 0 2\nASV in 0 2\nAS in 0\nASR in 01x\n")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "NOT_INPUT:"), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "SPIKE_RANGE:"), lines[1])
	assert.Equal(t, "usage: AS node time value ...", lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "BAD_RASTER:"), lines[3])
}

func TestProcTool_RasterAndNeuronTelemetry(t *testing.T) {
	_, out := runProc(t, loadScript+"TRACK_N\nASR in 101\nRUN 5\nNC F\nNV F\nNLF T\nGSR\nTNC\n")

	assert.Equal(t, strings.Join([]string{
		"Node 0(in) fire count: 2",
		"Node 1(out) fire count: 2",
		"Node 0(in) fire times: 0.0 2.0",
		"Node 1(out) fire times: 2.0 4.0",
		"Node 0(in) last fire: 2.0",
		"Node 1(out) last fire: 4.0",
		"0(in) : INPUT  : 10100",
		"1(out) : OUTPUT : 00101",
		"4",
	}, "\n")+"\n", out)
}

func TestProcTool_RunTracked(t *testing.T) {
	tool, out := runProc(t, loadScript+"AS in 0 1\nRSC 3\n")

	assert.Equal(t, strings.Join([]string{
		"Time  0(in) 1(out) |  0(in) 1(out)",
		"   0      *      - |      0      0",
		"   1      -      - |      0      0",
		"   2      -      * |      0      0",
	}, "\n")+"\n", out)
	assert.Empty(t, tool.Driver().Tracked())
}

func TestProcTool_JSONTelemetry(t *testing.T) {
	_, out := runProc(t, loadScript+"AS in 0 1\nRUN 1\nNCJ\n")
	assert.Contains(t, out, `"neuron_counts":[1,0]`)
	assert.Contains(t, out, `"order":[0,1]`)
}

func TestProcTool_ClearActivityAndUnbind(t *testing.T) {
	tool, out := runProc(t, loadScript+"AS in 0 1\nRUN 4\nCA\nTIME\nC\nTIME\n")
	assert.Equal(t, "time: 0.0\nmust load a network first\n", out)
	assert.False(t, tool.Driver().Bound())
}

func TestProcTool_ProcessorInfo(t *testing.T) {
	_, out := runProc(t, loadScript+"NAME\nINFO\n")
	assert.Contains(t, out, "risp\n")
	assert.Contains(t, out, "Input nodes:   0(in)\n")
	assert.Contains(t, out, "Output nodes:  1(out)\n")
	assert.Contains(t, out, "Tracked nodes: \n")
}

func TestProcTool_SynapseWeights(t *testing.T) {
	_, out := runProc(t, loadScript+"SW\nSW in out\nSW out in\n")
	line := "     0 ->    1 :  1.0000\n"
	assert.Equal(t, line+line, out)
}

func TestProcTool_EmptyNetworkThenMakeLoad(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.json")
	pulled := filepath.Join(dir, "pulled.json")

	_, out := runProc(t, "MAKE risp\n{\"spike_value_factor\": 1}\nEMPTYNET "+empty+"\n")
	require.Empty(t, out)

	tool, out := runProc(t, "ML "+empty+"\nNAME\nPULL_NETWORK "+pulled+"\n")
	assert.Equal(t, "risp\n", out)
	require.True(t, tool.Driver().Bound())
	assert.Zero(t, tool.Driver().Network().NumNodes())

	data, err := os.ReadFile(pulled)
	require.NoError(t, err)
	assert.Contains(t, string(data), "risp")
}

func TestProcTool_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	tool, out := runProc(t, loadScript+"AS in 0 1\nAS out 0 1\nRUN 2\nMETRICS\n", WithMetricsRegistry(reg))

	m := tool.Driver().Metrics()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SpikesApplied))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SpikesRejected.WithLabelValues(string(driver.ErrCodeNotInput))))
	assert.Contains(t, out, "neurograph_driver_runs_total 1\n")
	assert.Contains(t, out, "neurograph_driver_simulated_time_total 2\n")
}

func TestProcTool_RecorderFactory(t *testing.T) {
	rec := driver.NewMemoryRecorder()
	var made processor.Processor
	factory := func(_ context.Context, proc processor.Processor) (driver.Recorder, error) {
		made = proc
		return rec, nil
	}
	runProc(t, loadScript+"AS in 0 1\nRUN 2\n", WithRecorderFactory(factory), WithRegistry(builtin.Registry()))

	require.NotNil(t, made)
	kinds := make([]ir.EventKind, len(rec.Events))
	for i, ev := range rec.Events {
		kinds[i] = ev.Kind
	}
	assert.Equal(t, []ir.EventKind{ir.EventBind, ir.EventSpike, ir.EventRun}, kinds)
}
