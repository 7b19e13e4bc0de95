package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/neurograph/internal/processor"
)

func loadScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
	require.NoError(t, err)
	return s
}

func TestScenarios_Golden(t *testing.T) {
	for _, name := range []string{"risp_chain", "risp_diamond"} {
		t.Run(name, func(t *testing.T) {
			s := loadScenario(t, name)
			result, err := RunWithGolden(t, s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.True(t, result.Deterministic)
		})
	}
}

func TestRun_FileNetwork(t *testing.T) {
	s := loadScenario(t, "risp_file")
	assert.Equal(t, filepath.Join("testdata", "networks", "pair.json"), s.Network.File)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	require.Len(t, result.Outputs, 1)
	assert.Equal(t, []float64{2}, result.Outputs[0].Vector)
}

func TestRun_ChainTelemetry(t *testing.T) {
	result, err := Run(loadScenario(t, "risp_chain"))
	require.NoError(t, err)
	require.NotNil(t, result.Final)

	assert.Equal(t, DefaultSessionID, result.SessionID)
	assert.Equal(t, []int{1, 1, 1}, result.Final.Counts)
	assert.Equal(t, [][]float64{{}, {1}, {2}}, result.Final.Vectors)

	ops := make([]string, len(result.Trace))
	for i, ev := range result.Trace {
		ops[i] = ev.Op
	}
	assert.Equal(t, []string{"bind", "track_neuron", "track_output", "spike", "run", "snapshot"}, ops)
}

func TestRun_FailedAssertions(t *testing.T) {
	s := loadScenario(t, "risp_chain")
	wrong := 3
	late := 4.0
	s.Assertions = []Assertion{
		{Type: AssertCount, Node: ptr(uint32(0)), Count: &wrong},
		{Type: AssertLastFire, Node: ptr(uint32(2)), Value: &late},
		{Type: AssertTraceOrder, Ops: []string{"run", "bind"}},
		{Type: AssertFires, Node: ptr(uint32(9)), Times: []float64{}},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 4)
	assert.Contains(t, result.Errors[0], "node 0: 3")
	assert.Contains(t, result.Errors[1], "node 2: 4")
	assert.Contains(t, result.Errors[2], `"bind" not found`)
	assert.Contains(t, result.Errors[3], "node not bound")
}

func TestRun_StepExpectations(t *testing.T) {
	tests := []struct {
		name string
		step Step
		want string
	}{
		{
			name: "expected error but succeeded",
			step: Step{Op: OpSpike, Node: ptr(uint32(0)), ExpectError: "SPIKE_RANGE"},
			want: "expected error SPIKE_RANGE, got success",
		},
		{
			name: "wrong error code",
			step: Step{Op: OpSpike, Node: ptr(uint32(1)), ExpectError: "SPIKE_RANGE"},
			want: "expected error SPIKE_RANGE, got NOT_INPUT",
		},
		{
			name: "unexpected error",
			step: Step{Op: OpRaster, Node: ptr(uint32(0)), Raster: "12"},
			want: "BAD_RASTER",
		},
		{
			name: "rows differ",
			step: Step{Op: OpRunAndTrack, Duration: 2, Rows: []string{"1", "1"}},
			want: "expected rows",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := loadScenario(t, "risp_chain")
			s.Flow = []Step{tt.step}
			s.Assertions = []Assertion{{Type: AssertDeterministic}}

			result, err := Run(s)
			require.NoError(t, err)
			assert.False(t, result.Pass)
			require.NotEmpty(t, result.Errors)
			assert.Contains(t, result.Errors[0], tt.want)
		})
	}
}

func TestRun_UnbindLeavesNoFinal(t *testing.T) {
	s := loadScenario(t, "risp_chain")
	s.Flow = []Step{{Op: OpUnbind}}
	s.Assertions = []Assertion{{Type: AssertTime, Value: ptr(0.0)}}

	result, err := Run(s)
	require.NoError(t, err)
	assert.Nil(t, result.Final)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "network unbound")
}

func TestRun_SessionID(t *testing.T) {
	s := loadScenario(t, "risp_chain")
	s.SessionID = "custom"
	result, err := Run(s)
	require.NoError(t, err)
	assert.Equal(t, "custom", result.SessionID)
}

func TestRun_SetupErrors(t *testing.T) {
	t.Run("unknown processor", func(t *testing.T) {
		s := loadScenario(t, "risp_chain")
		s.Processor = "loihi"
		_, err := Run(s)
		require.Error(t, err)
		assert.Equal(t, processor.ErrCodeUnknownProcessor, processor.CodeOf(err))
	})

	t.Run("bad params", func(t *testing.T) {
		s := loadScenario(t, "risp_chain")
		s.Params = map[string]any{"discrete": true}
		_, err := Run(s)
		require.Error(t, err)
		assert.Equal(t, processor.ErrCodeBadParams, processor.CodeOf(err))
	})

	t.Run("unknown property", func(t *testing.T) {
		s := loadScenario(t, "risp_chain")
		s.Network.Nodes[0].Values = map[string]float64{"Leak": 1}
		_, err := Run(s)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to build network")
	})

	t.Run("missing network file", func(t *testing.T) {
		s := loadScenario(t, "risp_file")
		s.Network.File = filepath.Join(t.TempDir(), "missing.json")
		_, err := Run(s)
		require.Error(t, err)
	})
}

func TestRun_WithRegistry(t *testing.T) {
	s := loadScenario(t, "risp_chain")
	_, err := Run(s, WithRegistry(processor.NewRegistry()))
	require.Error(t, err)
	assert.Equal(t, processor.ErrCodeUnknownProcessor, processor.CodeOf(err))
}

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{
		Type:     AssertTraceCount,
		Expected: "2 spike operations",
		Actual:   "1 spike operations",
		Trace:    []TraceEvent{{Seq: 2, Op: "bind"}, {Seq: 3, Op: "spike"}},
	}
	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: trace_count")
	assert.Contains(t, msg, "Expected: 2 spike operations")
	assert.Contains(t, msg, "[3] spike")
}

func TestErrorCode(t *testing.T) {
	assert.Empty(t, ErrorCode(nil))
	assert.Equal(t, "BAD_PARAMS", ErrorCode(processor.NewError(processor.ErrCodeBadParams, "x")))
}

func ptr[T any](v T) *T { return &v }
