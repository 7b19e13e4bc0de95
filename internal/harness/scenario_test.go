package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalScenario = `
name: minimal
description: one run
processor: risp
network:
  nodes: [{id: 0}]
  inputs: [0]
flow:
  - op: spike
    node: 0
  - op: track_neuron
    node: 0
    on: false
assertions:
  - type: deterministic
`

func TestParseScenario_Defaults(t *testing.T) {
	s, err := ParseScenario([]byte(minimalScenario))
	require.NoError(t, err)

	assert.Equal(t, "minimal", s.Name)
	assert.Nil(t, s.Params)
	require.Len(t, s.Flow, 2)
	assert.Nil(t, s.Flow[0].Value)
	assert.False(t, s.Flow[0].Raw)
	require.NotNil(t, s.Flow[1].On)
	assert.False(t, *s.Flow[1].On)
	assert.Empty(t, s.SessionID)
}

func TestParseScenario_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "unknown field",
			yaml: "name: x\ndescription: d\nprocessor: risp\nflow: [{op: run}]\nassertion: []\n",
			want: "failed to parse YAML",
		},
		{
			name: "missing name",
			yaml: "description: d\nprocessor: risp\nflow: [{op: run}]\nassertions: [{type: deterministic}]\n",
			want: "name is required",
		},
		{
			name: "missing processor",
			yaml: "name: x\ndescription: d\nflow: [{op: run}]\nassertions: [{type: deterministic}]\n",
			want: "processor is required",
		},
		{
			name: "file and inline network",
			yaml: "name: x\ndescription: d\nprocessor: risp\nnetwork: {file: n.json, inputs: [0]}\nflow: [{op: run}]\nassertions: [{type: deterministic}]\n",
			want: "either file or an inline network",
		},
		{
			name: "empty flow",
			yaml: "name: x\ndescription: d\nprocessor: risp\nassertions: [{type: deterministic}]\n",
			want: "flow list is required",
		},
		{
			name: "spike without node",
			yaml: "name: x\ndescription: d\nprocessor: risp\nflow: [{op: spike}]\nassertions: [{type: deterministic}]\n",
			want: "node is required for spike",
		},
		{
			name: "rows on run",
			yaml: "name: x\ndescription: d\nprocessor: risp\nflow: [{op: run, rows: ['1']}]\nassertions: [{type: deterministic}]\n",
			want: "rows only apply to run_and_track",
		},
		{
			name: "unknown op",
			yaml: "name: x\ndescription: d\nprocessor: risp\nflow: [{op: invoke}]\nassertions: [{type: deterministic}]\n",
			want: `unknown op "invoke"`,
		},
		{
			name: "fires without times",
			yaml: "name: x\ndescription: d\nprocessor: risp\nflow: [{op: run}]\nassertions: [{type: fires, node: 0}]\n",
			want: "node and times are required",
		},
		{
			name: "negative trace count",
			yaml: "name: x\ndescription: d\nprocessor: risp\nflow: [{op: run}]\nassertions: [{type: trace_count, op: run, count: -1}]\n",
			want: "count must be non-negative",
		},
		{
			name: "unknown assertion",
			yaml: "name: x\ndescription: d\nprocessor: risp\nflow: [{op: run}]\nassertions: [{type: trace_contains}]\n",
			want: `unknown assertion type "trace_contains"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("testdata/scenarios/nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}
