package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyIsolatesFailures(t *testing.T) {
	net := chain(t, 3)

	report := Apply([]uint32{1, 9, 2, 1}, NodeLabel, func(id uint32) error {
		return net.SetNodeProperty(id, "Threshold", 0.5)
	})

	assert.Equal(t, 3, report.Applied)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "node 9", report.Failures[0].Target)
	assert.ErrorIs(t, report.Failures[0].Err, ErrUnknownNode)
	assert.ErrorIs(t, report.Err(), ErrUnknownNode)

	v, err := net.NodeValue(2, "Threshold")
	require.NoError(t, err)
	assert.Equal(t, 0.5, v, "targets after a failure are still processed")
}

func TestApplyRemoveEdges(t *testing.T) {
	net := chain(t, 3)
	report := Apply([]EdgeKey{{0, 1}, {0, 1}, {1, 2}}, EdgeLabel, func(k EdgeKey) error {
		return net.RemoveEdge(k.From, k.To)
	})

	assert.Equal(t, 2, report.Applied)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "edge 0 -> 1", report.Failures[0].Target)
	assert.Equal(t, 0, net.NumEdges())
}

func TestApplyAllSucceed(t *testing.T) {
	net := chain(t, 1)
	report := Apply([]uint32{4, 5}, NodeLabel, net.AddNode)
	assert.NoError(t, report.Err())
	assert.Equal(t, 3, net.NumNodes())
}
