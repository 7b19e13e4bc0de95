package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/neurograph/internal/network"
)

// build creates a network with the given nodes and edges, then attaches
// inputs and outputs in order.
func build(t *testing.T, nodes []uint32, edges [][2]uint32, inputs, outputs []uint32) *network.Network {
	t.Helper()
	net := network.New(nil)
	for _, id := range nodes {
		require.NoError(t, net.AddNode(id))
	}
	for _, e := range edges {
		require.NoError(t, net.AddEdge(e[0], e[1]))
	}
	for _, id := range inputs {
		_, err := net.AddInput(id)
		require.NoError(t, err)
	}
	for _, id := range outputs {
		_, err := net.AddOutput(id)
		require.NoError(t, err)
	}
	return net
}

func TestPruneRemovesOffPathNodes(t *testing.T) {
	// 0 -> 1 -> 2 is the only input/output path.
	// 3 hangs off 1 (no path to output), 4 feeds 2 (not reachable from input),
	// 5 is an output nothing reaches.
	net := build(t,
		[]uint32{0, 1, 2, 3, 4, 5},
		[][2]uint32{{0, 1}, {1, 2}, {1, 3}, {4, 2}},
		[]uint32{0},
		[]uint32{2, 5},
	)

	report := Prune(net)

	assert.Equal(t, []uint32{3, 4, 5}, report.RemovedNodes)
	assert.Equal(t, 2, report.RemovedEdges)
	assert.Equal(t, []uint32{0, 1, 2}, net.NodeIDs())
	assert.Equal(t, []int64{2, -1}, net.Outputs(), "pruned output vacates its channel")
}

func TestPruneWithoutInputsEmptiesNetwork(t *testing.T) {
	net := build(t, []uint32{0, 1}, [][2]uint32{{0, 1}}, nil, []uint32{1})
	Prune(net)
	assert.Equal(t, 0, net.NumNodes())
}

func TestPruneKeepsCyclesOnPath(t *testing.T) {
	net := build(t,
		[]uint32{0, 1, 2, 3},
		[][2]uint32{{0, 1}, {1, 2}, {2, 1}, {2, 3}},
		[]uint32{0},
		[]uint32{3},
	)
	report := Prune(net)
	assert.Empty(t, report.RemovedNodes)
	assert.True(t, net.HasEdge(2, 1))
}

func TestPruneIsIdempotent(t *testing.T) {
	net := build(t,
		[]uint32{0, 1, 2, 3},
		[][2]uint32{{0, 1}, {1, 2}, {3, 1}},
		[]uint32{0},
		[]uint32{2},
	)
	Prune(net)
	once, err := net.Fingerprint()
	require.NoError(t, err)

	report := Prune(net)
	twice, err := net.Fingerprint()
	require.NoError(t, err)

	assert.Empty(t, report.RemovedNodes)
	assert.Equal(t, once, twice)
}

func TestSortDAG(t *testing.T) {
	// 5 -> 0, 4 -> 0, 4 -> 1, 2 -> 3, 3 -> 1
	net := build(t,
		[]uint32{0, 1, 2, 3, 4, 5},
		[][2]uint32{{5, 0}, {4, 0}, {4, 1}, {2, 3}, {3, 1}},
		nil, nil,
	)

	order := Sort(net)
	assert.Equal(t, []uint32{2, 3, 4, 1, 5, 0}, order.IDs())

	i, ok := order.Index(4)
	require.True(t, ok)
	assert.Equal(t, 2, i)
	assert.Equal(t, uint32(1), order.At(3))
	assert.Equal(t, 6, order.Len())
}

func TestSortCycleKeepsMembersTogether(t *testing.T) {
	// 0 -> 3 -> 2 -> 3 (cycle {2,3}) -> 1
	net := build(t,
		[]uint32{0, 1, 2, 3},
		[][2]uint32{{0, 3}, {3, 2}, {2, 3}, {2, 1}},
		nil, nil,
	)

	assert.Equal(t, []uint32{0, 2, 3, 1}, Sort(net).IDs())
}

func TestSortIsStable(t *testing.T) {
	net := build(t,
		[]uint32{9, 3, 7, 1},
		[][2]uint32{{9, 1}, {7, 3}},
		nil, nil,
	)

	first := Sort(net)
	second := Sort(net)
	assert.Equal(t, first.IDs(), second.IDs())
	assert.Equal(t, first.Fingerprint(), second.Fingerprint())
	assert.Equal(t, []uint32{7, 3, 9, 1}, first.IDs())
}

func TestOrderStaleness(t *testing.T) {
	net := build(t, []uint32{0, 1}, [][2]uint32{{0, 1}}, nil, nil)
	order := Sort(net)
	assert.False(t, order.Stale(net))
	assert.Equal(t, net.Version(), order.Version())

	require.NoError(t, net.SetName(0, "in"))
	assert.False(t, order.Stale(net), "names are not structure")

	require.NoError(t, net.AddNode(2))
	assert.True(t, order.Stale(net))

	other := build(t, []uint32{5, 6}, [][2]uint32{{5, 6}}, nil, nil)
	require.Equal(t, order.Version(), other.Version())
	assert.True(t, order.Stale(other), "same version on another network is still stale")
}

func TestCycles(t *testing.T) {
	net := build(t,
		[]uint32{0, 1, 2, 3, 4},
		[][2]uint32{{0, 1}, {1, 2}, {2, 0}, {3, 3}, {3, 4}},
		nil, nil,
	)

	cycles := Cycles(net)
	require.Len(t, cycles, 2)
	assert.Equal(t, []uint32{0, 1, 2}, cycles[0].Members)
	assert.Equal(t, []uint32{0, 1, 2, 0}, cycles[0].Path)
	assert.Equal(t, "cycle through 0 -> 1 -> 2 -> 0", cycles[0].Message)
	assert.Equal(t, []uint32{3, 3}, cycles[1].Path)

	assert.Empty(t, Cycles(build(t, []uint32{0, 1}, [][2]uint32{{0, 1}}, nil, nil)))
}

func TestReachable(t *testing.T) {
	net := build(t, []uint32{0, 1, 2, 3}, [][2]uint32{{0, 1}, {1, 2}}, nil, nil)

	fwd := Reachable(net, []uint32{1, 99}, Forward)
	assert.Equal(t, map[uint32]bool{1: true, 2: true}, fwd)

	back := Reachable(net, []uint32{1}, Backward)
	assert.Equal(t, map[uint32]bool{0: true, 1: true}, back)
}
