package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/neurograph/internal/ir"
	"github.com/roach88/neurograph/internal/network"
	"github.com/roach88/neurograph/internal/property"
)

// Pack returns a small node/edge pack: Threshold in [0,1] and Weight in [-1,1].
func Pack(t testing.TB) *property.Pack {
	t.Helper()
	p, err := property.FromDoc(ir.PropertyPackDoc{
		Nodes: []ir.PropertyDoc{{Name: "Threshold", Min: 0, Max: 1}},
		Edges: []ir.PropertyDoc{{Name: "Weight", Min: -1, Max: 1}},
	})
	require.NoError(t, err)
	return p
}

// Chain builds 0 -> 1 -> ... -> n-1 over pack with node 0 as the only
// input and n-1 as the only output.
func Chain(t testing.TB, pack *property.Pack, n int) *network.Network {
	t.Helper()
	net := network.New(pack)
	for i := range n {
		require.NoError(t, net.AddNode(uint32(i)))
	}
	for i := 1; i < n; i++ {
		require.NoError(t, net.AddEdge(uint32(i-1), uint32(i)))
	}
	_, err := net.AddInput(0)
	require.NoError(t, err)
	_, err = net.AddOutput(uint32(n - 1))
	require.NoError(t, err)
	return net
}

// Diamond builds 0 -> {1, 2} -> 3 over pack with 0 as input and 3 as output.
func Diamond(t testing.TB, pack *property.Pack) *network.Network {
	t.Helper()
	net := network.New(pack)
	for i := range 4 {
		require.NoError(t, net.AddNode(uint32(i)))
	}
	for _, e := range [][2]uint32{{0, 1}, {0, 2}, {1, 3}, {2, 3}} {
		require.NoError(t, net.AddEdge(e[0], e[1]))
	}
	_, err := net.AddInput(0)
	require.NoError(t, err)
	_, err = net.AddOutput(3)
	require.NoError(t, err)
	return net
}

// SetAll sets one property on every node (edges false) or every edge.
func SetAll(t testing.TB, net *network.Network, edges bool, name string, v float64) {
	t.Helper()
	if edges {
		for _, k := range net.EdgeKeys() {
			require.NoError(t, net.SetEdgeProperty(k.From, k.To, name, v))
		}
		return
	}
	for _, id := range net.NodeIDs() {
		require.NoError(t, net.SetNodeProperty(id, name, v))
	}
}
