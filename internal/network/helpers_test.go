package network

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/neurograph/internal/ir"
	"github.com/roach88/neurograph/internal/property"
)

func testPack(t *testing.T) *property.Pack {
	t.Helper()
	p, err := property.FromDoc(ir.PropertyPackDoc{
		Nodes: []ir.PropertyDoc{{Name: "Threshold", Min: 0, Max: 1}},
		Edges: []ir.PropertyDoc{{Name: "Weight", Min: -1, Max: 1}},
	})
	require.NoError(t, err)
	return p
}

// chain builds 0 -> 1 -> ... -> n-1 with node 0 as input and n-1 as output.
func chain(t *testing.T, n int) *Network {
	t.Helper()
	net := New(testPack(t))
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

func mustFingerprint(t *testing.T, net *Network) string {
	t.Helper()
	fp, err := net.Fingerprint()
	require.NoError(t, err)
	return fp
}
