package shell

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/neurograph/internal/property"
)

const testPackJSON = `{"nodes":[{"name":"Threshold","min":0,"max":1}],"edges":[{"name":"Weight","min":-1,"max":1}],"networks":[]}`

// chainScript builds 0 -> 1 -> 2 with 0 as input, 2 as output, and 1 named mid.
const chainScript = "SP\n" + testPackJSON + "\nAN 0 1 2\nAE 0 1 1 2\nAI 0\nAO 2\nSETNAME 1 mid\n"

func runNet(t *testing.T, script string) (*NetTool, string) {
	t.Helper()
	var out bytes.Buffer
	tool := NewNetTool(strings.NewReader(script), &out, WithSeed(1))
	require.NoError(t, tool.Run(context.Background()))
	return tool, out.String()
}

func TestNetTool_Build(t *testing.T) {
	tool, out := runNet(t, chainScript+"INFO\n")

	net := tool.Network()
	assert.Equal(t, 3, net.NumNodes())
	assert.Equal(t, 2, net.NumEdges())
	assert.Equal(t, []int64{0}, net.Inputs())
	assert.Equal(t, []int64{2}, net.Outputs())
	assert.Equal(t, 1, net.Pack().Len(property.Node))

	assert.Contains(t, out, "Nodes:          3\n")
	assert.Contains(t, out, "Edges:          2\n")
	assert.Contains(t, out, "Input nodes:  0\n")
	assert.Contains(t, out, "Hidden nodes: 1(mid)\n")
	assert.Contains(t, out, "Output nodes: 2\n")
}

func TestNetTool_BatchFailuresAreReported(t *testing.T) {
	tool, out := runNet(t, chainScript+"AN 3 0 4\nRN 0 T\nAE 0 9\n")

	assert.Equal(t, 5, tool.Network().NumNodes())
	assert.Contains(t, out, "0: DUPLICATE_ID: node 0 already exists\n")
	assert.Contains(t, out, "0: NODE_IS_IO: node 0 is an input or output\n")
	assert.Contains(t, out, "edge 0 -> 9: UNKNOWN_NAME: \"9\" names no node\n")
	assert.True(t, tool.Network().HasNode(0))
}

func TestNetTool_EdgeBatchesIsolateBadPairs(t *testing.T) {
	script := chainScript + "AN 3 4\nAE 0 3 2 99 3 4\nSEP 0 1 7 8 3 4 Weight 0.25\nRE 9 0 1 2\nEDGES 0 1 5 5\n"
	tool, out := runNet(t, script)

	net := tool.Network()
	assert.True(t, net.HasEdge(0, 3))
	assert.True(t, net.HasEdge(3, 4))
	assert.False(t, net.HasEdge(1, 2))
	assert.Equal(t, 3, net.NumEdges())

	w, err := net.EdgeValue(0, 1, "Weight")
	require.NoError(t, err)
	assert.Equal(t, 0.25, w)
	w, err = net.EdgeValue(3, 4, "Weight")
	require.NoError(t, err)
	assert.Equal(t, 0.25, w)

	assert.Contains(t, out, "edge 2 -> 99: ")
	assert.Contains(t, out, "edge 7 -> 8: ")
	assert.Contains(t, out, "edge 9 -> 0: ")
	assert.Contains(t, out, "edge 5 -> 5: ")
	assert.Contains(t, out, `"from":0,"to":1`)
}

func TestNetTool_NamedTokens(t *testing.T) {
	tool, out := runNet(t, chainScript+"AN hub\nAE mid hub\nTYPE 0 mid 2 hub\nNM mid\n")

	id, err := tool.Network().Lookup("hub")
	require.NoError(t, err)
	assert.Equal(t, uint32(3), id)
	assert.True(t, tool.Network().HasEdge(1, 3))

	assert.Contains(t, out, "0 is an input node\n")
	assert.Contains(t, out, "1(mid) is a hidden node\n")
	assert.Contains(t, out, "2 is an output node\n")
	assert.Contains(t, out, "3(hub) is a hidden node\n")
	assert.Contains(t, out, "\"mid\": 1\n")
}

func TestNetTool_Properties(t *testing.T) {
	tool, out := runNet(t, chainScript+"SNP 0 mid Threshold 0.25\nSEP_ALL Weight -0.5\nSNP 0 Leak 1\nNODES mid\n")

	net := tool.Network()
	v, err := net.NodeValue(0, "Threshold")
	require.NoError(t, err)
	assert.Equal(t, 0.25, v)
	w, err := net.EdgeValue(1, 2, "Weight")
	require.NoError(t, err)
	assert.Equal(t, -0.5, w)

	assert.Contains(t, out, "node property \"Leak\" doesn't exist\n")
	assert.Contains(t, out, `{"id":1,"name":"mid","values":{"Threshold":0.25}}`)
}

func TestNetTool_RandomizeIsSeeded(t *testing.T) {
	script := chainScript + "RNP 0 1 2\nREP 0 1 Weight\n"
	a, _ := runNet(t, script)
	b, _ := runNet(t, script)
	assert.True(t, a.Network().Equal(b.Network()))

	for _, id := range []uint32{0, 1, 2} {
		v, err := a.Network().NodeValue(id, "Threshold")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestNetTool_Seed(t *testing.T) {
	_, out := runNet(t, "SEED 7\nSHOW_SEED\nSEED x\n")
	assert.Equal(t, "7\nx is not a valid seed\nusage: SEED val\n", out)
}

func TestNetTool_SortAndCycles(t *testing.T) {
	_, out := runNet(t, chainScript+"SORT\nSORT Q\nCYCLES\nAE 2 1\nCYCLES\n")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "0 1 2", lines[0])
	assert.Contains(t, lines[1], "cycle through")
}

func TestNetTool_Prune(t *testing.T) {
	tool, _ := runNet(t, chainScript+"AN 7 8\nAE 1 7\nAE 8 2\nPRUNE\n")
	assert.Equal(t, []uint32{0, 1, 2}, tool.Network().NodeIDs())
}

func TestNetTool_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "net.json")
	src, _ := runNet(t, chainScript+"SETCOORDS mid 1 2\nSET_ASSOC other_data\n{\"k\": 1}\nTJ "+path+"\n")

	dst, _ := runNet(t, "FJ "+path+"\n")
	assert.True(t, src.Network().Equal(dst.Network()))

	nd, err := dst.Network().Node(1)
	require.NoError(t, err)
	assert.Equal(t, "mid", nd.Name)
	assert.Equal(t, []float64{1, 2}, nd.Coords)
}

func TestNetTool_FromJSONRejectsSchemaViolations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"properties":{},"nodes":[{"id":-1,"values":[]}],"edges":[],"inputs":[],"outputs":[]}`), 0o644))

	tool, out := runNet(t, chainScript+"FJ "+path+"\n")
	assert.NotEmpty(t, out)
	assert.Equal(t, 3, tool.Network().NumNodes())
}

func TestNetTool_ClearKeepsPack(t *testing.T) {
	tool, _ := runNet(t, chainScript+"CLEAR_KP\n")
	assert.Zero(t, tool.Network().NumNodes())
	assert.Equal(t, 1, tool.Network().Pack().Len(property.Node))

	tool, _ = runNet(t, chainScript+"CLEAR\n")
	assert.Zero(t, tool.Network().Pack().Len(property.Node))
}

func TestNetTool_CuePack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pack.cue")
	require.NoError(t, os.WriteFile(path, []byte(`pack: {nodes: [{name: "T", min: 0, max: 2}], edges: [{name: "W", min: -1, max: 1}]}`), 0o644))

	tool, out := runNet(t, "SP "+path+"\nAN 0\n")
	assert.Empty(t, out)
	v, err := tool.Network().NodeValue(0, "T")
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)
}
