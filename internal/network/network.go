package network

import (
	"cmp"
	"encoding/json"
	"maps"
	"slices"

	"github.com/roach88/neurograph/internal/property"
)

// Node is a vertex of the network graph.
//
// InputID and OutputID are channel positions in the network's input and
// output lists, or -1 when the node is not attached to that list.
type Node struct {
	ID       uint32
	Name     string
	InputID  int
	OutputID int
	Values   []float64
	Coords   []float64
}

// IsInput reports whether the node is attached as an input.
func (n Node) IsInput() bool { return n.InputID >= 0 }

// IsOutput reports whether the node is attached as an output.
func (n Node) IsOutput() bool { return n.OutputID >= 0 }

// IsHidden reports whether the node is neither input nor output.
func (n Node) IsHidden() bool { return !n.IsInput() && !n.IsOutput() }

// EdgeKey identifies an edge by its ordered endpoint pair.
type EdgeKey struct {
	From uint32
	To   uint32
}

// Edge is a directed arc of the network graph.
type Edge struct {
	From          uint32
	To            uint32
	Values        []float64
	ControlPoints []float64
}

// Key returns the edge's identifying pair.
func (e Edge) Key() EdgeKey { return EdgeKey{From: e.From, To: e.To} }

type node struct {
	id       uint32
	inputID  int
	outputID int
	values   []float64
	coords   []float64
	succ     map[uint32]struct{}
	pred     map[uint32]struct{}
}

type edge struct {
	values        []float64
	controlPoints []float64
}

// Network is the aggregate owning nodes, edges, the property pack, the
// input and output channel lists, network values, associated data, and
// the name registry.
type Network struct {
	pack    *property.Pack
	nodes   map[uint32]*node
	edges   map[EdgeKey]*edge
	inputs  []int64
	outputs []int64
	values  []float64
	data    map[string]json.RawMessage
	names   *NameRegistry
	version uint64
}

// New creates an empty network governed by pack. A nil pack means an
// empty pack.
func New(pack *property.Pack) *Network {
	if pack == nil {
		pack = property.NewPack()
	}
	return &Network{
		pack:   pack.Clone(),
		nodes:  make(map[uint32]*node),
		edges:  make(map[EdgeKey]*edge),
		values: pack.Defaults(property.Network),
		data:   make(map[string]json.RawMessage),
		names:  newNameRegistry(),
	}
}

// Version is a counter incremented by every structural change: adding,
// removing, or renaming nodes and edges, attaching channels, and clearing.
// Artifacts derived from the structure record it to detect staleness.
func (n *Network) Version() uint64 {
	return n.version
}

func (n *Network) touch() {
	n.version++
}

// Pack returns a copy of the governing property pack.
func (n *Network) Pack() *property.Pack {
	return n.pack.Clone()
}

// Names returns the name registry. It is read-only for callers; names
// change only through SetName and the structural operations.
func (n *Network) Names() *NameRegistry {
	return n.names
}

// HasNode reports whether id exists.
func (n *Network) HasNode(id uint32) bool {
	_, ok := n.nodes[id]
	return ok
}

// HasEdge reports whether the edge from -> to exists.
func (n *Network) HasEdge(from, to uint32) bool {
	_, ok := n.edges[EdgeKey{From: from, To: to}]
	return ok
}

// Node returns a copy of node id.
func (n *Network) Node(id uint32) (Node, error) {
	nd, ok := n.nodes[id]
	if !ok {
		return Node{}, unknownNode(id)
	}
	return n.export(nd), nil
}

func (n *Network) export(nd *node) Node {
	return Node{
		ID:       nd.id,
		Name:     n.names.Name(nd.id),
		InputID:  nd.inputID,
		OutputID: nd.outputID,
		Values:   slices.Clone(nd.values),
		Coords:   slices.Clone(nd.coords),
	}
}

// Edge returns a copy of the edge from -> to.
func (n *Network) Edge(from, to uint32) (Edge, error) {
	e, ok := n.edges[EdgeKey{From: from, To: to}]
	if !ok {
		return Edge{}, unknownEdge(from, to)
	}
	return Edge{
		From:          from,
		To:            to,
		Values:        slices.Clone(e.values),
		ControlPoints: slices.Clone(e.controlPoints),
	}, nil
}

// NodeIDs returns every node id in ascending order.
func (n *Network) NodeIDs() []uint32 {
	return slices.Sorted(maps.Keys(n.nodes))
}

// Nodes returns copies of every node in ascending id order.
func (n *Network) Nodes() []Node {
	out := make([]Node, 0, len(n.nodes))
	for _, id := range n.NodeIDs() {
		out = append(out, n.export(n.nodes[id]))
	}
	return out
}

// EdgeKeys returns every edge key ordered by (from, to).
func (n *Network) EdgeKeys() []EdgeKey {
	keys := slices.Collect(maps.Keys(n.edges))
	slices.SortFunc(keys, compareEdgeKeys)
	return keys
}

// Edges returns copies of every edge ordered by (from, to).
func (n *Network) Edges() []Edge {
	keys := n.EdgeKeys()
	out := make([]Edge, len(keys))
	for i, k := range keys {
		e := n.edges[k]
		out[i] = Edge{
			From:          k.From,
			To:            k.To,
			Values:        slices.Clone(e.values),
			ControlPoints: slices.Clone(e.controlPoints),
		}
	}
	return out
}

func compareEdgeKeys(a, b EdgeKey) int {
	if c := cmp.Compare(a.From, b.From); c != 0 {
		return c
	}
	return cmp.Compare(a.To, b.To)
}

// Successors returns the targets of id's outgoing edges in ascending order.
func (n *Network) Successors(id uint32) []uint32 {
	nd, ok := n.nodes[id]
	if !ok {
		return nil
	}
	return slices.Sorted(maps.Keys(nd.succ))
}

// Predecessors returns the sources of id's incoming edges in ascending order.
func (n *Network) Predecessors(id uint32) []uint32 {
	nd, ok := n.nodes[id]
	if !ok {
		return nil
	}
	return slices.Sorted(maps.Keys(nd.pred))
}

// NumNodes returns the node count.
func (n *Network) NumNodes() int { return len(n.nodes) }

// NumEdges returns the edge count.
func (n *Network) NumEdges() int { return len(n.edges) }

// NumInputs returns the length of the input channel list, vacated
// channels included.
func (n *Network) NumInputs() int { return len(n.inputs) }

// NumOutputs returns the length of the output channel list, vacated
// channels included.
func (n *Network) NumOutputs() int { return len(n.outputs) }

// Inputs returns the input channel list. Entry i is the node id bound to
// input channel i, or -1 when that channel was vacated.
func (n *Network) Inputs() []int64 { return slices.Clone(n.inputs) }

// Outputs returns the output channel list with the same layout as Inputs.
func (n *Network) Outputs() []int64 { return slices.Clone(n.outputs) }

// Input returns the node bound to input channel i.
func (n *Network) Input(i int) (Node, error) {
	return n.channel(n.inputs, i, "input")
}

// Output returns the node bound to output channel i.
func (n *Network) Output(i int) (Node, error) {
	return n.channel(n.outputs, i, "output")
}

func (n *Network) channel(list []int64, i int, kind string) (Node, error) {
	if i < 0 || i >= len(list) || list[i] < 0 {
		return Node{}, newError(ErrCodeUnknownNode, "%s channel %d is not attached", kind, i)
	}
	return n.Node(uint32(list[i]))
}

// Lookup resolves a display name or decimal id token to a node id.
func (n *Network) Lookup(token string) (uint32, error) {
	id, ok := n.names.Resolve(token)
	if !ok {
		return 0, newError(ErrCodeUnknownName, "%q names no node", token)
	}
	return id, nil
}

// Clear resets the network to empty. With keepPack the property pack is
// preserved; otherwise it is replaced by an empty pack. Associated data is
// always dropped.
func (n *Network) Clear(keepPack bool) {
	pack := property.NewPack()
	if keepPack {
		pack = n.pack
	}
	version := n.version
	*n = *New(pack)
	n.version = version + 1
}

// Clone returns an independent deep copy, version included.
func (n *Network) Clone() *Network {
	out := &Network{
		pack:    n.pack.Clone(),
		nodes:   make(map[uint32]*node, len(n.nodes)),
		edges:   make(map[EdgeKey]*edge, len(n.edges)),
		inputs:  slices.Clone(n.inputs),
		outputs: slices.Clone(n.outputs),
		values:  slices.Clone(n.values),
		data:    make(map[string]json.RawMessage, len(n.data)),
		names:   n.names.clone(),
		version: n.version,
	}
	for id, nd := range n.nodes {
		out.nodes[id] = &node{
			id:       nd.id,
			inputID:  nd.inputID,
			outputID: nd.outputID,
			values:   slices.Clone(nd.values),
			coords:   slices.Clone(nd.coords),
			succ:     maps.Clone(nd.succ),
			pred:     maps.Clone(nd.pred),
		}
	}
	for k, e := range n.edges {
		out.edges[k] = &edge{
			values:        slices.Clone(e.values),
			controlPoints: slices.Clone(e.controlPoints),
		}
	}
	for k, v := range n.data {
		out.data[k] = slices.Clone(v)
	}
	return out
}
