package network

import (
	"slices"

	"github.com/roach88/neurograph/internal/property"
)

// AddNode adds a node with id. Its values start at the pack defaults and
// its decimal id becomes a lookup key.
func (n *Network) AddNode(id uint32) error {
	if n.HasNode(id) {
		return newError(ErrCodeDuplicateID, "node %d already exists", id)
	}
	n.insertNode(id)
	n.touch()
	return nil
}

func (n *Network) insertNode(id uint32) *node {
	nd := &node{
		id:       id,
		inputID:  -1,
		outputID: -1,
		values:   n.pack.Defaults(property.Node),
		succ:     make(map[uint32]struct{}),
		pred:     make(map[uint32]struct{}),
	}
	n.nodes[id] = nd
	n.names.attach(id)
	return nd
}

// CreateUnnamedNode adds a node at the lowest unused id and registers name
// as its display name. An empty name leaves the node unnamed. When the
// name is rejected no node is added.
func (n *Network) CreateUnnamedNode(name string) (uint32, error) {
	id := n.lowestFreeID()
	var normalized string
	if name != "" {
		var err error
		if normalized, err = n.names.normalizeName(id, name); err != nil {
			return 0, err
		}
	}
	n.insertNode(id)
	if normalized != "" {
		n.names.bind(id, normalized)
	}
	n.touch()
	return id, nil
}

func (n *Network) lowestFreeID() uint32 {
	var id uint32
	for n.HasNode(id) {
		id++
	}
	return id
}

// AddInput attaches id to the next input channel and returns the channel.
func (n *Network) AddInput(id uint32) (int, error) {
	nd, ok := n.nodes[id]
	if !ok {
		return 0, unknownNode(id)
	}
	if nd.inputID >= 0 {
		return 0, newError(ErrCodeAlreadyIO, "node %d is already input %d", id, nd.inputID)
	}
	nd.inputID = len(n.inputs)
	n.inputs = append(n.inputs, int64(id))
	n.touch()
	return nd.inputID, nil
}

// AddOutput attaches id to the next output channel and returns the channel.
func (n *Network) AddOutput(id uint32) (int, error) {
	nd, ok := n.nodes[id]
	if !ok {
		return 0, unknownNode(id)
	}
	if nd.outputID >= 0 {
		return 0, newError(ErrCodeAlreadyIO, "node %d is already output %d", id, nd.outputID)
	}
	nd.outputID = len(n.outputs)
	n.outputs = append(n.outputs, int64(id))
	n.touch()
	return nd.outputID, nil
}

// RemoveNode deletes id with its incident edges and names. When the node is
// an input or output and errorIfIO is set, nothing changes and the call
// fails with ErrNodeIsIO. Otherwise its channels are vacated (set to -1);
// other nodes keep their channel ids.
func (n *Network) RemoveNode(id uint32, errorIfIO bool) error {
	nd, ok := n.nodes[id]
	if !ok {
		return unknownNode(id)
	}
	if errorIfIO && (nd.inputID >= 0 || nd.outputID >= 0) {
		return newError(ErrCodeNodeIsIO, "node %d is an input or output", id)
	}

	for to := range nd.succ {
		n.unlink(id, to)
	}
	for from := range nd.pred {
		n.unlink(from, id)
	}
	if nd.inputID >= 0 {
		n.inputs[nd.inputID] = -1
	}
	if nd.outputID >= 0 {
		n.outputs[nd.outputID] = -1
	}
	n.names.detach(id)
	delete(n.nodes, id)
	n.touch()
	return nil
}

// AddEdge adds the edge from -> to with default values.
func (n *Network) AddEdge(from, to uint32) error {
	if !n.HasNode(from) {
		return unknownNode(from)
	}
	if !n.HasNode(to) {
		return unknownNode(to)
	}
	if n.HasEdge(from, to) {
		return newError(ErrCodeDuplicateEdge, "edge %d -> %d already exists", from, to)
	}
	n.link(from, to, &edge{values: n.pack.Defaults(property.Edge)})
	n.touch()
	return nil
}

// RemoveEdge deletes the edge from -> to.
func (n *Network) RemoveEdge(from, to uint32) error {
	if !n.HasEdge(from, to) {
		return unknownEdge(from, to)
	}
	n.unlink(from, to)
	n.touch()
	return nil
}

func (n *Network) link(from, to uint32, e *edge) {
	n.edges[EdgeKey{From: from, To: to}] = e
	n.nodes[from].succ[to] = struct{}{}
	n.nodes[to].pred[from] = struct{}{}
}

func (n *Network) unlink(from, to uint32) *edge {
	k := EdgeKey{From: from, To: to}
	e := n.edges[k]
	delete(n.edges, k)
	delete(n.nodes[from].succ, to)
	delete(n.nodes[to].pred, from)
	return e
}

// RenameNode moves node oldID to newID, repointing incident edges (self
// loops included), channel list entries, and names. Either the whole
// rename applies or nothing changes. Renaming a node to its own id is a
// no-op.
func (n *Network) RenameNode(oldID, newID uint32) error {
	nd, ok := n.nodes[oldID]
	if !ok {
		return unknownNode(oldID)
	}
	if oldID == newID {
		return nil
	}
	if n.HasNode(newID) {
		return newError(ErrCodeDuplicateID, "node %d already exists", newID)
	}

	type incident struct {
		from, to uint32
		e        *edge
	}
	var moved []incident
	remap := func(id uint32) uint32 {
		if id == oldID {
			return newID
		}
		return id
	}
	for to := range nd.succ {
		moved = append(moved, incident{from: oldID, to: to})
	}
	for from := range nd.pred {
		if from != oldID {
			moved = append(moved, incident{from: from, to: oldID})
		}
	}
	for i := range moved {
		moved[i].e = n.unlink(moved[i].from, moved[i].to)
	}

	delete(n.nodes, oldID)
	nd.id = newID
	n.nodes[newID] = nd
	for _, m := range moved {
		n.link(remap(m.from), remap(m.to), m.e)
	}
	if nd.inputID >= 0 {
		n.inputs[nd.inputID] = int64(newID)
	}
	if nd.outputID >= 0 {
		n.outputs[nd.outputID] = int64(newID)
	}
	n.names.move(oldID, newID)
	n.touch()
	return nil
}

// SetName binds a display name to id. An empty name or "-" clears it.
func (n *Network) SetName(id uint32, name string) error {
	if !n.HasNode(id) {
		return unknownNode(id)
	}
	if name == "" || name == "-" {
		n.names.unbind(id)
		return nil
	}
	normalized, err := n.names.normalizeName(id, name)
	if err != nil {
		return err
	}
	n.names.bind(id, normalized)
	return nil
}

// SetCoords sets a node's display coordinates. Coordinates are cosmetic.
func (n *Network) SetCoords(id uint32, coords []float64) error {
	nd, ok := n.nodes[id]
	if !ok {
		return unknownNode(id)
	}
	nd.coords = slices.Clone(coords)
	return nil
}

// SetControlPoints sets an edge's display control points.
func (n *Network) SetControlPoints(from, to uint32, points []float64) error {
	e, ok := n.edges[EdgeKey{From: from, To: to}]
	if !ok {
		return unknownEdge(from, to)
	}
	e.controlPoints = slices.Clone(points)
	return nil
}

// ClearViz drops every coordinate and control point.
func (n *Network) ClearViz() {
	for _, nd := range n.nodes {
		nd.coords = nil
	}
	for _, e := range n.edges {
		e.controlPoints = nil
	}
}
