package graph

import (
	"container/heap"
	"slices"

	"github.com/roach88/neurograph/internal/ir"
	"github.com/roach88/neurograph/internal/network"
)

// Order is a total order over a network's nodes, produced by Sort.
//
// It is the contract that indexes processor telemetry: entry i of every
// per-neuron telemetry vector belongs to node IDs()[i]. An Order records
// the network version and structure it was computed from; once the
// network changes structurally the order is stale and must be recomputed.
type Order struct {
	ids         []uint32
	index       map[uint32]int
	version     uint64
	structure   string
	fingerprint string
}

// IDs returns the node ids in order.
func (o *Order) IDs() []uint32 {
	return slices.Clone(o.ids)
}

// At returns the node id at position i.
func (o *Order) At(i int) uint32 {
	return o.ids[i]
}

// Index returns the position of id, or false when id is not ordered.
func (o *Order) Index(id uint32) (int, bool) {
	i, ok := o.index[id]
	return i, ok
}

// Len returns the number of ordered nodes.
func (o *Order) Len() int {
	return len(o.ids)
}

// Version returns the network version the order was computed from.
func (o *Order) Version() uint64 {
	return o.version
}

// Fingerprint identifies the order together with the edge set it honors.
func (o *Order) Fingerprint() string {
	return o.fingerprint
}

// Stale reports whether net has changed structurally since the order was
// computed, or is a different network altogether.
func (o *Order) Stale(net *network.Network) bool {
	return net.Version() != o.version || structureOf(net) != o.structure
}

func edgePairs(net *network.Network) [][2]uint32 {
	keys := net.EdgeKeys()
	pairs := make([][2]uint32, len(keys))
	for i, k := range keys {
		pairs[i] = [2]uint32{k.From, k.To}
	}
	return pairs
}

func structureOf(net *network.Network) string {
	return ir.OrderFingerprint(net.NodeIDs(), edgePairs(net))
}

// Sort computes the deterministic node order of net.
//
// For every edge u -> v outside a cycle, u precedes v. Among nodes whose
// predecessors have all been placed, the smallest id goes first. Nodes on
// a common cycle are kept together in ascending id order, placed when the
// cycle's smallest id would be. Repeated calls on an unchanged network
// return identical orders.
func Sort(net *network.Network) *Order {
	sccs := components(net)

	comp := make(map[uint32]int, net.NumNodes())
	for c, members := range sccs {
		for _, id := range members {
			comp[id] = c
		}
	}

	succ := make([][]int, len(sccs))
	indegree := make([]int, len(sccs))
	for _, k := range net.EdgeKeys() {
		from, to := comp[k.From], comp[k.To]
		if from == to || slices.Contains(succ[from], to) {
			continue
		}
		succ[from] = append(succ[from], to)
		indegree[to]++
	}

	ready := &componentHeap{sccs: sccs}
	for c := range sccs {
		if indegree[c] == 0 {
			ready.items = append(ready.items, c)
		}
	}
	heap.Init(ready)

	ids := make([]uint32, 0, net.NumNodes())
	for ready.Len() > 0 {
		c := heap.Pop(ready).(int)
		ids = append(ids, sccs[c]...)
		for _, d := range succ[c] {
			indegree[d]--
			if indegree[d] == 0 {
				heap.Push(ready, d)
			}
		}
	}

	index := make(map[uint32]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}
	pairs := edgePairs(net)
	return &Order{
		ids:         ids,
		index:       index,
		version:     net.Version(),
		structure:   ir.OrderFingerprint(net.NodeIDs(), pairs),
		fingerprint: ir.OrderFingerprint(ids, pairs),
	}
}

// componentHeap is a min-heap of component indices keyed by each
// component's smallest member id.
type componentHeap struct {
	sccs  [][]uint32
	items []int
}

func (h *componentHeap) Len() int { return len(h.items) }

func (h *componentHeap) Less(i, j int) bool {
	return h.sccs[h.items[i]][0] < h.sccs[h.items[j]][0]
}

func (h *componentHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *componentHeap) Push(x any) { h.items = append(h.items, x.(int)) }

func (h *componentHeap) Pop() any {
	old := h.items
	n := len(old)
	x := old[n-1]
	h.items = old[:n-1]
	return x
}
