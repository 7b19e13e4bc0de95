package graph

import (
	"slices"

	"github.com/roach88/neurograph/internal/network"
)

// components finds the strongly connected components of net using
// Tarjan's algorithm.
//
// Nodes are visited in ascending id order and successors in ascending id
// order, so the result is identical across calls. Each component's
// members are sorted ascending. Components are returned in the order
// Tarjan completes them, which is a reverse topological order of the
// condensation.
func components(net *network.Network) [][]uint32 {
	var (
		index   = 0
		stack   []uint32
		indices = make(map[uint32]int)
		lowlink = make(map[uint32]int)
		onStack = make(map[uint32]bool)
		sccs    [][]uint32
	)

	var strongConnect func(uint32)
	strongConnect = func(v uint32) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range net.Successors(v) {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		// v is the root of a component: pop it off the stack.
		if lowlink[v] == indices[v] {
			var scc []uint32
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			slices.Sort(scc)
			sccs = append(sccs, scc)
		}
	}

	for _, id := range net.NodeIDs() {
		if _, visited := indices[id]; !visited {
			strongConnect(id)
		}
	}
	return sccs
}

// isCyclic reports whether a component contains a cycle: more than one
// member, or a single member with a self loop.
func isCyclic(net *network.Network, scc []uint32) bool {
	return len(scc) > 1 || net.HasEdge(scc[0], scc[0])
}
