package graph

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/neurograph/internal/network"
)

// Cycle describes one strongly connected component that contains a cycle.
//
// Cycles are informational: recurrent connections are legitimate in a
// spiking network. Sort still orders them deterministically.
type Cycle struct {
	Members []uint32 `json:"members"`
	Path    []uint32 `json:"path"`
	Message string   `json:"message"`
}

// Cycles reports every cyclic component of net, ordered by smallest member.
func Cycles(net *network.Network) []Cycle {
	var cycles []Cycle
	for _, scc := range components(net) {
		if !isCyclic(net, scc) {
			continue
		}
		path := cyclePath(net, scc)
		cycles = append(cycles, Cycle{
			Members: scc,
			Path:    path,
			Message: fmt.Sprintf("cycle through %s", formatPath(path)),
		})
	}
	slices.SortFunc(cycles, func(a, b Cycle) int {
		return cmp.Compare(a.Members[0], b.Members[0])
	})
	return cycles
}

// cyclePath walks from the smallest member through other members, always
// taking the smallest unvisited successor inside the component, until it
// can return to the start.
func cyclePath(net *network.Network, scc []uint32) []uint32 {
	start := scc[0]
	if len(scc) == 1 {
		return []uint32{start, start}
	}

	inSCC := make(map[uint32]bool, len(scc))
	for _, id := range scc {
		inSCC[id] = true
	}

	path := []uint32{start}
	visited := map[uint32]bool{start: true}
	current := start
	for {
		var next uint32
		found := false
		for _, w := range net.Successors(current) {
			if w == start && len(path) > 1 {
				return append(path, start)
			}
			if inSCC[w] && !visited[w] && !found {
				next, found = w, true
			}
		}
		if !found {
			return path
		}
		visited[next] = true
		path = append(path, next)
		current = next
	}
}

func formatPath(path []uint32) string {
	parts := make([]string, len(path))
	for i, id := range path {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, " -> ")
}
