package graph

import "github.com/roach88/neurograph/internal/network"

// Direction selects which way edges are followed.
type Direction int

const (
	// Forward follows edges from source to target.
	Forward Direction = iota
	// Backward follows edges from target to source.
	Backward
)

// Reachable returns every node reachable from seeds in direction dir,
// seeds included. Seeds that are not in the network are ignored.
func Reachable(net *network.Network, seeds []uint32, dir Direction) map[uint32]bool {
	seen := make(map[uint32]bool, len(seeds))
	queue := make([]uint32, 0, len(seeds))
	for _, id := range seeds {
		if net.HasNode(id) && !seen[id] {
			seen[id] = true
			queue = append(queue, id)
		}
	}

	next := net.Successors
	if dir == Backward {
		next = net.Predecessors
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, w := range next(id) {
			if !seen[w] {
				seen[w] = true
				queue = append(queue, w)
			}
		}
	}
	return seen
}

// attached returns the node ids bound to a channel list, skipping vacated
// channels.
func attached(list []int64) []uint32 {
	out := make([]uint32, 0, len(list))
	for _, id := range list {
		if id >= 0 {
			out = append(out, uint32(id))
		}
	}
	return out
}
