package graph

import (
	"log/slog"

	"github.com/roach88/neurograph/internal/network"
)

// PruneReport describes what Prune removed.
type PruneReport struct {
	RemovedNodes []uint32 `json:"removed_nodes"`
	RemovedEdges int      `json:"removed_edges"`
}

// Prune removes every node that does not lie on some input -> output path,
// together with its edges. A node survives only if it is forward-reachable
// from an input and backward-reachable from an output. Input and output
// nodes are subject to the same rule; removing one vacates its channel.
//
// The surviving set is computed before anything is removed, so removal is
// a single pass. Prune is idempotent.
func Prune(net *network.Network) PruneReport {
	forward := Reachable(net, attached(net.Inputs()), Forward)
	backward := Reachable(net, attached(net.Outputs()), Backward)

	edgesBefore := net.NumEdges()
	report := PruneReport{RemovedNodes: []uint32{}}
	for _, id := range net.NodeIDs() {
		if forward[id] && backward[id] {
			continue
		}
		// id came from NodeIDs and removal never cascades to other nodes.
		_ = net.RemoveNode(id, false)
		report.RemovedNodes = append(report.RemovedNodes, id)
	}
	report.RemovedEdges = edgesBefore - net.NumEdges()

	slog.Debug("network pruned",
		"removed_nodes", len(report.RemovedNodes),
		"removed_edges", report.RemovedEdges,
		"remaining_nodes", net.NumNodes())
	return report
}
