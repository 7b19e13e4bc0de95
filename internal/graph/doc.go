// Package graph provides the structural algorithms over a network:
// reachability pruning, the deterministic node order that indexes all
// processor telemetry, and cycle analysis.
//
// Nothing here is maintained incrementally. Each function recomputes from
// the network it is given, and the Order it returns records the network
// version it was computed from so stale orders can be detected.
package graph
