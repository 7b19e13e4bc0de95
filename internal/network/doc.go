// Package network implements the network graph model: nodes, directed
// edges, the property pack that governs their values, the ordered input
// and output channel lists, associated data, and the name registry.
//
// Every mutating operation is atomic. It validates everything it needs
// before touching state, so a failed call leaves the network exactly as it
// was. Batch helpers build on this to isolate failures per target.
//
// A Network is not safe for concurrent use.
package network
