package processor

import (
	"math"

	"github.com/roach88/neurograph/internal/graph"
	"github.com/roach88/neurograph/internal/ir"
	"github.com/roach88/neurograph/internal/network"
	"github.com/roach88/neurograph/internal/property"
)

// CheckSchema compares the processor's declared schema with the network's
// pack. All three categories must match exactly, property order included,
// because value vectors are positional.
func CheckSchema(want *property.Pack, net *network.Network) error {
	diffs := want.Diff(net.Pack())
	if len(diffs) == 0 {
		return nil
	}
	return &Error{
		Code:    ErrCodeSchemaMismatch,
		Message: "network properties differ from processor schema (processor vs network)",
		Details: diffs,
	}
}

// CheckOrder rejects a missing order or one computed from a different
// network state.
func CheckOrder(net *network.Network, order *graph.Order) error {
	if order == nil {
		return NewError(ErrCodeStaleOrder, "no node order supplied")
	}
	if order.Stale(net) {
		return NewError(ErrCodeStaleOrder, "node order computed at version %d, network is at version %d",
			order.Version(), net.Version())
	}
	return nil
}

// ValidateSpike applies the checks every spike passes before it reaches a
// processor: non-negative finite time and, when normalized, a value in
// [-1, 1].
func ValidateSpike(s ir.Spike, normalized bool) error {
	if math.IsNaN(s.Time) || math.IsInf(s.Time, 0) || s.Time < 0 {
		return NewError(ErrCodeNegativeTime, "spike time %v must be non-negative", s.Time)
	}
	if math.IsNaN(s.Value) || math.IsInf(s.Value, 0) {
		return NewError(ErrCodeSpikeRange, "spike value %v is not finite", s.Value)
	}
	if normalized && (s.Value < -1 || s.Value > 1) {
		return NewError(ErrCodeSpikeRange, "normalized spike value %v outside [-1, 1]", s.Value)
	}
	return nil
}
