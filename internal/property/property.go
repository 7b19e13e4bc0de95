package property

import (
	"fmt"
	"math"

	"github.com/roach88/neurograph/internal/ir"
	"github.com/roach88/neurograph/internal/rng"
)

// Type governs how random values are drawn for a property.
type Type byte

const (
	// Double draws uniformly from [Min, Max).
	Double Type = 'D'
	// Integer draws uniformly from the integers in [Min, Max].
	Integer Type = 'I'
	// Boolean draws 0 or 1.
	Boolean Type = 'B'
)

// ParseType converts an exchange type code. The empty string means Double.
func ParseType(s string) (Type, error) {
	switch s {
	case "", ir.TypeDouble:
		return Double, nil
	case ir.TypeInteger:
		return Integer, nil
	case ir.TypeBoolean:
		return Boolean, nil
	default:
		return 0, fmt.Errorf("unknown property type %q", s)
	}
}

// String returns the exchange type code.
func (t Type) String() string {
	return string(rune(t))
}

// Category selects which entity a property applies to.
type Category int

const (
	Node Category = iota
	Edge
	Network
)

// Categories lists every category in exchange order.
var Categories = []Category{Node, Edge, Network}

// String returns the category name.
func (c Category) String() string {
	switch c {
	case Node:
		return "node"
	case Edge:
		return "edge"
	case Network:
		return "network"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Property is one resolved property definition.
type Property struct {
	Name    string
	Type    Type
	Index   int
	Min     float64
	Max     float64
	Default float64
}

// maxExactInt is 2^53, past which float64 cannot hold every integer.
const maxExactInt = 1 << 53

// Random draws a value for p from r. Integer properties draw uniformly
// over the integers in [Min, Max]; the pack guarantees there is one.
//
// How many values a draw consumes from r depends on the type and range,
// so only identical operation sequences on identical packs reproduce.
func (p Property) Random(r *rng.Source) float64 {
	switch p.Type {
	case Integer:
		lo, hi := math.Ceil(p.Min), math.Floor(p.Max)
		if hi <= lo {
			return lo
		}
		span := hi - lo
		if span < maxExactInt {
			return lo + float64(r.Uint64N(uint64(span)+1))
		}
		return min(math.Floor(lo+r.Float64()*span), hi)
	case Boolean:
		return float64(r.IntN(2))
	default:
		return p.Min + r.Float64()*(p.Max-p.Min)
	}
}

// Doc returns the exchange form of p.
func (p Property) Doc() ir.PropertyDoc {
	def := p.Default
	return ir.PropertyDoc{
		Name:    p.Name,
		Type:    p.Type.String(),
		Min:     p.Min,
		Max:     p.Max,
		Default: &def,
	}
}
