package network

import (
	"fmt"

	"github.com/roach88/neurograph/internal/ir"
	"github.com/roach88/neurograph/internal/property"
	"github.com/roach88/neurograph/internal/rng"
)

// IsNodeProperty reports whether name is a node property.
func (n *Network) IsNodeProperty(name string) bool { return n.pack.Has(property.Node, name) }

// IsEdgeProperty reports whether name is an edge property.
func (n *Network) IsEdgeProperty(name string) bool { return n.pack.Has(property.Edge, name) }

// IsNetworkProperty reports whether name is a network property.
func (n *Network) IsNetworkProperty(name string) bool { return n.pack.Has(property.Network, name) }

// Property resolves name in category cat to its index and range.
func (n *Network) Property(cat property.Category, name string) (property.Property, error) {
	return n.pack.Lookup(cat, name)
}

// SetNodeProperty stores v for the named property of node id. The value is
// stored verbatim; the property range is not enforced.
func (n *Network) SetNodeProperty(id uint32, name string, v float64) error {
	nd, ok := n.nodes[id]
	if !ok {
		return unknownNode(id)
	}
	p, err := n.pack.Lookup(property.Node, name)
	if err != nil {
		return err
	}
	nd.values[p.Index] = v
	return nil
}

// SetEdgeProperty stores v for the named property of edge from -> to.
func (n *Network) SetEdgeProperty(from, to uint32, name string, v float64) error {
	e, ok := n.edges[EdgeKey{From: from, To: to}]
	if !ok {
		return unknownEdge(from, to)
	}
	p, err := n.pack.Lookup(property.Edge, name)
	if err != nil {
		return err
	}
	e.values[p.Index] = v
	return nil
}

// SetNetworkProperty stores v for the named network property.
func (n *Network) SetNetworkProperty(name string, v float64) error {
	p, err := n.pack.Lookup(property.Network, name)
	if err != nil {
		return err
	}
	n.values[p.Index] = v
	return nil
}

// NodeValue reads the named property of node id.
func (n *Network) NodeValue(id uint32, name string) (float64, error) {
	nd, ok := n.nodes[id]
	if !ok {
		return 0, unknownNode(id)
	}
	p, err := n.pack.Lookup(property.Node, name)
	if err != nil {
		return 0, err
	}
	return nd.values[p.Index], nil
}

// EdgeValue reads the named property of edge from -> to.
func (n *Network) EdgeValue(from, to uint32, name string) (float64, error) {
	e, ok := n.edges[EdgeKey{From: from, To: to}]
	if !ok {
		return 0, unknownEdge(from, to)
	}
	p, err := n.pack.Lookup(property.Edge, name)
	if err != nil {
		return 0, err
	}
	return e.values[p.Index], nil
}

// NetworkValue reads the named network property.
func (n *Network) NetworkValue(name string) (float64, error) {
	p, err := n.pack.Lookup(property.Network, name)
	if err != nil {
		return 0, err
	}
	return n.values[p.Index], nil
}

// NetworkValues returns a copy of the network property vector.
func (n *Network) NetworkValues() []float64 {
	return append([]float64(nil), n.values...)
}

// RandomizeNode redraws the named property of node id from r. An empty
// name redraws every node property in index order.
func (n *Network) RandomizeNode(r *rng.Source, id uint32, name string) error {
	nd, ok := n.nodes[id]
	if !ok {
		return unknownNode(id)
	}
	return n.randomize(r, property.Node, nd.values, name)
}

// RandomizeEdge redraws the named property of edge from -> to.
func (n *Network) RandomizeEdge(r *rng.Source, from, to uint32, name string) error {
	e, ok := n.edges[EdgeKey{From: from, To: to}]
	if !ok {
		return unknownEdge(from, to)
	}
	return n.randomize(r, property.Edge, e.values, name)
}

// RandomizeNetwork redraws the named network property.
func (n *Network) RandomizeNetwork(r *rng.Source, name string) error {
	return n.randomize(r, property.Network, n.values, name)
}

func (n *Network) randomize(r *rng.Source, cat property.Category, values []float64, name string) error {
	if name == "" {
		for _, p := range n.pack.Properties(cat) {
			values[p.Index] = p.Random(r)
		}
		return nil
	}
	p, err := n.pack.Lookup(cat, name)
	if err != nil {
		return err
	}
	values[p.Index] = p.Random(r)
	return nil
}

// SetPack replaces the property pack and reconciles every value vector:
// values are carried over by property name, new properties take their
// defaults, and removed properties are dropped.
func (n *Network) SetPack(pack *property.Pack) {
	if pack == nil {
		pack = property.NewPack()
	}
	next := pack.Clone()
	for _, nd := range n.nodes {
		nd.values = property.Reconcile(n.pack, next, property.Node, nd.values)
	}
	for _, e := range n.edges {
		e.values = property.Reconcile(n.pack, next, property.Edge, e.values)
	}
	n.values = property.Reconcile(n.pack, next, property.Network, n.values)
	n.pack = next
}

// AddProperty appends a property to the pack and extends every affected
// vector with its default.
func (n *Network) AddProperty(cat property.Category, def ir.PropertyDoc) (property.Property, error) {
	next := n.pack.Clone()
	p, err := next.Add(cat, def)
	if err != nil {
		return property.Property{}, fmt.Errorf("add %s property: %w", cat, err)
	}
	n.SetPack(next)
	return p, nil
}
