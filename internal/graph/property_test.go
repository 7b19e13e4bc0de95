package graph

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/roach88/neurograph/internal/network"
	"github.com/roach88/neurograph/internal/rng"
)

// randomNetwork builds a network of up to 16 nodes from seed. When acyclic
// is set, edges only run from lower to higher position in a shuffled id
// assignment, so the graph is a DAG whose ids do not follow its topology.
func randomNetwork(seed uint64, acyclic bool) *network.Network {
	r := rng.New(seed)
	size := 1 + r.IntN(16)

	ids := make([]uint32, size)
	for i := range ids {
		ids[i] = uint32(i * 3)
	}
	for i := len(ids) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		ids[i], ids[j] = ids[j], ids[i]
	}

	net := network.New(nil)
	for _, id := range ids {
		_ = net.AddNode(id)
	}
	for i := range size {
		for j := range size {
			if acyclic && i >= j {
				continue
			}
			if r.Float64() < 0.2 {
				_ = net.AddEdge(ids[i], ids[j])
			}
		}
	}
	for _, id := range ids {
		switch r.IntN(5) {
		case 0:
			_, _ = net.AddInput(id)
		case 1:
			_, _ = net.AddOutput(id)
		}
	}
	return net
}

func graphParameters() *gopter.TestParameters {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	return parameters
}

func TestPruneProperties(t *testing.T) {
	properties := gopter.NewProperties(graphParameters())

	properties.Property("prune is idempotent", prop.ForAll(
		func(seed uint64) bool {
			net := randomNetwork(seed, false)
			Prune(net)
			once, err := net.Fingerprint()
			if err != nil {
				return false
			}
			second := Prune(net)
			twice, err := net.Fingerprint()
			return err == nil && once == twice && len(second.RemovedNodes) == 0
		},
		gen.UInt64(),
	))

	properties.Property("every surviving node lies on an input to output path", prop.ForAll(
		func(seed uint64) bool {
			net := randomNetwork(seed, false)
			Prune(net)
			forward := Reachable(net, attached(net.Inputs()), Forward)
			backward := Reachable(net, attached(net.Outputs()), Backward)
			for _, id := range net.NodeIDs() {
				if !forward[id] || !backward[id] {
					return false
				}
			}
			for _, k := range net.EdgeKeys() {
				if !net.HasNode(k.From) || !net.HasNode(k.To) {
					return false
				}
			}
			return true
		},
		gen.UInt64(),
	))

	properties.TestingRun(t)
}

func TestSortProperties(t *testing.T) {
	properties := gopter.NewProperties(graphParameters())

	properties.Property("sort is stable and covers every node", prop.ForAll(
		func(seed uint64) bool {
			net := randomNetwork(seed, false)
			a, b := Sort(net), Sort(net)
			if a.Fingerprint() != b.Fingerprint() || a.Len() != net.NumNodes() {
				return false
			}
			for _, id := range net.NodeIDs() {
				if _, ok := a.Index(id); !ok {
					return false
				}
			}
			return true
		},
		gen.UInt64(),
	))

	properties.Property("on acyclic graphs every edge points forward", prop.ForAll(
		func(seed uint64) bool {
			net := randomNetwork(seed, true)
			order := Sort(net)
			for _, k := range net.EdgeKeys() {
				i, _ := order.Index(k.From)
				j, _ := order.Index(k.To)
				if i >= j {
					return false
				}
			}
			return true
		},
		gen.UInt64(),
	))

	properties.Property("edges between different cycles point forward", prop.ForAll(
		func(seed uint64) bool {
			net := randomNetwork(seed, false)
			order := Sort(net)
			comp := make(map[uint32]int)
			for c, members := range components(net) {
				for _, id := range members {
					comp[id] = c
				}
			}
			for _, k := range net.EdgeKeys() {
				if comp[k.From] == comp[k.To] {
					continue
				}
				i, _ := order.Index(k.From)
				j, _ := order.Index(k.To)
				if i >= j {
					return false
				}
			}
			return true
		},
		gen.UInt64(),
	))

	properties.TestingRun(t)
}
