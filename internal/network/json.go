package network

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/roach88/neurograph/internal/ir"
	"github.com/roach88/neurograph/internal/property"
)

// ToDoc returns the exchange form of the network. Nodes are ordered by id
// and edges by (from, to), so equal networks produce equal documents.
func (n *Network) ToDoc() ir.NetworkDoc {
	doc := ir.NetworkDoc{
		Properties:    n.pack.Doc(),
		Nodes:         make([]ir.NodeDoc, 0, len(n.nodes)),
		Edges:         make([]ir.EdgeDoc, 0, len(n.edges)),
		Inputs:        slices.Clone(n.inputs),
		Outputs:       slices.Clone(n.outputs),
		NetworkValues: slices.Clone(n.values),
	}
	if doc.Inputs == nil {
		doc.Inputs = []int64{}
	}
	if doc.Outputs == nil {
		doc.Outputs = []int64{}
	}
	if doc.NetworkValues == nil {
		doc.NetworkValues = []float64{}
	}
	for _, nd := range n.Nodes() {
		nodeDoc := ir.NodeDoc{
			ID:     nd.ID,
			Name:   nd.Name,
			Values: nd.Values,
			Coords: nd.Coords,
		}
		if nd.IsInput() {
			nodeDoc.InputID = &nd.InputID
		}
		if nd.IsOutput() {
			nodeDoc.OutputID = &nd.OutputID
		}
		doc.Nodes = append(doc.Nodes, nodeDoc)
	}
	for _, e := range n.Edges() {
		doc.Edges = append(doc.Edges, ir.EdgeDoc{
			From:          e.From,
			To:            e.To,
			Values:        e.Values,
			ControlPoints: e.ControlPoints,
		})
	}
	if len(n.data) > 0 {
		doc.AssociatedData = make(map[string]json.RawMessage, len(n.data))
		for k, v := range n.data {
			doc.AssociatedData[k] = slices.Clone(v)
		}
	}
	return doc
}

// FromDoc builds a network from its exchange form. The document is
// validated in full; on any problem no network is returned and the error
// lists every problem found.
func FromDoc(doc ir.NetworkDoc) (*Network, error) {
	pack, err := property.FromDoc(doc.Properties)
	if err != nil {
		return nil, malformed([]string{err.Error()})
	}

	net := New(pack)
	var problems []string
	report := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	nodeLen, edgeLen, netLen := pack.Len(property.Node), pack.Len(property.Edge), pack.Len(property.Network)

	for _, nd := range doc.Nodes {
		if net.HasNode(nd.ID) {
			report("node %d: duplicate id", nd.ID)
			continue
		}
		if len(nd.Values) != nodeLen {
			report("node %d: %d values, pack defines %d", nd.ID, len(nd.Values), nodeLen)
			continue
		}
		created := net.insertNode(nd.ID)
		created.values = slices.Clone(nd.Values)
		created.coords = slices.Clone(nd.Coords)
		if nd.Name != "" {
			name, err := net.names.normalizeName(nd.ID, nd.Name)
			if err != nil {
				report("node %d: %v", nd.ID, err)
				continue
			}
			net.names.bind(nd.ID, name)
		}
	}

	for _, e := range doc.Edges {
		switch {
		case !net.HasNode(e.From) || !net.HasNode(e.To):
			report("edge %d -> %d: endpoint does not exist", e.From, e.To)
		case net.HasEdge(e.From, e.To):
			report("edge %d -> %d: duplicate", e.From, e.To)
		case len(e.Values) != edgeLen:
			report("edge %d -> %d: %d values, pack defines %d", e.From, e.To, len(e.Values), edgeLen)
		default:
			net.link(e.From, e.To, &edge{
				values:        slices.Clone(e.Values),
				controlPoints: slices.Clone(e.ControlPoints),
			})
		}
	}

	attach := func(kind string, list []int64, set func(*node, int) bool) []int64 {
		out := make([]int64, len(list))
		for i, id := range list {
			out[i] = -1
			if id == -1 {
				continue
			}
			if id < 0 || id > int64(^uint32(0)) {
				report("%s %d: invalid node id %d", kind, i, id)
				continue
			}
			nd, ok := net.nodes[uint32(id)]
			if !ok {
				report("%s %d: node %d does not exist", kind, i, id)
				continue
			}
			if !set(nd, i) {
				report("%s %d: node %d is listed more than once", kind, i, id)
				continue
			}
			out[i] = id
		}
		return out
	}
	net.inputs = attach("input", doc.Inputs, func(nd *node, i int) bool {
		if nd.inputID >= 0 {
			return false
		}
		nd.inputID = i
		return true
	})
	net.outputs = attach("output", doc.Outputs, func(nd *node, i int) bool {
		if nd.outputID >= 0 {
			return false
		}
		nd.outputID = i
		return true
	})

	for _, nd := range doc.Nodes {
		created, ok := net.nodes[nd.ID]
		if !ok {
			continue
		}
		if nd.InputID != nil && *nd.InputID != created.inputID {
			report("node %d: input_id %d disagrees with inputs list", nd.ID, *nd.InputID)
		}
		if nd.OutputID != nil && *nd.OutputID != created.outputID {
			report("node %d: output_id %d disagrees with outputs list", nd.ID, *nd.OutputID)
		}
	}

	switch len(doc.NetworkValues) {
	case netLen:
		net.values = slices.Clone(doc.NetworkValues)
	case 0:
		// Absent network values take the pack defaults.
	default:
		report("network_values: %d values, pack defines %d", len(doc.NetworkValues), netLen)
	}

	for k, v := range doc.AssociatedData {
		if err := net.SetData(k, v); err != nil {
			report("%v", err)
		}
	}

	if len(problems) > 0 {
		slices.Sort(problems)
		return nil, malformed(problems)
	}
	net.version = 1
	return net, nil
}

func malformed(problems []string) *Error {
	return newError(ErrCodeMalformed, "invalid network document: %s", strings.Join(problems, "; "))
}

// Read decodes a network document from r. Unknown members are rejected.
func Read(r io.Reader) (*Network, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var doc ir.NetworkDoc
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, newError(ErrCodeMalformed, "empty network document")
		}
		return nil, newError(ErrCodeMalformed, "decode network: %v", err)
	}
	return FromDoc(doc)
}

// Write encodes the network document to w. Indented output is meant for
// people; compact output is one line.
func (n *Network) Write(w io.Writer, indent bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(n.ToDoc()); err != nil {
		return fmt.Errorf("encode network: %w", err)
	}
	return nil
}

// Fingerprint identifies the network by content.
func (n *Network) Fingerprint() (string, error) {
	return ir.NetworkFingerprint(n.ToDoc())
}

// Equal reports whether both networks have the same content. The version
// counter is not content.
func (n *Network) Equal(other *Network) bool {
	a, errA := n.Fingerprint()
	b, errB := other.Fingerprint()
	return errA == nil && errB == nil && a == b
}
