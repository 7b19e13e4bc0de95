package property

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/roach88/neurograph/internal/ir"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Pack is an ordered property schema for nodes, edges, and the network.
//
// The zero value is not usable; create packs with NewPack or FromDoc.
type Pack struct {
	props [3][]Property
	index [3]map[string]int
}

// NewPack creates an empty pack.
func NewPack() *Pack {
	p := &Pack{}
	for _, c := range Categories {
		p.index[c] = make(map[string]int)
	}
	return p
}

// Add appends a property to a category and returns it with its index.
// The default falls back to Max when def.Default is nil.
func (p *Pack) Add(cat Category, def ir.PropertyDoc) (Property, error) {
	if err := validate.Struct(def); err != nil {
		return Property{}, &Error{
			Code:     ErrCodeInvalidProperty,
			Category: cat,
			Name:     def.Name,
			Message:  err.Error(),
		}
	}
	if !Finite(def.Min, def.Max) || (def.Default != nil && !Finite(*def.Default)) {
		return Property{}, &Error{Code: ErrCodeInvalidProperty, Category: cat, Name: def.Name, Message: "range and default must be finite"}
	}
	typ, err := ParseType(def.Type)
	if err != nil {
		return Property{}, &Error{Code: ErrCodeInvalidProperty, Category: cat, Name: def.Name, Message: err.Error()}
	}
	if _, exists := p.index[cat][def.Name]; exists {
		return Property{}, &Error{
			Code:     ErrCodeDuplicateProperty,
			Category: cat,
			Name:     def.Name,
			Message:  "already defined",
		}
	}

	if def.Default != nil && (*def.Default < def.Min || *def.Default > def.Max) {
		return Property{}, &Error{Code: ErrCodeInvalidProperty, Category: cat, Name: def.Name, Message: fmt.Sprintf("default %v outside [%v, %v]", *def.Default, def.Min, def.Max)}
	}
	if typ == Integer && math.Ceil(def.Min) > math.Floor(def.Max) {
		return Property{}, &Error{Code: ErrCodeInvalidProperty, Category: cat, Name: def.Name, Message: fmt.Sprintf("no integer in [%v, %v]", def.Min, def.Max)}
	}

	prop := Property{
		Name:    def.Name,
		Type:    typ,
		Index:   len(p.props[cat]),
		Min:     def.Min,
		Max:     def.Max,
		Default: def.Max,
	}
	if def.Default != nil {
		prop.Default = *def.Default
	}

	p.props[cat] = append(p.props[cat], prop)
	p.index[cat][def.Name] = prop.Index
	return prop, nil
}

// Has reports whether name is defined in cat.
func (p *Pack) Has(cat Category, name string) bool {
	_, ok := p.index[cat][name]
	return ok
}

// Lookup resolves a property name to its definition.
func (p *Pack) Lookup(cat Category, name string) (Property, error) {
	i, ok := p.index[cat][name]
	if !ok {
		return Property{}, unknownProperty(cat, name)
	}
	return p.props[cat][i], nil
}

// Len returns the number of properties in cat.
func (p *Pack) Len(cat Category) int {
	return len(p.props[cat])
}

// Properties returns the properties of cat in index order.
func (p *Pack) Properties(cat Category) []Property {
	return slices.Clone(p.props[cat])
}

// Defaults returns a fresh value vector for cat filled with defaults.
func (p *Pack) Defaults(cat Category) []float64 {
	out := make([]float64, len(p.props[cat]))
	for i, prop := range p.props[cat] {
		out[i] = prop.Default
	}
	return out
}

// Equal reports whether both packs define the same properties in the same
// order with the same types, ranges, and defaults.
func (p *Pack) Equal(other *Pack) bool {
	return len(p.Diff(other)) == 0
}

// Diff lists human-readable differences between p and other. An empty
// result means the packs are equal.
func (p *Pack) Diff(other *Pack) []string {
	var diffs []string
	for _, c := range Categories {
		a, b := p.props[c], other.props[c]
		if len(a) != len(b) {
			diffs = append(diffs, fmt.Sprintf("%s properties: %d vs %d", c, len(a), len(b)))
		}
		for i := range min(len(a), len(b)) {
			if a[i] != b[i] {
				diffs = append(diffs, fmt.Sprintf("%s property %d: %s vs %s", c, i, describe(a[i]), describe(b[i])))
			}
		}
		for i := len(b); i < len(a); i++ {
			diffs = append(diffs, fmt.Sprintf("%s property %d: %s vs missing", c, i, describe(a[i])))
		}
		for i := len(a); i < len(b); i++ {
			diffs = append(diffs, fmt.Sprintf("%s property %d: missing vs %s", c, i, describe(b[i])))
		}
	}
	return diffs
}

// Finite reports whether every value is neither NaN nor infinite.
func Finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func describe(p Property) string {
	return fmt.Sprintf("%s(%s [%g,%g] default %g)", p.Name, p.Type, p.Min, p.Max, p.Default)
}

// Clone returns an independent copy of p.
func (p *Pack) Clone() *Pack {
	out := NewPack()
	for _, c := range Categories {
		out.props[c] = slices.Clone(p.props[c])
		for k, v := range p.index[c] {
			out.index[c][k] = v
		}
	}
	return out
}

// Doc returns the exchange form of p.
func (p *Pack) Doc() ir.PropertyPackDoc {
	docs := func(c Category) []ir.PropertyDoc {
		out := make([]ir.PropertyDoc, len(p.props[c]))
		for i, prop := range p.props[c] {
			out[i] = prop.Doc()
		}
		return out
	}
	return ir.PropertyPackDoc{
		Nodes:    docs(Node),
		Edges:    docs(Edge),
		Networks: docs(Network),
	}
}

// FromDoc builds a pack from its exchange form. Either the whole document
// is accepted or an error describing every invalid definition is returned.
func FromDoc(doc ir.PropertyPackDoc) (*Pack, error) {
	p := NewPack()
	var problems []string
	for _, c := range Categories {
		for _, def := range docsFor(doc, c) {
			if _, err := p.Add(c, def); err != nil {
				problems = append(problems, err.Error())
			}
		}
	}
	if len(problems) > 0 {
		return nil, &Error{
			Code:    ErrCodeInvalidProperty,
			Message: strings.Join(problems, "; "),
		}
	}
	return p, nil
}

func docsFor(doc ir.PropertyPackDoc, c Category) []ir.PropertyDoc {
	switch c {
	case Node:
		return doc.Nodes
	case Edge:
		return doc.Edges
	default:
		return doc.Networks
	}
}

// Fingerprint identifies the pack by content.
func (p *Pack) Fingerprint() string {
	// Pack docs hold only finite numbers and strings.
	return ir.MustFingerprint(ir.DomainPack, p.Doc())
}

// Reconcile maps a value vector laid out for from onto the layout of to.
// Values are carried across by property name; properties new in to take
// their default; properties absent from to are dropped.
func Reconcile(from, to *Pack, cat Category, values []float64) []float64 {
	out := to.Defaults(cat)
	for _, prop := range from.props[cat] {
		if prop.Index >= len(values) {
			continue
		}
		if i, ok := to.index[cat][prop.Name]; ok {
			out[i] = values[prop.Index]
		}
	}
	return out
}
