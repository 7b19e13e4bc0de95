package network

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NameRegistry is the two-sided index between lookup tokens and node ids.
//
// Every node's decimal id is always a key. A node may additionally carry
// one display name, which is NFC-normalized, unique, free of whitespace,
// and never all digits so it cannot shadow a decimal id key.
type NameRegistry struct {
	keys  map[string]uint32
	names map[uint32]string
}

// NamedNode pairs a display name with its node id.
type NamedNode struct {
	Name string
	ID   uint32
}

func newNameRegistry() *NameRegistry {
	return &NameRegistry{
		keys:  make(map[string]uint32),
		names: make(map[uint32]string),
	}
}

// Resolve maps a token to a node id. The token is NFC-normalized first.
func (r *NameRegistry) Resolve(token string) (uint32, bool) {
	id, ok := r.keys[norm.NFC.String(token)]
	return id, ok
}

// Name returns the display name of id, or "" when unnamed.
func (r *NameRegistry) Name(id uint32) string {
	return r.names[id]
}

// Named returns every named node ordered by id.
func (r *NameRegistry) Named() []NamedNode {
	out := make([]NamedNode, 0, len(r.names))
	for id, name := range r.names {
		out = append(out, NamedNode{Name: name, ID: id})
	}
	slices.SortFunc(out, func(a, b NamedNode) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// Len returns the number of registered display names.
func (r *NameRegistry) Len() int {
	return len(r.names)
}

func decimalKey(id uint32) string {
	return strconv.FormatUint(uint64(id), 10)
}

// normalizeName validates a display name for id and returns its
// normalized form. It does not modify the registry.
func (r *NameRegistry) normalizeName(id uint32, name string) (string, error) {
	n := norm.NFC.String(name)
	switch {
	case n == "":
		return "", newError(ErrCodeInvalidName, "name must not be empty")
	case n == "-":
		return "", newError(ErrCodeInvalidName, `"-" is reserved`)
	case strings.IndexFunc(n, unicode.IsSpace) >= 0:
		return "", newError(ErrCodeInvalidName, "name %q contains whitespace", n)
	case strings.IndexFunc(n, func(c rune) bool { return c < '0' || c > '9' }) < 0:
		return "", newError(ErrCodeInvalidName, "name %q is all digits and would shadow a node id", n)
	}
	if owner, ok := r.keys[n]; ok && owner != id {
		return "", newError(ErrCodeDuplicateName, "name %q is already bound to node %d", n, owner)
	}
	return n, nil
}

func (r *NameRegistry) attach(id uint32) {
	r.keys[decimalKey(id)] = id
}

func (r *NameRegistry) detach(id uint32) {
	delete(r.keys, decimalKey(id))
	r.unbind(id)
}

// bind sets an already-normalized display name.
func (r *NameRegistry) bind(id uint32, name string) {
	r.unbind(id)
	r.keys[name] = id
	r.names[id] = name
}

func (r *NameRegistry) unbind(id uint32) {
	if old, ok := r.names[id]; ok {
		delete(r.keys, old)
		delete(r.names, id)
	}
}

// move repoints every key of from to to. The caller guarantees to is free.
func (r *NameRegistry) move(from, to uint32) {
	name, named := r.names[from]
	r.detach(from)
	r.attach(to)
	if named {
		r.bind(to, name)
	}
}

func (r *NameRegistry) clone() *NameRegistry {
	out := newNameRegistry()
	for k, v := range r.keys {
		out.keys[k] = v
	}
	for k, v := range r.names {
		out.names[k] = v
	}
	return out
}
