package processor

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Factory constructs a processor from opaque parameters. A nil or empty
// params blob means "use defaults" where the back-end has them.
type Factory func(params json.RawMessage) (Processor, error)

// Registry maps back-end names to factories.
type Registry struct {
	items map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]Factory)}
}

// Register adds a factory under name. Names are case-sensitive and must
// be non-blank.
func (r *Registry) Register(name string, f Factory) error {
	if strings.TrimSpace(name) == "" || f == nil {
		return NewError(ErrCodeBadParams, "processor name and factory are required")
	}
	if _, ok := r.items[name]; ok {
		return NewError(ErrCodeDuplicateProcessor, "processor %q already registered", name)
	}
	r.items[name] = f
	return nil
}

// Make constructs the processor registered under name.
func (r *Registry) Make(name string, params json.RawMessage) (Processor, error) {
	f, ok := r.items[name]
	if !ok {
		return nil, NewError(ErrCodeUnknownProcessor, "no processor named %q (known: %s)",
			name, strings.Join(r.Names(), ", "))
	}
	p, err := f(params)
	if err != nil {
		return nil, fmt.Errorf("make %s: %w", name, err)
	}
	return p, nil
}

// Names returns registered names in ascending order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
