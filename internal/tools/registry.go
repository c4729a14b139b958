package tools

import "github.com/cockroachdb/errors"

// Registry is the static tool catalog. Register before Freeze from a single
// goroutine; after Freeze it is read-only and safe for concurrent readers.
type Registry struct {
	tools  map[string]*Tool
	order  []string
	frozen bool
}

func NewEmptyRegistry() *Registry {
	return &Registry{tools: make(map[string]*Tool)}
}

func (r *Registry) Register(t *Tool) error {
	if r.frozen {
		return errors.Wrapf(ErrRegistryFrozen, "register %q", t.spec.Name)
	}
	if _, ok := r.tools[t.spec.Name]; ok {
		return errors.Wrapf(ErrDuplicateTool, "register %q", t.spec.Name)
	}
	r.tools[t.spec.Name] = t
	r.order = append(r.order, t.spec.Name)
	return nil
}

func (r *Registry) Freeze() { r.frozen = true }

// List returns every spec in registration order
func (r *Registry) List() []Spec {
	specs := make([]Spec, 0, len(r.order))
	for _, name := range r.order {
		specs = append(specs, r.tools[name].spec)
	}
	return specs
}

func (r *Registry) Lookup(name string) (*Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

func (r *Registry) Len() int { return len(r.order) }
