package crane

import (
	"fmt"

	"craneguard/internal/config"
)

// Registry keeps cranes in registration order.
type Registry struct {
	order  []string
	cranes map[string]*Crane
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{cranes: make(map[string]*Crane)}
}

// Add creates and registers a crane from cfg.
func (r *Registry) Add(cfg config.Crane) (*Crane, error) {
	if _, ok := r.cranes[cfg.ID]; ok {
		return nil, fmt.Errorf("%w: %s", ErrExists, cfg.ID)
	}
	c, err := New(cfg)
	if err != nil {
		return nil, err
	}
	r.cranes[c.ID] = c
	r.order = append(r.order, c.ID)
	return c, nil
}

// Remove unregisters id and reports whether it was present.
func (r *Registry) Remove(id string) bool {
	if _, ok := r.cranes[id]; !ok {
		return false
	}
	delete(r.cranes, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Get looks up a crane by id.
func (r *Registry) Get(id string) (*Crane, bool) {
	c, ok := r.cranes[id]
	return c, ok
}

// All returns every crane in registration order.
func (r *Registry) All() []*Crane {
	out := make([]*Crane, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.cranes[id])
	}
	return out
}

// Active returns the active cranes in registration order.
func (r *Registry) Active() []*Crane {
	out := make([]*Crane, 0, len(r.order))
	for _, id := range r.order {
		if c := r.cranes[id]; c.Active() {
			out = append(out, c)
		}
	}
	return out
}

// Len returns the number of registered cranes.
func (r *Registry) Len() int { return len(r.order) }

// Names maps every crane id to its display name.
func (r *Registry) Names() map[string]string {
	names := make(map[string]string, len(r.cranes))
	for id, c := range r.cranes {
		names[id] = c.Name
	}
	return names
}

// Replace swaps the whole crane set for the cranes described by cfgs.
// The registry is left unchanged if any record is rejected.
func (r *Registry) Replace(cfgs []config.Crane) error {
	next := NewRegistry()
	for _, cfg := range cfgs {
		if _, err := next.Add(cfg); err != nil {
			return err
		}
	}
	r.order, r.cranes = next.order, next.cranes
	return nil
}
