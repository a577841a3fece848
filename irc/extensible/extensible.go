// Package extensible implements the core's typed-attachment contract
// (spec §4.7): a string-keyed map of opaque values attached to a User,
// Channel, or Membership, generalized from ergochat/ergo's per-Client
// metadata map to all three entity kinds.
package extensible

// Registry is an embeddable named-attachment map. The zero value is usable.
type Registry struct {
	items map[string]any
}

// NewRegistry returns a ready-to-use Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Create installs value under name, overwriting any existing attachment.
func (r *Registry) Create(name string, value any) {
	if r.items == nil {
		r.items = make(map[string]any)
	}
	r.items[name] = value
}

// Get returns the attachment under name and whether it was present.
func (r *Registry) Get(name string) (any, bool) {
	if r.items == nil {
		return nil, false
	}
	v, ok := r.items[name]
	return v, ok
}

// Unset removes the attachment under name, returning whether it was
// present.
func (r *Registry) Unset(name string) bool {
	if r.items == nil {
		return false
	}
	if _, ok := r.items[name]; !ok {
		return false
	}
	delete(r.items, name)
	return true
}

// Names returns the currently-attached keys, in no particular order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.items))
	for k := range r.items {
		names = append(names, k)
	}
	return names
}

// Destroy clears every attachment, used by the cull pass on entity
// destruction.
func (r *Registry) Destroy() {
	r.items = nil
}
