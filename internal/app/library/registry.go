package library

import "sync"

type itemKey struct {
	Type ItemType
	ID   string
}

// Registry hands out a single shared Membership per (type, id), so every
// view of the same item observes the same state.
type Registry struct {
	mu    sync.Mutex
	items map[itemKey]*Membership

	api  API
	gate AuthGate
}

// NewRegistry creates a membership registry.
func NewRegistry(api API, gate AuthGate) *Registry {
	return &Registry{
		items: make(map[itemKey]*Membership),
		api:   api,
		gate:  gate,
	}
}

// Membership returns the shared tracker for the item, creating it on first use.
func (r *Registry) Membership(itemType ItemType, id string) *Membership {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := itemKey{Type: itemType, ID: id}
	if m, ok := r.items[key]; ok {
		return m
	}
	m := New(r.api, r.gate, itemType, id)
	r.items[key] = m
	return m
}
