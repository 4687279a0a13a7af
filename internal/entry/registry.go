package entry

import "fmt"

// Registry is the set of all known entry identifiers, preserving
// insertion order so that every pass over it is deterministic.
//
// It is an explicit value threaded into the resolver rather than ambient
// state, so multiple bibliographies can coexist in one process.
type Registry struct {
	order []string
	byID  map[string]*Entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Entry)}
}

// Add registers an entry under its identifier.
// Duplicate and malformed identifiers are rejected.
func (r *Registry) Add(e *Entry) error {
	if !ValidID(e.ID) {
		return fmt.Errorf("invalid identifier %q (want lowercase letters, digits, hyphens)", e.ID)
	}
	if _, ok := r.byID[e.ID]; ok {
		return fmt.Errorf("duplicate identifier %q", e.ID)
	}
	r.order = append(r.order, e.ID)
	r.byID[e.ID] = e
	return nil
}

// Lookup returns the entry for an identifier, if registered.
func (r *Registry) Lookup(id string) (*Entry, bool) {
	e, ok := r.byID[id]
	return e, ok
}

// Has reports whether an identifier is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// Entries returns all entries in insertion order.
func (r *Registry) Entries() []*Entry {
	entries := make([]*Entry, len(r.order))
	for i, id := range r.order {
		entries[i] = r.byID[id]
	}
	return entries
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	return len(r.order)
}
