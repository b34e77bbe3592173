package ecs

import "github.com/rotisserie/eris"

// Registry tracks every component store of a World, keyed by type token.
// Stores are kept in registration order, which is also the flush order.
type Registry struct {
	byType map[ComponentType]componentStore
	stores []componentStore
}

func NewRegistry() *Registry {
	return &Registry{
		byType: make(map[ComponentType]componentStore, 16),
		stores: make([]componentStore, 0, 16),
	}
}

// Register adds a component store. A second store for the same type is
// rejected with ErrDuplicateRegistration.
func (r *Registry) Register(store componentStore) error {
	t := store.Type()
	if _, ok := r.byType[t]; ok {
		return eris.Wrapf(ErrDuplicateRegistration, "component %s", t)
	}
	r.byType[t] = store
	r.stores = append(r.stores, store)
	return nil
}

func (r *Registry) lookup(t ComponentType) (componentStore, error) {
	s, ok := r.byType[t]
	if !ok {
		return nil, eris.Wrapf(ErrNotRegistered, "component %s", t)
	}
	return s, nil
}

// Types returns the registered component types in registration order.
func (r *Registry) Types() []ComponentType {
	out := make([]ComponentType, len(r.stores))
	for i, s := range r.stores {
		out[i] = s.Type()
	}
	return out
}

// RemoveAll clears the given entity from every registered component store
// without raising change notifications.
func (r *Registry) RemoveAll(id EntityID) {
	for _, s := range r.stores {
		s.destroy(id, false)
	}
}

func (r *Registry) pending() int {
	n := 0
	for _, s := range r.stores {
		n += s.pending()
	}
	return n
}
