package object

import "github.com/tomz197/orbit/internal/physics"

// Registry maps spawn tokens to live entities of one kind.
// It is owned by a single game instance and is not safe for concurrent use.
type Registry[T Entity] struct {
	items map[Token]T
}

// NewRegistry creates an empty registry.
func NewRegistry[T Entity]() *Registry[T] {
	return &Registry[T]{items: make(map[Token]T)}
}

// Add stores e under its token, replacing any previous entry.
func (r *Registry[T]) Add(e T) { r.items[e.Token()] = e }

// Delete forgets the entity stored under token.
func (r *Registry[T]) Delete(token Token) { delete(r.items, token) }

// Get returns the entity stored under token.
func (r *Registry[T]) Get(token Token) (T, bool) {
	e, ok := r.items[token]
	return e, ok
}

// Len returns the number of registered entities.
func (r *Registry[T]) Len() int { return len(r.items) }

// Snapshot returns a copy of the registered entities. Iterating a snapshot
// stays valid while entities are added or removed.
func (r *Registry[T]) Snapshot() []T {
	out := make([]T, 0, len(r.items))
	for _, e := range r.items {
		out = append(out, e)
	}
	return out
}

// Each calls fn for every registered entity. fn must not mutate the registry;
// use Snapshot for that.
func (r *Registry[T]) Each(fn func(T)) {
	for _, e := range r.items {
		fn(e)
	}
}

// Clear calls fn on a snapshot of every entity, then empties the registry.
// fn is typically the entity's Remove, whose drop callback deletes it again.
func (r *Registry[T]) Clear(fn func(T)) {
	for _, e := range r.Snapshot() {
		if fn != nil {
			fn(e)
		}
	}
	clear(r.items)
}

// Lookup maps physics handles back to entities for collision routing.
type Lookup struct {
	items map[physics.Handle]Entity
}

// NewLookup creates an empty lookup.
func NewLookup() *Lookup {
	return &Lookup{items: make(map[physics.Handle]Entity)}
}

// Put stores e under its physics handle.
func (l *Lookup) Put(e Entity) { l.items[e.Handle()] = e }

// Delete forgets the entity stored under h.
func (l *Lookup) Delete(h physics.Handle) { delete(l.items, h) }

// Get resolves h. Handles of removed entities are reported as unknown.
func (l *Lookup) Get(h physics.Handle) (Entity, bool) {
	e, ok := l.items[h]
	if !ok || e.Removed() {
		return nil, false
	}
	return e, true
}

// Len returns the number of tracked handles.
func (l *Lookup) Len() int { return len(l.items) }
