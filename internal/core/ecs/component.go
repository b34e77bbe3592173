package ecs

import (
	"reflect"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ComponentType identifies a registered component type. Obtain one with
// TypeOf; two tokens for the same Go type compare equal.
type ComponentType struct {
	rt reflect.Type
}

// TypeOf returns the token for component type T.
func TypeOf[T any]() ComponentType {
	return ComponentType{rt: reflect.TypeOf((*T)(nil)).Elem()}
}

func (c ComponentType) String() string {
	if c.rt == nil {
		return "<nil>"
	}
	return c.rt.String()
}

// componentStore is the type-erased face of a ComponentMapper that the World
// and queries work against.
type componentStore interface {
	Type() ComponentType
	Has(id EntityID) bool
	destroy(id EntityID, notify bool)
	flush() flushResult
	pending() int
}

type flushResult struct {
	added   int
	removed int
	dropped int
}

// pendingOp is one queued request; a nil component means removal.
type pendingOp[T any] struct {
	id EntityID
	c  *T
}

// ComponentMapper owns every instance of component T in one World.
//
// While the World is processing a tick, AddComponent and RemoveComponent are
// queued and applied when the tick ends. Outside a tick they apply at once.
// Reads always see committed storage only.
type ComponentMapper[T any] struct {
	world *World
	typ   ComponentType
	data  map[EntityID]*T
	queue []pendingOp[T]
}

func newComponentMapper[T any](w *World) *ComponentMapper[T] {
	return &ComponentMapper[T]{
		world: w,
		typ:   TypeOf[T](),
		data:  make(map[EntityID]*T, 256),
		queue: make([]pendingOp[T], 0, 16),
	}
}

func (m *ComponentMapper[T]) Type() ComponentType { return m.typ }

// Get returns the component attached to id, or ErrMissingComponent.
func (m *ComponentMapper[T]) Get(id EntityID) (*T, error) {
	c, ok := m.data[id]
	if !ok {
		return nil, eris.Wrapf(ErrMissingComponent, "entity %d has no %s", id, m.typ)
	}
	return c, nil
}

func (m *ComponentMapper[T]) TryGet(id EntityID) (*T, bool) {
	c, ok := m.data[id]
	return c, ok
}

// Has ignores queued requests.
func (m *ComponentMapper[T]) Has(id EntityID) bool {
	_, ok := m.data[id]
	return ok
}

func (m *ComponentMapper[T]) Len() int {
	return len(m.data)
}

// Each visits committed components in no particular order. fn must not add
// or remove T outside of a tick.
func (m *ComponentMapper[T]) Each(fn func(EntityID, *T)) {
	for id, c := range m.data {
		fn(id, c)
	}
}

// AddComponent attaches c to id, replacing any existing T. Requests for
// entities that are not alive are ignored, as is a nil c.
func (m *ComponentMapper[T]) AddComponent(id EntityID, c *T) {
	if c == nil {
		return
	}
	if m.world.processing {
		m.queue = append(m.queue, pendingOp[T]{id: id, c: c})
		return
	}
	if !m.world.Alive(id) {
		m.world.log.Debug("add to dead entity ignored",
			zap.Uint64("entity", uint64(id)), zap.Stringer("component", m.typ))
		return
	}
	m.add(id, c)
}

// RemoveComponent detaches T from id.
func (m *ComponentMapper[T]) RemoveComponent(id EntityID) {
	if m.world.processing {
		m.queue = append(m.queue, pendingOp[T]{id: id})
		return
	}
	m.remove(id)
}

// add stores c and notifies the World only when id gained T; overwriting an
// existing component leaves query membership untouched.
func (m *ComponentMapper[T]) add(id EntityID, c *T) bool {
	_, existed := m.data[id]
	m.data[id] = c
	if existed {
		return false
	}
	m.world.componentAdded(id)
	return true
}

func (m *ComponentMapper[T]) remove(id EntityID) bool {
	if _, ok := m.data[id]; !ok {
		return false
	}
	delete(m.data, id)
	m.world.componentRemoved(id)
	return true
}

// attach stores c without notifying anyone. Used by EntityBuilder before the
// entity is offered to queries.
func (m *ComponentMapper[T]) attach(id EntityID, c *T) {
	m.data[id] = c
}

func (m *ComponentMapper[T]) destroy(id EntityID, notify bool) {
	if _, ok := m.data[id]; !ok {
		return
	}
	delete(m.data, id)
	if notify {
		m.world.componentRemoved(id)
	}
}

// flush replays queued requests in the order they were made, so the
// committed state after a tick equals what immediate application would have
// produced. Requests for entities destroyed in the meantime are dropped.
func (m *ComponentMapper[T]) flush() flushResult {
	var r flushResult
	for _, op := range m.queue {
		switch {
		case !m.world.Alive(op.id):
			r.dropped++
		case op.c == nil:
			if m.remove(op.id) {
				r.removed++
			}
		default:
			if m.add(op.id, op.c) {
				r.added++
			}
		}
	}
	clear(m.queue)
	m.queue = m.queue[:0]
	return r
}

func (m *ComponentMapper[T]) pending() int {
	return len(m.queue)
}
