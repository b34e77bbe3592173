package system

import (
	"time"

	"github.com/l1jgo/tickworld/internal/core/ecs"
)

// EntityFunc processes the whole live entity set once per tick.
type EntityFunc func(dt time.Duration, entities ecs.EntityView)

// EntitySystem runs an EntityFunc over World.Entities every tick.
type EntitySystem struct {
	world *ecs.World
	fn    EntityFunc
}

// NewEntitySystem creates the system and registers it with w.
func NewEntitySystem(w *ecs.World, fn EntityFunc) *EntitySystem {
	s := &EntitySystem{world: w, fn: fn}
	w.RegisterSystem(s)
	return s
}

func (s *EntitySystem) Process(dt time.Duration) {
	s.fn(dt, s.world.Entities())
}

// EachFunc processes one matching entity.
type EachFunc func(dt time.Duration, id ecs.EntityID)

// IteratingSystem calls an EachFunc for every entity of its query, in
// ascending ID order. Component changes made by the func are deferred until
// the tick ends, so the walked set is stable for the whole tick.
//
// Close the system when discarding it to release its query.
type IteratingSystem struct {
	query  *ecs.Query
	fn     EachFunc
	closed bool
}

// NewIteratingSystem builds the query from opts and registers the system
// with w. With no options every live entity is visited.
func NewIteratingSystem(w *ecs.World, fn EachFunc, opts ...ecs.QueryOption) (*IteratingSystem, error) {
	q, err := ecs.NewQuery(w, opts...)
	if err != nil {
		return nil, err
	}
	s := &IteratingSystem{query: q, fn: fn}
	w.RegisterSystem(s)
	return s, nil
}

func (s *IteratingSystem) Query() *ecs.Query { return s.query }

func (s *IteratingSystem) Process(dt time.Duration) {
	if s.closed {
		return
	}
	s.query.Entities().Each(func(id ecs.EntityID) {
		s.fn(dt, id)
	})
}

// Close releases the query. The system stays registered with the World but
// does nothing from then on.
func (s *IteratingSystem) Close() error {
	s.closed = true
	return s.query.Close()
}
