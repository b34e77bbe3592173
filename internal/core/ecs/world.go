package ecs

import (
	"slices"
	"time"

	"go.uber.org/zap"
)

// System is one unit of per-tick logic.
type System interface {
	Process(dt time.Duration)
}

// Observer receives World lifecycle notifications. TickCompleted fires after
// the end-of-tick flush, when queries already reflect the new state.
type Observer interface {
	EntityCreated(id EntityID)
	EntityDestroyed(id EntityID)
	TickCompleted(stats TickStats)
}

// TickStats summarizes one Tick. Added and Removed count components that
// were actually attached or detached by the flush; Dropped counts queued
// requests whose entity was destroyed before the flush.
type TickStats struct {
	Tick     uint64
	DT       time.Duration
	Duration time.Duration
	Systems  int
	Added    int
	Removed  int
	Dropped  int
	Entities int
}

// World is the top-level ECS container. It owns the entity counter, the live
// entity set, the component registry, the registered queries and systems.
//
// A World is single-threaded. Component changes requested while a tick is
// processing are buffered by their mappers and applied when the tick ends;
// entity creation and destruction always take effect immediately.
type World struct {
	log        *zap.Logger
	counter    entityCounter
	entities   *EntitySet
	registry   *Registry
	queries    []*Query
	systems    []System
	observers  []Observer
	processing bool
	tick       uint64
}

type Option func(*World)

func WithLogger(log *zap.Logger) Option {
	return func(w *World) {
		if log != nil {
			w.log = log
		}
	}
}

func WithObserver(o Observer) Option {
	return func(w *World) {
		if o != nil {
			w.observers = append(w.observers, o)
		}
	}
}

func NewWorld(opts ...Option) *World {
	w := &World{
		log:      zap.NewNop(),
		entities: NewEntitySet(),
		registry: NewRegistry(),
		queries:  make([]*Query, 0, 16),
		systems:  make([]System, 0, 16),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *World) Registry() *Registry { return w.registry }

// Processing reports whether a tick is running its systems.
func (w *World) Processing() bool { return w.processing }

// CurrentTick is the number of completed ticks.
func (w *World) CurrentTick() uint64 { return w.tick }

// Entities returns the live entity set. It is not a snapshot.
func (w *World) Entities() EntityView { return w.entities }

func (w *World) Alive(id EntityID) bool { return w.entities.Has(id) }

// CreateEntity allocates a new entity with no components. Calling it from a
// system is allowed: the entity is immediately visible to queries, though
// iterations already in progress do not visit it.
func (w *World) CreateEntity() EntityID {
	id := w.counter.next()
	w.admit(id)
	return id
}

// CreateEntityWith allocates an entity and lets build attach its initial
// components before the entity is offered to any query, so queries see the
// full initial composition at once. Attachments are direct even mid-tick.
//
// If build returns an error the attached components are discarded and the
// entity never becomes alive; its ID is not reused.
func (w *World) CreateEntityWith(build func(b *EntityBuilder) error) (EntityID, error) {
	id := w.counter.next()
	b := &EntityBuilder{entity: id, world: w}
	if err := build(b); err != nil {
		b.discard()
		return 0, err
	}
	w.admit(id)
	return id, nil
}

func (w *World) admit(id EntityID) {
	w.entities.Add(id)
	for _, q := range w.queries {
		q.offer(id, false)
	}
	for _, o := range w.observers {
		o.EntityCreated(id)
	}
}

// DestroyEntity removes id from every mapper, without component-removed
// notifications, and from every query and the live set. Destroying an
// entity that is not alive does nothing.
func (w *World) DestroyEntity(id EntityID) {
	if !w.entities.Has(id) {
		return
	}
	w.registry.RemoveAll(id)
	for _, q := range w.queries {
		q.forget(id)
	}
	w.entities.Remove(id)
	for _, o := range w.observers {
		o.EntityDestroyed(id)
	}
}

// RegisterSystem appends s; systems run in registration order every tick.
func (w *World) RegisterSystem(s System) {
	w.systems = append(w.systems, s)
}

// RegisterQuery adds q and seeds it from every live entity. It reports
// whether q was newly added. A query re-registered after Close starts over
// from the current state.
func (w *World) RegisterQuery(q *Query) bool {
	if slices.Contains(w.queries, q) {
		return false
	}
	w.queries = append(w.queries, q)
	q.entities = NewEntitySet()
	w.entities.Each(func(id EntityID) {
		q.offer(id, false)
	})
	return true
}

// UnregisterQuery removes q from future notifications and reports whether it
// was registered.
func (w *World) UnregisterQuery(q *Query) bool {
	i := slices.Index(w.queries, q)
	if i < 0 {
		return false
	}
	w.queries = slices.Delete(w.queries, i, i+1)
	return true
}

// Tick runs every system with dt, then applies all component changes the
// systems requested. Mappers are flushed in component registration order;
// within a mapper requests are applied in the order they were made.
func (w *World) Tick(dt time.Duration) TickStats {
	start := time.Now()

	w.processing = true
	for _, s := range w.systems {
		s.Process(dt)
	}
	w.processing = false

	stats := TickStats{DT: dt, Systems: len(w.systems)}
	for _, s := range w.registry.stores {
		r := s.flush()
		stats.Added += r.added
		stats.Removed += r.removed
		stats.Dropped += r.dropped
	}
	w.tick++

	stats.Tick = w.tick
	stats.Entities = w.entities.Len()
	stats.Duration = time.Since(start)

	if stats.Dropped > 0 {
		w.log.Warn("dropped component changes for destroyed entities",
			zap.Uint64("tick", stats.Tick), zap.Int("dropped", stats.Dropped))
	}
	if ce := w.log.Check(zap.DebugLevel, "tick flushed"); ce != nil {
		ce.Write(
			zap.Uint64("tick", stats.Tick),
			zap.Int("added", stats.Added),
			zap.Int("removed", stats.Removed),
			zap.Int("entities", stats.Entities),
			zap.Duration("took", stats.Duration),
		)
	}
	for _, o := range w.observers {
		o.TickCompleted(stats)
	}
	return stats
}

// componentAdded and componentRemoved re-evaluate id on every query. Only
// live entities take part in query membership.
func (w *World) componentAdded(id EntityID) {
	w.reoffer(id)
}

func (w *World) componentRemoved(id EntityID) {
	w.reoffer(id)
}

func (w *World) reoffer(id EntityID) {
	if !w.entities.Has(id) {
		return
	}
	for _, q := range w.queries {
		q.offer(id, true)
	}
}

func (w *World) resolve(types []ComponentType) ([]componentStore, error) {
	out := make([]componentStore, 0, len(types))
	for _, t := range types {
		s, err := w.registry.lookup(t)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// RegisterComponentType creates the mapper for T. Registering the same type
// twice fails with ErrDuplicateRegistration and leaves the first mapper in
// place.
func RegisterComponentType[T any](w *World) error {
	m := newComponentMapper[T](w)
	if err := w.registry.Register(m); err != nil {
		return err
	}
	w.log.Debug("component registered", zap.Stringer("component", m.typ))
	return nil
}

// MapperFor returns the mapper for T, or ErrNotRegistered.
func MapperFor[T any](w *World) (*ComponentMapper[T], error) {
	s, err := w.registry.lookup(TypeOf[T]())
	if err != nil {
		return nil, err
	}
	return s.(*ComponentMapper[T]), nil
}

// MustMapperFor is MapperFor for setup code; it panics on error.
func MustMapperFor[T any](w *World) *ComponentMapper[T] {
	m, err := MapperFor[T](w)
	if err != nil {
		panic(err)
	}
	return m
}

// AddComponent attaches c to id through T's mapper.
func AddComponent[T any](w *World, id EntityID, c *T) error {
	m, err := MapperFor[T](w)
	if err != nil {
		return err
	}
	m.AddComponent(id, c)
	return nil
}

// RemoveComponent detaches T from id through T's mapper.
func RemoveComponent[T any](w *World, id EntityID) error {
	m, err := MapperFor[T](w)
	if err != nil {
		return err
	}
	m.RemoveComponent(id)
	return nil
}

func HasComponent[T any](w *World, id EntityID) (bool, error) {
	m, err := MapperFor[T](w)
	if err != nil {
		return false, err
	}
	return m.Has(id), nil
}

func GetComponent[T any](w *World, id EntityID) (*T, error) {
	m, err := MapperFor[T](w)
	if err != nil {
		return nil, err
	}
	return m.Get(id)
}
