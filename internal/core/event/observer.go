package event

import (
	"time"

	"github.com/l1jgo/tickworld/internal/core/ecs"
)

// BusObserver forwards World lifecycle notifications onto a Bus. Attach it
// with ecs.WithObserver.
type BusObserver struct {
	bus  *Bus
	tick uint64
}

func NewBusObserver(bus *Bus) *BusObserver {
	return &BusObserver{bus: bus}
}

func (o *BusObserver) EntityCreated(id ecs.EntityID) {
	Emit(o.bus, EntityCreated{EntityID: id, Tick: o.tick})
}

func (o *BusObserver) EntityDestroyed(id ecs.EntityID) {
	Emit(o.bus, EntityDestroyed{EntityID: id, Tick: o.tick})
}

func (o *BusObserver) TickCompleted(stats ecs.TickStats) {
	o.tick = stats.Tick
	Emit(o.bus, TickCompleted{Stats: stats})
}

// DispatchSystem delivers the previous tick's events. Register it before any
// other system so handlers run at the start of the tick; component changes
// they request are deferred like any other system's.
type DispatchSystem struct {
	bus *Bus
}

func NewDispatchSystem(bus *Bus) *DispatchSystem {
	return &DispatchSystem{bus: bus}
}

func (s *DispatchSystem) Process(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
