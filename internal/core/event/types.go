package event

import "github.com/l1jgo/tickworld/internal/core/ecs"

// World lifecycle events published by BusObserver.

type EntityCreated struct {
	EntityID ecs.EntityID
	Tick     uint64 // completed ticks when the entity was created
}

type EntityDestroyed struct {
	EntityID ecs.EntityID
	Tick     uint64
}

type TickCompleted struct {
	Stats ecs.TickStats
}
