package event

import (
	"testing"
	"time"

	"github.com/l1jgo/tickworld/internal/core/ecs"
	"gotest.tools/v3/assert"
)

type ping struct{ n int }

type pong struct{ n int }

func TestBusDeliversAfterSwap(t *testing.T) {
	b := NewBus()
	var got []int
	Subscribe(b, func(p ping) { got = append(got, p.n) })

	Emit(b, ping{n: 1})
	Emit(b, ping{n: 2})
	b.DispatchAll()
	assert.Equal(t, len(got), 0, "delivered before swap")
	assert.Equal(t, b.Pending(), 2)

	b.SwapBuffers()
	b.DispatchAll()
	assert.DeepEqual(t, got, []int{1, 2})
	assert.Equal(t, b.Pending(), 0)

	// The front buffer is dropped on the next swap.
	b.SwapBuffers()
	b.DispatchAll()
	assert.DeepEqual(t, got, []int{1, 2})
}

func TestBusDispatchOrderFollowsFirstEmit(t *testing.T) {
	b := NewBus()
	var log []string
	Subscribe(b, func(pong) { log = append(log, "pong") })
	Subscribe(b, func(ping) { log = append(log, "ping") })

	Emit(b, pong{})
	Emit(b, ping{})
	Emit(b, pong{})
	b.SwapBuffers()
	b.DispatchAll()

	assert.DeepEqual(t, log, []string{"pong", "pong", "ping"})
}

type flag struct{}

func TestBusObserverWithWorld(t *testing.T) {
	bus := NewBus()
	w := ecs.NewWorld(ecs.WithObserver(NewBusObserver(bus)))
	assert.NilError(t, ecs.RegisterComponentType[flag](w))
	w.RegisterSystem(NewDispatchSystem(bus))

	var created, destroyed []ecs.EntityID
	var completed []uint64
	Subscribe(bus, func(ev EntityCreated) {
		created = append(created, ev.EntityID)
		// Handlers run inside the tick, so this change is deferred.
		ecs.MustMapperFor[flag](w).AddComponent(ev.EntityID, &flag{})
		assert.Check(t, !ecs.MustMapperFor[flag](w).Has(ev.EntityID))
	})
	Subscribe(bus, func(ev EntityDestroyed) { destroyed = append(destroyed, ev.EntityID) })
	Subscribe(bus, func(ev TickCompleted) { completed = append(completed, ev.Stats.Tick) })

	a := w.CreateEntity()
	b := w.CreateEntity()
	w.DestroyEntity(b)

	w.Tick(time.Millisecond)
	assert.DeepEqual(t, created, []ecs.EntityID{a, b})
	assert.DeepEqual(t, destroyed, []ecs.EntityID{b})
	assert.Equal(t, len(completed), 0)
	ok, err := ecs.HasComponent[flag](w, a)
	assert.NilError(t, err)
	assert.Check(t, ok)

	w.Tick(time.Millisecond)
	assert.DeepEqual(t, completed, []uint64{1})
}
