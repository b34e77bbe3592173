package system

import (
	"testing"
	"time"

	"github.com/l1jgo/tickworld/internal/core/ecs"
	"gotest.tools/v3/assert"
)

type tag struct{ value int }

type muted struct{}

const frame = 16600 * time.Microsecond

func TestEntitySystemSeesLiveSet(t *testing.T) {
	w := ecs.NewWorld()
	executions := 0
	NewEntitySystem(w, func(dt time.Duration, entities ecs.EntityView) {
		executions++
		assert.Equal(t, dt, frame)
		assert.DeepEqual(t, entities.Slice(), []ecs.EntityID{1, 2, 3})
	})
	w.CreateEntity()
	w.CreateEntity()
	w.CreateEntity()

	w.Tick(frame)
	assert.Equal(t, executions, 1)
}

func TestIteratingSystemVisitsEveryEntity(t *testing.T) {
	w := ecs.NewWorld()
	var visited []ecs.EntityID
	_, err := NewIteratingSystem(w, func(_ time.Duration, id ecs.EntityID) {
		visited = append(visited, id)
	})
	assert.NilError(t, err)
	for i := 0; i < 3; i++ {
		w.CreateEntity()
	}

	w.Tick(frame)
	assert.DeepEqual(t, visited, []ecs.EntityID{1, 2, 3})
}

func TestIteratingSystemCanRemoveWhileIterating(t *testing.T) {
	w := ecs.NewWorld()
	assert.NilError(t, ecs.RegisterComponentType[tag](w))
	tags := ecs.MustMapperFor[tag](w)

	var processed []ecs.EntityID
	_, err := NewIteratingSystem(w, func(_ time.Duration, id ecs.EntityID) {
		if id%2 == 0 {
			tags.RemoveComponent(id)
		}
		processed = append(processed, id)
	}, ecs.Require(ecs.TypeOf[tag]()))
	assert.NilError(t, err)

	for i := 0; i < 5; i++ {
		_, err := w.CreateEntityWith(func(b *ecs.EntityBuilder) error {
			return ecs.Attach(b, &tag{})
		})
		assert.NilError(t, err)
	}

	w.Tick(frame)
	w.Tick(frame)
	tags.AddComponent(2, &tag{value: 3})
	w.Tick(frame)

	assert.DeepEqual(t, processed, []ecs.EntityID{
		1, 2, 3, 4, 5,
		1, 3, 5,
		1, 2, 3, 5,
	})
}

func TestIteratingSystemHonoursExclusion(t *testing.T) {
	w := ecs.NewWorld()
	assert.NilError(t, ecs.RegisterComponentType[tag](w))
	assert.NilError(t, ecs.RegisterComponentType[muted](w))

	var processed []ecs.EntityID
	s, err := NewIteratingSystem(w, func(_ time.Duration, id ecs.EntityID) {
		processed = append(processed, id)
		ecs.MustMapperFor[muted](w).AddComponent(id, &muted{})
	}, ecs.Require(ecs.TypeOf[tag]()), ecs.Exclude(ecs.TypeOf[muted]()))
	assert.NilError(t, err)

	e := w.CreateEntity()
	assert.NilError(t, ecs.AddComponent(w, e, &tag{}))

	w.Tick(frame)
	w.Tick(frame)
	assert.DeepEqual(t, processed, []ecs.EntityID{e})
	assert.Equal(t, s.Query().Len(), 0)
}

func TestIteratingSystemClose(t *testing.T) {
	w := ecs.NewWorld()
	calls := 0
	s, err := NewIteratingSystem(w, func(time.Duration, ecs.EntityID) { calls++ })
	assert.NilError(t, err)
	w.CreateEntity()

	w.Tick(frame)
	assert.NilError(t, s.Close())
	w.CreateEntity()
	w.Tick(frame)

	assert.Equal(t, calls, 1)
	assert.Equal(t, s.Query().Len(), 1)
}

func TestNewIteratingSystemUnregisteredType(t *testing.T) {
	w := ecs.NewWorld()
	_, err := NewIteratingSystem(w, func(time.Duration, ecs.EntityID) {},
		ecs.Require(ecs.TypeOf[tag]()))
	assert.ErrorIs(t, err, ecs.ErrNotRegistered)

	// Nothing was registered, so ticking is a no-op.
	stats := w.Tick(frame)
	assert.Equal(t, stats.Systems, 0)
}
