package system

import (
	"time"

	"github.com/l1jgo/tickworld/internal/component"
	"github.com/l1jgo/tickworld/internal/core/ecs"
	coresys "github.com/l1jgo/tickworld/internal/core/system"
	"go.uber.org/zap"
)

// LifetimeSystem counts down Lifetime and destroys the entity when it runs
// out. Destruction is immediate; the rest of this tick's systems no longer
// see the entity.
type LifetimeSystem struct {
	*coresys.IteratingSystem
	world   *ecs.World
	life    *ecs.ComponentMapper[component.Lifetime]
	log     *zap.Logger
	expired int
}

func NewLifetimeSystem(w *ecs.World, log *zap.Logger) (*LifetimeSystem, error) {
	life, err := ecs.MapperFor[component.Lifetime](w)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &LifetimeSystem{world: w, life: life, log: log}
	s.IteratingSystem, err = coresys.NewIteratingSystem(w, s.age, ecs.Require(life.Type()))
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Expired is the number of entities destroyed so far.
func (s *LifetimeSystem) Expired() int { return s.expired }

func (s *LifetimeSystem) age(dt time.Duration, id ecs.EntityID) {
	l, ok := s.life.TryGet(id)
	if !ok {
		return
	}
	l.Remaining -= dt
	if l.Remaining > 0 {
		return
	}
	s.world.DestroyEntity(id)
	s.expired++
	s.log.Debug("entity expired", zap.Uint64("entity", uint64(id)))
}
