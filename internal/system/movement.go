package system

import (
	"time"

	"github.com/l1jgo/tickworld/internal/component"
	"github.com/l1jgo/tickworld/internal/core/ecs"
	coresys "github.com/l1jgo/tickworld/internal/core/system"
)

// MovementSystem integrates Velocity into Position for every entity that is
// not Dormant.
type MovementSystem struct {
	*coresys.IteratingSystem
	pos *ecs.ComponentMapper[component.Position]
	vel *ecs.ComponentMapper[component.Velocity]
}

func NewMovementSystem(w *ecs.World) (*MovementSystem, error) {
	pos, err := ecs.MapperFor[component.Position](w)
	if err != nil {
		return nil, err
	}
	vel, err := ecs.MapperFor[component.Velocity](w)
	if err != nil {
		return nil, err
	}
	s := &MovementSystem{pos: pos, vel: vel}
	s.IteratingSystem, err = coresys.NewIteratingSystem(w, s.move,
		ecs.Require(pos.Type(), vel.Type()),
		ecs.Exclude(ecs.TypeOf[component.Dormant]()),
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MovementSystem) move(dt time.Duration, id ecs.EntityID) {
	p, ok := s.pos.TryGet(id)
	if !ok {
		return
	}
	v, ok := s.vel.TryGet(id)
	if !ok {
		return
	}
	secs := dt.Seconds()
	p.X += v.DX * secs
	p.Y += v.DY * secs
}
