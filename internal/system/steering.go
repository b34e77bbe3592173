package system

import (
	"time"

	"github.com/l1jgo/tickworld/internal/component"
	"github.com/l1jgo/tickworld/internal/core/ecs"
	coresys "github.com/l1jgo/tickworld/internal/core/system"
	"github.com/l1jgo/tickworld/internal/scripting"
)

// Steerer is implemented by *scripting.Engine.
type Steerer interface {
	Steer(name string, ctx scripting.SteerContext) scripting.SteerResult
}

// SteeringSystem asks a Lua function for each steered entity's next
// velocity. A script that answers sleep marks the entity Dormant; that
// takes effect when the tick flushes, so the entity still moves this tick.
type SteeringSystem struct {
	*coresys.IteratingSystem
	world   *ecs.World
	steerer Steerer
	pos     *ecs.ComponentMapper[component.Position]
	vel     *ecs.ComponentMapper[component.Velocity]
	steer   *ecs.ComponentMapper[component.Steering]
	dormant *ecs.ComponentMapper[component.Dormant]
}

func NewSteeringSystem(w *ecs.World, steerer Steerer) (*SteeringSystem, error) {
	s := &SteeringSystem{world: w, steerer: steerer}
	var err error
	if s.pos, err = ecs.MapperFor[component.Position](w); err != nil {
		return nil, err
	}
	if s.vel, err = ecs.MapperFor[component.Velocity](w); err != nil {
		return nil, err
	}
	if s.steer, err = ecs.MapperFor[component.Steering](w); err != nil {
		return nil, err
	}
	if s.dormant, err = ecs.MapperFor[component.Dormant](w); err != nil {
		return nil, err
	}
	s.IteratingSystem, err = coresys.NewIteratingSystem(w, s.apply,
		ecs.Require(s.steer.Type(), s.pos.Type(), s.vel.Type()),
		ecs.Exclude(s.dormant.Type()),
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SteeringSystem) apply(dt time.Duration, id ecs.EntityID) {
	st, _ := s.steer.TryGet(id)
	p, _ := s.pos.TryGet(id)
	v, _ := s.vel.TryGet(id)
	if st == nil || p == nil || v == nil {
		return
	}

	res := s.steerer.Steer(st.Script, scripting.SteerContext{
		Entity: uint64(id),
		Tick:   s.world.CurrentTick() + 1,
		Ticks:  st.Ticks,
		X:      p.X,
		Y:      p.Y,
		VX:     v.DX,
		VY:     v.DY,
		DT:     dt,
	})
	st.Ticks++
	v.DX, v.DY = res.VX, res.VY
	if res.Sleep {
		s.dormant.AddComponent(id, &component.Dormant{})
	}
}
