package component

import "github.com/l1jgo/tickworld/internal/core/ecs"

// Register creates a mapper for every component in this package. Flush order
// follows registration order: Position, Velocity, Lifetime, Steering, Dormant.
func Register(w *ecs.World) error {
	for _, reg := range []func(*ecs.World) error{
		ecs.RegisterComponentType[Position],
		ecs.RegisterComponentType[Velocity],
		ecs.RegisterComponentType[Lifetime],
		ecs.RegisterComponentType[Steering],
		ecs.RegisterComponentType[Dormant],
	} {
		if err := reg(w); err != nil {
			return err
		}
	}
	return nil
}
