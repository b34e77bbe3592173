package system

import (
	"fmt"

	"github.com/l1jgo/tickworld/internal/component"
	"github.com/l1jgo/tickworld/internal/core/ecs"
	"github.com/l1jgo/tickworld/internal/data"
	"go.uber.org/zap"
)

// ScriptLookup reports whether a steering function exists. Implemented by
// *scripting.Engine.
type ScriptLookup interface {
	Has(fn string) bool
}

// SpawnPrefabs creates every entity the table describes, in file order.
// Entity i of a prefab sits at Origin + i*Spacing. A steering name that
// scripts cannot resolve (or nil scripts) spawns the entity unsteered.
func SpawnPrefabs(w *ecs.World, table *data.PrefabTable, scripts ScriptLookup, log *zap.Logger) (int, error) {
	if log == nil {
		log = zap.NewNop()
	}
	spawned := 0
	for _, p := range table.All() {
		steer := p.Steering
		if steer != "" && (scripts == nil || !scripts.Has(steer)) {
			log.Warn("steering function unavailable, spawning unsteered",
				zap.String("prefab", p.Name), zap.String("fn", steer))
			steer = ""
		}
		for i := 0; i < p.Count; i++ {
			if _, err := w.CreateEntityWith(func(b *ecs.EntityBuilder) error {
				return attachPrefab(b, p, i, steer)
			}); err != nil {
				return spawned, fmt.Errorf("spawn %s #%d: %w", p.Name, i, err)
			}
			spawned++
		}
		log.Debug("prefab spawned", zap.String("prefab", p.Name), zap.Int("count", p.Count))
	}
	return spawned, nil
}

func attachPrefab(b *ecs.EntityBuilder, p *data.PrefabEntry, i int, steer string) error {
	n := float64(i)
	if err := ecs.Attach(b, &component.Position{
		X: p.Origin.X + n*p.Spacing.X,
		Y: p.Origin.Y + n*p.Spacing.Y,
	}); err != nil {
		return err
	}
	if p.Velocity != nil {
		if err := ecs.Attach(b, &component.Velocity{DX: p.Velocity.X, DY: p.Velocity.Y}); err != nil {
			return err
		}
	}
	if p.Lifetime > 0 {
		if err := ecs.Attach(b, &component.Lifetime{Remaining: p.Lifetime}); err != nil {
			return err
		}
	}
	if steer != "" {
		if err := ecs.Attach(b, &component.Steering{Script: steer}); err != nil {
			return err
		}
	}
	if p.Dormant {
		if err := ecs.Attach(b, &component.Dormant{}); err != nil {
			return err
		}
	}
	return nil
}
