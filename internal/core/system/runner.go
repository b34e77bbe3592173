package system

import (
	"context"
	"fmt"
	"time"

	"github.com/l1jgo/tickworld/internal/core/ecs"
	"go.uber.org/zap"
)

// Runner drives a World at a fixed rate. Every tick receives the configured
// interval as dt, regardless of wall-clock jitter.
type Runner struct {
	world    *ecs.World
	interval time.Duration
	maxTicks uint64
	log      *zap.Logger
}

func NewRunner(w *ecs.World, interval time.Duration, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{world: w, interval: interval, log: log}
}

// SetMaxTicks stops Run after n ticks. Zero means run until cancelled.
func (r *Runner) SetMaxTicks(n uint64) {
	r.maxTicks = n
}

// Step runs exactly one tick.
func (r *Runner) Step() ecs.TickStats {
	stats := r.world.Tick(r.interval)
	if stats.Duration > r.interval {
		r.log.Warn("tick overran interval",
			zap.Uint64("tick", stats.Tick),
			zap.Duration("took", stats.Duration),
			zap.Duration("interval", r.interval))
	}
	return stats
}

// Run ticks until ctx is done or the tick limit is reached. It returns the
// number of ticks run.
func (r *Runner) Run(ctx context.Context) (uint64, error) {
	if r.interval <= 0 {
		return 0, fmt.Errorf("tick interval must be positive, got %s", r.interval)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	var n uint64
	for {
		select {
		case <-ctx.Done():
			r.log.Info("runner stopped", zap.Uint64("ticks", n))
			return n, nil
		case <-ticker.C:
			r.Step()
			n++
			if r.maxTicks > 0 && n >= r.maxTicks {
				r.log.Info("tick limit reached", zap.Uint64("ticks", n))
				return n, nil
			}
		}
	}
}
