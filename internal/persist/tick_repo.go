package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/l1jgo/tickworld/internal/core/ecs"
)

// TickRepo writes per-tick statistics for one simulation run.
type TickRepo struct {
	db      *DB
	run     string
	started time.Time
}

func NewTickRepo(db *DB, run string, started time.Time) *TickRepo {
	return &TickRepo{db: db, run: run, started: started.UTC().Truncate(time.Microsecond)}
}

// WriteTicks inserts a batch of tick rows in a single transaction. Rows
// already written for the same run and tick are left untouched.
func (r *TickRepo) WriteTicks(ctx context.Context, stats []ecs.TickStats) error {
	if len(stats) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("tick journal begin: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, s := range stats {
		batch.Queue(
			`INSERT INTO tick_journal
			   (run_name, run_started, tick, dt_us, duration_us, systems, added, removed, dropped, entities)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			 ON CONFLICT (run_name, run_started, tick) DO NOTHING`,
			r.run, r.started, int64(s.Tick), s.DT.Microseconds(), s.Duration.Microseconds(),
			s.Systems, s.Added, s.Removed, s.Dropped, s.Entities,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("tick journal insert: %w", err)
	}
	return tx.Commit(ctx)
}

// LastTick returns the highest tick journaled for this run, or 0.
func (r *TickRepo) LastTick(ctx context.Context) (uint64, error) {
	var last int64
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(tick), 0) FROM tick_journal WHERE run_name = $1 AND run_started = $2`,
		r.run, r.started,
	).Scan(&last)
	if err != nil {
		return 0, fmt.Errorf("tick journal last tick: %w", err)
	}
	return uint64(last), nil
}
