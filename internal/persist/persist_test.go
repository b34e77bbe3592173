package persist

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/l1jgo/tickworld/internal/config"
	"github.com/l1jgo/tickworld/internal/core/ecs"
	"go.uber.org/zap/zaptest"
	"gotest.tools/v3/assert"
)

func TestPoolConfig(t *testing.T) {
	cfg, err := poolConfig(config.DatabaseConfig{
		DSN:             "postgres://u:p@db.local:5433/sim?sslmode=disable",
		MaxOpenConns:    6,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
	})
	assert.NilError(t, err)
	assert.Equal(t, cfg.ConnConfig.Host, "db.local")
	assert.Equal(t, cfg.ConnConfig.Port, uint16(5433))
	assert.Equal(t, cfg.ConnConfig.Database, "sim")
	assert.Equal(t, cfg.MaxConns, int32(6))
	assert.Equal(t, cfg.MinConns, int32(2))
	assert.Equal(t, cfg.MaxConnLifetime, time.Minute)
}

func TestPoolConfigIdleAboveMax(t *testing.T) {
	cfg, err := poolConfig(config.DatabaseConfig{
		DSN:          "postgres://u:p@localhost/sim",
		MaxOpenConns: 2,
		MaxIdleConns: 9,
	})
	assert.NilError(t, err)
	assert.Equal(t, cfg.MaxConns, int32(2))
	assert.Equal(t, cfg.MinConns, int32(0))
}

func TestPoolConfigBadDSN(t *testing.T) {
	_, err := poolConfig(config.DatabaseConfig{DSN: "postgres://u:p@localhost:notaport/sim"})
	assert.ErrorContains(t, err, "parse dsn")
}

func TestMigrationsEmbedded(t *testing.T) {
	raw, err := migrations.ReadFile("migrations/00001_tick_journal.sql")
	assert.NilError(t, err)
	assert.Assert(t, len(raw) > 0)
}

// TestTickRepoRoundTrip needs a live Postgres; point TICKWORLD_TEST_DSN at a
// disposable database to run it.
func TestTickRepoRoundTrip(t *testing.T) {
	dsn := os.Getenv("TICKWORLD_TEST_DSN")
	if dsn == "" {
		t.Skip("TICKWORLD_TEST_DSN not set")
	}
	ctx := context.Background()
	log := zaptest.NewLogger(t)

	db, err := NewDB(ctx, config.DatabaseConfig{DSN: dsn, MaxOpenConns: 2}, log)
	assert.NilError(t, err)
	defer db.Close()

	version, err := RunMigrations(ctx, db.Pool, log)
	assert.NilError(t, err)
	assert.Assert(t, version >= 1)

	repo := NewTickRepo(db, t.Name(), time.Now())
	last, err := repo.LastTick(ctx)
	assert.NilError(t, err)
	assert.Equal(t, last, uint64(0))

	batch := []ecs.TickStats{
		{Tick: 1, DT: time.Millisecond, Entities: 3},
		{Tick: 2, DT: time.Millisecond, Entities: 2, Removed: 1},
	}
	assert.NilError(t, repo.WriteTicks(ctx, batch))
	// Replaying the same ticks is a no-op.
	assert.NilError(t, repo.WriteTicks(ctx, batch))

	last, err = repo.LastTick(ctx)
	assert.NilError(t, err)
	assert.Equal(t, last, uint64(2))
}
