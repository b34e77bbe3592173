package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/l1jgo/tickworld/internal/component"
	"github.com/l1jgo/tickworld/internal/config"
	"github.com/l1jgo/tickworld/internal/core/ecs"
	"github.com/l1jgo/tickworld/internal/core/event"
	coresys "github.com/l1jgo/tickworld/internal/core/system"
	"github.com/l1jgo/tickworld/internal/data"
	"github.com/l1jgo/tickworld/internal/persist"
	"github.com/l1jgo/tickworld/internal/scripting"
	"github.com/l1jgo/tickworld/internal/system"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	cfgPath := "config/world.toml"
	if p := os.Getenv("TICKWORLD_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Sim.Name, cfg.Sim.TickRate)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Tick journal (optional)
	var ticks *persist.TickRepo
	if cfg.Journal.Enabled {
		printSection("database")
		connCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		db, err := persist.NewDB(connCtx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()

		version, err := persist.RunMigrations(connCtx, db.Pool, log)
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK(fmt.Sprintf("schema at version %d", version))
		ticks = persist.NewTickRepo(db, cfg.Sim.Name, time.Now())
	}

	// 4. Load prefabs and scripts
	printSection("data")
	prefabs, err := data.LoadPrefabTable(cfg.Data.PrefabPath)
	if err != nil {
		return fmt.Errorf("prefabs: %w", err)
	}
	printStat("prefabs", prefabs.Count())

	var (
		engine  *scripting.Engine
		scripts system.ScriptLookup
	)
	if cfg.Scripting.Enabled {
		engine, err = scripting.NewEngine(cfg.Scripting.Dir, log.Named("lua"))
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		defer engine.Close()
		scripts = engine
		printOK("lua engine ready")
	}

	// 5. Build the world. The dispatcher runs first so last tick's events are
	// handled before anything moves.
	bus := event.NewBus()
	w := ecs.NewWorld(
		ecs.WithLogger(log.Named("ecs")),
		ecs.WithObserver(event.NewBusObserver(bus)),
	)
	if err := component.Register(w); err != nil {
		return fmt.Errorf("register components: %w", err)
	}

	dispatch := event.NewDispatchSystem(bus)
	w.RegisterSystem(dispatch)

	var journal *system.JournalSystem
	if ticks != nil {
		journal = system.NewJournalSystem(bus, ticks, cfg.Journal.IntervalTicks, log.Named("journal"))
		w.RegisterSystem(journal)
	}
	lifetime, err := system.NewLifetimeSystem(w, log.Named("lifetime"))
	if err != nil {
		return fmt.Errorf("lifetime system: %w", err)
	}
	if engine != nil {
		if _, err := system.NewSteeringSystem(w, engine); err != nil {
			return fmt.Errorf("steering system: %w", err)
		}
	}
	if _, err := system.NewMovementSystem(w); err != nil {
		return fmt.Errorf("movement system: %w", err)
	}

	event.Subscribe(bus, func(ev event.EntityDestroyed) {
		log.Debug("entity destroyed", zap.Uint64("entity", uint64(ev.EntityID)), zap.Uint64("tick", ev.Tick))
	})

	// 6. Spawn
	printSection("world")
	spawned, err := system.SpawnPrefabs(w, prefabs, scripts, log)
	if err != nil {
		return fmt.Errorf("spawn: %w", err)
	}
	printStat("entities", spawned)
	printStat("component types", len(w.Registry().Types()))

	// 7. Run
	runner := coresys.NewRunner(w, cfg.Sim.TickRate, log.Named("runner"))
	runner.SetMaxTicks(cfg.Sim.MaxTicks)

	printSection("ready")
	printReady(fmt.Sprintf("tick loop started (tick: %s)", cfg.Sim.TickRate))
	fmt.Println()

	n, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	// Deliver the final tick's events and write what the journal holds.
	dispatch.Process(0)
	if journal != nil {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := journal.Flush(flushCtx); err != nil {
			log.Error("final journal flush failed", zap.Error(err))
		}
	}

	log.Info("simulation stopped",
		zap.Uint64("ticks", n),
		zap.Int("alive", w.Entities().Len()),
		zap.Int("expired", lifetime.Expired()),
	)
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
