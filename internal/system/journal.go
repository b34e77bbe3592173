package system

import (
	"context"
	"time"

	"github.com/l1jgo/tickworld/internal/core/ecs"
	"github.com/l1jgo/tickworld/internal/core/event"
	"go.uber.org/zap"
)

const journalWriteTimeout = 5 * time.Second

// TickWriter is implemented by *persist.TickRepo.
type TickWriter interface {
	WriteTicks(ctx context.Context, stats []ecs.TickStats) error
}

// JournalSystem collects TickCompleted events from the bus and writes them in
// batches of interval ticks. Register it after the bus DispatchSystem.
//
// A failed write keeps the batch and retries on the next interval.
type JournalSystem struct {
	writer    TickWriter
	log       *zap.Logger
	interval  int
	buf       []ecs.TickStats
	written   uint64
	tickCount int
}

func NewJournalSystem(bus *event.Bus, writer TickWriter, interval int, log *zap.Logger) *JournalSystem {
	if interval < 1 {
		interval = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &JournalSystem{writer: writer, log: log, interval: interval}
	event.Subscribe(bus, func(ev event.TickCompleted) {
		s.buf = append(s.buf, ev.Stats)
	})
	return s
}

func (s *JournalSystem) Process(_ time.Duration) {
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0

	ctx, cancel := context.WithTimeout(context.Background(), journalWriteTimeout)
	defer cancel()
	if err := s.Flush(ctx); err != nil {
		s.log.Error("tick journal write failed", zap.Int("buffered", len(s.buf)), zap.Error(err))
	}
}

// Flush writes everything buffered. Called on the interval and once more on
// shutdown.
func (s *JournalSystem) Flush(ctx context.Context) error {
	if len(s.buf) == 0 {
		return nil
	}
	if err := s.writer.WriteTicks(ctx, s.buf); err != nil {
		return err
	}
	s.written += uint64(len(s.buf))
	s.log.Debug("tick journal written",
		zap.Int("rows", len(s.buf)),
		zap.Uint64("last_tick", s.buf[len(s.buf)-1].Tick))
	s.buf = nil
	return nil
}

// Buffered is the number of ticks waiting to be written.
func (s *JournalSystem) Buffered() int { return len(s.buf) }

// Written is the number of ticks written so far.
func (s *JournalSystem) Written() uint64 { return s.written }
