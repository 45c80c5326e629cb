package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/hypemarket/coinauction/coinauction/logger"
)

// Scheduler drives the expiry sweep on a fixed interval. Settlement itself is
// idempotent and individually transactional, so any external scheduler (cron,
// queue consumer) may invoke SettleExpired concurrently with this one.
type Scheduler struct {
	engine   *Engine
	ticker   *time.Ticker
	shutdown chan struct{}
}

func NewScheduler(engine *Engine, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Scheduler{
		engine:   engine,
		ticker:   time.NewTicker(interval),
		shutdown: make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	go s.run()
}

func (s *Scheduler) run() {
	defer s.ticker.Stop()

	for {
		select {
		case <-s.ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

			start := time.Now()
			settled, err := s.engine.SweepExpired(ctx)
			if settled > 0 || err != nil {
				logger.LogSweep(settled, time.Since(start), err)
			}

			cancel()
		case <-s.shutdown:
			return
		}
	}
}

func (s *Scheduler) Shutdown() {
	close(s.shutdown)
	slog.Info("Auction scheduler shutdown completed")
}
