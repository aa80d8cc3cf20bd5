// Package worker holds the engine's background loops: the expiry sweeper
// and the notification dispatcher. Both are ticker-driven and stop when
// their context is cancelled; the fx lifecycle in cmd/bootstrap drives them.
package worker

import (
	"context"
	"log/slog"
	"time"

	"bookhold/internal/pkg/config"
	"bookhold/internal/usecase/commands"
)

// Sweeper periodically expires pending holds whose deadline has passed.
type Sweeper struct {
	sweeper  commands.HoldSweeper
	interval time.Duration
	batch    int
	logger   *slog.Logger
}

func NewSweeper(cfg config.HoldConfig, sweeper commands.HoldSweeper, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		sweeper:  sweeper,
		interval: cfg.SweepInterval,
		batch:    cfg.SweepBatch,
		logger:   logger,
	}
}

func (w *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("sweeper started", "interval", w.interval, "batch", w.batch)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("sweeper stopped")
			return
		case <-ticker.C:
			w.sweepOnce(ctx)
		}
	}
}

func (w *Sweeper) sweepOnce(ctx context.Context) {
	result, err := w.sweeper.SweepExpired(ctx, w.batch)
	if err != nil {
		w.logger.Error("sweep run failed", "error", err)
		return
	}
	if result.Scanned > 0 {
		w.logger.Info("sweep run completed",
			"scanned", result.Scanned,
			"expired", result.Expired,
			"lost", result.Lost,
			"failed", result.Failed,
		)
	}
}
