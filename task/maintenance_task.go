package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/hszdev/i3-energy-tracker/hours"
)

type Maintainer interface {
	PurgeLog(ctx context.Context, maxLogEntries int) error
	PurgeEnergyPrice(ctx context.Context, before string) error
}

func NewMaintenanceTask(logger *slog.Logger, db Maintainer, maxLogEntries int, retentionDays int, clock hours.Clock) func() {
	return func() {
		logger.Debug("running maintenance task...")

		if db == nil {
			logger.Debug("no database, nothing to maintain")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()

		if err := db.PurgeLog(ctx, maxLogEntries); err != nil {
			logger.Error("log maintenance error", slog.Any("error", err))
		}

		before, err := hours.AddDays(hours.FromClock(clock).Date, -retentionDays)
		if err != nil {
			logger.Error("energy_price maintenance error", slog.Any("error", err))
		} else if err := db.PurgeEnergyPrice(ctx, before); err != nil {
			logger.Error("energy_price maintenance error", slog.Any("error", err))
		}

		logger.Info("maintenance task done")
	}
}
