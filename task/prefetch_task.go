package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/hszdev/i3-energy-tracker/hours"
	"github.com/hszdev/i3-energy-tracker/status"
)

// NewPrefetchTask makes sure today is cached right away and returns a task
// that caches tomorrow once the day-ahead prices are published.
func NewPrefetchTask(logger *slog.Logger, store status.PriceStore, clock hours.Clock) func() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	prefetch(ctx, logger, store, hours.FromClock(clock).Date)

	return func() {
		logger.Debug("running prefetch task...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		tomorrow, err := hours.AddDays(hours.FromClock(clock).Date, 1)
		if err != nil {
			logger.Error("prefetch task error", slog.Any("error", err))
			return
		}
		prefetch(ctx, logger, store, tomorrow)
	}
}

func prefetch(ctx context.Context, logger *slog.Logger, store status.PriceStore, date string) {
	res, err := store.ReadOrFetch(ctx, date)
	if err != nil {
		logger.Error("prefetch task error", slog.String("date", date), slog.Any("error", err))
		return
	}
	if !res.OK() {
		logger.Warn("prices not available yet", slog.String("date", date), slog.Any("error", res.Err))
		return
	}
	logger.Info("prefetch task done", slog.String("date", date), slog.String("source", res.Source.String()))
}
