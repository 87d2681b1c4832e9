package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/hszdev/i3-energy-tracker/hours"
	"github.com/hszdev/i3-energy-tracker/publish"
	"github.com/hszdev/i3-energy-tracker/status"
)

type PricePublisher interface {
	Publish(ctx context.Context, payload publish.PricePayload) error
}

// NewRenderTask prints the current hour's markup and, when a publisher is
// given, pushes the same price to it.
func NewRenderTask(logger *slog.Logger, reporter *status.Reporter, out *LineWriter, publisher PricePublisher, clock hours.Clock) func() {
	return func() {
		logger.Debug("running render task...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		markup, err := reporter.Now(ctx)
		if err != nil {
			logger.Error("render task error", slog.Any("error", err))
			markup = reporter.Renderer().ErrorMarkup()
		}
		if err := out.WriteLine(markup); err != nil {
			logger.Error("render task error, writing status line", slog.Any("error", err))
		}

		if publisher == nil {
			return
		}

		p, ok, err := reporter.CurrentPrice(ctx)
		if err != nil || !ok {
			logger.Warn("no current price to publish", slog.Any("error", err))
			return
		}
		dh := hours.FromClock(clock)
		payload := publish.NewPricePayload(dh.Date, p.Hour, p.PriceInclVat, reporter.Renderer().Gradient().ColorFor(p.PriceInclVat))
		if err := publisher.Publish(ctx, payload); err != nil {
			logger.Error("render task error, publishing price", slog.Any("error", err))
		}
	}
}
