// Package status answers the two questions the status bar asks: what does
// power cost right now, and what does it cost throughout a day.
package status

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hszdev/i3-energy-tracker/hours"
	"github.com/hszdev/i3-energy-tracker/pricecache"
	"github.com/hszdev/i3-energy-tracker/render"
	"github.com/hszdev/i3-energy-tracker/types"
)

type PriceStore interface {
	ReadOrFetch(ctx context.Context, date string) (pricecache.Result, error)
}

type Reporter struct {
	logger   *slog.Logger
	store    PriceStore
	clock    hours.Clock
	renderer render.Renderer
}

func NewReporter(store PriceStore, clock hours.Clock, renderer render.Renderer) *Reporter {
	return &Reporter{
		logger:   slog.Default().With("module", "status"),
		store:    store,
		clock:    clock,
		renderer: renderer,
	}
}

func (r *Reporter) SetLogger(logger *slog.Logger) {
	r.logger = logger
}

func (r *Reporter) Renderer() render.Renderer {
	return r.renderer
}

// Price resolves the price for a single hour. ok is false when the data is
// unavailable or the hour is not part of the day's listing.
func (r *Reporter) Price(ctx context.Context, dh hours.DateHour) (types.HourlyPrice, bool, error) {
	res, err := r.store.ReadOrFetch(ctx, dh.Date)
	if err != nil {
		return types.HourlyPrice{}, false, err
	}
	if !res.OK() {
		return types.HourlyPrice{}, false, nil
	}

	p, err := res.Prices.PriceAt(int(dh.Hour))
	if errors.Is(err, types.ErrHourOutOfRange) {
		r.logger.Warn("no price for hour", slog.String("hour", dh.String()), slog.Any("error", err))
		return types.HourlyPrice{}, false, nil
	}
	if err != nil {
		return types.HourlyPrice{}, false, err
	}
	return p, true, nil
}

func (r *Reporter) CurrentPrice(ctx context.Context) (types.HourlyPrice, bool, error) {
	return r.Price(ctx, hours.FromClock(r.clock))
}

func (r *Reporter) HourMarkup(ctx context.Context, dh hours.DateHour) (string, error) {
	p, ok, err := r.Price(ctx, dh)
	if err != nil {
		return "", err
	}
	if !ok {
		return r.renderer.ErrorMarkup(), nil
	}
	return r.renderer.HourMarkup(p.Hour, p.PriceInclVat), nil
}

func (r *Reporter) Now(ctx context.Context) (string, error) {
	return r.HourMarkup(ctx, hours.FromClock(r.clock))
}

// Background is the gradient color of the current hour, for blocks that
// only want to paint themselves.
func (r *Reporter) Background(ctx context.Context) (string, error) {
	p, ok, err := r.CurrentPrice(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return render.ErrorBackground, nil
	}
	return r.renderer.Gradient().ColorFor(p.PriceInclVat), nil
}

func (r *Reporter) DayPrices(ctx context.Context, date string) ([]types.HourlyPrice, bool, error) {
	res, err := r.store.ReadOrFetch(ctx, date)
	if err != nil {
		return nil, false, err
	}
	if !res.OK() {
		return nil, false, nil
	}
	return res.Prices.Prices, true, nil
}

func (r *Reporter) DayMarkup(ctx context.Context, date string) (string, error) {
	prices, ok, err := r.DayPrices(ctx, date)
	if err != nil {
		return "", err
	}
	if !ok {
		return date + "\n" + r.renderer.ErrorMarkup(), nil
	}
	return r.renderer.DayMarkup(date, prices), nil
}

func (r *Reporter) Today(ctx context.Context) (string, error) {
	return r.DayMarkup(ctx, hours.FromClock(r.clock).Date)
}

func (r *Reporter) DayTable(ctx context.Context, date string) (string, error) {
	prices, ok, err := r.DayPrices(ctx, date)
	if err != nil {
		return "", err
	}
	if !ok {
		return r.renderer.DayTable(date, nil), nil
	}
	return r.renderer.DayTable(date, prices), nil
}
