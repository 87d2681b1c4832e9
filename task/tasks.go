package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hszdev/i3-energy-tracker/config"
	"github.com/hszdev/i3-energy-tracker/hours"
	"github.com/hszdev/i3-energy-tracker/status"
	"github.com/robfig/cron/v3"
)

type Tasks struct {
	cron            *cron.Cron
	cnfg            config.AppConfigWatch
	RenderTask      func()
	PrefetchTask    func()
	MaintenanceTask func()
}

func NewTasks(
	cnfg *config.AppConfig,
	reporter *status.Reporter,
	store status.PriceStore,
	db Maintainer,
	publisher PricePublisher,
	out *LineWriter,
	clock hours.Clock,
) *Tasks {
	logger := slog.Default().With("module", "tasks")
	return &Tasks{
		cron:            cron.New(cron.WithLocation(hours.MarketLocation())),
		cnfg:            cnfg.Watch,
		RenderTask:      NewRenderTask(logger.With(slog.String("task", "render")), reporter, out, publisher, clock),
		PrefetchTask:    NewPrefetchTask(logger.With(slog.String("task", "prefetch")), store, clock),
		MaintenanceTask: NewMaintenanceTask(logger.With(slog.String("task", "maintenance")), db, cnfg.Logging.GetDbMaxEntries(), cnfg.Database.GetDataRetentionDays(), clock),
	}
}

func (t *Tasks) Run() error {
	jobs := []struct {
		name string
		spec string
		fn   func()
	}{
		{name: "render", spec: t.cnfg.RenderAt, fn: t.RenderTask},
		{name: "prefetch", spec: t.cnfg.PrefetchAt, fn: t.PrefetchTask},
		{name: "maintenance", spec: t.cnfg.MaintenanceAt, fn: t.MaintenanceTask},
	}
	for _, job := range jobs {
		if _, err := t.cron.AddFunc(job.spec, job.fn); err != nil {
			return fmt.Errorf("schedule %s task %q: %w", job.name, job.spec, err)
		}
	}
	t.cron.Start()
	return nil
}

func (t *Tasks) Stop() context.Context {
	return t.cron.Stop()
}
