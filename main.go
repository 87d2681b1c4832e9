package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/hszdev/i3-energy-tracker/config"
	"github.com/hszdev/i3-energy-tracker/database"
	"github.com/hszdev/i3-energy-tracker/hours"
	"github.com/hszdev/i3-energy-tracker/logging"
	"github.com/hszdev/i3-energy-tracker/nrgi"
	"github.com/hszdev/i3-energy-tracker/pricecache"
	"github.com/hszdev/i3-energy-tracker/publish"
	"github.com/hszdev/i3-energy-tracker/render"
	"github.com/hszdev/i3-energy-tracker/status"
	"github.com/hszdev/i3-energy-tracker/task"
)

var Version = "?.?.?"

const usage = `i3-energy-tracker %s

Usage: i3-energy-tracker [-config <path>] <command>

Commands:
  now              price of the current hour as i3blocks markup
  background       color of the current hour, e.g. #BD9A00
  day              every hour of today as markup, one line per hour
  table            today's prices as a colored table for the terminal
  history [days]   daily min/avg/max from the archive, default 7 days
  watch            stay running, print a new line every hour
  h                show this help
`

type app struct {
	cnfg     *config.AppConfig
	logger   *slog.Logger
	db       *database.Database
	store    *pricecache.Store
	reporter *status.Reporter
}

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), usage, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	cmd := flag.Arg(0)
	if cmd == "" || cmd == "h" || cmd == "help" {
		flag.Usage()
		return
	}

	cnfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	a, err := newApp(cnfg)
	if err != nil {
		exitWithError(slog.Default(), err, nil)
	}
	defer a.close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	switch cmd {
	case "now":
		err = a.printLine(a.reporter.Now(ctx))
	case "background":
		err = a.printLine(a.reporter.Background(ctx))
	case "day":
		err = a.printLine(a.reporter.Today(ctx))
	case "table":
		err = a.printLine(a.reporter.DayTable(ctx, hours.FromClock(hours.SystemClock{}).Date))
	case "history":
		err = a.history(ctx, flag.Arg(1))
	case "watch":
		err = a.watch(ctx, cancel)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q, run with h for help\n", cmd)
		a.close()
		os.Exit(2)
	}

	if err != nil {
		exitWithError(a.logger, err, a.close)
	}
}

func newApp(cnfg *config.AppConfig) (*app, error) {
	if err := hours.SetMarketTimezone(cnfg.EnergyPrice.Timezone); err != nil {
		return nil, fmt.Errorf("failed to set market timezone: %w", err)
	}

	// stdout is reserved for the markup i3blocks reads
	consoleHandler := logging.NewConsoleHandler(os.Stderr, cnfg.Logging.GetConsoleLevel())
	logger := slog.New(consoleHandler)
	slog.SetDefault(logger)
	logger.Debug("i3-energy-tracker is starting...", slog.String("version", Version))

	a := &app{cnfg: cnfg, logger: logger}

	if cnfg.Database.Path != "" {
		db, err := database.New(context.Background(), cnfg.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		a.db = db

		logger = slog.New(logging.NewMultiHandler(
			consoleHandler,
			logging.NewSQLiteHandler(db, cnfg.Logging.GetDbLevel(), cnfg.Logging.GetDbAttrsFormat())))
		slog.SetDefault(logger)
		a.logger = logger

		// Now we can use the logger to log database operations into the database itself
		db.SetLogger(logger.With("module", "database"))
	}

	gradient, err := cnfg.Color.Gradient()
	if err != nil {
		return nil, fmt.Errorf("invalid color config: %w", err)
	}

	fetcher := nrgi.New(cnfg.EnergyPrice.BaseURL, cnfg.EnergyPrice.Region, cnfg.EnergyPrice.Timeout)
	a.store = pricecache.New(cnfg.Cache.Dir, fetcher)
	if a.db != nil {
		a.store.SetArchiver(a.db)
	}

	a.reporter = status.NewReporter(a.store, hours.SystemClock{}, render.New(gradient, cnfg.Color.Foreground))
	return a, nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
		a.db = nil
	}
}

func (a *app) printLine(line string, err error) error {
	if err != nil {
		// i3blocks still gets something to show
		fmt.Println(a.reporter.Renderer().ErrorMarkup())
		return err
	}
	fmt.Println(line)
	return nil
}

func (a *app) history(ctx context.Context, arg string) error {
	if a.db == nil {
		return errors.New("history needs database.path to be configured")
	}

	days := 7
	if arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid number of days %q", arg)
		}
		days = n
	}

	from, err := hours.AddDays(hours.FromClock(hours.SystemClock{}).Date, 1-days)
	if err != nil {
		return err
	}
	rows, err := a.db.GetDailyStats(ctx, from)
	if err != nil {
		return err
	}

	stats := make([]render.DayStats, 0, len(rows))
	for _, r := range rows {
		stats = append(stats, render.DayStats{Date: r.Date, Hours: r.Hours, Min: r.Min, Max: r.Max, Avg: r.Avg})
	}
	fmt.Println(a.reporter.Renderer().HistoryTable(stats))
	return nil
}

func (a *app) watch(ctx context.Context, cancel context.CancelFunc) error {
	clock := hours.SystemClock{}
	out := task.NewLineWriter(os.Stdout)

	var publisher task.PricePublisher
	if a.cnfg.Mqtt.Enabled() {
		p := publish.New(
			a.cnfg.Mqtt.Host,
			a.cnfg.Mqtt.Port,
			a.cnfg.Mqtt.Username,
			a.cnfg.Mqtt.Password,
			a.cnfg.Mqtt.ClientID,
			a.cnfg.Mqtt.Topic)
		if err := p.Connect(); err != nil {
			a.logger.Warn("mqtt unavailable, not publishing prices", slog.Any("error", err))
		} else {
			defer p.Disconnect()
			publisher = p
		}
	}

	var maintainer task.Maintainer
	if a.db != nil {
		maintainer = a.db
	}

	tasks := task.NewTasks(a.cnfg, a.reporter, a.store, maintainer, publisher, out, clock)
	if err := tasks.Run(); err != nil {
		return fmt.Errorf("failed to schedule tasks: %w", err)
	}
	defer func() {
		<-tasks.Stop().Done()
	}()

	tasks.RenderTask()

	watcher, err := task.NewCacheWatcher(a.logger.With("module", "watcher"), a.cnfg.Cache.Dir, clock, tasks.RenderTask)
	if err != nil {
		return err
	}
	defer watcher.Close()
	go watcher.Run(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.logger.Info("received signal", slog.Any("signal", sig))
		cancel()
	case <-ctx.Done():
	}

	a.logger.Info("application is shutting down...")
	return nil
}

// exitWithError logs before cleanup runs, the database may be one of the
// log sinks.
func exitWithError(logger *slog.Logger, err error, cleanup func()) {
	logger.Error("application exiting with error", slog.Any("error", err))
	if cleanup != nil {
		cleanup()
	}
	os.Exit(1)
}
