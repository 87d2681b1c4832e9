package task

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/hszdev/i3-energy-tracker/hours"
	"github.com/hszdev/i3-energy-tracker/pricecache"
)

// CacheWatcher calls onChange whenever today's price file is written,
// typically by another invocation of the tool.
type CacheWatcher struct {
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
	clock    hours.Clock
	onChange func()
}

func NewCacheWatcher(logger *slog.Logger, dir string, clock hours.Clock, onChange func()) (*CacheWatcher, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create cache watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch cache directory: %w", err)
	}

	return &CacheWatcher{
		logger:   logger,
		watcher:  watcher,
		clock:    clock,
		onChange: onChange,
	}, nil
}

func (w *CacheWatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			today := pricecache.FileName(hours.FromClock(w.clock).Date)
			if filepath.Base(event.Name) != today {
				continue
			}
			w.logger.Debug("cached prices changed", slog.String("file", event.Name))
			w.onChange()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("error watching cache directory", slog.Any("error", err))
		}
	}
}

func (w *CacheWatcher) Close() error {
	return w.watcher.Close()
}
