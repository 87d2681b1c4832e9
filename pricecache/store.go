package pricecache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hszdev/i3-energy-tracker/types"
)

type Status int

const (
	StatusOK Status = iota
	StatusUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

type Source int

const (
	SourceNone Source = iota
	SourceCache
	SourceFetched
	SourceRefetched
)

func (s Source) String() string {
	switch s {
	case SourceCache:
		return "cache"
	case SourceFetched:
		return "fetched"
	case SourceRefetched:
		return "refetched"
	default:
		return "none"
	}
}

// Result of a cache read. When Status is StatusUnavailable, Err holds the
// fetch failure and Prices is empty.
type Result struct {
	Status Status
	Source Source
	Prices types.DailyPriceSet
	Err    error
}

func (r Result) OK() bool {
	return r.Status == StatusOK
}

// Archiver receives every price set that was fetched from the API.
type Archiver interface {
	ArchivePrices(ctx context.Context, set types.DailyPriceSet) error
}

// Store keeps one JSON file per date and is the only owner of those files.
type Store struct {
	logger   *slog.Logger
	dir      string
	fetcher  types.EnergyPriceFetcher
	archiver Archiver
}

func New(dir string, fetcher types.EnergyPriceFetcher) *Store {
	return &Store{
		logger:  slog.Default().With("module", "pricecache"),
		dir:     dir,
		fetcher: fetcher,
	}
}

func (s *Store) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

func (s *Store) SetArchiver(archiver Archiver) {
	s.archiver = archiver
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) Path(date string) string {
	return filepath.Join(s.dir, FileName(date))
}

func FileName(date string) string {
	return fmt.Sprintf("prices-%s.json", date)
}

type readState int

const (
	readHit readState = iota
	readMiss
	readCorrupt
)

func (s *Store) ReadOrFetch(ctx context.Context, date string) (Result, error) {
	set, state, err := s.read(date)
	if err != nil {
		return Result{}, err
	}

	switch state {
	case readHit:
		return Result{Status: StatusOK, Source: SourceCache, Prices: set}, nil

	case readMiss:
		s.logger.Debug("no cached prices, fetching", slog.String("date", date))
		fetched, res, err := s.fetchAndStore(ctx, date)
		if err != nil || !res.OK() {
			return res, err
		}
		return Result{Status: StatusOK, Source: SourceFetched, Prices: fetched}, nil

	default:
		s.logger.Warn("cached prices are corrupt, fetching again", slog.String("date", date), slog.String("path", s.Path(date)))
		if _, res, err := s.fetchAndStore(ctx, date); err != nil || !res.OK() {
			return res, err
		}

		set, state, err = s.read(date)
		if err != nil {
			return Result{}, err
		}
		if state != readHit {
			return Result{}, fmt.Errorf("prices for %s still unreadable after fetching again: %w", date, types.ErrCorruptCache)
		}
		return Result{Status: StatusOK, Source: SourceRefetched, Prices: set}, nil
	}
}

// Refresh fetches date from the API regardless of what is cached.
func (s *Store) Refresh(ctx context.Context, date string) (Result, error) {
	set, res, err := s.fetchAndStore(ctx, date)
	if err != nil || !res.OK() {
		return res, err
	}
	return Result{Status: StatusOK, Source: SourceFetched, Prices: set}, nil
}

func (s *Store) Cached(date string) bool {
	_, err := os.Stat(s.Path(date))
	return err == nil
}

func (s *Store) read(date string) (types.DailyPriceSet, readState, error) {
	raw, err := os.ReadFile(s.Path(date))
	if errors.Is(err, fs.ErrNotExist) {
		return types.DailyPriceSet{}, readMiss, nil
	}
	if err != nil {
		return types.DailyPriceSet{}, readMiss, fmt.Errorf("read cached prices for %s: %w", date, err)
	}

	set, err := types.ParseDailyPriceSet(date, raw)
	if err != nil {
		s.logger.Debug("failed to parse cached prices", slog.String("date", date), slog.Any("error", err))
		return types.DailyPriceSet{}, readCorrupt, nil
	}
	return set, readHit, nil
}

// fetchAndStore returns an unavailable result instead of an error when the
// API has no data, errors are reserved for local failures.
func (s *Store) fetchAndStore(ctx context.Context, date string) (types.DailyPriceSet, Result, error) {
	set, err := s.fetcher.Fetch(ctx, date)
	if errors.Is(err, types.ErrNoDataAvailable) {
		s.logger.Warn("energy prices unavailable", slog.String("date", date), slog.Any("error", err))
		return types.DailyPriceSet{}, Result{Status: StatusUnavailable, Err: err}, nil
	}
	if err != nil {
		return types.DailyPriceSet{}, Result{}, fmt.Errorf("fetch prices for %s: %w", date, err)
	}

	if err := s.write(date, set.Raw); err != nil {
		return types.DailyPriceSet{}, Result{}, err
	}
	s.logger.Info("energy prices cached", slog.String("date", date), slog.Int("hours", len(set.Prices)))

	if s.archiver != nil {
		if err := s.archiver.ArchivePrices(ctx, set); err != nil {
			s.logger.Error("failed to archive energy prices", slog.String("date", date), slog.Any("error", err))
		}
	}

	return set, Result{Status: StatusOK}, nil
}

// write replaces the file for date atomically so readers never see a
// partially written document.
func (s *Store) write(date string, raw []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, FileName(date)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write prices for %s: %w", date, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path(date)); err != nil {
		return fmt.Errorf("replace cached prices for %s: %w", date, err)
	}
	return nil
}
