package dataset

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/generator"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
)

// GenerateOptions control the synthetic collection written when no file exists.
type GenerateOptions struct {
	Count int
	Seed  int64
	Now   time.Time
}

// Store loads and saves one CSV file, fronted by an optional snapshot cache.
type Store struct {
	path     string
	cacheDir string
	logger   *slog.Logger
}

// NewStore returns a store for path. An empty cacheDir disables snapshots.
func NewStore(path, cacheDir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, cacheDir: cacheDir, logger: logger}
}

func (s *Store) Path() string {
	return s.path
}

// Load reads the collection, preferring a snapshot that matches the file.
func (s *Store) Load(ctx context.Context) ([]models.Transaction, error) {
	ctx, span := observability.StartSpan(ctx, "dataset.load", attribute.String("dataset.path", s.path))
	var err error
	defer func() { observability.EndSpan(span, err) }()

	info, err := os.Stat(s.path)
	if err != nil {
		err = errors.DataLoadWrap(err, "stat dataset").WithDetail("path", s.path)
		return nil, err
	}

	if s.cacheDir != "" {
		if records, cacheErr := readSnapshot(s.cacheDir, s.path, info); cacheErr == nil {
			s.logger.Info("loaded from snapshot", "path", s.path, "records", len(records))
			span.SetAttributes(attribute.Bool("dataset.snapshot_hit", true))
			return records, nil
		}
	}

	start := time.Now()
	records, err := Load(ctx, s.path)
	if err != nil {
		return nil, err
	}

	duration := time.Since(start)
	s.logger.Info("csv load complete",
		"path", s.path,
		"records", len(records),
		"duration", duration,
		"rate", fmt.Sprintf("%.0f records/sec", float64(len(records))/duration.Seconds()))
	span.SetAttributes(attribute.Int("dataset.records", len(records)))

	if s.cacheDir != "" {
		if cacheErr := writeSnapshot(s.cacheDir, s.path, info, records); cacheErr != nil {
			s.logger.Warn("failed to save snapshot", "error", cacheErr)
		}
	}
	return records, nil
}

// Save writes records to the store's path.
func (s *Store) Save(records []models.Transaction) error {
	if err := Save(records, s.path); err != nil {
		return errors.InternalWrap(err, "save dataset").WithDetail("path", s.path)
	}
	s.logger.Info("dataset saved", "path", s.path, "records", len(records))
	return nil
}

// LoadOrGenerate loads the collection when the file exists. Otherwise it
// generates opts.Count records, saves them, and returns them. The second
// return value reports whether generation happened.
func (s *Store) LoadOrGenerate(ctx context.Context, opts GenerateOptions) ([]models.Transaction, bool, error) {
	_, err := os.Stat(s.path)
	switch {
	case err == nil:
		records, err := s.Load(ctx)
		return records, false, err
	case !stderrors.Is(err, fs.ErrNotExist):
		return nil, false, errors.DataLoadWrap(err, "stat dataset").WithDetail("path", s.path)
	}

	ctx, span := observability.StartSpan(ctx, "dataset.generate",
		attribute.Int("dataset.count", opts.Count),
		attribute.Int64("dataset.seed", opts.Seed))
	defer func() { observability.EndSpan(span, err) }()

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	s.logger.InfoContext(ctx, "dataset not found, generating", "path", s.path, "count", opts.Count, "seed", opts.Seed)
	records, err := generator.Generate(opts.Count, opts.Seed, now)
	if err != nil {
		return nil, false, err
	}
	if err = s.Save(records); err != nil {
		return nil, false, err
	}
	return records, true, nil
}
