package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/filesession/pkg/logger"
)

// SweepResult summarizes one garbage collection pass.
type SweepResult struct {
	Scanned  int
	Removed  int
	Failed   int
	Duration time.Duration
}

// Collector removes expired and unreadable session files from a directory.
// It works on the directory directly and never goes through Store.
type Collector struct {
	dir    string
	logger *slog.Logger
	now    func() time.Time
}

// NewCollector creates a collector for dir.
func NewCollector(dir string, opts ...Option) (*Collector, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty directory", ErrInvalidConfig)
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve directory: %w", ErrInvalidConfig, err)
	}

	o := applyOptions(opts)
	return &Collector{
		dir:    absDir,
		logger: o.logger.With(logger.Component("sessionstore.gc")),
		now:    o.now,
	}, nil
}

// Sweep deletes every file in the directory that is unreadable, corrupt,
// missing its expiration or expired. Per-file failures are logged and counted,
// never returned; only a failure to list the directory or context
// cancellation produce an error.
func (c *Collector) Sweep(ctx context.Context) (SweepResult, error) {
	start := time.Now()
	var res SweepResult

	if err := ctx.Err(); err != nil {
		return res, err
	}

	log := c.logger.With(logger.SweepID(uuid.NewString()))
	log.DebugContext(ctx, "starting cleanup of expired sessions", logger.Path(c.dir))

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return res, nil
		}
		return res, fmt.Errorf("%w: read directory: %w", ErrIO, err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			res.Duration = time.Since(start)
			return res, err
		}
		if entry.IsDir() {
			continue
		}

		res.Scanned++
		path := filepath.Join(c.dir, entry.Name())
		if !c.isGarbage(ctx, log, path) {
			continue
		}

		log.DebugContext(ctx, "removing session file", logger.Path(path))
		if err := os.Remove(path); err != nil {
			res.Failed++
			log.WarnContext(ctx, "failed to remove session file",
				logger.Path(path),
				logger.Error(err),
			)
			continue
		}
		res.Removed++
	}

	res.Duration = time.Since(start)
	log.InfoContext(ctx, "session cleanup finished",
		logger.Count("scanned", res.Scanned),
		logger.Count("removed", res.Removed),
		logger.Count("failed", res.Failed),
		logger.Duration(res.Duration),
	)
	return res, nil
}

// Run sweeps every interval until ctx is done.
func (c *Collector) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := c.Sweep(ctx); err != nil && ctx.Err() == nil {
				c.logger.ErrorContext(ctx, "periodic session cleanup failed", logger.Error(err))
			}
		case <-ctx.Done():
			return
		}
	}
}

func (c *Collector) isGarbage(ctx context.Context, log *slog.Logger, path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		log.DebugContext(ctx, "failed to read session file during garbage collection",
			logger.Path(path),
			logger.Error(err),
		)
		return true
	}

	rec, err := Decode(data)
	if err != nil {
		log.DebugContext(ctx, "failed to decode session file during garbage collection",
			logger.Path(path),
			logger.Error(err),
		)
		return true
	}

	return rec.IsExpired(c.now())
}
