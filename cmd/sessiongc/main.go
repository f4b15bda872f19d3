// Command sessiongc removes expired and unreadable session files once and exits.
// It is meant for cron jobs when the request lottery is not enough.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/filesession/pkg/config"
	"github.com/dmitrymomot/filesession/pkg/logger"
	"github.com/dmitrymomot/filesession/pkg/sessionstore"
)

type appConfig struct {
	Logger logger.Config
	Store  sessionstore.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg appConfig
	config.MustLoad(&cfg)

	log, err := logger.NewFromConfig(cfg.Logger, logger.WithAttr(logger.Component("sessiongc")))
	if err != nil {
		slog.Error("invalid logger configuration", logger.Error(err))
		os.Exit(1)
	}

	os.Exit(run(ctx, log, cfg.Store))
}

func run(ctx context.Context, log *slog.Logger, cfg sessionstore.Config) int {
	collector, err := sessionstore.NewCollector(cfg.Dir, sessionstore.WithLogger(log))
	if err != nil {
		log.ErrorContext(ctx, "failed to initialize collector", logger.Error(err))
		return 1
	}

	// the collector logs its own summary
	if _, err := collector.Sweep(ctx); err != nil {
		log.ErrorContext(ctx, "session sweep failed", logger.Error(err))
		return 1
	}
	return 0
}
