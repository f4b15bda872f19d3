package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/filesession/pkg/config"
	"github.com/dmitrymomot/filesession/pkg/httpserver"
	"github.com/dmitrymomot/filesession/pkg/logger"
	"github.com/dmitrymomot/filesession/pkg/session"
	"github.com/dmitrymomot/filesession/pkg/sessionstore"
)

type appConfig struct {
	Logger  logger.Config
	HTTP    httpserver.Config
	Store   sessionstore.Config
	Session session.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg appConfig
	config.MustLoad(&cfg)

	log, err := logger.NewFromConfig(cfg.Logger,
		logger.WithContextExtractors(requestIDExtractor),
	)
	if err != nil {
		slog.Error("invalid logger configuration", logger.Error(err))
		os.Exit(1)
	}
	logger.SetAsDefault(log)

	store, collector, err := sessionstore.NewFromConfig(cfg.Store, log)
	if err != nil {
		log.Error("failed to initialize session store", logger.Error(err))
		os.Exit(1)
	}

	manager := session.NewFromConfig(cfg.Session,
		session.WithStore(store),
		session.WithLogger(log),
	)

	gcCtx, stopGC := context.WithCancel(ctx)
	defer stopGC()
	if cfg.Store.GCInterval > 0 {
		go collector.Run(gcCtx, cfg.Store.GCInterval)
	}

	router := newRouter(routerDeps{
		log:       log,
		store:     store,
		collector: collector,
		lottery:   cfg.Store.Lottery(),
		manager:   manager,
	})

	srv := httpserver.NewFromConfig(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.WithOnShutdown(func(context.Context) { stopGC() }),
	)

	log.Info("session service starting",
		logger.Path(store.Dir()),
		slog.Duration("ttl", cfg.Session.TTL),
		slog.Duration("gc_interval", cfg.Store.GCInterval),
	)

	if err := srv.Run(ctx, router); err != nil {
		log.Error("server stopped", logger.Error(err))
		os.Exit(1)
	}
}

func requestIDExtractor(ctx context.Context) (slog.Attr, bool) {
	id := middleware.GetReqID(ctx)
	if id == "" {
		return slog.Attr{}, false
	}
	return logger.RequestID(id), true
}
