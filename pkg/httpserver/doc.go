// Package httpserver runs an http.Handler with configurable timeouts, a
// graceful shutdown path and health-check probes.
//
// Run binds the listener synchronously, so a bad address fails immediately
// with ErrStart, and then serves until the context is cancelled, the process
// receives SIGINT or SIGTERM, or Shutdown is called. Shutdown drains in-flight
// requests within the configured timeout and then runs the hooks registered
// with WithOnShutdown. Ready and Addr expose the bound listener, which makes
// ":0" usable in tests.
//
// # Usage
//
//	srv := httpserver.NewFromConfig(cfg.HTTP,
//		httpserver.WithLogger(log),
//		httpserver.WithOnShutdown(func(ctx context.Context) { stopWorkers() }),
//	)
//
//	r := chi.NewRouter()
//	r.Get("/healthz", httpserver.HealthCheckHandler(log, store.HealthCheck))
//
//	if err := srv.Run(ctx, r); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// HealthCheckHandler answers "ALIVE" when given no checks and "READY" or
// "NOT_READY" (503) otherwise.
package httpserver
