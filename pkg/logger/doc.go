// Package logger builds slog loggers for the session services and provides
// attribute helpers that keep key names consistent.
//
// New creates a *slog.Logger from functional options (format, level, output,
// static attributes) and wraps its handler with LogHandlerDecorator, which
// runs registered ContextExtractor callbacks on every record so request-scoped
// values such as a request id are attached automatically.
//
// NewFromConfig maps environment settings (APP_ENV, SERVICE_NAME, LOG_LEVEL)
// onto the same options.
//
//	log, err := logger.NewFromConfig(cfg.Log,
//	    logger.WithContextExtractors(requestIDExtractor),
//	)
//	log.InfoContext(ctx, "session cleanup finished", logger.Count("removed", n))
//
// SessionKey never logs a full key: session keys are bearer secrets and only a
// short prefix is emitted.
package logger
