package sessionstore

import (
	"log/slog"
	"time"
)

type options struct {
	logger *slog.Logger
	now    func() time.Time
	keygen func() string
}

func defaultOptions() *options {
	return &options{
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
		keygen: GenerateKey,
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Option configures a Store or a Collector.
type Option func(*options)

// WithLogger sets the logger. Nil loggers are ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock overrides the time source used for stamping and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithKeyGenerator overrides the key generator used by Save.
// Generated keys must satisfy ValidKey.
func WithKeyGenerator(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.keygen = fn
		}
	}
}
