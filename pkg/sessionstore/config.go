package sessionstore

import (
	"log/slog"
	"time"
)

// Config holds store and garbage collection settings.
type Config struct {
	// Dir is the directory holding one <key>.json file per session.
	Dir string `env:"SESSION_DIR" envDefault:"storage/sessions"`

	// GCChances out of GCOutOf requests run the garbage collector.
	GCChances int `env:"SESSION_GC_CHANCES" envDefault:"2"`
	GCOutOf   int `env:"SESSION_GC_OUT_OF" envDefault:"100"`

	// GCInterval enables a periodic sweep in addition to the lottery (0 disables it).
	GCInterval time.Duration `env:"SESSION_GC_INTERVAL" envDefault:"0s"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Dir:       "storage/sessions",
		GCChances: DefaultChances,
		GCOutOf:   DefaultOutOf,
	}
}

// Lottery builds the garbage collection lottery described by the config.
func (c Config) Lottery() Lottery {
	return NewLottery(c.GCChances, c.GCOutOf)
}

// NewFromConfig creates a Store and its Collector from the provided Config.
func NewFromConfig(cfg Config, log *slog.Logger, opts ...Option) (*Store, *Collector, error) {
	opts = append([]Option{WithLogger(log)}, opts...)

	store, err := New(cfg.Dir, opts...)
	if err != nil {
		return nil, nil, err
	}
	collector, err := NewCollector(cfg.Dir, opts...)
	if err != nil {
		return nil, nil, err
	}
	return store, collector, nil
}
