package session

import "time"

// Config holds session configuration
type Config struct {
	// CookieName is the name of the session cookie (default: "sid")
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"sid"`

	// TTL is passed to the store on every save, update and refresh
	TTL time.Duration `env:"SESSION_TTL" envDefault:"2h"`

	// Rolling refreshes the TTL of unchanged sessions on every request
	Rolling bool `env:"SESSION_ROLLING" envDefault:"true"`

	// SecureCookies enables the Secure flag on session cookies (recommended for production)
	SecureCookies bool `env:"SESSION_SECURE_COOKIES" envDefault:"false"`
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		CookieName:    "sid",
		TTL:           2 * time.Hour,
		Rolling:       true,
		SecureCookies: false,
	}
}

// NewFromConfig creates a new Manager from the provided Config.
// Requires a Store via options.
func NewFromConfig(cfg Config, opts ...Option) *Manager {
	return New(append([]Option{WithConfig(cfg)}, opts...)...)
}
