package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/filesession/pkg/logger"
	"github.com/dmitrymomot/filesession/pkg/sessionstore"
)

// Manager binds a Store to HTTP requests through a Transport.
type Manager struct {
	store     Store
	transport Transport
	config    Config
	logger    *slog.Logger
}

// New creates a new session manager with the given options.
// Panics when no store is configured.
func New(opts ...Option) *Manager {
	m := &Manager{
		config: DefaultConfig(),
		logger: slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.store == nil {
		panic(ErrNoStore)
	}

	if m.transport == nil {
		m.transport = NewCookieTransport(m.config.CookieName, WithSecureCookie(m.config.SecureCookies))
	}

	m.logger = m.logger.With(logger.Component("session"))
	return m
}

// Load resolves the session for the request. A missing, expired or corrupt
// stored session yields a new empty Session; only I/O failures are returned.
func (m *Manager) Load(ctx context.Context, r *http.Request) (*Session, error) {
	key, err := m.transport.GetToken(r)
	if err != nil {
		return newSession("", nil, true), nil
	}

	rec, ok, err := m.store.Load(ctx, key)
	switch {
	case errors.Is(err, sessionstore.ErrDeserialization):
		// keep the key: the next Update rotates it away from the corrupt file
		m.logger.WarnContext(ctx, "corrupt session record", logger.SessionKey(key), logger.Error(err))
		return newSession(key, nil, true), nil
	case err != nil:
		return nil, fmt.Errorf("session: load: %w", err)
	case !ok:
		return newSession(key, nil, true), nil
	}

	return newSession(key, rec.Values, false), nil
}

// Commit persists the session state and updates the transport accordingly.
// It is called by Middleware before the first byte of the response.
func (m *Manager) Commit(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	snap := sess.snapshot()
	ttl := m.config.TTL

	switch {
	case snap.destroyed:
		if snap.key != "" && !snap.isNew {
			if err := m.store.Delete(ctx, snap.key); err != nil && !errors.Is(err, sessionstore.ErrNotFound) {
				return fmt.Errorf("session: delete: %w", err)
			}
		}
		sess.persisted("")
		return m.transport.ClearToken(w)

	case snap.renew:
		key, err := m.store.Save(ctx, snap.values, ttl)
		if err != nil {
			return fmt.Errorf("session: renew: %w", err)
		}
		if snap.key != "" && !snap.isNew {
			if err := m.store.Delete(ctx, snap.key); err != nil && !errors.Is(err, sessionstore.ErrNotFound) {
				m.logger.WarnContext(ctx, "failed to delete renewed session", logger.SessionKey(snap.key), logger.Error(err))
			}
		}
		sess.persisted(key)
		return m.transport.SetToken(w, key, ttl)

	case snap.modified:
		key, err := m.store.Update(ctx, snap.key, snap.values, ttl)
		if err != nil {
			return fmt.Errorf("session: update: %w", err)
		}
		sess.persisted(key)
		if key != snap.key || m.config.Rolling {
			return m.transport.SetToken(w, key, ttl)
		}
		return nil

	case !snap.isNew && m.config.Rolling:
		if err := m.store.UpdateTTL(ctx, snap.key, ttl); err != nil {
			if errors.Is(err, sessionstore.ErrNotFound) {
				// expired or removed while the request was running
				return nil
			}
			return fmt.Errorf("session: refresh: %w", err)
		}
		return m.transport.SetToken(w, snap.key, ttl)
	}

	return nil
}
