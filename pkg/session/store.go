package session

import (
	"context"
	"time"

	"github.com/dmitrymomot/filesession/pkg/sessionstore"
)

// Store is the persistence the Manager needs. *sessionstore.Store implements it.
type Store interface {
	Load(ctx context.Context, key string) (sessionstore.Record, bool, error)
	Save(ctx context.Context, values map[string]string, ttl time.Duration) (string, error)
	Update(ctx context.Context, key string, values map[string]string, ttl time.Duration) (string, error)
	UpdateTTL(ctx context.Context, key string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

var _ Store = (*sessionstore.Store)(nil)
