package sessionstore_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/filesession/pkg/sessionstore"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newStore(t *testing.T, opts ...sessionstore.Option) *sessionstore.Store {
	t.Helper()
	store, err := sessionstore.New(t.TempDir(), opts...)
	require.NoError(t, err)
	return store
}

func writeRaw(t *testing.T, store *sessionstore.Store, key, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(store.Dir(), 0o700))
	require.NoError(t, os.WriteFile(store.Path(key), []byte(content), 0o600))
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("empty directory", func(t *testing.T) {
		t.Parallel()
		store, err := sessionstore.New("")
		assert.ErrorIs(t, err, sessionstore.ErrInvalidConfig)
		assert.Nil(t, store)
	})

	t.Run("relative directory is resolved", func(t *testing.T) {
		t.Parallel()
		store, err := sessionstore.New("storage/sessions")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(store.Dir()))
	})
}

func TestStore_Load(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("missing session returns no session", func(t *testing.T) {
		t.Parallel()
		store := newStore(t)

		rec, ok, err := store.Load(ctx, sessionstore.GenerateKey())
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, rec.Values)
	})

	t.Run("invalid key returns no session", func(t *testing.T) {
		t.Parallel()
		store := newStore(t)

		_, ok, err := store.Load(ctx, "../../etc/passwd")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("invalid content returns deserialization error", func(t *testing.T) {
		t.Parallel()
		store := newStore(t)
		key := sessionstore.GenerateKey()
		writeRaw(t, store, key, "random-thing-which-is-not-json")

		_, ok, err := store.Load(ctx, key)
		require.ErrorIs(t, err, sessionstore.ErrDeserialization)
		assert.NotErrorIs(t, err, sessionstore.ErrNotFound)
		assert.False(t, ok)
	})

	t.Run("record without expiration is invisible", func(t *testing.T) {
		t.Parallel()
		store := newStore(t)
		key := sessionstore.GenerateKey()
		writeRaw(t, store, key, `{"message":"orphan"}`)

		_, ok, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("record with unparseable expiration is invisible", func(t *testing.T) {
		t.Parallel()
		store := newStore(t)
		key := sessionstore.GenerateKey()
		writeRaw(t, store, key, `{"message":"x","__expires_at__":"tomorrow-ish"}`)

		_, ok, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("expired session is invisible but stays on disk", func(t *testing.T) {
		t.Parallel()
		store := newStore(t)

		key, err := store.Save(ctx, map[string]string{"message": "gone soon"}, 0)
		require.NoError(t, err)

		time.Sleep(20 * time.Millisecond)

		_, ok, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.FileExists(t, store.Path(key))
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()
		store := newStore(t)
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, _, err := store.Load(cctx, sessionstore.GenerateKey())
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestStore_Save(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		clock := newFakeClock()
		store := newStore(t, sessionstore.WithClock(clock.Now))
		values := map[string]string{"message": "another day another slay", "user": "42"}

		key, err := store.Save(ctx, values, time.Minute)
		require.NoError(t, err)
		assert.True(t, sessionstore.ValidKey(key))

		rec, ok, err := store.Load(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, values, rec.Values)
		assert.True(t, rec.ExpiresAt.Equal(clock.Now().Add(time.Minute)))
	})

	t.Run("creates missing directory", func(t *testing.T) {
		t.Parallel()
		dir := filepath.Join(t.TempDir(), "storage", "sessions")
		store, err := sessionstore.New(dir)
		require.NoError(t, err)

		key, err := store.Save(ctx, map[string]string{}, time.Minute)
		require.NoError(t, err)
		assert.DirExists(t, dir)
		assert.FileExists(t, filepath.Join(dir, key+".json"))
	})

	t.Run("file is private", func(t *testing.T) {
		t.Parallel()
		store := newStore(t)

		key, err := store.Save(ctx, map[string]string{"a": "b"}, time.Minute)
		require.NoError(t, err)

		info, err := os.Stat(store.Path(key))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("reserved key in values is overwritten", func(t *testing.T) {
		t.Parallel()
		store := newStore(t)

		key, err := store.Save(ctx, map[string]string{
			sessionstore.ExpiresAtKey: "2000-01-01T00:00:00Z",
			"message":                 "hi",
		}, time.Minute)
		require.NoError(t, err)

		rec, ok, err := store.Load(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, map[string]string{"message": "hi"}, rec.Values)
	})

	t.Run("key collision is an error", func(t *testing.T) {
		t.Parallel()
		fixed := sessionstore.GenerateKey()
		store := newStore(t, sessionstore.WithKeyGenerator(func() string { return fixed }))

		key, err := store.Save(ctx, map[string]string{"message": "first"}, time.Minute)
		require.NoError(t, err)
		require.Equal(t, fixed, key)

		_, err = store.Save(ctx, map[string]string{"message": "second"}, time.Minute)
		require.ErrorIs(t, err, sessionstore.ErrCollision)

		rec, ok, err := store.Load(ctx, fixed)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "first", rec.Values["message"])
	})

	t.Run("expired file still blocks its key", func(t *testing.T) {
		t.Parallel()
		fixed := sessionstore.GenerateKey()
		clock := newFakeClock()
		store := newStore(t,
			sessionstore.WithClock(clock.Now),
			sessionstore.WithKeyGenerator(func() string { return fixed }),
		)

		_, err := store.Save(ctx, nil, time.Second)
		require.NoError(t, err)
		clock.Advance(time.Minute)

		_, err = store.Save(ctx, nil, time.Second)
		assert.ErrorIs(t, err, sessionstore.ErrCollision)
	})

	t.Run("unsafe generated key is rejected", func(t *testing.T) {
		t.Parallel()
		store := newStore(t, sessionstore.WithKeyGenerator(func() string { return "../escape" }))

		_, err := store.Save(ctx, nil, time.Minute)
		assert.ErrorIs(t, err, sessionstore.ErrInvalidConfig)
	})

	t.Run("concurrent saves get distinct keys", func(t *testing.T) {
		t.Parallel()
		store := newStore(t)

		const n = 32
		keys := make([]string, n)
		var wg sync.WaitGroup
		for i := range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				key, err := store.Save(ctx, map[string]string{"n": "x"}, time.Minute)
				assert.NoError(t, err)
				keys[i] = key
			}()
		}
		wg.Wait()

		seen := make(map[string]struct{}, n)
		for _, k := range keys {
			seen[k] = struct{}{}
		}
		assert.Len(t, seen, n)

		entries, err := os.ReadDir(store.Dir())
		require.NoError(t, err)
		assert.Len(t, entries, n)
	})

	t.Run("unwritable directory surfaces io error", func(t *testing.T) {
		t.Parallel()
		parent := t.TempDir()
		blocker := filepath.Join(parent, "not-a-dir")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

		store, err := sessionstore.New(filepath.Join(blocker, "sessions"))
		require.NoError(t, err)

		_, err = store.Save(ctx, nil, time.Minute)
		assert.ErrorIs(t, err, sessionstore.ErrIO)
	})
}

func TestStore_Update(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("live session keeps its key", func(t *testing.T) {
		t.Parallel()
		store := newStore(t)

		key, err := store.Save(ctx, map[string]string{"message": "another day another slay"}, time.Minute)
		require.NoError(t, err)

		updated, err := store.Update(ctx, key, map[string]string{"message": "a different message."}, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, key, updated)

		rec, ok, err := store.Load(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, map[string]string{"message": "a different message."}, rec.Values)
	})

	t.Run("shorter content fully replaces longer content", func(t *testing.T) {
		t.Parallel()
		store := newStore(t)

		key, err := store.Save(ctx, map[string]string{"message": "a rather long message that takes space", "extra": "field"}, time.Minute)
		require.NoError(t, err)

		_, err = store.Update(ctx, key, map[string]string{"m": "b"}, time.Minute)
		require.NoError(t, err)

		data, err := os.ReadFile(store.Path(key))
		require.NoError(t, err)
		rec, err := sessionstore.Decode(data)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"m": "b"}, rec.Values)
	})

	t.Run("new ttl is applied", func(t *testing.T) {
		t.Parallel()
		clock := newFakeClock()
		store := newStore(t, sessionstore.WithClock(clock.Now))

		key, err := store.Save(ctx, map[string]string{"a": "1"}, time.Minute)
		require.NoError(t, err)

		_, err = store.Update(ctx, key, map[string]string{"a": "2"}, time.Hour)
		require.NoError(t, err)

		clock.Advance(30 * time.Minute)
		rec, ok, err := store.Load(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "2", rec.Values["a"])
	})

	t.Run("expired session rotates", func(t *testing.T) {
		t.Parallel()
		store := newStore(t)

		key, err := store.Save(ctx, map[string]string{"message": "another day another slay"}, 0)
		require.NoError(t, err)

		time.Sleep(100 * time.Millisecond)

		updated, err := store.Update(ctx, key, map[string]string{"message": "a different message."}, time.Minute)
		require.NoError(t, err)
		assert.NotEqual(t, key, updated)

		_, ok, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.NoFileExists(t, store.Path(key))

		rec, ok, err := store.Load(ctx, updated)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, map[string]string{"message": "a different message."}, rec.Values)
	})

	t.Run("corrupt session rotates", func(t *testing.T) {
		t.Parallel()
		store := newStore(t)
		key := sessionstore.GenerateKey()
		writeRaw(t, store, key, "{broken")

		updated, err := store.Update(ctx, key, map[string]string{"a": "b"}, time.Minute)
		require.NoError(t, err)
		assert.NotEqual(t, key, updated)

		rec, ok, err := store.Load(ctx, updated)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "b", rec.Values["a"])
	})

	t.Run("unknown key behaves like save", func(t *testing.T) {
		t.Parallel()
		store := newStore(t)
		unknown := sessionstore.GenerateKey()

		updated, err := store.Update(ctx, unknown, map[string]string{"message": "fresh"}, time.Minute)
		require.NoError(t, err)
		assert.NotEqual(t, unknown, updated)

		rec, ok, err := store.Load(ctx, updated)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, map[string]string{"message": "fresh"}, rec.Values)
	})

	t.Run("empty values are accepted", func(t *testing.T) {
		t.Parallel()
		store := newStore(t)

		updated, err := store.Update(ctx, sessionstore.GenerateKey(), map[string]string{}, time.Second)
		require.NoError(t, err)
		assert.True(t, sessionstore.ValidKey(updated))
	})

	t.Run("invalid key behaves like save", func(t *testing.T) {
		t.Parallel()
		store := newStore(t)

		updated, err := store.Update(ctx, "../../escape", map[string]string{"a": "b"}, time.Minute)
		require.NoError(t, err)
		assert.True(t, sessionstore.ValidKey(updated))
		assert.FileExists(t, store.Path(updated))
	})
}

func TestStore_UpdateTTL(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("extends a live session", func(t *testing.T) {
		t.Parallel()
		clock := newFakeClock()
		store := newStore(t, sessionstore.WithClock(clock.Now))

		key, err := store.Save(ctx, map[string]string{"message": "keep me"}, time.Minute)
		require.NoError(t, err)

		clock.Advance(30 * time.Second)
		require.NoError(t, store.UpdateTTL(ctx, key, time.Hour))

		clock.Advance(10 * time.Minute)
		rec, ok, err := store.Load(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, map[string]string{"message": "keep me"}, rec.Values)
		assert.True(t, rec.ExpiresAt.Equal(clock.Now().Add(-10*time.Minute).Add(time.Hour)))
	})

	t.Run("rewritten file stays decodable", func(t *testing.T) {
		t.Parallel()
		store := newStore(t)

		key, err := store.Save(ctx, map[string]string{"message": "x"}, time.Hour)
		require.NoError(t, err)
		require.NoError(t, store.UpdateTTL(ctx, key, time.Second))

		data, err := os.ReadFile(store.Path(key))
		require.NoError(t, err)
		_, err = sessionstore.Decode(data)
		assert.NoError(t, err)
	})

	t.Run("missing session", func(t *testing.T) {
		t.Parallel()
		store := newStore(t)

		err := store.UpdateTTL(ctx, sessionstore.GenerateKey(), time.Minute)
		assert.ErrorIs(t, err, sessionstore.ErrNotFound)

		entries, _ := os.ReadDir(store.Dir())
		assert.Empty(t, entries)
	})

	t.Run("expired session", func(t *testing.T) {
		t.Parallel()
		clock := newFakeClock()
		store := newStore(t, sessionstore.WithClock(clock.Now))

		key, err := store.Save(ctx, nil, time.Second)
		require.NoError(t, err)
		clock.Advance(time.Minute)

		assert.ErrorIs(t, store.UpdateTTL(ctx, key, time.Hour), sessionstore.ErrNotFound)
	})

	t.Run("corrupt session", func(t *testing.T) {
		t.Parallel()
		store := newStore(t)
		key := sessionstore.GenerateKey()
		writeRaw(t, store, key, "[1,2,3]")

		assert.ErrorIs(t, store.UpdateTTL(ctx, key, time.Hour), sessionstore.ErrDeserialization)
	})

	t.Run("invalid key", func(t *testing.T) {
		t.Parallel()
		store := newStore(t)
		assert.ErrorIs(t, store.UpdateTTL(ctx, "a/b", time.Hour), sessionstore.ErrNotFound)
	})
}

func TestStore_Delete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("second delete reports not found", func(t *testing.T) {
		t.Parallel()
		store := newStore(t)

		key, err := store.Save(ctx, map[string]string{"a": "b"}, time.Minute)
		require.NoError(t, err)

		require.NoError(t, store.Delete(ctx, key))
		assert.NoFileExists(t, store.Path(key))

		err = store.Delete(ctx, key)
		assert.ErrorIs(t, err, sessionstore.ErrNotFound)
	})

	t.Run("deleted session cannot be loaded", func(t *testing.T) {
		t.Parallel()
		store := newStore(t)

		key, err := store.Save(ctx, map[string]string{"a": "b"}, time.Minute)
		require.NoError(t, err)
		require.NoError(t, store.Delete(ctx, key))

		_, ok, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("invalid key", func(t *testing.T) {
		t.Parallel()
		store := newStore(t)
		assert.ErrorIs(t, store.Delete(ctx, ".."), sessionstore.ErrNotFound)
	})
}

func TestStore_HealthCheck(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("creates missing directory", func(t *testing.T) {
		t.Parallel()
		store, err := sessionstore.New(filepath.Join(t.TempDir(), "sessions"))
		require.NoError(t, err)
		assert.NoError(t, store.HealthCheck(ctx))
		assert.DirExists(t, store.Dir())
	})

	t.Run("file in place of directory", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "sessions")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

		store, err := sessionstore.New(path)
		require.NoError(t, err)
		assert.ErrorIs(t, store.HealthCheck(ctx), sessionstore.ErrIO)
	})
}

func TestStore_Scenario(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newStore(t)

	key, err := store.Save(ctx, map[string]string{"message": "a"}, 60*time.Second)
	require.NoError(t, err)

	rec, ok, err := store.Load(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, map[string]string{"message": "a"}, rec.Values)

	updated, err := store.Update(ctx, key, map[string]string{"message": "b"}, 60*time.Second)
	require.NoError(t, err)
	assert.Equal(t, key, updated)

	rec, ok, err = store.Load(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, map[string]string{"message": "b"}, rec.Values)
}
