package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrymomot/filesession/pkg/logger"
)

const (
	fileExt  = ".json"
	filePerm = 0o600
	dirPerm  = 0o700
)

// Store keeps one JSON file per session under a base directory.
// No lock is held across operations: Save relies on exclusive create, and
// Update/UpdateTTL are best-effort read-modify-write sequences.
type Store struct {
	dir    string
	logger *slog.Logger
	now    func() time.Time
	keygen func() string
}

// New creates a store rooted at dir. The directory itself is created lazily by Save.
func New(dir string, opts ...Option) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty directory", ErrInvalidConfig)
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve directory: %w", ErrInvalidConfig, err)
	}

	o := applyOptions(opts)
	return &Store{
		dir:    absDir,
		logger: o.logger.With(logger.Component("sessionstore")),
		now:    o.now,
		keygen: o.keygen,
	}, nil
}

// Dir returns the absolute storage directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file path backing key.
func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, key+fileExt)
}

// Load returns the live record stored under key.
// Absent, expired and invalid keys all report found == false with a nil error;
// a corrupt file yields ErrDeserialization.
func (s *Store) Load(ctx context.Context, key string) (Record, bool, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, false, err
	}
	if !ValidKey(key) {
		return Record{}, false, nil
	}

	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Record{}, false, nil
		}
		return Record{}, false, fmt.Errorf("%w: read session: %w", ErrIO, err)
	}

	rec, err := Decode(data)
	if err != nil {
		return Record{}, false, err
	}
	if rec.IsExpired(s.now()) {
		return Record{}, false, nil
	}
	return rec, true, nil
}

// Save creates a new session file holding values and returns its fresh key.
func (s *Store) Save(ctx context.Context, values map[string]string, ttl time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.ensureDir(ctx)

	key := s.keygen()
	if !ValidKey(key) {
		return "", fmt.Errorf("%w: generated key is not file-safe", ErrInvalidConfig)
	}

	data, err := Encode(Record{Values: values}.Stamp(s.now(), ttl))
	if err != nil {
		return "", err
	}

	path := s.Path(key)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrCollision, path)
		}
		return "", fmt.Errorf("%w: create session: %w", ErrIO, err)
	}

	if err := writeAndSync(f, data); err != nil {
		_ = f.Close()
		_ = os.Remove(path) // don't leave a partial record behind
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%w: close session: %w", ErrIO, err)
	}

	return key, nil
}

// Update overwrites the session under key and returns the key to use from now on.
// The returned key differs from the given one when no live session exists
// under it: absent keys are saved fresh, and expired or corrupt sessions are
// rotated to a new key.
func (s *Store) Update(ctx context.Context, key string, values map[string]string, ttl time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !ValidKey(key) {
		return s.Save(ctx, values, ttl)
	}

	path := s.Path(key)
	f, err := os.OpenFile(path, os.O_RDWR, filePerm)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s.Save(ctx, values, ttl)
		}
		return "", fmt.Errorf("%w: open session: %w", ErrIO, err)
	}
	defer func() { _ = f.Close() }()

	current, err := readRecord(f)
	if err != nil && !errors.Is(err, ErrDeserialization) {
		return "", err
	}
	if err != nil || current.IsExpired(s.now()) {
		_ = f.Close()
		s.discard(ctx, key, err)
		return s.Save(ctx, values, ttl)
	}

	data, err := Encode(Record{Values: values}.Stamp(s.now(), ttl))
	if err != nil {
		return "", err
	}
	if err := rewrite(f, data); err != nil {
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%w: close session: %w", ErrIO, err)
	}

	return key, nil
}

// UpdateTTL re-stamps the expiration of a live session without touching its values.
// It never creates a session: absent or expired sessions yield ErrNotFound.
func (s *Store) UpdateTTL(ctx context.Context, key string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !ValidKey(key) {
		return fmt.Errorf("%w: invalid key", ErrNotFound)
	}

	f, err := os.OpenFile(s.Path(key), os.O_RDWR, filePerm)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: open session: %w", ErrIO, err)
	}
	defer func() { _ = f.Close() }()

	current, err := readRecord(f)
	if err != nil {
		return err
	}
	now := s.now()
	if current.IsExpired(now) {
		return fmt.Errorf("%w: session expired", ErrNotFound)
	}

	data, err := Encode(current.Stamp(now, ttl))
	if err != nil {
		return err
	}
	if err := rewrite(f, data); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close session: %w", ErrIO, err)
	}
	return nil
}

// Delete removes the session file. Deleting an absent session is an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !ValidKey(key) {
		return fmt.Errorf("%w: invalid key", ErrNotFound)
	}

	if err := os.Remove(s.Path(key)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: remove session: %w", ErrIO, err)
	}
	return nil
}

// HealthCheck verifies the storage directory exists, creating it if needed.
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.ensureDir(ctx)
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("%w: stat directory: %w", ErrIO, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrIO, s.dir)
	}
	return nil
}

// ensureDir creates the storage directory on first use. A failure is only
// logged: the following create surfaces the real error.
func (s *Store) ensureDir(ctx context.Context) {
	if info, err := os.Stat(s.dir); err == nil && info.IsDir() {
		return
	}
	if err := os.MkdirAll(s.dir, dirPerm); err != nil {
		s.logger.WarnContext(ctx, "session directory does not exist and could not be created",
			logger.Path(s.dir),
			logger.Error(err),
		)
	}
}

// discard removes a stale session file during rotation.
// GC catches anything left behind, so failures are only logged.
func (s *Store) discard(ctx context.Context, key string, cause error) {
	s.logger.DebugContext(ctx, "rotating stale session",
		logger.SessionKey(key),
		logger.Error(cause),
	)
	if err := os.Remove(s.Path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.WarnContext(ctx, "failed to remove stale session file",
			logger.SessionKey(key),
			logger.Error(err),
		)
	}
}

func readRecord(f *os.File) (Record, error) {
	data, err := io.ReadAll(f)
	if err != nil {
		return Record{}, fmt.Errorf("%w: read session: %w", ErrIO, err)
	}
	return Decode(data)
}

// rewrite replaces the whole content of an open file.
func rewrite(f *os.File, data []byte) error {
	if err := f.Truncate(0); err != nil {
		return fmt.Errorf("%w: truncate session: %w", ErrIO, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w: seek session: %w", ErrIO, err)
	}
	return writeAndSync(f, data)
}

func writeAndSync(f *os.File, data []byte) error {
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("%w: write session: %w", ErrIO, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("%w: sync session: %w", ErrIO, err)
	}
	return nil
}
