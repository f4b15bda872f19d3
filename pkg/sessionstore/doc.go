// Package sessionstore persists short-lived session records as one JSON file
// per session in a single directory.
//
// A session is a flat map of string values plus an absolute expiration time.
// On disk the expiration lives under the reserved key "__expires_at__" as an
// RFC 3339 timestamp; in memory it is kept apart in Record.ExpiresAt so caller
// values can never collide with it.
//
// # Architecture
//
//	┌──────────────┐  Load / Save / Update / UpdateTTL / Delete  ┌───────────────┐
//	│ HTTP layer   │ ──────────────────────────────────────────► │     Store     │
//	└──────────────┘                                             └───────────────┘
//	       │ Lottery.Draw()                                              │ Encode / Decode
//	       ▼                                                             ▼
//	┌──────────────┐            os.ReadDir / os.Remove           ┌───────────────┐
//	│  Collector   │ ──────────────────────────────────────────► │ <dir>/*.json  │
//	└──────────────┘                                             └───────────────┘
//
// Expiration is lazy: an expired file stays on disk but Load reports it as
// absent. Files are physically removed by an explicit Delete or by the
// Collector, which is triggered by a per-request lottery (2 in 100 by default)
// or, optionally, on a fixed interval.
//
// Records whose expiration is missing or unparseable are always treated as
// expired.
//
// # Concurrency
//
// No lock is taken. Save uses exclusive create, so two concurrent saves can
// never share a file. Update and UpdateTTL are read-modify-write sequences
// that may race with Delete or the Collector; the loser of such a race either
// recreates the file or sees it gone, both of which are acceptable outcomes for
// a best-effort session store.
//
// # Usage
//
//	store, collector, err := sessionstore.NewFromConfig(cfg, log)
//	if err != nil {
//	    return err
//	}
//
//	key, err := store.Save(ctx, map[string]string{"message": "a"}, time.Hour)
//	rec, ok, err := store.Load(ctx, key)
//	key, err = store.Update(ctx, key, map[string]string{"message": "b"}, time.Hour) // key may rotate
//
//	mux := sessionstore.GarbageCollectorMiddleware(collector, cfg.Lottery())(handler)
//
// # Error Handling
//
//   - ErrNotFound        – UpdateTTL or Delete on an absent session
//   - ErrDeserialization – the file exists but is not a valid record
//   - ErrIO              – any other filesystem failure
//   - ErrCollision       – exclusive create found a file for a new key
//
// Underlying errors stay wrapped, so errors.Is(err, fs.ErrPermission) works.
package sessionstore
