package logger

import (
	"log/slog"
	"time"
)

// keyPrefixLen is how much of a session key may appear in logs.
const keyPrefixLen = 6

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// SessionKey records a redacted session key under "session_key".
// Keys are bearer secrets, so only a short prefix is kept.
func SessionKey(key string) slog.Attr {
	if key == "" {
		return slog.Attr{}
	}
	if len(key) > keyPrefixLen {
		key = key[:keyPrefixLen] + "…"
	}
	return slog.String("session_key", key)
}

// Path records a filesystem path under the key "path".
func Path(p string) slog.Attr {
	return slog.String("path", p)
}

// SweepID tags records emitted by one garbage collection pass.
func SweepID(id string) slog.Attr {
	return slog.String("sweep_id", id)
}

// Count records a counter under the given name.
func Count(name string, n int) slog.Attr {
	return slog.Int(name, n)
}

// Duration records a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// RequestID records the request identifier under the key "request_id".
// Empty ids produce an empty Attr.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}
