package session

import (
	"context"
	"net/http"
	"sync"

	"github.com/dmitrymomot/filesession/pkg/logger"
)

// Middleware loads the session into the request context and persists it
// right before the response headers are written.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.Load(r.Context(), r)
		if err != nil {
			m.logger.ErrorContext(r.Context(), "failed to load session", logger.Error(err))
			http.Error(w, "Session error", http.StatusInternalServerError)
			return
		}

		// the session must be written even if the client goes away mid-request
		commitCtx := context.WithoutCancel(r.Context())
		cw := &commitWriter{ResponseWriter: w}
		cw.commit = func() {
			if err := m.Commit(commitCtx, w, sess); err != nil {
				m.logger.ErrorContext(commitCtx, "failed to persist session",
					logger.SessionKey(sess.Key()),
					logger.Error(err),
				)
			}
		}

		next.ServeHTTP(cw, r.WithContext(WithSession(r.Context(), sess)))
		cw.once.Do(cw.commit)
	})
}

// commitWriter runs commit once, before anything reaches the client.
type commitWriter struct {
	http.ResponseWriter
	once   sync.Once
	commit func()
}

func (w *commitWriter) WriteHeader(code int) {
	w.once.Do(w.commit)
	w.ResponseWriter.WriteHeader(code)
}

func (w *commitWriter) Write(b []byte) (int, error) {
	w.once.Do(w.commit)
	return w.ResponseWriter.Write(b)
}

func (w *commitWriter) Flush() {
	w.once.Do(w.commit)
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *commitWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
