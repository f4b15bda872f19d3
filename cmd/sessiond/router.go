package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/filesession/pkg/httpserver"
	"github.com/dmitrymomot/filesession/pkg/logger"
	"github.com/dmitrymomot/filesession/pkg/session"
	"github.com/dmitrymomot/filesession/pkg/sessionstore"
)

// maxValueSize caps a single session value written through the API.
const maxValueSize = 4 << 10

type routerDeps struct {
	log       *slog.Logger
	store     *sessionstore.Store
	collector *sessionstore.Collector
	lottery   sessionstore.Lottery
	manager   *session.Manager
}

type sessionResponse struct {
	IsNew  bool              `json:"is_new"`
	Values map[string]string `json:"values"`
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", httpserver.HealthCheckHandler(d.log, d.store.HealthCheck))

	r.Route("/session", func(r chi.Router) {
		r.Use(sessionstore.GarbageCollectorMiddleware(d.collector, d.lottery))
		r.Use(d.manager.Middleware)

		r.Get("/", showSession)
		r.Put("/{name}", setValue(d.log))
		r.Delete("/{name}", deleteValue)
		r.Post("/destroy", destroySession)
	})

	return r
}

func showSession(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())
	writeJSON(w, http.StatusOK, sessionResponse{IsNew: sess.IsNew(), Values: sess.Values()})
}

func setValue(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if name == "" || name == sessionstore.ExpiresAtKey {
			http.Error(w, "invalid value name", http.StatusBadRequest)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxValueSize+1))
		if err != nil {
			log.WarnContext(r.Context(), "failed to read request body", logger.Error(err))
			http.Error(w, "failed to read body", http.StatusBadRequest)
			return
		}
		if len(body) > maxValueSize {
			http.Error(w, "value too large", http.StatusRequestEntityTooLarge)
			return
		}

		sess := session.MustFromContext(r.Context())
		sess.Set(name, strings.TrimRight(string(body), "\r\n"))
		writeJSON(w, http.StatusOK, sessionResponse{IsNew: sess.IsNew(), Values: sess.Values()})
	}
}

func deleteValue(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())
	sess.Delete(chi.URLParam(r, "name"))
	w.WriteHeader(http.StatusNoContent)
}

func destroySession(w http.ResponseWriter, r *http.Request) {
	session.MustFromContext(r.Context()).Destroy()
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
