// Package devserver is an in-memory implementation of the objects endpoint.
// It backs local runs (cmd/objectserver) and the client tests.
package devserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/bookexpert/internal/logging"
)

const defaultMaxRequestBytes = 1 << 20

type Option func(*Router)

// WithAuthSecret requires an HS256 bearer token signed with secret.
func WithAuthSecret(secret string) Option {
	return func(r *Router) {
		if secret != "" {
			r.secret = []byte(secret)
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(r *Router) { r.log = l }
}

// WithSeed preloads objects keyed by id.
func WithSeed(items map[string]Seed) Option {
	return func(r *Router) {
		for id, it := range items {
			r.store.put(id, it.Name, it.Data)
		}
	}
}

// Seed is a preloaded object.
type Seed struct {
	Name string
	Data map[string]any
}

type Router struct {
	store           *memStore
	secret          []byte
	log             logging.Logger
	maxRequestBytes int64
}

// NewRouter returns the handler serving /objects.
func NewRouter(opts ...Option) http.Handler {
	r := &Router{store: newMemStore(), log: logging.Nop(), maxRequestBytes: defaultMaxRequestBytes}
	for _, opt := range opts {
		opt(r)
	}

	mux := chi.NewRouter()
	mux.Get("/health", r.handleHealth)

	mux.Group(func(pr chi.Router) {
		pr.Use(r.authMiddleware)
		pr.Get("/objects", r.handleList)
		pr.Post("/objects", r.handleCreate)
		pr.Get("/objects/{id}", r.handleGet)
		pr.Put("/objects/{id}", r.handleUpdate)
		pr.Delete("/objects/{id}", r.handleDelete)
	})

	return mux
}

func (r *Router) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
