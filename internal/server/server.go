// Package server exposes a read-only local status API over HTTP so
// dashboards and editor tooling can see the environment without shelling out
// to the CLI.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/unistate/devenv/internal/stack"
)

// StatusSource reports service states; satisfied by *stack.Stack.
type StatusSource interface {
	Status(ctx context.Context) ([]stack.ServiceStatus, error)
}

// StatusServer serves environment state over HTTP.
type StatusServer struct {
	source   StatusSource
	manifest []byte
	router   chi.Router
}

// New builds the server around a status source and the rendered manifest.
func New(source StatusSource, manifest []byte) *StatusServer {
	s := &StatusServer{source: source, manifest: manifest}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealthz)
	r.Get("/api/status", s.handleStatus)
	r.Get("/api/manifest", s.handleManifest)

	s.router = r
	return s
}

func (s *StatusServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *StatusServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleStatus handles GET /api/status.
func (s *StatusServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	statuses, err := s.source.Status(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	if statuses == nil {
		statuses = []stack.ServiceStatus{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"services": statuses})
}

// handleManifest handles GET /api/manifest, returning the rendered document.
func (s *StatusServer) handleManifest(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(s.manifest)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
