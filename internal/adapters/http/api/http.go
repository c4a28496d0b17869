// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/catbreeds/internal/adapters/catapi"
	app "github.com/okian/catbreeds/internal/app"
	"github.com/okian/catbreeds/internal/domain/cat"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ListCats(ctx context.Context, offset int) (cat.Page, error)
	CatsByBreed(ctx context.Context, name string, offset int) ([]cat.Cat, error)
}

// Server wires HTTP routes for the JSON API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	catsHandler   *CatsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		catsHandler:   NewCatsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /api/cats", MetricsMiddleware(s.catsHandler.HandleList, "api_cats"))
	mux.HandleFunc("GET /api/cats/{name}", MetricsMiddleware(s.catsHandler.HandleBreed, "api_cat_details"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeLookupError maps catalog and upstream errors to a status and code.
// Internal error text is not exposed.
func writeLookupError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrInvalidOffset), errors.Is(err, catapi.ErrEmptyBreed):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, app.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case catapi.IsAPIError(err):
		writeError(w, http.StatusBadGateway, "upstream_error", err)
	case catapi.IsUnavailable(err):
		writeError(w, http.StatusServiceUnavailable, "upstream_unavailable", nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "upstream_timeout", nil)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}

// parseOffset reads ?offset=; missing means 0.
func parseOffset(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("offset"))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, app.ErrInvalidOffset
	}
	return n, nil
}
