// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/okian/mcr/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ParametersDependencies
	ConfigurationDependencies
	RankDependencies
	ShareDependencies
}

// Entry mirrors the read shape returned by ranking queries.
type Entry = types.Entry

// Limits bounds the limit query parameter of list endpoints.
type Limits struct {
	ShareDefault int
	ShareMax     int
	RankDefault  int
	RankMax      int
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler        *HealthHandler
	statsHandler         *StatsHandler
	parametersHandler    *ParametersHandler
	configurationHandler *ConfigurationHandler
	rankHandler          *RankHandler
	sharesHandler        *SharesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, limits Limits) *Server {
	return &Server{
		healthHandler:        NewHealthHandler(),
		statsHandler:         NewStatsHandler(statsProvider),
		parametersHandler:    NewParametersHandler(deps),
		configurationHandler: NewConfigurationHandler(deps),
		rankHandler:          NewRankHandler(deps, deps, limits.RankDefault, limits.RankMax),
		sharesHandler:        NewSharesHandler(deps, limits.ShareDefault, limits.ShareMax),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/parameters", MetricsMiddleware(s.parametersHandler.HandleList, "parameters"))
	mux.HandleFunc("/configurations/encode", MetricsMiddleware(s.configurationHandler.HandleEncode, "configurations_encode"))
	mux.HandleFunc("/configurations/decode", MetricsMiddleware(s.configurationHandler.HandleDecode, "configurations_decode"))
	mux.HandleFunc("/rank", MetricsMiddleware(s.rankHandler.HandleRank, "rank"))
	mux.HandleFunc("/shares", MetricsMiddleware(s.sharesHandler.HandleShares, "shares"))
	mux.HandleFunc("DELETE /shares/{id}", MetricsMiddleware(s.sharesHandler.HandleDelete, "shares_delete"))
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
	tagError(w, code)
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// parseLimit reads ?limit. A missing value yields def; anything that is not
// a positive integer is ErrBadRequest.
func parseLimit(r *http.Request, def int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, ErrBadRequest
	}
	return n, nil
}
