package api

import (
	"context"
	"errors"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/okian/mcr/internal/adapters/repository"
)

// ShareDependencies publishes and lists shared configurations.
type ShareDependencies interface {
	// CreateShare fails with repository.ErrInvalidShare when the name is
	// blank or params is not a valid share string.
	CreateShare(ctx context.Context, name, params string) (repository.Share, error)
	ListShares(ctx context.Context, limit int) ([]repository.Share, error)
	DeleteShare(ctx context.Context, id string) error
}

// SharesHandler serves the share backend. Its responses use the
// {"success", "data"|"error"} envelope existing share clients expect.
type SharesHandler struct {
	deps         ShareDependencies
	defaultLimit int
	maxLimit     int
}

// NewSharesHandler creates a new shares handler.
func NewSharesHandler(deps ShareDependencies, defaultLimit, maxLimit int) *SharesHandler {
	return &SharesHandler{
		deps:         deps,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

type dataEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type createShareRequest struct {
	Name   string `json:"name"`
	Params string `json:"params"`
}

func writeEnvelope(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, dataEnvelope{Success: true, Data: data})
}

func writeEnvelopeError(w http.ResponseWriter, status int, code, msg string) {
	tagError(w, code)
	writeJSON(w, status, errorEnvelope{Success: false, Error: msg})
}

// HandleShares handles GET /shares?limit=N and POST /shares requests.
func (h *SharesHandler) HandleShares(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleCreate(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *SharesHandler) handleList(w http.ResponseWriter, r *http.Request) {
	n, err := parseLimit(r, h.defaultLimit)
	if err != nil {
		writeEnvelopeError(w, http.StatusBadRequest, "bad_request", "limit must be a positive integer")
		return
	}
	// Larger limits are capped rather than refused.
	n = min(n, h.maxLimit)

	shares, err := h.deps.ListShares(r.Context(), n)
	if err != nil {
		writeEnvelopeError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
		return
	}
	writeEnvelope(w, http.StatusOK, shares)
}

func (h *SharesHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createShareRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeEnvelopeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	sh, err := h.deps.CreateShare(r.Context(), req.Name, req.Params)
	switch {
	case errors.Is(err, repository.ErrInvalidShare):
		writeEnvelopeError(w, http.StatusBadRequest, "invalid_share", err.Error())
		return
	case err != nil:
		writeEnvelopeError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
		return
	}
	writeEnvelope(w, http.StatusOK, sh)
}

// HandleDelete handles DELETE /shares/{id} requests.
func (h *SharesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	err := h.deps.DeleteShare(r.Context(), r.PathValue("id"))
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeEnvelopeError(w, http.StatusNotFound, "not_found", "Share not found")
		return
	case err != nil:
		writeEnvelopeError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
		return
	}
	writeEnvelope(w, http.StatusOK, nil)
}
