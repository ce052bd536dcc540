package api

import (
	"context"
	"net/http"

	"github.com/okian/mcr/internal/domain/params"
)

// RankDependencies defines the interface for rank operations.
type RankDependencies interface {
	Rank(ctx context.Context, ups []params.UserParameter, limit int) ([]Entry, error)
}

// RankHandler ranks schools for a share string.
type RankHandler struct {
	decoder      ConfigurationDependencies
	deps         RankDependencies
	defaultLimit int
	maxLimit     int
}

// NewRankHandler creates a new rank handler.
func NewRankHandler(decoder ConfigurationDependencies, deps RankDependencies, defaultLimit, maxLimit int) *RankHandler {
	return &RankHandler{
		decoder:      decoder,
		deps:         deps,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

type rankResponse struct {
	Parameters []params.UserParameter `json:"parameters"`
	Entries    []Entry                `json:"entries"`
}

// HandleRank handles GET /rank?params=...&limit=N requests. A malformed
// share string ranks with no parameters, like an empty one.
func (h *RankHandler) HandleRank(w http.ResponseWriter, r *http.Request) {
	const op = "api.rank"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	n, err := parseLimit(r, h.defaultLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrLimitExceeded))
		return
	}

	ups := h.decoder.Decode(r.Context(), r.URL.Query().Get("params"))
	entries, err := h.deps.Rank(r.Context(), ups, n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rankResponse{Parameters: ups, Entries: entries})
}
