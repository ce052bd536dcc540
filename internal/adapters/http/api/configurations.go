package api

import (
	"context"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/okian/mcr/internal/domain/params"
)

// Request bodies are small; anything larger is rejected.
const maxBodyBytes = 1 << 16

// ConfigurationDependencies converts between configurations and share strings.
type ConfigurationDependencies interface {
	Encode(ups []params.UserParameter) (string, error)
	// Decode never fails: malformed input yields an empty configuration.
	Decode(ctx context.Context, hash string) []params.UserParameter
}

// ConfigurationHandler handles share string requests.
type ConfigurationHandler struct {
	deps ConfigurationDependencies
}

// NewConfigurationHandler creates a new configuration handler.
func NewConfigurationHandler(deps ConfigurationDependencies) *ConfigurationHandler {
	return &ConfigurationHandler{deps: deps}
}

type encodeResponse struct {
	Params string `json:"params"`
}

// HandleEncode handles POST /configurations/encode requests.
func (h *ConfigurationHandler) HandleEncode(w http.ResponseWriter, r *http.Request) {
	const op = "api.encode_configuration"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var ups []params.UserParameter
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&ups); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	hash, err := h.deps.Encode(ups)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_configuration", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, encodeResponse{Params: hash})
}

// HandleDecode handles GET /configurations/decode?params=... requests.
func (h *ConfigurationHandler) HandleDecode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Decode(r.Context(), r.URL.Query().Get("params")))
}
