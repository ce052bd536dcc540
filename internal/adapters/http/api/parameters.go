package api

import (
	"net/http"

	"github.com/okian/mcr/internal/domain/params"
)

// ParametersDependencies exposes the parameter catalog.
type ParametersDependencies interface {
	Parameters() []params.Parameter
}

// ParametersHandler lists the catalog.
type ParametersHandler struct {
	deps ParametersDependencies
}

// NewParametersHandler creates a new parameters handler.
func NewParametersHandler(deps ParametersDependencies) *ParametersHandler {
	return &ParametersHandler{deps: deps}
}

// HandleList handles GET /parameters requests.
func (h *ParametersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Parameters())
}
