package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/plughost/credhub/internal/provider"
	"github.com/plughost/credhub/internal/registry"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	registry *registry.Registry
	logger   *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(reg *registry.Registry, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		registry: reg,
		logger:   logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
}

// CheckResult represents a single health check result
type CheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// GetHealth handles GET /api/v1/health
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status: "healthy",
		Checks: make(map[string]CheckResult),
	}

	if h.registry.Count() == 0 {
		response.Checks["registry"] = CheckResult{
			Status:  "unhealthy",
			Message: "no credential providers registered",
		}
		response.Status = "unhealthy"

		h.logger.Error("Health check failed: no providers registered")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(response)
		return
	}

	response.Checks["registry"] = CheckResult{
		Status:  "healthy",
		Message: fmt.Sprintf("%d provider(s) registered", h.registry.Count()),
	}

	// Probe provider connectivity where the backend can enumerate keys
	for _, name := range h.registry.Names() {
		p, err := h.registry.Provider(name)
		if err != nil {
			continue
		}
		lister, ok := p.(provider.Lister)
		if !ok {
			continue
		}
		if _, err := lister.Keys(r.Context()); err != nil {
			response.Checks["provider:"+name] = CheckResult{
				Status:  "unhealthy",
				Message: err.Error(),
			}
			response.Status = "unhealthy"

			h.logger.Error("Health check failed: provider unhealthy",
				"provider", name,
				"error", err)

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(response)
			return
		}
		response.Checks["provider:"+name] = CheckResult{Status: "healthy"}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
