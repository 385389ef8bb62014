package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/plughost/credhub/internal/registry"
)

// ProviderHandler handles provider listing requests
type ProviderHandler struct {
	registry *registry.Registry
	metrics  *MetricsHandler
	logger   *slog.Logger
}

// NewProviderHandler creates a new provider handler
func NewProviderHandler(reg *registry.Registry, metrics *MetricsHandler, logger *slog.Logger) *ProviderHandler {
	return &ProviderHandler{
		registry: reg,
		metrics:  metrics,
		logger:   logger,
	}
}

// ProviderListResponse represents the provider listing response
type ProviderListResponse struct {
	Providers []string `json:"providers"`
	Count     int      `json:"count"`
}

// ListProviders handles GET /api/v1/provider
func (h *ProviderHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	h.metrics.IncrementProviderLists()

	response := ProviderListResponse{
		Providers: h.registry.Names(),
		Count:     h.registry.Count(),
	}

	h.logger.Debug("Providers listed", "count", response.Count)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// HandleOptions handles OPTIONS /api/v1/provider for CORS preflight
func (h *ProviderHandler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
