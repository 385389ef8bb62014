package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
)

// MetricsHandler handles metrics requests
type MetricsHandler struct {
	logger *slog.Logger

	// Atomic counters for thread-safe increments
	totalRequests     atomic.Uint64
	credentialSaves   atomic.Uint64
	credentialReads   atomic.Uint64
	credentialDeletes atomic.Uint64
	providerLists     atomic.Uint64
	authFailures      atomic.Uint64
	rateLimitExceeded atomic.Uint64
	validationErrors  atomic.Uint64
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(logger *slog.Logger) *MetricsHandler {
	return &MetricsHandler{
		logger: logger,
	}
}

// MetricsResponse represents the metrics response
type MetricsResponse struct {
	Total    uint64            `json:"total_requests"`
	ByType   map[string]uint64 `json:"by_type"`
	ByStatus map[string]uint64 `json:"by_status"`
}

// GetMetrics handles GET /api/v1/metrics
func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	response := MetricsResponse{
		Total: h.totalRequests.Load(),
		ByType: map[string]uint64{
			"credential_saves":   h.credentialSaves.Load(),
			"credential_reads":   h.credentialReads.Load(),
			"credential_deletes": h.credentialDeletes.Load(),
			"provider_lists":     h.providerLists.Load(),
		},
		ByStatus: map[string]uint64{
			"auth_failures":       h.authFailures.Load(),
			"rate_limit_exceeded": h.rateLimitExceeded.Load(),
			"validation_errors":   h.validationErrors.Load(),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// Request counter methods

func (h *MetricsHandler) IncrementTotalRequests() {
	h.totalRequests.Add(1)
}

func (h *MetricsHandler) IncrementSaves() {
	h.credentialSaves.Add(1)
}

func (h *MetricsHandler) IncrementReads() {
	h.credentialReads.Add(1)
}

func (h *MetricsHandler) IncrementDeletes() {
	h.credentialDeletes.Add(1)
}

func (h *MetricsHandler) IncrementProviderLists() {
	h.providerLists.Add(1)
}

func (h *MetricsHandler) IncrementAuthFailures() {
	h.authFailures.Add(1)
}

func (h *MetricsHandler) IncrementRateLimitExceeded() {
	h.rateLimitExceeded.Add(1)
}

func (h *MetricsHandler) IncrementValidationErrors() {
	h.validationErrors.Add(1)
}
