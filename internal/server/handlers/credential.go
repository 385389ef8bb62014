package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plughost/credhub/internal/apierrors"
	"github.com/plughost/credhub/internal/models"
	"github.com/plughost/credhub/internal/registry"
)

// CredentialHandler handles namespaced credential operations
type CredentialHandler struct {
	registry *registry.Registry
	metrics  *MetricsHandler
	logger   *slog.Logger
}

// NewCredentialHandler creates a new credential handler
func NewCredentialHandler(reg *registry.Registry, metrics *MetricsHandler, logger *slog.Logger) *CredentialHandler {
	return &CredentialHandler{
		registry: reg,
		metrics:  metrics,
		logger:   logger,
	}
}

// SaveCredentialRequest is the body for PUT credential requests
type SaveCredentialRequest struct {
	Secret string `json:"password"`
}

// SaveCredentialResponse confirms a stored credential without echoing
// the secret back
type SaveCredentialResponse struct {
	CredentialID string `json:"credential_id"`
}

// resolveStore resolves the namespaced store for a request, writing the
// error response itself when resolution fails.
func (h *CredentialHandler) resolveStore(w http.ResponseWriter, r *http.Request) (*registry.NamespacedStore, bool) {
	namespace := chi.URLParam(r, "namespace")

	store, err := h.registry.Store(namespace)
	if err != nil {
		h.metrics.IncrementValidationErrors()
		h.logger.Warn("Namespaced store resolution failed",
			"namespace", namespace,
			"error", err,
			"remote_addr", r.RemoteAddr)
		code, msg, status := apierrors.MapError(err)
		apierrors.WriteError(w, code, msg, status, nil)
		return nil, false
	}
	return store, true
}

// SaveCredential handles PUT /api/v1/namespace/{namespace}/credential/{id}
func (h *CredentialHandler) SaveCredential(w http.ResponseWriter, r *http.Request) {
	h.metrics.IncrementSaves()

	store, ok := h.resolveStore(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var req SaveCredentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.metrics.IncrementValidationErrors()
		h.logger.Warn("Failed to decode save credential request",
			"namespace", store.Namespace(),
			"error", err,
			"remote_addr", r.RemoteAddr)
		apierrors.WriteError(w, apierrors.ErrCodeValidationError, "Invalid JSON in request body", http.StatusBadRequest, nil)
		return
	}

	cred, err := store.Save(r.Context(), id, req.Secret)
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			h.metrics.IncrementValidationErrors()
			apierrors.WriteError(w, apierrors.ErrCodeValidationError, verr.Error(), http.StatusBadRequest, nil)
			return
		}

		h.logger.Error("Failed to save credential",
			"namespace", store.Namespace(),
			"error", err)
		code, msg, status := apierrors.MapError(err)
		apierrors.WriteError(w, code, msg, status, nil)
		return
	}

	h.logger.Info("Credential saved",
		"namespace", store.Namespace(),
		"remote_addr", r.RemoteAddr)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(SaveCredentialResponse{CredentialID: cred.ID})
}

// ReadCredential handles GET /api/v1/namespace/{namespace}/credential/{id}
func (h *CredentialHandler) ReadCredential(w http.ResponseWriter, r *http.Request) {
	h.metrics.IncrementReads()

	store, ok := h.resolveStore(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	cred, err := store.Read(r.Context(), id)
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			h.metrics.IncrementValidationErrors()
			apierrors.WriteError(w, apierrors.ErrCodeValidationError, verr.Error(), http.StatusBadRequest, nil)
			return
		}

		code, msg, status := apierrors.MapError(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("Failed to read credential",
				"namespace", store.Namespace(),
				"error", err)
		}
		apierrors.WriteError(w, code, msg, status, nil)
		return
	}

	h.logger.Debug("Credential retrieved",
		"namespace", store.Namespace())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(cred)
}

// DeleteCredential handles DELETE /api/v1/namespace/{namespace}/credential/{id}.
// Deleting an absent credential still returns 204.
func (h *CredentialHandler) DeleteCredential(w http.ResponseWriter, r *http.Request) {
	h.metrics.IncrementDeletes()

	store, ok := h.resolveStore(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	if err := store.Delete(r.Context(), id); err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			h.metrics.IncrementValidationErrors()
			apierrors.WriteError(w, apierrors.ErrCodeValidationError, verr.Error(), http.StatusBadRequest, nil)
			return
		}

		h.logger.Error("Failed to delete credential",
			"namespace", store.Namespace(),
			"error", err)
		code, msg, status := apierrors.MapError(err)
		apierrors.WriteError(w, code, msg, status, nil)
		return
	}

	h.logger.Info("Credential deleted",
		"namespace", store.Namespace(),
		"remote_addr", r.RemoteAddr)

	w.WriteHeader(http.StatusNoContent)
}
