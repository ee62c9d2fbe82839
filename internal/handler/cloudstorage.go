package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/polarisfn/Polaris_Go/internal/cloudstorage"
	"github.com/polarisfn/Polaris_Go/internal/domain"
	"github.com/polarisfn/Polaris_Go/internal/logger"
)

// Uploads above the storage cap are rejected before buffering completes.
const maxUploadBytes = cloudstorage.MaxSettingsSize + 1

// CloudStorageHandler serves hotfix files and per-account client settings
type CloudStorageHandler struct {
	storage cloudstorage.Service
}

// NewCloudStorageHandler creates a new CloudStorageHandler
func NewCloudStorageHandler(storage cloudstorage.Service) *CloudStorageHandler {
	return &CloudStorageHandler{storage: storage}
}

// ListSystemFiles handles GET /api/cloudstorage/system
func (h *CloudStorageHandler) ListSystemFiles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	files, err := h.storage.ListSystemFiles(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to list system storage", "error", err)
		respondError(w, http.StatusInternalServerError, ErrMsgInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, files)
}

// GetSystemFile handles GET /api/cloudstorage/system/{filename}
func (h *CloudStorageHandler) GetSystemFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	data, err := h.storage.ReadSystemFile(ctx, chi.URLParam(r, "filename"))
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			respondError(w, http.StatusNotFound, ErrMsgFileNotFound)
			return
		}
		status, message := mapServiceErrorToResponse(err)
		if status >= http.StatusInternalServerError {
			logger.FromContext(ctx).Error("Failed to read system file", "error", err)
		}
		respondError(w, status, message)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ListUserFiles handles GET /api/cloudstorage/user/{accountId}
func (h *CloudStorageHandler) ListUserFiles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	files, err := h.storage.ListUserFiles(ctx, chi.URLParam(r, "accountId"))
	if err != nil {
		status, message := mapServiceErrorToResponse(err)
		if status >= http.StatusInternalServerError {
			logger.FromContext(ctx).Error("Failed to list user storage", "error", err)
		}
		respondError(w, status, message)
		return
	}

	respondJSON(w, http.StatusOK, files)
}

// GetUserFile handles GET /api/cloudstorage/user/{accountId}/{filename}
func (h *CloudStorageHandler) GetUserFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	data, err := h.storage.ReadUserFile(ctx, chi.URLParam(r, "accountId"), chi.URLParam(r, "filename"))
	if err != nil {
		// No settings stored (or an unrecognized filename) is empty, not an
		// error: the client expects 204 and keeps its local defaults.
		if errors.Is(err, domain.ErrItemNotFound) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		status, message := mapServiceErrorToResponse(err)
		if status >= http.StatusInternalServerError {
			logger.FromContext(ctx).Error("Failed to read user file", "error", err)
		}
		respondError(w, status, message)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// PutUserFile handles PUT /api/cloudstorage/user/{accountId}/{filename}
func (h *CloudStorageHandler) PutUserFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	data, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestError)
		return
	}

	err = h.storage.WriteUserFile(ctx, chi.URLParam(r, "accountId"), chi.URLParam(r, "filename"), data)
	if err != nil {
		status, message := mapServiceErrorToResponse(err)
		if status >= http.StatusInternalServerError {
			logger.FromContext(ctx).Error("Failed to store user file", "error", err)
		}
		respondError(w, status, message)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
