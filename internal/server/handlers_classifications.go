package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/labelforge/labelforge/internal/model"
	"github.com/labelforge/labelforge/internal/storage"
)

type classifyRequest struct {
	ImageIdentifier string    `json:"image_identifier"`
	CategoryID      uuid.UUID `json:"category_id"`
}

// HandleListClassifications handles GET /api/classifications.
func (h *Handlers) HandleListClassifications(w http.ResponseWriter, r *http.Request) {
	classifications, err := h.store.ListClassifications(r.Context())
	if err != nil {
		h.logger.Error("list classifications failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to list classifications")
		return
	}
	if classifications == nil {
		classifications = []model.Classification{}
	}
	writeJSON(w, r, http.StatusOK, classifications)
}

// HandleGetClassification handles GET /api/classifications/{image}.
func (h *Handlers) HandleGetClassification(w http.ResponseWriter, r *http.Request) {
	image := r.PathValue("image")
	classification, err := h.store.GetClassification(r.Context(), image)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, model.ErrCodeNotFound, "image is not classified")
		return
	}
	if err != nil {
		h.logger.Error("get classification failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to load classification")
		return
	}
	writeJSON(w, r, http.StatusOK, classification)
}

// HandleClassify handles POST /api/classifications. Classifying an already
// classified image replaces its category (upsert).
func (h *Handlers) HandleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := decodeJSON(w, r, &req, h.maxRequestBodyBytes); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "invalid request body")
		return
	}
	if strings.TrimSpace(req.ImageIdentifier) == "" {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "image_identifier is required")
		return
	}
	if req.CategoryID == (uuid.UUID{}) {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "category_id is required")
		return
	}

	classification, err := h.store.UpsertClassification(r.Context(), req.ImageIdentifier, req.CategoryID)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "category does not exist")
		return
	}
	if err != nil {
		h.logger.Error("classify failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to save classification")
		return
	}
	writeJSON(w, r, http.StatusOK, classification)
}
