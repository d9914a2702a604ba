package server

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/labelforge/labelforge/internal/model"
	"github.com/labelforge/labelforge/internal/storage"
)

type categoryRequest struct {
	Name string `json:"name"`
}

// HandleListCategories handles GET /api/categories.
func (h *Handlers) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("list categories failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to list categories")
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	writeJSON(w, r, http.StatusOK, categories)
}

// HandleGetCategory handles GET /api/categories/{id}.
func (h *Handlers) HandleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.categoryID(w, r)
	if !ok {
		return
	}
	category, err := h.store.GetCategory(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, model.ErrCodeNotFound, "category not found")
		return
	}
	if err != nil {
		h.logger.Error("get category failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to load category")
		return
	}
	writeJSON(w, r, http.StatusOK, category)
}

// HandleCreateCategory handles POST /api/categories.
func (h *Handlers) HandleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req, h.maxRequestBodyBytes); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "invalid request body")
		return
	}
	if err := model.ValidateCategoryName(req.Name); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, err.Error())
		return
	}

	category, err := h.store.CreateCategory(r.Context(), req.Name)
	if errors.Is(err, storage.ErrDuplicateName) {
		writeError(w, r, http.StatusConflict, model.ErrCodeConflict, "a category with that name already exists")
		return
	}
	if err != nil {
		h.logger.Error("create category failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to create category")
		return
	}
	writeJSON(w, r, http.StatusCreated, category)
}

// HandleRenameCategory handles PUT /api/categories/{id}.
func (h *Handlers) HandleRenameCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.categoryID(w, r)
	if !ok {
		return
	}
	var req categoryRequest
	if err := decodeJSON(w, r, &req, h.maxRequestBodyBytes); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "invalid request body")
		return
	}
	if err := model.ValidateCategoryName(req.Name); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, err.Error())
		return
	}

	category, err := h.store.RenameCategory(r.Context(), id, req.Name)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, r, http.StatusNotFound, model.ErrCodeNotFound, "category not found")
	case errors.Is(err, storage.ErrDuplicateName):
		writeError(w, r, http.StatusConflict, model.ErrCodeConflict, "a category with that name already exists")
	case err != nil:
		h.logger.Error("rename category failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to rename category")
	default:
		writeJSON(w, r, http.StatusOK, category)
	}
}

// HandleDeleteCategory handles DELETE /api/categories/{id}. Deleting a
// category also removes its classifications.
func (h *Handlers) HandleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.categoryID(w, r)
	if !ok {
		return
	}
	err := h.store.DeleteCategory(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, model.ErrCodeNotFound, "category not found")
		return
	}
	if err != nil {
		h.logger.Error("delete category failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to delete category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) categoryID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "invalid category id")
		return uuid.UUID{}, false
	}
	return id, true
}
