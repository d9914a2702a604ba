package server

import (
	"net/http"
	"os"

	"github.com/labelforge/labelforge/internal/model"
)

type uploadedFile struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// HandleListImages handles GET /api/images.
func (h *Handlers) HandleListImages(w http.ResponseWriter, r *http.Request) {
	names, err := h.uploads.List()
	if err != nil {
		h.logger.Error("list images failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to list images")
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, r, http.StatusOK, names)
}

// HandleUploadImages handles POST /api/images/upload (multipart form,
// field name "files"). Each stored file gets a unique name; the response
// reports the stored names the client must use from then on.
func (h *Handlers) HandleUploadImages(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}
	// Large uploads spill to disk past 8 MB of memory.
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "invalid multipart form or upload too large")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "no files uploaded")
		return
	}

	stored := make([]uploadedFile, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			h.logger.Error("open uploaded file failed", "filename", fh.Filename, "error", err)
			writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to read uploaded file")
			return
		}
		name, err := h.uploads.Save(fh.Filename, f)
		_ = f.Close()
		if err != nil {
			h.logger.Error("store uploaded file failed", "filename", fh.Filename, "error", err)
			writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "failed to store uploaded file")
			return
		}
		stored = append(stored, uploadedFile{Filename: name, Size: fh.Size})
	}

	h.logger.Info("images uploaded", "count", len(stored))
	writeJSON(w, r, http.StatusCreated, stored)
}

// HandleServeImage handles GET /uploads/{name}, serving original images for
// the admin UI thumbnails.
func (h *Handlers) HandleServeImage(w http.ResponseWriter, r *http.Request) {
	path, err := h.uploads.Path(r.PathValue("name"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "invalid filename")
		return
	}
	// Check existence first so missing images get the standard JSON error
	// instead of ServeFile's plain-text 404.
	if _, err := os.Stat(path); err != nil {
		writeError(w, r, http.StatusNotFound, model.ErrCodeNotFound, "image not found")
		return
	}
	http.ServeFile(w, r, path)
}
