package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labelforge/labelforge/internal/model"
	"github.com/labelforge/labelforge/internal/report"
)

// generateReportRequest is the wire shape of a report request.
// SamplesPerCategory is a pointer so an omitted field can default to 3
// while an explicit 0 still means "no sample images".
type generateReportRequest struct {
	Title              string `json:"title"`
	SamplesPerCategory *int   `json:"samples_per_category"`
}

// normalizeReportRequest applies defaults and validates bounds before the
// report pipeline runs.
func (h *Handlers) normalizeReportRequest(w http.ResponseWriter, r *http.Request) (model.ReportRequest, bool) {
	req := generateReportRequest{}
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req, h.maxRequestBodyBytes); err != nil {
			writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "invalid request body")
			return model.ReportRequest{}, false
		}
	}

	normalized := model.ReportRequest{
		Title:              strings.TrimSpace(req.Title),
		SamplesPerCategory: model.DefaultSamplesPerCategory,
	}
	if normalized.Title == "" {
		normalized.Title = model.DefaultReportTitle
	}
	if req.SamplesPerCategory != nil {
		normalized.SamplesPerCategory = *req.SamplesPerCategory
	}
	if err := normalized.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, err.Error())
		return model.ReportRequest{}, false
	}
	return normalized, true
}

// HandleGenerateTex handles POST /api/reports/generate-tex, returning the
// LaTeX source without compiling it.
func (h *Handlers) HandleGenerateTex(w http.ResponseWriter, r *http.Request) {
	req, ok := h.normalizeReportRequest(w, r)
	if !ok {
		return
	}

	document, err := h.reportSvc.GenerateDocument(r.Context(), req)
	if err != nil {
		h.logger.Error("generate tex failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to generate report document")
		return
	}

	w.Header().Set("Content-Type", "application/x-latex; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(document))
}

// HandleGeneratePDF handles POST /api/reports/generate-pdf, returning the
// compiled report as a PDF attachment.
func (h *Handlers) HandleGeneratePDF(w http.ResponseWriter, r *http.Request) {
	req, ok := h.normalizeReportRequest(w, r)
	if !ok {
		return
	}
	h.logger.Info("generating pdf report",
		"title", req.Title, "samples_per_category", req.SamplesPerCategory)

	artifact, err := h.reportSvc.GenerateArtifact(r.Context(), req)
	if err != nil {
		h.writeReportError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, artifact.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifact.Bytes)
}

// writeReportError maps report pipeline failures onto the error envelope.
func (h *Handlers) writeReportError(w http.ResponseWriter, r *http.Request, err error) {
	var compileErr *report.CompileError
	switch {
	case errors.Is(err, report.ErrCompilerNotFound):
		h.logger.Error("pdf generation failed: compiler unavailable", "error", err)
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeCompilerUnavailable,
			"PDF generation is unavailable: ensure the document compiler (pdflatex) is installed and reachable")
	case errors.As(err, &compileErr):
		h.logger.Error("pdf generation failed",
			"reason", compileErr.Reason,
			"exit_code", compileErr.ExitCode,
			"stderr", compileErr.Stderr)
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeCompileFailed,
			fmt.Sprintf("report compilation failed (%s)", compileErr.Reason))
	default:
		h.logger.Error("pdf generation failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError,
			"an unexpected error occurred while generating the report")
	}
}
