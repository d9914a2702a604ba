package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labelforge/labelforge/internal/report"
	"github.com/labelforge/labelforge/internal/storage"
	"github.com/labelforge/labelforge/internal/uploads"
)

// Handlers holds HTTP handler dependencies.
type Handlers struct {
	store               *storage.Store
	uploads             *uploads.Store
	reportSvc           *report.Service
	logger              *slog.Logger
	startedAt           time.Time
	version             string
	maxRequestBodyBytes int64
	maxUploadBytes      int64
}

// HandlersDeps holds all dependencies for constructing Handlers.
type HandlersDeps struct {
	Store               *storage.Store
	Uploads             *uploads.Store
	ReportSvc           *report.Service
	Logger              *slog.Logger
	Version             string
	MaxRequestBodyBytes int64
	MaxUploadBytes      int64
}

// NewHandlers creates a new Handlers with all dependencies.
func NewHandlers(d HandlersDeps) *Handlers {
	return &Handlers{
		store:               d.Store,
		uploads:             d.Uploads,
		reportSvc:           d.ReportSvc,
		logger:              d.Logger,
		startedAt:           time.Now(),
		version:             d.Version,
		maxRequestBodyBytes: d.MaxRequestBodyBytes,
		maxUploadBytes:      d.MaxUploadBytes,
	}
}

// HandleHealth handles GET /health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	dbStatus := "connected"
	status := "healthy"
	httpStatus := http.StatusOK

	if err := h.store.Ping(r.Context()); err != nil {
		dbStatus = "disconnected"
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, r, httpStatus, map[string]any{
		"status":         status,
		"database":       dbStatus,
		"version":        h.version,
		"uptime_seconds": int(time.Since(h.startedAt).Seconds()),
	})
}
