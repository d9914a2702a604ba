package server

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/labelforge/labelforge/internal/report"
	"github.com/labelforge/labelforge/internal/storage"
	"github.com/labelforge/labelforge/internal/uploads"
)

// Server is the labelforge HTTP server.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	logger     *slog.Logger
}

// Handler returns the root HTTP handler for use in tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ServerConfig holds all dependencies and configuration for creating a Server.
type ServerConfig struct {
	// Required dependencies.
	Store     *storage.Store
	Uploads   *uploads.Store
	ReportSvc *report.Service
	Logger    *slog.Logger

	// HTTP server settings.
	Port                int
	ReadTimeout         time.Duration
	WriteTimeout        time.Duration
	Version             string
	MaxRequestBodyBytes int64
	MaxUploadBytes      int64

	// Optional embedded admin UI (SPA).
	UIFS fs.FS
}

// New creates a new HTTP server with all routes configured.
func New(cfg ServerConfig) *Server {
	h := NewHandlers(HandlersDeps{
		Store:               cfg.Store,
		Uploads:             cfg.Uploads,
		ReportSvc:           cfg.ReportSvc,
		Logger:              cfg.Logger,
		Version:             cfg.Version,
		MaxRequestBodyBytes: cfg.MaxRequestBodyBytes,
		MaxUploadBytes:      cfg.MaxUploadBytes,
	})

	mux := http.NewServeMux()

	// Categories.
	mux.HandleFunc("GET /api/categories", h.HandleListCategories)
	mux.HandleFunc("POST /api/categories", h.HandleCreateCategory)
	mux.HandleFunc("GET /api/categories/{id}", h.HandleGetCategory)
	mux.HandleFunc("PUT /api/categories/{id}", h.HandleRenameCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", h.HandleDeleteCategory)

	// Classifications.
	mux.HandleFunc("GET /api/classifications", h.HandleListClassifications)
	mux.HandleFunc("POST /api/classifications", h.HandleClassify)
	mux.HandleFunc("GET /api/classifications/{image}", h.HandleGetClassification)

	// Images.
	mux.HandleFunc("GET /api/images", h.HandleListImages)
	mux.HandleFunc("POST /api/images/upload", h.HandleUploadImages)
	mux.HandleFunc("GET /uploads/{name}", h.HandleServeImage)

	// Reports.
	mux.HandleFunc("POST /api/reports/generate-tex", h.HandleGenerateTex)
	mux.HandleFunc("POST /api/reports/generate-pdf", h.HandleGeneratePDF)

	// Health (no envelope dependencies beyond the store ping).
	mux.HandleFunc("GET /health", h.HandleHealth)

	// SPA: serve the embedded admin UI at the root path. Registered last so
	// all API routes take priority via the mux's longest-match rule.
	if cfg.UIFS != nil {
		mux.Handle("/", newSPAHandler(cfg.UIFS))
		cfg.Logger.Info("ui enabled, serving SPA at /")
	}

	// Middleware chain (outermost executes first):
	// request ID → security headers → CORS → tracing → logging → recovery → handler.
	var handler http.Handler = mux
	handler = recoveryMiddleware(cfg.Logger, handler)
	handler = loggingMiddleware(cfg.Logger, handler)
	handler = tracingMiddleware(handler)
	handler = corsMiddleware(handler)
	handler = securityHeadersMiddleware(handler)
	handler = requestIDMiddleware(handler)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		handler: handler,
		logger:  cfg.Logger,
	}
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}
