package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labelforge/labelforge/internal/report"
	"github.com/labelforge/labelforge/internal/server"
	"github.com/labelforge/labelforge/internal/storage"
	"github.com/labelforge/labelforge/internal/telemetry"
	"github.com/labelforge/labelforge/internal/uploads"
	"github.com/labelforge/labelforge/ui"
)

// runServe wires up all dependencies and runs the HTTP server until the
// context is canceled.
func runServe(ctx context.Context, logger *slog.Logger) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger.Info("labelforge starting", "version", version, "port", cfg.Port)

	// Initialize OpenTelemetry.
	otelShutdown, err := telemetry.Init(ctx, cfg.OTELEndpoint, cfg.ServiceName, version, cfg.OTELInsecure)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() { _ = otelShutdown(context.Background()) }()

	// Open the embedded database.
	store, err := storage.Open(cfg.DatabasePath(), logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	// Upload store.
	uploadStore, err := uploads.New(cfg.UploadsDir)
	if err != nil {
		return err
	}

	// Report pipeline.
	reportSvc := report.NewService(report.ServiceConfig{
		Store:   store,
		Uploads: uploadStore,
		Compiler: &report.LaTeXCompiler{
			Bin:         cfg.LaTeXBin,
			PassTimeout: cfg.CompileTimeout,
			Logger:      logger,
		},
		WorkDir: cfg.WorkDir,
		Logger:  logger,
	})

	// Embedded admin UI (only present when built with -tags ui).
	uiFS, err := ui.DistFS()
	if err != nil {
		return fmt.Errorf("ui: %w", err)
	}

	srv := server.New(server.ServerConfig{
		Store:               store,
		Uploads:             uploadStore,
		ReportSvc:           reportSvc,
		Logger:              logger,
		Port:                cfg.Port,
		ReadTimeout:         cfg.ReadTimeout,
		WriteTimeout:        cfg.WriteTimeout,
		Version:             version,
		MaxRequestBodyBytes: cfg.MaxRequestBodyBytes,
		MaxUploadBytes:      cfg.MaxUploadBytes,
		UIFS:                uiFS,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("labelforge stopped")
	return nil
}
