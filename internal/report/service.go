package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/labelforge/labelforge/internal/model"
)

// DataStore supplies the label data a report aggregates over.
// *storage.Store satisfies it.
type DataStore interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	ListClassifications(ctx context.Context) ([]model.Classification, error)
}

// UploadStore supplies the shared image inventory. *uploads.Store satisfies it.
type UploadStore interface {
	List() ([]string, error)
	Open(name string) (io.ReadCloser, error)
}

// Artifact is a fully buffered compiled report.
type Artifact struct {
	Bytes       []byte
	Filename    string
	ContentType string
}

// Service runs the report pipeline end to end. Each GenerateArtifact call is
// fully isolated in its own workspace; concurrent calls share only the
// read-only stores.
type Service struct {
	store    DataStore
	uploads  UploadStore
	compiler Compiler
	workDir  string
	logger   *slog.Logger
}

// ServiceConfig holds the dependencies for a Service. WorkDir may be empty;
// workspaces then live under the system temp dir.
type ServiceConfig struct {
	Store    DataStore
	Uploads  UploadStore
	Compiler Compiler
	WorkDir  string
	Logger   *slog.Logger
}

// NewService creates a report Service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		store:    cfg.Store,
		uploads:  cfg.Uploads,
		compiler: cfg.Compiler,
		workDir:  cfg.WorkDir,
		logger:   cfg.Logger,
	}
}

// buildData aggregates current store contents into report data.
func (s *Service) buildData(ctx context.Context, req model.ReportRequest) (Data, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return Data{}, fmt.Errorf("report: load categories: %w", err)
	}
	classifications, err := s.store.ListClassifications(ctx)
	if err != nil {
		return Data{}, fmt.Errorf("report: load classifications: %w", err)
	}
	uploaded, err := s.uploads.List()
	if err != nil {
		return Data{}, fmt.Errorf("report: list uploads: %w", err)
	}
	return PrepareData(req, categories, classifications, uploaded), nil
}

// GenerateDocument produces the LaTeX source for a report. It performs no
// compilation, so it cannot fail for compiler reasons.
func (s *Service) GenerateDocument(ctx context.Context, req model.ReportRequest) (string, error) {
	data, err := s.buildData(ctx, req)
	if err != nil {
		return "", err
	}
	return RenderDocument(data), nil
}

// GenerateArtifact produces a compiled PDF report, fully buffered in memory.
// The workspace is deleted best-effort once the artifact has been captured.
func (s *Service) GenerateArtifact(ctx context.Context, req model.ReportRequest) (Artifact, error) {
	data, err := s.buildData(ctx, req)
	if err != nil {
		return Artifact{}, err
	}
	document := RenderDocument(data)

	ws, err := NewWorkspace(s.workDir)
	if err != nil {
		return Artifact{}, err
	}
	s.logger.Info("report workspace created", "root", ws.Root)

	if err := os.WriteFile(ws.SourceFile, []byte(document), 0o644); err != nil {
		s.cleanup(ws)
		return Artifact{}, fmt.Errorf("report: write source: %w", err)
	}

	if assets := data.RequiredAssets(); len(assets) > 0 {
		staged := s.stageAssets(ws, assets)
		copied := 0
		for _, r := range staged {
			if r.Copied {
				copied++
			}
		}
		s.logger.Info("report assets staged", "requested", len(staged), "copied", copied)
	}

	if err := s.compiler.Compile(ctx, ws); err != nil {
		s.cleanup(ws)
		return Artifact{}, err
	}

	artifact, err := s.deliver(ws)
	if err != nil {
		s.cleanup(ws)
		return Artifact{}, err
	}
	return artifact, nil
}

// deliver buffers the compiled artifact into memory, then reclaims the
// workspace. Deletion failure is a warning: the bytes are already safe.
func (s *Service) deliver(ws Workspace) (Artifact, error) {
	f, err := os.Open(ws.OutputFile)
	if err != nil {
		return Artifact{}, fmt.Errorf("report: open artifact: %w", err)
	}
	data, err := io.ReadAll(f)
	_ = f.Close()
	if err != nil {
		return Artifact{}, fmt.Errorf("report: read artifact: %w", err)
	}

	s.cleanup(ws)

	return Artifact{
		Bytes:       data,
		Filename:    "Report_" + time.Now().UTC().Format("20060102150405") + ".pdf",
		ContentType: "application/pdf",
	}, nil
}

func (s *Service) cleanup(ws Workspace) {
	if err := ws.Remove(); err != nil {
		s.logger.Warn("report workspace cleanup failed", "root", ws.Root, "error", err)
	}
}
