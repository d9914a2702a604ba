package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/labelforge/labelforge/internal/model"
	"github.com/labelforge/labelforge/internal/report"
	"github.com/labelforge/labelforge/internal/storage"
	"github.com/labelforge/labelforge/internal/uploads"
)

var (
	reportTitle   string
	reportSamples int
	reportOutput  string
	reportTexOnly bool
)

// newReportCmd builds the one-shot report command: generate a report from
// the current data directly to a local file, without running the server.
func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a classification report to a local file",
		RunE:  runReportCmd,
	}
	cmd.Flags().StringVar(&reportTitle, "title", model.DefaultReportTitle, "report title")
	cmd.Flags().IntVar(&reportSamples, "samples", model.DefaultSamplesPerCategory, "sample images per category (0-25)")
	cmd.Flags().StringVarP(&reportOutput, "output", "o", "", "output file (default Report_<timestamp>.pdf in the current directory)")
	cmd.Flags().BoolVar(&reportTexOnly, "tex", false, "write the LaTeX source instead of compiling a PDF")
	return cmd
}

func runReportCmd(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	req := model.ReportRequest{Title: reportTitle, SamplesPerCategory: reportSamples}
	if err := req.Validate(); err != nil {
		return err
	}

	store, err := storage.Open(cfg.DatabasePath(), logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	uploadStore, err := uploads.New(cfg.UploadsDir)
	if err != nil {
		return err
	}

	svc := report.NewService(report.ServiceConfig{
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

	if reportTexOnly {
		document, err := svc.GenerateDocument(ctx, req)
		if err != nil {
			return err
		}
		out := reportOutput
		if out == "" {
			out = "report.tex"
		}
		if err := os.WriteFile(out, []byte(document), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		fmt.Println(out)
		return nil
	}

	artifact, err := svc.GenerateArtifact(ctx, req)
	if err != nil {
		return err
	}
	out := reportOutput
	if out == "" {
		out = artifact.Filename
	}
	if err := os.WriteFile(out, artifact.Bytes, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Println(filepath.Clean(out))
	return nil
}
