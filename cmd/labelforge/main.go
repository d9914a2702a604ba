// Package main provides the labelforge CLI entrypoint.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/labelforge/labelforge/internal/config"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "labelforge",
		Short:         "Image labeling service with PDF report generation",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runServeCmd,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the labelforge HTTP server",
		RunE:  runServeCmd,
	}

	reportCmd := newReportCmd()

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the labelforge version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}

	rootCmd.AddCommand(serveCmd, reportCmd, versionCmd)
	return rootCmd
}

func runServeCmd(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := runServe(ctx, logger); err != nil {
		logger.Error("fatal error", "error", err)
		return err
	}
	return nil
}

// newLogger builds the process-wide JSON logger. Level comes straight from
// the environment so it applies before config loading.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("LABELFORGE_LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}

// loadConfig loads .env (best-effort) and the environment configuration.
func loadConfig() (config.Config, error) {
	// Load .env file if present (non-fatal; production won't have one).
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
