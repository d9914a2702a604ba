// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Server settings.
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Data locations.
	DataDir    string // SQLite database lives here.
	UploadsDir string // Shared image upload store.
	WorkDir    string // Report compilation workspaces; empty = system temp.

	// Report compiler settings.
	LaTeXBin       string        // Compiler binary name or path.
	CompileTimeout time.Duration // Wall-clock limit per compiler pass.

	// OTEL settings.
	OTELEndpoint string
	OTELInsecure bool
	ServiceName  string

	// Operational settings.
	LogLevel            string
	MaxRequestBodyBytes int64
	MaxUploadBytes      int64
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:        envInt("LABELFORGE_PORT", 8080),
		ReadTimeout: envDuration("LABELFORGE_READ_TIMEOUT", 30*time.Second),
		// The write timeout must cover both compiler passes plus delivery,
		// so it defaults well above 2×CompileTimeout.
		WriteTimeout:        envDuration("LABELFORGE_WRITE_TIMEOUT", 3*time.Minute),
		DataDir:             envStr("LABELFORGE_DATA_DIR", "data"),
		UploadsDir:          envStr("LABELFORGE_UPLOADS_DIR", "uploads"),
		WorkDir:             envStr("LABELFORGE_WORK_DIR", ""),
		LaTeXBin:            envStr("LABELFORGE_LATEX_BIN", "pdflatex"),
		CompileTimeout:      envDuration("LABELFORGE_COMPILE_TIMEOUT", 60*time.Second),
		OTELEndpoint:        envStr("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTELInsecure:        envBool("OTEL_EXPORTER_OTLP_INSECURE", false),
		ServiceName:         envStr("OTEL_SERVICE_NAME", "labelforge"),
		LogLevel:            envStr("LABELFORGE_LOG_LEVEL", "info"),
		MaxRequestBodyBytes: int64(envInt("LABELFORGE_MAX_REQUEST_BODY_BYTES", 1*1024*1024)),  // 1 MB
		MaxUploadBytes:      int64(envInt("LABELFORGE_MAX_UPLOAD_BYTES", 100*1024*1024)),      // 100 MB
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that required configuration is present and sane.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: LABELFORGE_PORT must be a valid port")
	}
	if c.DataDir == "" {
		return fmt.Errorf("config: LABELFORGE_DATA_DIR is required")
	}
	if c.UploadsDir == "" {
		return fmt.Errorf("config: LABELFORGE_UPLOADS_DIR is required")
	}
	if c.LaTeXBin == "" {
		return fmt.Errorf("config: LABELFORGE_LATEX_BIN is required")
	}
	if c.CompileTimeout < 0 {
		return fmt.Errorf("config: LABELFORGE_COMPILE_TIMEOUT must not be negative")
	}
	if c.MaxRequestBodyBytes <= 0 {
		return fmt.Errorf("config: LABELFORGE_MAX_REQUEST_BODY_BYTES must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("config: LABELFORGE_MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

// DatabasePath returns the SQLite database file path under DataDir.
func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "labelforge.db")
}

func envStr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func envBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
