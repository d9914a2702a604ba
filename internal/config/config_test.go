package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 3*time.Minute, cfg.WriteTimeout)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "uploads", cfg.UploadsDir)
	assert.Equal(t, "pdflatex", cfg.LaTeXBin)
	assert.Equal(t, 60*time.Second, cfg.CompileTimeout)
	assert.Equal(t, "labelforge", cfg.ServiceName)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LABELFORGE_PORT", "9090")
	t.Setenv("LABELFORGE_LATEX_BIN", "/usr/local/bin/xelatex")
	t.Setenv("LABELFORGE_COMPILE_TIMEOUT", "2m")
	t.Setenv("LABELFORGE_DATA_DIR", "/var/lib/labelforge")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/usr/local/bin/xelatex", cfg.LaTeXBin)
	assert.Equal(t, 2*time.Minute, cfg.CompileTimeout)
	assert.Equal(t, "/var/lib/labelforge", cfg.DataDir)
	assert.True(t, cfg.OTELInsecure)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("LABELFORGE_PORT", "not-a-number")
	t.Setenv("LABELFORGE_COMPILE_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 60*time.Second, cfg.CompileTimeout)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Port:                8080,
		DataDir:             "data",
		UploadsDir:          "uploads",
		LaTeXBin:            "pdflatex",
		CompileTimeout:      time.Minute,
		MaxRequestBodyBytes: 1 << 20,
		MaxUploadBytes:      100 << 20,
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port zero", func(c *Config) { c.Port = 0 }},
		{"port out of range", func(c *Config) { c.Port = 70000 }},
		{"missing data dir", func(c *Config) { c.DataDir = "" }},
		{"missing uploads dir", func(c *Config) { c.UploadsDir = "" }},
		{"missing latex bin", func(c *Config) { c.LaTeXBin = "" }},
		{"negative compile timeout", func(c *Config) { c.CompileTimeout = -time.Second }},
		{"zero request body limit", func(c *Config) { c.MaxRequestBodyBytes = 0 }},
		{"zero upload limit", func(c *Config) { c.MaxUploadBytes = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDatabasePath(t *testing.T) {
	cfg := Config{DataDir: "/var/lib/labelforge"}
	assert.Equal(t, filepath.Join("/var/lib/labelforge", "labelforge.db"), cfg.DatabasePath())
}
