package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justengel/resman/internal/config"
	"github.com/justengel/resman/internal/tracing"
)

func TestDefaults(t *testing.T) {
	cfg := config.Defaults()

	assert.Equal(t, ".", cfg.ResourceDir)
	assert.False(t, cfg.AutoWatch)
	assert.Equal(t, 1000, cfg.Watch.DebounceMS)
	assert.Equal(t, "file", cfg.Tracing.Exporter)
	assert.Equal(t, 1.0, cfg.Tracing.SampleRate)
	assert.NoError(t, config.Validate(cfg))
}

func TestValidateWatch(t *testing.T) {
	tests := []struct {
		name      string
		watch     config.WatchConfig
		autoWatch bool
		wantErr   string
	}{
		{
			name:      "unused section valid",
			watch:     config.WatchConfig{},
			autoWatch: false,
		},
		{
			name:      "auto watch requires package",
			watch:     config.WatchConfig{Directory: "assets"},
			autoWatch: true,
			wantErr:   "watch.package is required",
		},
		{
			name:      "auto watch requires directory",
			watch:     config.WatchConfig{Package: "assets"},
			autoWatch: true,
			wantErr:   "watch.directory is required",
		},
		{
			name:      "complete watch config valid",
			watch:     config.WatchConfig{Package: "assets", Directory: "assets", DebounceMS: 500},
			autoWatch: true,
		},
		{
			name:    "negative debounce rejected",
			watch:   config.WatchConfig{DebounceMS: -1},
			wantErr: "must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := config.ValidateWatch(tt.watch, tt.autoWatch)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateTracing(t *testing.T) {
	tests := []struct {
		name    string
		cfg     tracing.Config
		wantErr string
	}{
		{
			name: "defaults valid",
			cfg:  tracing.DefaultConfig(),
		},
		{
			name:    "sample rate above one",
			cfg:     tracing.Config{SampleRate: 1.5},
			wantErr: "sample_rate",
		},
		{
			name:    "sample rate negative",
			cfg:     tracing.Config{SampleRate: -0.1},
			wantErr: "sample_rate",
		},
		{
			name:    "unknown exporter",
			cfg:     tracing.Config{Exporter: "jaeger", SampleRate: 1.0},
			wantErr: "tracing.exporter",
		},
		{
			name:    "file exporter needs path when enabled",
			cfg:     tracing.Config{Enabled: true, Exporter: "file", SampleRate: 1.0},
			wantErr: "file_path is required",
		},
		{
			name:    "otlp exporter needs endpoint when enabled",
			cfg:     tracing.Config{Enabled: true, Exporter: "otlp", SampleRate: 1.0},
			wantErr: "otlp_endpoint is required",
		},
		{
			name: "disabled file exporter needs no path",
			cfg:  tracing.Config{Enabled: false, Exporter: "file", SampleRate: 1.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := config.ValidateTracing(tt.cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	require.NoError(t, config.WriteDefaultConfig(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# Resman Configuration")
	assert.Contains(t, string(content), "auto_watch: false")
}

func TestDefaultTracesFilePath(t *testing.T) {
	p := config.DefaultTracesFilePath()
	if p == "" {
		t.Skip("no home directory available")
	}
	assert.Contains(t, p, filepath.Join(".config", "resman", "traces"))
}
