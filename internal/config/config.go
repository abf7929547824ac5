// Package config provides configuration types and defaults for resman.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/justengel/resman/internal/log"
	"github.com/justengel/resman/internal/tracing"
)

// WatchConfig configures the directory watcher for auto-registration.
type WatchConfig struct {
	Package    string   `mapstructure:"package"`     // dot-separated package identifier
	Directory  string   `mapstructure:"directory"`   // OS directory backing the package
	DebounceMS int      `mapstructure:"debounce_ms"` // debounce window in milliseconds
	Extensions []string `mapstructure:"extensions"`  // extension allow-list, e.g. [.png, .txt]
	Exclude    []string `mapstructure:"exclude"`     // leaf file names never registered
}

// Config holds all configuration options for resman.
type Config struct {
	ResourceDir string          `mapstructure:"resource_dir"` // search root for package directories
	Manifest    string          `mapstructure:"manifest"`     // resources.yaml to load at startup
	AutoWatch   bool            `mapstructure:"auto_watch"`   // start the directory watcher
	Watch       WatchConfig     `mapstructure:"watch"`
	Tracing     tracing.Config  `mapstructure:"tracing"`
	Flags       map[string]bool `mapstructure:"flags"`
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/resman/traces/traces.jsonl or empty string if home dir
// unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "resman", "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		ResourceDir: ".",
		AutoWatch:   false,
		Watch: WatchConfig{
			DebounceMS: 1000,
		},
		Tracing: tracing.DefaultConfig(),
	}
}

// ValidateWatch checks the watcher configuration for errors.
// Returns nil when the section is unused (empty values use defaults).
func ValidateWatch(w WatchConfig, autoWatch bool) error {
	if autoWatch {
		if w.Package == "" {
			return fmt.Errorf("watch.package is required when auto_watch is enabled")
		}
		if w.Directory == "" {
			return fmt.Errorf("watch.directory is required when auto_watch is enabled")
		}
	}
	if w.DebounceMS < 0 {
		return fmt.Errorf("watch.debounce_ms must not be negative, got %d", w.DebounceMS)
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(cfg tracing.Config) error {
	if cfg.SampleRate < 0.0 || cfg.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", cfg.SampleRate)
	}

	if cfg.Exporter != "" {
		switch cfg.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", cfg.Exporter)
		}
	}

	// Only validate path requirements when tracing is enabled
	if cfg.Enabled {
		if cfg.Exporter == "file" && cfg.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if cfg.Exporter == "otlp" && cfg.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// Validate checks the whole configuration for errors.
func Validate(c Config) error {
	if err := ValidateWatch(c.Watch, c.AutoWatch); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Resman Configuration

# Search root for package directories (default: current directory)
# resource_dir: /path/to/project

# Resource manifest loaded at startup
# manifest: resources.yaml

# Watch a package directory and register new files automatically
auto_watch: false
# watch:
#   package: my_lib.assets     # dot-separated package identifier
#   directory: my_lib/assets   # OS directory backing the package
#   debounce_ms: 1000          # coalesce bursts of file events
#   extensions: [.png, .txt]   # only register these extensions
#   exclude: [draft.txt]       # leaf names never registered

# Tracing configuration
# Enables visibility into lookups, scans and materialization strategies
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/resman/traces/traces.jsonl  # Output file for file exporter
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
#
# Example: Send traces to Jaeger via OTLP
# tracing:
#   enabled: true
#   exporter: otlp
#   otlp_endpoint: jaeger.internal:4317
#   sample_rate: 0.1  # Sample 10% of traces
`
}

// WriteDefaultConfig creates a config file at the given path with default
// settings and comments. Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "created default config", "path", configPath)
	return nil
}
