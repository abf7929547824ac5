// Package cli implements the resman command line: inspect a resource
// registry declared by a manifest, print packaging install pairs, and
// materialize resources to real paths.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/justengel/resman"
	"github.com/justengel/resman/internal/config"
	"github.com/justengel/resman/internal/log"
	"github.com/justengel/resman/internal/tracing"
	"github.com/justengel/resman/manifest"
	"github.com/justengel/resman/reader"
)

var (
	version = "dev"
	cfgFile string
	debug   bool
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "resman",
	Short: "Resource registry and resolution engine",
	Long: `Resolve logical resource names to files and bytes.

Resources are declared in a YAML manifest or discovered from package
directories. Subcommands list the registry, export packaging install
pairs, and materialize resources to real filesystem paths.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .resman/config.yaml, then ~/.config/resman/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"enable debug logging to resman.log")
	rootCmd.PersistentFlags().StringP("manifest", "m", "",
		"resource manifest to load")
	rootCmd.PersistentFlags().StringP("resource-dir", "r", "",
		"search root for package directories")

	_ = viper.BindPFlag("manifest", rootCmd.PersistentFlags().Lookup("manifest"))
	_ = viper.BindPFlag("resource_dir", rootCmd.PersistentFlags().Lookup("resource-dir"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("resource_dir", defaults.ResourceDir)
	viper.SetDefault("auto_watch", defaults.AutoWatch)
	viper.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMS)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)

	viper.SetEnvPrefix("RESMAN")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .resman/config.yaml (current directory)
		// 2. ~/.config/resman/config.yaml (user config)
		if _, err := os.Stat(".resman/config.yaml"); err == nil {
			viper.SetConfigFile(".resman/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "resman"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .resman/config.yaml
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := ".resman/config.yaml"
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)

	if debug || os.Getenv("RESMAN_DEBUG") != "" {
		if _, err := log.Init("resman.log"); err == nil {
			log.SetMinLevel(log.LevelDebug)
		}
	}
}

// buildManager assembles the registry the subcommands operate on: a reader
// rooted at resource_dir, tracing when configured, and the manifest when one
// is declared. The returned shutdown func flushes tracing.
func buildManager() (*resman.Manager, func(), error) {
	if err := config.Validate(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	rd := reader.NewOS(cfg.ResourceDir)
	opts := []resman.ManagerOption{resman.WithReader(rd)}

	shutdown := func() {}
	if cfg.Tracing.Enabled {
		if cfg.Tracing.Exporter == "file" && cfg.Tracing.FilePath == "" {
			cfg.Tracing.FilePath = config.DefaultTracesFilePath()
		}
		provider, err := tracing.NewProvider(cfg.Tracing)
		if err != nil {
			return nil, nil, fmt.Errorf("starting tracing: %w", err)
		}
		opts = append(opts, resman.WithTracer(provider.Tracer()))
		shutdown = func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = provider.Shutdown(ctx)
		}
	}

	m := resman.NewManager(opts...)

	if cfg.Manifest != "" {
		if err := manifest.Load(cfg.Manifest, m); err != nil {
			shutdown()
			return nil, nil, err
		}
	}
	return m, shutdown, nil
}

// Execute runs the root command.
func Execute() error {
	defer resman.Shutdown()
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags).
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
