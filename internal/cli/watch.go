package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/justengel/resman/internal/config"
	"github.com/justengel/resman/watch"
)

var (
	watchExtensions []string
	watchExclude    []string
	watchDebounce   time.Duration
	watchSave       bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [PACKAGE DIRECTORY]",
	Short: "Register new files from a package directory as they appear",
	Long: `Watch a package directory and register created or written files
into the registry, debounced so editor save storms coalesce.

With no arguments the watch target comes from the config file's watch
section. PACKAGE DIRECTORY arguments override it for this run; --save
persists them (and enables auto_watch) for future runs.

Runs until interrupted.

Examples:
  resman -m resources.yaml watch
  resman watch check_lib ./check_lib --ext .png --ext .txt --save`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 2 {
			return fmt.Errorf("accepts no arguments or PACKAGE DIRECTORY, received %d", len(args))
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		wc := watchSettings(cmd.Flags(), args)
		if err := config.ValidateWatch(wc, true); err != nil {
			return err
		}

		if watchSave {
			path := viper.ConfigFileUsed()
			if path == "" {
				path = ".resman/config.yaml"
			}
			if err := config.SaveWatch(path, true, wc); err != nil {
				return fmt.Errorf("saving watch config: %w", err)
			}
		}

		m, shutdown, err := buildManager()
		if err != nil {
			return err
		}
		defer shutdown()

		w, err := watch.New(m, watchRuntimeConfig(wc))
		if err != nil {
			return err
		}
		changes, err := w.Start()
		if err != nil {
			return err
		}
		defer func() { _ = w.Stop() }()

		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(cmd.OutOrStdout(), "watching %s as package %s\n", wc.Directory, wc.Package)
		for {
			select {
			case <-changes:
				fmt.Fprintf(cmd.OutOrStdout(), "registry updated: %d resources\n",
					len(m.All(true, false)))
			case <-ctx.Done():
				return nil
			}
		}
	},
}

// watchSettings merges the config file's watch section with positional and
// flag overrides. Flags win only when set, so persisted values survive a
// plain `resman watch`.
func watchSettings(flags *pflag.FlagSet, args []string) config.WatchConfig {
	wc := cfg.Watch
	if len(args) == 2 {
		wc.Package, wc.Directory = args[0], args[1]
	}
	if flags.Changed("ext") {
		wc.Extensions = watchExtensions
	}
	if flags.Changed("exclude") {
		wc.Exclude = watchExclude
	}
	if flags.Changed("debounce") {
		wc.DebounceMS = int(watchDebounce / time.Millisecond)
	}
	return wc
}

// watchRuntimeConfig converts the persisted watch section into the
// watcher's runtime config.
func watchRuntimeConfig(wc config.WatchConfig) watch.Config {
	return watch.Config{
		Package:     wc.Package,
		Dir:         wc.Directory,
		DebounceDur: time.Duration(wc.DebounceMS) * time.Millisecond,
		Extensions:  wc.Extensions,
		Exclude:     wc.Exclude,
	}
}

func init() {
	watchCmd.Flags().StringSliceVar(&watchExtensions, "ext", nil,
		"restrict registration to these extensions (repeatable)")
	watchCmd.Flags().StringSliceVar(&watchExclude, "exclude", nil,
		"leaf file names never registered (repeatable)")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0,
		"debounce window for batching file events")
	watchCmd.Flags().BoolVar(&watchSave, "save", false,
		"persist the watch target to the config file and enable auto_watch")
	rootCmd.AddCommand(watchCmd)
}
