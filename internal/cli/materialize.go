package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var materializeCmd = &cobra.Command{
	Use:   "materialize KEY...",
	Short: "Resolve resources to real filesystem paths",
	Long: `Resolve each KEY and print the real filesystem path of its payload.

Keys are lookup aliases or logical package paths. Resolution never fails:
a resource whose bytes cannot be placed on disk prints its logical package
path instead. Keys that are not registered at all are an error.

Examples:
  resman -m resources.yaml materialize check_lib/rsc.txt
  resman -m resources.yaml materialize edit-cut.png icons/save.png`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, shutdown, err := buildManager()
		if err != nil {
			return err
		}
		defer shutdown()

		for _, key := range args {
			res, err := m.Get(key)
			if err != nil {
				return fmt.Errorf("resolving %q: %w", key, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.AsFile())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(materializeCmd)
}
