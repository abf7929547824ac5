package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	listLinked     bool
	listDuplicates bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered resources",
	Long: `List the resources registered by the manifest.

Each line shows the lookup alias and the logical package path. Shadowed
registrations are hidden unless --duplicates is given.

Examples:
  resman -m resources.yaml list
  resman -m resources.yaml list --duplicates`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, shutdown, err := buildManager()
		if err != nil {
			return err
		}
		defer shutdown()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, res := range m.All(listLinked, listDuplicates) {
			fmt.Fprintf(w, "%s\t%s\n", res.Alias(), res.PackagePath())
		}
		return w.Flush()
	},
}

func init() {
	listCmd.Flags().BoolVar(&listLinked, "linked", true, "include resources from linked registries")
	listCmd.Flags().BoolVar(&listDuplicates, "duplicates", false, "include shadowed registrations")
	rootCmd.AddCommand(listCmd)
}
