package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/justengel/resman/manifest"
)

var datasDirs bool

var datasCmd = &cobra.Command{
	Use:   "datas",
	Short: "Print packaging install pairs",
	Long: `Print (source, dest) install pairs for every file-backed resource.

The output feeds packaging tools that bundle data files next to an
executable: each line is the concrete source file and the path it installs
to, separated by a tab. With --dirs the dest is the install directory
instead of the file path.

Examples:
  resman -m resources.yaml datas
  resman -m resources.yaml datas --dirs`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, shutdown, err := buildManager()
		if err != nil {
			return err
		}
		defer shutdown()

		for _, d := range manifest.InstallManifest(m, datasDirs) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", d.Source, d.Dest)
		}
		return nil
	},
}

func init() {
	datasCmd.Flags().BoolVar(&datasDirs, "dirs", false, "emit install directories instead of file paths")
	rootCmd.AddCommand(datasCmd)
}
