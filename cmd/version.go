package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dupesweep/dupesweep/pkg/runtime"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version info",
	Long:  `Print version info`,
	Example: `  dupesweep version
  dupesweep version --help`,

	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("dupesweep version: %s commit: %s built at: %s\n", runtime.Version, runtime.GitCommit, runtime.Timestamp)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
