package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dendrite",
	Short: "Dendrite - code intelligence for large source trees",
	Long: `Dendrite parses multi-language codebases with tree-sitter, splitting
oversized files into chunks at safe boundaries and merging the per-chunk
results into a single view per file.

Parsed symbols, dependencies, imports and exports are stored in a local
SQLite index under .dendrite/, where the query and search commands can
reach them.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
