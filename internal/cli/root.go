package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "loadbench",
	Short: "Bulk-insert benchmark loader and chart reporter",
	Long: `loadbench measures how fast a products CSV can be bulk-inserted into PostgreSQL.

  load     streams a CSV into a table in fixed-size batches and writes one JSON
           result document per scenario (timing, memory and CPU per batch)
  report   turns a directory of result documents into per-scenario and combined
           PNG charts

Exit Codes:
  0  - Success
  1  - General error (including an empty results directory)
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or parameters
  11 - Database connection failed
  13 - Batch insert failed
  14 - Input CSV not found
  15 - Result file already exists (use --overwrite)`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	// -h is taken by --host, so help has no shorthand.
	rootCmd.PersistentFlags().Bool("help", false, "Help for loadbench")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
