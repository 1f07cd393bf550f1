package cmd

import (
	"github.com/huangsam/reelstats/core"
	"github.com/huangsam/reelstats/internal/contract"
	"github.com/spf13/cobra"
)

// validateCmd checks the structure of an export file.
var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check that an export file has the columns its type requires.",
	Long: `Validate the structure of an export file before analyzing or uploading it.

The file type comes from the file name:
- watched.csv needs "Name" and "Watched Date" columns
- ratings.csv needs a "Name" or "Rating" column
- diary.csv needs a "Name" or "Watched Date" column

Every type needs at least one data row. Exits non-zero when the file is invalid,
which makes it suitable for CI/CD gating of data pipelines.

Examples:
  # Validate a diary export
  reelstats validate diary.csv

  # Machine-readable report
  reelstats validate watched.csv --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteValidate(rootCtx, cfg); err != nil {
			contract.LogFatal("Validation failed", err)
		}
	},
}
