package cmd

import (
	"github.com/huangsam/reelstats/core"
	"github.com/huangsam/reelstats/internal/contract"
	"github.com/spf13/cobra"
)

// dashboardCmd shows statistics for the watched file of the current upload session.
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show statistics for the uploaded watched.csv.",
	Long: `Derive viewing statistics from the watched.csv held in the current upload session.

Upload the export once with 'reelstats upload add' and revisit the numbers
without pointing at the file again. Accepts the same flags as 'stats'.

Examples:
  # Upload then view
  reelstats upload add watched.csv
  reelstats dashboard --detail`,
	Args:    cobra.NoArgs,
	PreRunE: sessionSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteDashboard(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot show dashboard", err)
		}
	},
}
