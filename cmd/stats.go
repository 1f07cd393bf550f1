package cmd

import (
	"github.com/huangsam/reelstats/core"
	"github.com/huangsam/reelstats/internal/contract"
	"github.com/spf13/cobra"
)

// statsCmd derives viewing statistics from one export file.
var statsCmd = &cobra.Command{
	Use:   "stats [file|-]",
	Short: "Show viewing statistics for an export file.",
	Long: `Derive viewing statistics from a movie-watching export such as watched.csv or diary.csv.

Reports:
- Total movies and the average rating with a label (Loved, Liked, Mixed, Disliked)
- Hours watched, favorite genre and days tracking
- The busiest watch dates

With --detail, also prints movies per month, years watched, release years,
the genre breakdown and the rating distribution.

Pass '-' to read the export from standard input. Results are cached by content,
so repeated runs on an unchanged file are instant.

Examples:
  # Summary of a watched export
  reelstats stats watched.csv

  # Full breakdown with the 20 busiest dates
  reelstats stats diary.csv --detail --top 20

  # Measure days tracking between the earliest and latest dates
  reelstats stats diary.csv --span chronological

  # Read from stdin and emit JSON
  cat watched.csv | reelstats stats - --output json

  # Keep the numbers fresh while editing the export
  reelstats stats diary.csv --watch`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteStats(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot compute statistics", err)
		}
	},
}
