// Package cmd defines the command-line interface for reelstats.
package cmd

import (
	"github.com/huangsam/reelstats/internal/contract"
	"github.com/huangsam/reelstats/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the upload subcommands to the parent upload command
	uploadCmd.AddCommand(uploadAddCmd)
	uploadCmd.AddCommand(uploadListCmd)
	uploadCmd.AddCommand(uploadRemoveCmd)
	uploadCmd.AddCommand(uploadClearCmd)
	uploadCmd.AddCommand(uploadStatusCmd)
	uploadCmd.AddCommand(uploadExportCmd)
	uploadCmd.AddCommand(uploadPurgeCmd)
	uploadCmd.AddCommand(uploadMigrateCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().IntP("top", "t", schema.DefaultTopWatchDates, "Number of top watch dates to report")
	rootCmd.PersistentFlags().String("span", string(schema.FileOrderSpan), "Days tracking measure: file-order or chronological")
	rootCmd.PersistentFlags().String("genre-separators", schema.DefaultGenreSeparators, "Characters that split the genre list")
	rootCmd.PersistentFlags().String("delimiter", "", "Field delimiter (empty = auto-detect, 'tab' for tabs)")
	rootCmd.PersistentFlags().Bool("detail", false, "Print per-month, per-year, per-genre and rating tables")
	rootCmd.PersistentFlags().String("records-file", "", "Optional Parquet file for the filtered records")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().StringP("output-file", "o", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("upload-backend", string(schema.SQLiteBackend), "Upload store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("upload-db-connect", "", "Database connection string for the upload store (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("emoji", "yes", "Enable emojis in output headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of statsCmd to Viper
	statsCmd.Flags().BoolP("watch", "w", false, "Recompute whenever the export file changes")
	if err := viper.BindPFlags(statsCmd.Flags()); err != nil {
		contract.LogFatal("Error binding stats flags", err)
	}

	// Bind all flags of uploadMigrateCmd to Viper
	uploadMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(uploadMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding upload migrate flags", err)
	}
}
