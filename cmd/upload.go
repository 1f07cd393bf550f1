package cmd

import (
	"fmt"

	"github.com/huangsam/reelstats/core"
	"github.com/huangsam/reelstats/internal/contract"
	"github.com/huangsam/reelstats/internal/iocache"
	"github.com/huangsam/reelstats/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// uploadBackendConfig reads and validates the upload backend settings from Viper.
func uploadBackendConfig() (schema.DatabaseBackend, string, error) {
	backend, err := contract.ParseBackend(viper.GetString("upload-backend"))
	if err != nil {
		return "", "", fmt.Errorf("invalid upload backend: %w", err)
	}
	connStr := viper.GetString("upload-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// uploadSetup loads minimal configuration needed for upload store maintenance.
// This is used by commands that need the upload store without full shared setup.
func uploadSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend, connStr, err := uploadBackendConfig()
	if err != nil {
		return err
	}

	// Initialize the upload store only (no result cache for maintenance commands)
	if err := iocache.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize upload store: %w", err)
	}

	cfg.UploadBackend = backend
	cfg.UploadDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")

	return nil
}

// uploadSetupWrapper wraps uploadSetup to provide PreRunE for upload maintenance commands.
func uploadSetupWrapper(_ *cobra.Command, _ []string) error {
	return uploadSetup()
}

// uploadMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func uploadMigrateSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend, connStr, err := uploadBackendConfig()
	if err != nil {
		return err
	}

	cfg.UploadBackend = backend
	cfg.UploadDBConnect = connStr

	return nil
}

// uploadDBFilePath returns the SQLite file backing the upload store.
func uploadDBFilePath() string {
	if cfg.UploadDBConnect != "" {
		return cfg.UploadDBConnect
	}
	return contract.GetUploadDBFilePath()
}

// uploadCmd focused on the upload session.
//
// Note: add, list, remove and clear use the full sharedSetup because they print
// with the configured output settings. The maintenance subcommands use uploadSetup.
var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Manage the export files held in the current upload session",
	Long: `Keep export files in a session so later commands can use them without a path.

Files are classified by name (watched.csv, ratings.csv, diary.csv) and validated
before they are stored. Only the files of the current session are visible;
clearing the session starts a new one.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (in-memory)

Subcommands:
  add     - Validate and store export files
  list    - Show the files of the current session
  remove  - Delete files by id
  clear   - Delete the session's files and start a new session
  status  - Show upload store statistics
  export  - Export upload metadata to Parquet
  purge   - Drop every session and all stored files
  migrate - Run database schema migrations

Examples:
  # Upload and inspect
  reelstats upload add watched.csv ratings.csv
  reelstats upload list

  # Start over
  reelstats upload clear`,
}

// uploadAddCmd stores export files in the current session.
var uploadAddCmd = &cobra.Command{
	Use:   "add <file>...",
	Short: "Validate and store export files in the current session",
	Long: `Validate each export file and store it in the current session.

Files are processed in order. A file with an unknown name or missing columns
stops the run; files before it stay uploaded.

Examples:
  # Upload a whole export
  reelstats upload add watched.csv ratings.csv diary.csv

  # Upload to PostgreSQL (set connection string via env variable)
  REELSTATS_UPLOAD_BACKEND=postgresql REELSTATS_UPLOAD_DB_CONNECT="..." reelstats upload add watched.csv`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sessionSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteUploadAdd(rootCtx, cfg, cacheManager, args); err != nil {
			contract.LogFatal("Failed to upload files", err)
		}
	},
}

// uploadListCmd lists the files of the current session.
var uploadListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the files of the current session",
	Long: `List the files of the current session in upload order with their ids.

Examples:
  # Table view
  reelstats upload list

  # JSON for scripts
  reelstats upload list --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sessionSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteUploadList(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Failed to list uploads", err)
		}
	},
}

// uploadRemoveCmd deletes files by id.
var uploadRemoveCmd = &cobra.Command{
	Use:   "remove <id>...",
	Short: "Delete files of the current session by id",
	Long: `Delete one or more files of the current session. Ids come from 'reelstats upload list'.

Unknown ids are reported and skipped.

Examples:
  reelstats upload remove 5f0c7e1a-...`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sessionSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteUploadRemove(rootCtx, cfg, cacheManager, args); err != nil {
			contract.LogFatal("Failed to remove uploads", err)
		}
	},
}

// uploadClearCmd clears the current session.
var uploadClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the session's files and start a new session",
	Long: `Delete every file of the current session and rotate to a new session id.

Files of earlier sessions are not touched. Use 'reelstats upload purge' to drop everything.

Examples:
  reelstats upload clear`,
	Args:    cobra.NoArgs,
	PreRunE: sessionSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteUploadClear(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Failed to clear session", err)
		}
	},
}

// uploadStatusCmd shows upload store status.
var uploadStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display upload store statistics and connection details",
	Long: `Show detailed information about the upload store.

Displays:
- Backend type and connection status
- Current session id and its file count
- Files and bytes across all sessions
- Files per type and the last upload time

Examples:
  reelstats upload status`,
	PreRunE: uploadSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetUploadStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get upload status", err)
		}
		iocache.PrintUploadStatus(status)
	},
}

// uploadExportCmd exports upload metadata to Parquet.
var uploadExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the session's upload metadata to Parquet",
	Long: `Export one row per uploaded file of the current session to a Parquet file.

Each row holds the id, name, type, size, row count and upload time.

Requires: --output-file parameter

Examples:
  reelstats upload export --output-file uploads.parquet
  duckdb -c "SELECT * FROM read_parquet('uploads.parquet')"`,
	PreRunE: uploadSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteUploadExport(iocache.Manager.GetUploadStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export uploads", err)
		}
	},
}

// uploadPurgeCmd drops all upload data.
var uploadPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove every session and all stored files",
	Long: `Delete all uploaded files of every session from the configured backend.

WARNING: This action cannot be undone. Consider exporting data first.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the upload tables

Examples:
  reelstats upload export --output-file backup.parquet
  reelstats upload purge`,
	PreRunE: uploadMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearUploads(cfg.UploadBackend, uploadDBFilePath(), cfg.UploadDBConnect); err != nil {
			contract.LogFatal("Failed to purge uploads", err)
		}
		fmt.Println("Upload data purged successfully.")
	},
}

// uploadMigrateCmd runs database migrations for the upload store.
var uploadMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the upload store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  reelstats upload migrate

  # Rollback to the initial state
  reelstats upload migrate --target-version 0`,
	PreRunE: uploadMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateUploads(cfg.UploadBackend, cfg.UploadDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
