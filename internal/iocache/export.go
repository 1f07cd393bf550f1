package iocache

import (
	"errors"
	"fmt"

	"github.com/huangsam/reelstats/internal/contract"
	"github.com/huangsam/reelstats/internal/ingest"
	"github.com/huangsam/reelstats/internal/parquet"
	"github.com/huangsam/reelstats/schema"
)

// ExecuteUploadExport writes the metadata of the current session's uploads to a Parquet file.
func ExecuteUploadExport(store contract.UploadStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("upload store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get upload status: %w", err)
	}

	files, err := store.ListFiles()
	if err != nil {
		return fmt.Errorf("failed to retrieve uploaded files: %w", err)
	}
	if len(files) == 0 {
		return errors.New("no uploaded files found to export")
	}

	fmt.Printf("Exporting uploads from %s backend...\n", status.Backend)
	fmt.Printf("Session: %s\n", status.SessionID)

	rows := parquet.ConvertUploadedFiles(files, func(f schema.UploadedFile) int {
		return ingest.Parse(f.Data, ingest.Options{}).RowCount()
	})
	if err := parquet.WriteUploadedFilesParquet(rows, outputFile); err != nil {
		return fmt.Errorf("failed to write uploaded files: %w", err)
	}
	fmt.Printf("Exported %d uploaded files to: %s\n", len(rows), outputFile)

	fmt.Println("\nExport complete! The Parquet file can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
