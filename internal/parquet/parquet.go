// Package parquet provides data structures and functions for exporting reelstats
// analytics to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/huangsam/reelstats/schema"
	"github.com/parquet-go/parquet-go"
)

// MetricRow is one value of an analytics result in long format.
// It shares its layout with the CSV output: section, key, value.
type MetricRow struct {
	// Section names the metric group, e.g. summary or moviesPerMonth
	Section string `parquet:"section,snappy,dict"`

	// Key identifies the value inside its section
	Key string `parquet:"key,snappy"`

	// Value is the formatted value
	Value string `parquet:"value,snappy"`
}

// WatchRecord is one filtered record with its derived fields.
type WatchRecord struct {
	// Name is the film title as written in the export
	Name string `parquet:"name,snappy"`

	// ReleaseYear is the release year text (nullable when not numeric)
	ReleaseYear *string `parquet:"release_year,optional,snappy"`

	// Rating is the star rating (nullable when missing or unparsable)
	Rating *float64 `parquet:"rating,optional,snappy"`

	// WatchedDate is the watch date at UTC midnight (nullable when unparsable)
	WatchedDate *time.Time `parquet:"watched_date,optional,snappy"`

	// RuntimeMinutes is the parsed runtime, 0 when unknown
	RuntimeMinutes float64 `parquet:"runtime_minutes,snappy"`

	// Genres is the comma-joined genre list
	Genres string `parquet:"genres,snappy"`
}

// UploadedFile is the metadata of one uploaded export file. File contents are not exported.
type UploadedFile struct {
	ID         string    `parquet:"id,snappy"`
	SessionID  string    `parquet:"session_id,snappy,dict"`
	Name       string    `parquet:"name,snappy"`
	Size       int64     `parquet:"size,snappy"`
	FileType   string    `parquet:"file_type,snappy,dict"`
	RowCount   int32     `parquet:"row_count,snappy"`
	UploadedAt time.Time `parquet:"uploaded_at,snappy"`
}

// writeRows writes rows of any struct type to a Parquet file at outputPath.
func writeRows[T any](data []T, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the struct tags of T
	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteMetricsParquet writes long-format analytics rows to a Parquet file.
func WriteMetricsParquet(data []MetricRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteWatchRecordsParquet writes filtered records to a Parquet file.
func WriteWatchRecordsParquet(data []WatchRecord, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteUploadedFilesParquet writes uploaded file metadata to a Parquet file.
func WriteUploadedFilesParquet(data []UploadedFile, outputPath string) error {
	return writeRows(data, outputPath)
}

// ConvertMovieFields converts derived record fields to WatchRecord for Parquet export.
func ConvertMovieFields(fields []schema.MovieFields) []WatchRecord {
	result := make([]WatchRecord, len(fields))
	for i, f := range fields {
		rec := WatchRecord{
			Name:           f.Name,
			Rating:         f.Rating,
			WatchedDate:    f.WatchedDate,
			RuntimeMinutes: f.RuntimeMinutes,
			Genres:         strings.Join(f.Genres, ", "),
		}
		if f.ReleaseYear != "" {
			year := f.ReleaseYear
			rec.ReleaseYear = &year
		}
		result[i] = rec
	}
	return result
}

// ConvertUploadedFiles converts stored uploads to UploadedFile for Parquet export.
// rowCount returns the number of data rows for a file.
func ConvertUploadedFiles(files []schema.UploadedFile, rowCount func(schema.UploadedFile) int) []UploadedFile {
	result := make([]UploadedFile, len(files))
	for i, f := range files {
		result[i] = UploadedFile{
			ID:         f.ID,
			SessionID:  f.SessionID,
			Name:       f.Name,
			Size:       f.Size,
			FileType:   string(f.Type),
			RowCount:   int32(rowCount(f)),
			UploadedAt: f.UploadedAt,
		}
	}
	return result
}
