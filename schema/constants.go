package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching and uploads.
	DatabaseBackend string

	// FileType represents the kind of export file, derived from its name.
	FileType string

	// SpanMode represents how the tracking span is measured across watch dates.
	SpanMode string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All export file types supported.
const (
	WatchedFile FileType = "watched"
	RatingsFile FileType = "ratings"
	DiaryFile   FileType = "diary"
	UnknownFile FileType = "unknown"
)

// All span modes supported.
const (
	FileOrderSpan     SpanMode = "file-order" // default
	ChronologicalSpan SpanMode = "chronological"
)

// Default analytics parameters.
const (
	DefaultTopWatchDates   = 10
	DefaultGenreSeparators = ","
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidSpanModes lists all valid span modes.
var ValidSpanModes = map[SpanMode]struct{}{
	FileOrderSpan:     {},
	ChronologicalSpan: {},
}

// KnownFileTypes lists the file types that can be uploaded and validated.
var KnownFileTypes = []FileType{WatchedFile, RatingsFile, DiaryFile}

// FileName returns the canonical export file name for a file type.
func (ft FileType) FileName() string {
	if ft == UnknownFile || ft == "" {
		return ""
	}
	return string(ft) + ".csv"
}
