package contract

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/huangsam/reelstats/internal/ingest"
	"github.com/huangsam/reelstats/schema"
)

// Default values for configuration.
const (
	DefaultPrecision = 1
	MaxTopWatchDates = 100
)

// StdinPath names standard input as the source of an export file.
const StdinPath = "-"

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for deriving and printing analytics.
// This struct remains the "final, validated" config.
type Config struct {
	InputPath       string // Export file to analyze ("-" = stdin, "" = none given)
	TopWatchDates   int
	Span            schema.SpanMode
	Delimiter       rune // 0 = auto-detect
	GenreSeparators string
	Detail          bool
	Watch           bool
	Precision       int
	Output          schema.OutputMode
	OutputFile      string
	RecordsFile     string // Parquet export of the filtered records
	Width           int    // Terminal width override (0 = auto-detect)

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	UploadBackend   schema.DatabaseBackend
	UploadDBConnect string // Please use env var as this is plaintext

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	InputPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	OutputFile      string `mapstructure:"output-file"`
	Precision       int    `mapstructure:"precision"`
	Output          string `mapstructure:"output"`
	Width           int    `mapstructure:"width"`
	CacheBackend    string `mapstructure:"cache-backend"`
	CacheDBConnect  string `mapstructure:"cache-db-connect"`
	UploadBackend   string `mapstructure:"upload-backend"`
	UploadDBConnect string `mapstructure:"upload-db-connect"`
	Emoji           string `mapstructure:"emoji"`
	Color           string `mapstructure:"color"`
	Delimiter       string `mapstructure:"delimiter"`

	// --- Fields from statsCmd.Flags() ---
	Top             int    `mapstructure:"top"`
	Span            string `mapstructure:"span"`
	GenreSeparators string `mapstructure:"genre-separators"`
	Detail          bool   `mapstructure:"detail"`
	Watch           bool   `mapstructure:"watch"`
	RecordsFile     string `mapstructure:"records-file"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// AnalyticsOptions returns the engine options selected by the config.
func (c *Config) AnalyticsOptions() schema.AnalyticsOptions {
	return schema.AnalyticsOptions{
		TopWatchDates:   c.TopWatchDates,
		Span:            c.Span,
		Delimiter:       c.Delimiter,
		GenreSeparators: c.GenreSeparators,
	}
}

// ReadsStdin reports whether the export is read from standard input.
func (c *Config) ReadsStdin() bool {
	return c.InputPath == StdinPath
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processAnalyticsOptions(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParseBackend normalizes and validates a backend name. An empty name selects SQLite.
func ParseBackend(raw string) (schema.DatabaseBackend, error) {
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(raw)))
	if backend == "" {
		return schema.SQLiteBackend, nil
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid backend '%s'. must be sqlite, mysql, postgresql, none", raw)
	}
	return backend, nil
}

// ParseDelimiter converts the delimiter flag into a rune. An empty value means auto-detect;
// "tab" and "\t" select a tab.
func ParseDelimiter(raw string) (rune, error) {
	switch raw {
	case "":
		return 0, nil
	case "tab", `\t`:
		return '\t', nil
	}
	if utf8.RuneCountInString(raw) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character (received %q)", raw)
	}
	r, _ := utf8.DecodeRuneInString(raw)
	if err := ingest.ValidateDelimiter(r); err != nil {
		return 0, err
	}
	return r, nil
}

// validateBackendConfigs validates cache and upload backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cacheBackend, err := ParseBackend(input.CacheBackend)
	if err != nil {
		return fmt.Errorf("invalid cache backend: %w", err)
	}
	cfg.CacheBackend = cacheBackend
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- Upload Backend Validation ---
	uploadBackend, err := ParseBackend(input.UploadBackend)
	if err != nil {
		return fmt.Errorf("invalid upload backend: %w", err)
	}
	cfg.UploadBackend = uploadBackend
	cfg.UploadDBConnect = input.UploadDBConnect
	if err := ValidateDatabaseConnectionString(cfg.UploadBackend, cfg.UploadDBConnect); err != nil {
		return err
	}

	// Cache and uploads must not share one SQLite file
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.UploadBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		uploadDBPath := cfg.UploadDBConnect
		if uploadDBPath == "" {
			uploadDBPath = GetUploadDBFilePath()
		}
		if cacheDBPath == uploadDBPath {
			return fmt.Errorf("cache and upload storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}

	return nil
}

// validateSimpleInputs processes and validates the output-related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.InputPath = strings.TrimSpace(input.InputPathStr)
	cfg.OutputFile = input.OutputFile
	cfg.RecordsFile = input.RecordsFile
	cfg.Detail = input.Detail
	cfg.Watch = input.Watch
	cfg.Width = input.Width

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	if cfg.Watch && cfg.ReadsStdin() {
		return fmt.Errorf("--watch needs a file path, not stdin")
	}

	return nil
}

// processAnalyticsOptions validates the options passed through to the analytics engine.
func processAnalyticsOptions(cfg *Config, input *ConfigRawInput) error {
	if input.Top < 1 || input.Top > MaxTopWatchDates {
		return fmt.Errorf("top must be greater than 0 and cannot exceed %d (received %d)", MaxTopWatchDates, input.Top)
	}
	cfg.TopWatchDates = input.Top

	cfg.Span = schema.SpanMode(strings.ToLower(strings.TrimSpace(input.Span)))
	if cfg.Span == "" {
		cfg.Span = schema.FileOrderSpan
	}
	if _, ok := schema.ValidSpanModes[cfg.Span]; !ok {
		return fmt.Errorf("invalid span '%s'. must be file-order, chronological", input.Span)
	}

	delimiter, err := ParseDelimiter(input.Delimiter)
	if err != nil {
		return fmt.Errorf("invalid --delimiter value: %w", err)
	}
	cfg.Delimiter = delimiter

	cfg.GenreSeparators = input.GenreSeparators
	if cfg.GenreSeparators == "" {
		cfg.GenreSeparators = schema.DefaultGenreSeparators
	}

	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
