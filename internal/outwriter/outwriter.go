// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"github.com/huangsam/reelstats/internal/contract"
	"github.com/huangsam/reelstats/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteAnalytics prints an analytics result using the configured output format.
func (ow *OutWriter) WriteAnalytics(result schema.Analytics, cfg *contract.Config, duration time.Duration) error {
	return WriteAnalytics(result, cfg, duration)
}

// WriteRecords exports derived record fields to the configured records file.
func (ow *OutWriter) WriteRecords(fields []schema.MovieFields, cfg *contract.Config) error {
	return WriteRecords(fields, cfg.RecordsFile)
}

// WriteValidation prints a validation report using the configured output format.
func (ow *OutWriter) WriteValidation(name string, result schema.ValidationResult, cfg *contract.Config) error {
	return WriteValidation(name, result, cfg)
}

// WriteUploads prints the files of the current upload session using the configured output format.
func (ow *OutWriter) WriteUploads(sessionID string, files []schema.UploadedFile, cfg *contract.Config) error {
	return WriteUploads(sessionID, files, cfg)
}

// terminalWidth returns the width override, the detected terminal width, or 80.
func terminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}

// GetMaxTableKeyWidth calculates the maximum width for free-text cells such as
// genre names and file names, based on terminal width.
func GetMaxTableKeyWidth(cfg *contract.Config) int {
	// Reserve space for count columns, borders and padding
	available := terminalWidth(cfg) - 30
	if available < 12 {
		return 12
	}
	if available > 60 {
		return 60
	}
	return available
}
