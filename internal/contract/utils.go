package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Rating label constants.
const (
	LovedValue    = "Loved"    // Loved value
	LikedValue    = "Liked"    // Liked value
	MixedValue    = "Mixed"    // Mixed value
	DislikedValue = "Disliked" // Disliked value
	UnratedValue  = "Unrated"  // Unrated value
)

// Color variables for console output.
var (
	LovedColor    = color.New(color.FgGreen, color.Bold) // LovedColor marks a strong average.
	LikedColor    = color.New(color.FgCyan)              // LikedColor marks a comfortable average.
	MixedColor    = color.New(color.FgYellow)            // MixedColor marks a lukewarm average.
	DislikedColor = color.New(color.FgRed, color.Bold)   // DislikedColor marks a poor average.
	UnratedColor  = color.New(color.Faint)               // UnratedColor marks the absence of ratings.
)

// GetPlainLabel returns a plain text label describing an average star rating
// on the 0.5 to 5 scale. A zero average means nothing was rated.
func GetPlainLabel(avg float64) string {
	switch {
	case avg <= 0:
		return UnratedValue
	case avg >= 4:
		return LovedValue
	case avg >= 3:
		return LikedValue
	case avg >= 2:
		return MixedValue
	default:
		return DislikedValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(avg float64) string {
	text := GetPlainLabel(avg)

	switch text {
	case LovedValue:
		return LovedColor.Sprint(text)
	case LikedValue:
		return LikedColor.Sprint(text)
	case MixedValue:
		return MixedColor.Sprint(text)
	case DislikedValue:
		return DislikedColor.Sprint(text)
	default:
		return UnratedColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for the result cache.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".reelstats_cache.db"
	}
	return filepath.Join(homeDir, ".reelstats_cache.db")
}

// GetUploadDBFilePath returns the path to the SQLite DB file for uploaded files.
func GetUploadDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".reelstats_uploads.db"
	}
	return filepath.Join(homeDir, ".reelstats_uploads.db")
}

// TruncateText shortens text to maxWidth runes with an ellipsis suffix.
// Requires maxWidth > 3 so at least one rune of content survives.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
