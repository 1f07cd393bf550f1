package ingest

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/huangsam/reelstats/schema"
)

// Column names checked by structural validation.
const (
	nameColumn        = "Name"
	watchedDateColumn = "Watched Date"
	ratingColumn      = "Rating"
)

// Validation messages.
const (
	msgEmptyFile      = "CSV file is empty"
	msgUnknownType    = "Unknown file type"
	msgRatingsColumns = "Expected columns like: Name, Rating"
	msgDiaryColumns   = `Expected at least "Name" and "Watched Date" columns`
)

// DetectFileType classifies an export by its base file name, ignoring case.
func DetectFileType(filename string) schema.FileType {
	name := strings.ToLower(filepath.Base(filename))
	for _, ft := range schema.KnownFileTypes {
		if name == ft.FileName() {
			return ft
		}
	}
	return schema.UnknownFile
}

// Validate checks that parsed data has the columns and rows its file type requires.
func Validate(fileType schema.FileType, parsed ParseResult) schema.ValidationResult {
	var errs []string
	switch fileType {
	case schema.WatchedFile:
		errs = validateWatched(parsed)
	case schema.RatingsFile:
		errs = validateRatings(parsed)
	case schema.DiaryFile:
		errs = validateDiary(parsed)
	default:
		errs = []string{msgUnknownType}
	}

	return schema.ValidationResult{
		FileType: fileType,
		Valid:    len(errs) == 0,
		Errors:   nonNil(errs),
		Headers:  nonNil(parsed.Headers),
		RowCount: parsed.RowCount(),
	}
}

// ValidateText parses text and validates it, reporting parse errors as validation errors.
func ValidateText(fileType schema.FileType, text string, opts Options) schema.ValidationResult {
	parsed := Parse(text, opts)
	if parsed.HasErrors() {
		return schema.ValidationResult{
			FileType: fileType,
			Valid:    false,
			Errors:   []string{fmt.Sprintf("CSV parsing error: %s", parsed.FirstError())},
			Headers:  nonNil(parsed.Headers),
			RowCount: parsed.RowCount(),
		}
	}
	return Validate(fileType, parsed)
}

func validateWatched(parsed ParseResult) []string {
	var errs []string
	for _, col := range []string{nameColumn, watchedDateColumn} {
		if !parsed.HasHeader(col) {
			errs = append(errs, fmt.Sprintf("Missing required column: %q", col))
		}
	}
	if parsed.RowCount() == 0 {
		errs = append(errs, msgEmptyFile)
	}
	return errs
}

func validateRatings(parsed ParseResult) []string {
	var errs []string
	if !slices.ContainsFunc(parsed.Headers, func(h string) bool { return h == nameColumn || h == ratingColumn }) {
		errs = append(errs, msgRatingsColumns)
	}
	if parsed.RowCount() == 0 {
		errs = append(errs, msgEmptyFile)
	}
	return errs
}

func validateDiary(parsed ParseResult) []string {
	var errs []string
	if !parsed.HasHeader(nameColumn) && !parsed.HasHeader(watchedDateColumn) {
		errs = append(errs, msgDiaryColumns)
	}
	if parsed.RowCount() == 0 {
		errs = append(errs, msgEmptyFile)
	}
	return errs
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
