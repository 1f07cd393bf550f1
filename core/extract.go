package core

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/reelstats/schema"
)

// Column aliases checked in order; the first non-empty value wins.
var (
	nameColumns        = []string{"Name", "name"}
	watchedDateColumns = []string{"Watched Date", "watched_date", "Date", "date"}
	yearColumns        = []string{"Year", "year"}
	ratingColumns      = []string{"Rating", "rating"}
	genreColumns       = []string{"Genres", "genres"}
	runtimeColumns     = []string{"Runtime", "runtime"}
)

// dateLayouts are tried in order when reading a watch date.
// Layouts without a zone are interpreted as UTC.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

var (
	leadingFloatRe = regexp.MustCompile(`^[+-]?(?:Infinity|(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)`)
	leadingIntRe   = regexp.MustCompile(`^[+-]?\d+`)
)

// lookup returns the first non-empty value among the column aliases.
func lookup(rec schema.Record, columns []string) string {
	for _, col := range columns {
		if v := rec[col]; v != "" {
			return v
		}
	}
	return ""
}

// keepRecord reports whether a record names a movie or a watch date.
func keepRecord(rec schema.Record) bool {
	return strings.TrimSpace(lookup(rec, nameColumns)) != "" ||
		strings.TrimSpace(lookup(rec, watchedDateColumns)) != ""
}

// filterRecords drops records that carry neither a name nor a watch date, keeping order.
func filterRecords(rows []schema.Record) []schema.Record {
	kept := make([]schema.Record, 0, len(rows))
	for _, rec := range rows {
		if keepRecord(rec) {
			kept = append(kept, rec)
		}
	}
	return kept
}

// ExtractFields derives the typed fields of every record, keeping order.
func ExtractFields(records []schema.Record, genreSeparators string) []schema.MovieFields {
	fields := make([]schema.MovieFields, len(records))
	for i, rec := range records {
		fields[i] = extractFields(rec, genreSeparators)
	}
	return fields
}

// extractFields derives the typed movie fields of one record.
func extractFields(rec schema.Record, genreSeparators string) schema.MovieFields {
	fields := schema.MovieFields{
		Name:        strings.TrimSpace(lookup(rec, nameColumns)),
		ReleaseYear: parseReleaseYear(lookup(rec, yearColumns)),
		Genres:      splitGenres(lookup(rec, genreColumns), genreSeparators),
	}

	if r, ok := parseLeadingFloat(lookup(rec, ratingColumns)); ok && !math.IsInf(r, 0) {
		fields.Rating = &r
	}
	if d, ok := parseWatchDate(lookup(rec, watchedDateColumns)); ok {
		fields.WatchedDate = &d
	}
	if m, ok := parseLeadingFloat(lookup(rec, runtimeColumns)); ok && !math.IsInf(m, 0) {
		fields.RuntimeMinutes = m
	}

	return fields
}

// parseLeadingFloat reads the longest decimal number at the start of s,
// ignoring leading whitespace and any trailing text ("4.5 stars" is 4.5).
func parseLeadingFloat(s string) (float64, bool) {
	match := leadingFloatRe.FindString(strings.TrimSpace(s))
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil && !math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseReleaseYear returns the trimmed year text when it starts with an integer.
func parseReleaseYear(s string) string {
	trimmed := strings.TrimSpace(s)
	if !leadingIntRe.MatchString(trimmed) {
		return ""
	}
	return trimmed
}

// parseWatchDate reads a calendar date using the first matching layout.
func parseWatchDate(s string) (time.Time, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// splitGenres splits a genre list on any of the separator characters,
// trimming tokens and dropping empty ones.
func splitGenres(s, separators string) []string {
	if s == "" {
		return nil
	}
	if separators == "" {
		separators = schema.DefaultGenreSeparators
	}
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(separators, r)
	})

	var genres []string
	for _, p := range parts {
		if g := strings.TrimSpace(p); g != "" {
			genres = append(genres, g)
		}
	}
	return genres
}
