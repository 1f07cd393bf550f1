package core

import (
	"fmt"
	"strings"

	"github.com/huangsam/reelstats/core/agg"
	"github.com/huangsam/reelstats/internal/ingest"
	"github.com/huangsam/reelstats/schema"
)

// Error messages carried by failed results.
const (
	msgNoData       = "No CSV data provided"
	msgParseFailure = "CSV parsing error: %s"
)

// Compute derives analytics from raw export text with default options.
// It never panics; failures are reported through the Error field of the result.
func Compute(raw string) schema.Analytics {
	return ComputeWithOptions(raw, schema.AnalyticsOptions{})
}

// ComputeWithOptions derives analytics from raw export text.
func ComputeWithOptions(raw string, opts schema.AnalyticsOptions) (result schema.Analytics) {
	defer recoverInto(&result)

	if strings.TrimSpace(raw) == "" {
		return schema.NewErrorAnalytics(msgNoData)
	}

	parsed := ingest.Parse(raw, ingest.Options{Delimiter: opts.Delimiter})
	if parsed.HasErrors() {
		return schema.NewErrorAnalytics(fmt.Sprintf(msgParseFailure, parsed.FirstError()))
	}

	return ComputeRecords(parsed.Rows, opts)
}

// ComputeRecords derives analytics from rows that were already parsed.
func ComputeRecords(rows []schema.Record, opts schema.AnalyticsOptions) (result schema.Analytics) {
	defer recoverInto(&result)

	records := filterRecords(rows)
	fields := ExtractFields(records, opts.GenreSeparators)

	result = schema.NewAnalytics()
	result.TotalMovies = len(records)
	result.Records = records
	result.MoviesByReleaseYear = agg.ReleaseYears(fields)
	result.AverageRating, result.RatingDistribution = agg.Ratings(fields)

	timeline := agg.BuildTimeline(fields, opts.Span, opts.TopWatchDates)
	result.MoviesPerMonth = timeline.MoviesPerMonth
	result.YearsWatched = timeline.YearsWatched
	result.TopWatchDates = timeline.TopWatchDates
	result.TotalDaysTracking = timeline.TotalDaysTracking

	result.GenreDistribution, result.FavoriteGenre = agg.Genres(fields)
	result.TotalHoursWatched = agg.RuntimeHours(fields)
	return result
}

// recoverInto replaces *result with an error result when a panic is in flight.
func recoverInto(result *schema.Analytics) {
	if r := recover(); r != nil {
		*result = schema.NewErrorAnalytics(fmt.Sprint(r))
	}
}
