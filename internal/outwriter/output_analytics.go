package outwriter

import (
	"cmp"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/huangsam/reelstats/internal/contract"
	"github.com/huangsam/reelstats/internal/parquet"
	"github.com/huangsam/reelstats/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Section names of the long-format output.
const (
	sectionSummary      = "summary"
	sectionRatings      = "ratingDistribution"
	sectionMonths       = "moviesPerMonth"
	sectionYears        = "yearsWatched"
	sectionReleaseYears = "moviesByReleaseYear"
	sectionGenres       = "genreDistribution"
	sectionTopDates     = "topWatchDates"
)

// longFormatHeader is the header of the CSV output.
var longFormatHeader = []string{"section", "key", "value"}

// WriteAnalytics outputs an analytics result, dispatching based on the output format configured.
func WriteAnalytics(result schema.Analytics, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtInt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		rows := metricRows(result, fmtFloat, fmtInt)
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMetricCSV(w, rows)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return errors.New("parquet output requires --output-file")
		}
		if err := parquet.WriteMetricsParquet(metricRows(result, fmtFloat, fmtInt), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Fprintf(writerStderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAnalyticsText(w, result, cfg, fmtFloat, fmtInt, duration)
		}, "Wrote table")
	}
	return nil
}

// WriteRecords exports derived record fields to a Parquet file. An empty path is a no-op.
func WriteRecords(fields []schema.MovieFields, path string) error {
	if path == "" {
		return nil
	}
	if err := parquet.WriteWatchRecordsParquet(parquet.ConvertMovieFields(fields), path); err != nil {
		return fmt.Errorf("error writing records: %w", err)
	}
	fmt.Fprintf(writerStderr, "💾 Wrote %d records to %s\n", len(fields), path)
	return nil
}

// metricRows flattens a result into section/key/value rows.
// Map sections are ordered by key; top watch dates keep their rank order.
func metricRows(result schema.Analytics, fmtFloat func(float64) string, fmtInt func(int) string) []parquet.MetricRow {
	rows := []parquet.MetricRow{
		{Section: sectionSummary, Key: "totalMovies", Value: fmtInt(result.TotalMovies)},
		{Section: sectionSummary, Key: "averageRating", Value: fmtFloat(result.AverageRating)},
		{Section: sectionSummary, Key: "totalHoursWatched", Value: fmtInt(result.TotalHoursWatched)},
		{Section: sectionSummary, Key: "favoriteGenre", Value: result.FavoriteGenreName()},
		{Section: sectionSummary, Key: "totalDaysTracking", Value: fmtInt(result.TotalDaysTracking)},
	}
	if result.Failed() {
		rows = append(rows, parquet.MetricRow{Section: sectionSummary, Key: "error", Value: result.ErrorMessage()})
	}

	for _, star := range schema.SortedKeys(result.RatingDistribution) {
		rows = append(rows, parquet.MetricRow{Section: sectionRatings, Key: strconv.Itoa(star), Value: fmtInt(result.RatingDistribution[star])})
	}
	for _, section := range []struct {
		name   string
		counts map[string]int
	}{
		{sectionMonths, result.MoviesPerMonth},
		{sectionYears, result.YearsWatched},
		{sectionReleaseYears, result.MoviesByReleaseYear},
		{sectionGenres, result.GenreDistribution},
	} {
		for _, key := range schema.SortedKeys(section.counts) {
			rows = append(rows, parquet.MetricRow{Section: section.name, Key: key, Value: fmtInt(section.counts[key])})
		}
	}
	for _, d := range result.TopWatchDates {
		rows = append(rows, parquet.MetricRow{Section: sectionTopDates, Key: d.Date, Value: fmtInt(d.Count)})
	}
	return rows
}

// writeMetricCSV writes long-format rows as CSV.
func writeMetricCSV(w io.Writer, rows []parquet.MetricRow) error {
	return writeCSVWithHeader(w, longFormatHeader, func(cw *csv.Writer) error {
		for _, r := range rows {
			if err := cw.Write([]string{r.Section, r.Key, r.Value}); err != nil {
				return err
			}
		}
		return nil
	})
}

// newTable returns a table with the right-aligned look used by every text view.
func newTable(w io.Writer, headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	return table
}

// renderTable fills and renders a table, preceded by a title line.
func renderTable(w io.Writer, title string, headers []string, data [][]string) error {
	if _, err := fmt.Fprintf(w, "\n%s\n", title); err != nil {
		return err
	}
	table := newTable(w, headers)
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeAnalyticsText generates and writes the human-readable tables.
func writeAnalyticsText(w io.Writer, result schema.Analytics, cfg *contract.Config, fmtFloat func(float64) string, fmtInt func(int) string, duration time.Duration) error {
	if result.Failed() {
		_, err := fmt.Fprintf(w, "Error: %s\n", result.ErrorMessage())
		return err
	}

	label := contract.GetPlainLabel(result.AverageRating)
	if cfg.UseColors {
		label = contract.GetColorLabel(result.AverageRating)
	}
	favorite := result.FavoriteGenreName()
	if favorite == "" {
		favorite = "-"
	}

	summary := [][]string{
		{"Total Movies", fmtInt(result.TotalMovies)},
		{"Average Rating", fmt.Sprintf("%s (%s)", fmtFloat(result.AverageRating), label)},
		{"Hours Watched", fmtInt(result.TotalHoursWatched)},
		{"Favorite Genre", contract.TruncateText(favorite, GetMaxTableKeyWidth(cfg))},
		{"Days Tracking", fmtInt(result.TotalDaysTracking)},
	}
	if err := renderTable(w, sectionTitle(cfg, "🎬", "Summary"), []string{"Metric", "Value"}, summary); err != nil {
		return err
	}

	if len(result.TopWatchDates) > 0 {
		var data [][]string
		for i, d := range result.TopWatchDates {
			data = append(data, []string{strconv.Itoa(i + 1), d.Date, fmtInt(d.Count)})
		}
		if err := renderTable(w, sectionTitle(cfg, "📅", "Top Watch Dates"), []string{"Rank", "Date", "Movies"}, data); err != nil {
			return err
		}
	}

	if cfg.Detail {
		if err := writeDetailTables(w, result, cfg, fmtInt); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "\nComputed in %v. Cache backend: %s\n", duration, cfg.CacheBackend)
	return err
}

// writeDetailTables writes one table per distribution.
func writeDetailTables(w io.Writer, result schema.Analytics, cfg *contract.Config, fmtInt func(int) string) error {
	keyWidth := GetMaxTableKeyWidth(cfg)
	counted := func(counts map[string]int, keys []string) [][]string {
		data := make([][]string, 0, len(keys))
		for _, k := range keys {
			data = append(data, []string{contract.TruncateText(k, keyWidth), fmtInt(counts[k])})
		}
		return data
	}

	var ratings [][]string
	for _, star := range schema.SortedKeys(result.RatingDistribution) {
		ratings = append(ratings, []string{strconv.Itoa(star), fmtInt(result.RatingDistribution[star])})
	}

	tables := []struct {
		emoji, title string
		headers      []string
		data         [][]string
	}{
		{"🗓️", "Movies per Month", []string{"Month", "Movies"}, counted(result.MoviesPerMonth, schema.SortedKeys(result.MoviesPerMonth))},
		{"📆", "Years Watched", []string{"Year", "Movies"}, counted(result.YearsWatched, schema.SortedKeys(result.YearsWatched))},
		{"🎞️", "Release Years", []string{"Year", "Movies"}, counted(result.MoviesByReleaseYear, schema.SortedKeys(result.MoviesByReleaseYear))},
		{"🎭", "Genres", []string{"Genre", "Movies"}, counted(result.GenreDistribution, genresByCount(result.GenreDistribution))},
		{"⭐", "Ratings", []string{"Stars", "Movies"}, ratings},
	}
	for _, t := range tables {
		if len(t.data) == 0 {
			continue
		}
		if err := renderTable(w, sectionTitle(cfg, t.emoji, t.title), t.headers, t.data); err != nil {
			return err
		}
	}
	return nil
}

// genresByCount orders genres by count descending, then by name.
func genresByCount(counts map[string]int) []string {
	return slices.SortedFunc(maps.Keys(counts), func(a, b string) int {
		if c := cmp.Compare(counts[b], counts[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
}
