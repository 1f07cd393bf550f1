// Package agg has the aggregation folds that turn per-movie fields into
// distributions and summary metrics.
package agg

import (
	"math"
	"time"

	"github.com/huangsam/reelstats/schema"
)

// Calendar key layouts used for time bucketing.
const (
	DayLayout   = "2006-01-02"
	MonthLayout = "2006-01"
	YearLayout  = "2006"
)

// secondsPerDay converts a span in seconds to days.
const secondsPerDay = 86400

// Timeline holds every metric derived from watch dates.
type Timeline struct {
	MoviesPerMonth    map[string]int
	YearsWatched      map[string]int
	TopWatchDates     []schema.WatchDateCount
	TotalDaysTracking int
}

// ReleaseYears counts movies per release year. Records without a usable year are skipped.
func ReleaseYears(fields []schema.MovieFields) map[string]int {
	years := make(map[string]int)
	for _, f := range fields {
		if f.ReleaseYear == "" {
			continue
		}
		years[f.ReleaseYear]++
	}
	return years
}

// Ratings returns the mean rating rounded to one decimal place and the histogram of
// ratings rounded to the nearest whole star. Both are zero-valued when nothing is rated.
func Ratings(fields []schema.MovieFields) (float64, map[int]int) {
	distribution := make(map[int]int)
	sum, count := 0.0, 0
	for _, f := range fields {
		if f.Rating == nil {
			continue
		}
		sum += *f.Rating
		count++
		distribution[clampToInt(RoundHalfAway(*f.Rating))]++
	}
	if count == 0 {
		return 0, distribution
	}
	return finiteOrZero(RoundHalfAway(sum/float64(count)*10) / 10), distribution
}

// BuildTimeline buckets watch dates by month and year, ranks the busiest dates and
// measures the tracking span. Dates are visited in record order.
func BuildTimeline(fields []schema.MovieFields, span schema.SpanMode, top int) Timeline {
	if top <= 0 {
		top = schema.DefaultTopWatchDates
	}

	tl := Timeline{
		MoviesPerMonth: make(map[string]int),
		YearsWatched:   make(map[string]int),
	}
	dates := make([]time.Time, 0, len(fields))
	dayCounts := newOrderedCounter()

	for _, f := range fields {
		if f.WatchedDate == nil {
			continue
		}
		d := f.WatchedDate.UTC()
		dates = append(dates, d)
		tl.MoviesPerMonth[d.Format(MonthLayout)]++
		tl.YearsWatched[d.Format(YearLayout)]++
		dayCounts.Add(d.Format(DayLayout))
	}

	tl.TopWatchDates = make([]schema.WatchDateCount, 0, min(top, dayCounts.Len()))
	for _, entry := range dayCounts.Top(top) {
		tl.TopWatchDates = append(tl.TopWatchDates, schema.WatchDateCount{Date: entry.Key, Count: entry.Count})
	}
	tl.TotalDaysTracking = trackingDays(dates, span)
	return tl
}

// trackingDays measures the span between watch dates in whole days, rounded up.
// In file-order mode the last date is subtracted from the first, so an ascending
// file yields a negative span.
func trackingDays(dates []time.Time, span schema.SpanMode) int {
	if len(dates) < 2 {
		return 0
	}

	from, to := dates[0], dates[len(dates)-1]
	if span == schema.ChronologicalSpan {
		from, to = dates[0], dates[0]
		for _, d := range dates[1:] {
			if d.After(from) {
				from = d
			}
			if d.Before(to) {
				to = d
			}
		}
	}

	// Unix seconds avoid the ~292 year limit of time.Duration.
	seconds := float64(from.Unix()-to.Unix()) + float64(from.Nanosecond()-to.Nanosecond())/1e9
	return int(math.Ceil(seconds / secondsPerDay))
}

// Genres counts every genre token and picks the most frequent one.
// Ties go to the genre seen first. The favorite is nil when no genres exist.
func Genres(fields []schema.MovieFields) (map[string]int, *string) {
	counter := newOrderedCounter()
	for _, f := range fields {
		for _, g := range f.Genres {
			counter.Add(g)
		}
	}

	var favorite *string
	if leaders := counter.Top(1); len(leaders) > 0 {
		name := leaders[0].Key
		favorite = &name
	}
	return counter.Counts(), favorite
}

// RuntimeHours sums runtimes in minutes and converts them to whole hours.
func RuntimeHours(fields []schema.MovieFields) int {
	total := 0.0
	for _, f := range fields {
		total += f.RuntimeMinutes
	}
	return clampToInt(finiteOrZero(RoundHalfAway(total / 60)))
}

// finiteOrZero replaces NaN and infinities with 0.
func finiteOrZero(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

// RoundHalfAway rounds to the nearest integer with halves going away from zero.
func RoundHalfAway(x float64) float64 {
	return math.Round(x)
}

// clampToInt converts x to an int, saturating at the int range. NaN becomes 0.
func clampToInt(x float64) int {
	switch {
	case math.IsNaN(x):
		return 0
	case x >= math.MaxInt:
		return math.MaxInt
	case x <= math.MinInt:
		return math.MinInt
	default:
		return int(x)
	}
}
