// Package schema has models and constants shared by all parts of reelstats.
package schema

import (
	"cmp"
	"maps"
	"slices"
	"time"
)

// Record is one parsed row of an export file, keyed by column name.
// The column set is open; unknown columns are carried along untouched.
type Record map[string]string

// WatchDateCount is an exact watch date together with how many records share it.
type WatchDateCount struct {
	Date  string `json:"date"`  // Calendar date formatted as YYYY-MM-DD
	Count int    `json:"count"` // Number of records watched on that date
}

// Analytics is the complete result of deriving statistics from one export file.
// On failure every field except Error holds its zero value and all maps are empty.
type Analytics struct {
	TotalMovies         int              `json:"totalMovies"`
	AverageRating       float64          `json:"averageRating"`
	RatingDistribution  map[int]int      `json:"ratingDistribution"`
	TotalHoursWatched   int              `json:"totalHoursWatched"`
	FavoriteGenre       *string          `json:"favoriteGenre"`
	MoviesPerMonth      map[string]int   `json:"moviesPerMonth"`
	MoviesByReleaseYear map[string]int   `json:"moviesByReleaseYear"`
	GenreDistribution   map[string]int   `json:"genreDistribution"`
	YearsWatched        map[string]int   `json:"yearsWatched"`
	TopWatchDates       []WatchDateCount `json:"topWatchDates"`
	TotalDaysTracking   int              `json:"totalDaysTracking"`
	Error               *string          `json:"error"`

	// Records holds the filtered rows behind the result for record-level exports.
	Records []Record `json:"-"`
}

// AnalyticsOptions tunes how Analytics are derived.
// The zero value is valid and yields the default behavior.
type AnalyticsOptions struct {
	TopWatchDates   int      // Maximum entries in TopWatchDates (0 = DefaultTopWatchDates)
	Span            SpanMode // How TotalDaysTracking is measured ("" = FileOrderSpan)
	Delimiter       rune     // Field delimiter (0 = auto-detect)
	GenreSeparators string   // Characters splitting the genre list ("" = DefaultGenreSeparators)
}

// MovieFields holds the values derived from one record.
// Pointer fields are nil when the column is missing or fails to parse.
type MovieFields struct {
	Name           string
	ReleaseYear    string // Trimmed year text; empty unless it starts with an integer
	Rating         *float64
	WatchedDate    *time.Time
	Genres         []string
	RuntimeMinutes float64
}

// NewAnalytics returns an empty result with all mappings initialized.
func NewAnalytics() Analytics {
	return Analytics{
		RatingDistribution:  map[int]int{},
		MoviesPerMonth:      map[string]int{},
		MoviesByReleaseYear: map[string]int{},
		GenreDistribution:   map[string]int{},
		YearsWatched:        map[string]int{},
		TopWatchDates:       []WatchDateCount{},
	}
}

// NewErrorAnalytics returns an empty result carrying the given error message.
func NewErrorAnalytics(msg string) Analytics {
	result := NewAnalytics()
	result.Error = &msg
	return result
}

// Failed reports whether the result carries an error.
func (a Analytics) Failed() bool {
	return a.Error != nil
}

// ErrorMessage returns the error message or an empty string.
func (a Analytics) ErrorMessage() string {
	if a.Error == nil {
		return ""
	}
	return *a.Error
}

// FavoriteGenreName returns the favorite genre or an empty string.
func (a Analytics) FavoriteGenreName() string {
	if a.FavoriteGenre == nil {
		return ""
	}
	return *a.FavoriteGenre
}

// Clone returns a deep copy so callers can mutate it without touching shared results.
func (a Analytics) Clone() Analytics {
	clone := a
	clone.RatingDistribution = maps.Clone(a.RatingDistribution)
	clone.MoviesPerMonth = maps.Clone(a.MoviesPerMonth)
	clone.MoviesByReleaseYear = maps.Clone(a.MoviesByReleaseYear)
	clone.GenreDistribution = maps.Clone(a.GenreDistribution)
	clone.YearsWatched = maps.Clone(a.YearsWatched)
	clone.TopWatchDates = slices.Clone(a.TopWatchDates)
	if a.FavoriteGenre != nil {
		genre := *a.FavoriteGenre
		clone.FavoriteGenre = &genre
	}
	if a.Error != nil {
		msg := *a.Error
		clone.Error = &msg
	}
	if a.Records != nil {
		clone.Records = make([]Record, len(a.Records))
		for i, r := range a.Records {
			clone.Records[i] = maps.Clone(r)
		}
	}
	return clone
}

// SortedKeys returns the keys of a count table in ascending order.
func SortedKeys[K cmp.Ordered](m map[K]int) []K {
	return slices.Sorted(maps.Keys(m))
}
