package agg

import (
	"math"
	"testing"
	"time"

	"github.com/huangsam/reelstats/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rating(v float64) *float64 { return &v }

func date(s string) *time.Time {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestReleaseYears(t *testing.T) {
	fields := []schema.MovieFields{
		{ReleaseYear: "1994"},
		{ReleaseYear: "2008"},
		{ReleaseYear: "1994"},
		{ReleaseYear: ""},
	}

	assert.Equal(t, map[string]int{"1994": 2, "2008": 1}, ReleaseYears(fields))
	assert.Empty(t, ReleaseYears(nil))
}

func TestRatings(t *testing.T) {
	tests := []struct {
		name     string
		ratings  []*float64
		wantAvg  float64
		wantDist map[int]int
	}{
		{
			name:     "mixed half stars",
			ratings:  []*float64{rating(5), rating(4.5), rating(4), rating(4), rating(5)},
			wantAvg:  4.5,
			wantDist: map[int]int{4: 2, 5: 3},
		},
		{
			name:     "rounds mean to one decimal",
			ratings:  []*float64{rating(3), rating(3.5), rating(3.5)},
			wantAvg:  3.3,
			wantDist: map[int]int{3: 1, 4: 2},
		},
		{
			name:     "unrated records are ignored",
			ratings:  []*float64{nil, rating(2), nil},
			wantAvg:  2,
			wantDist: map[int]int{2: 1},
		},
		{
			name:     "nothing rated",
			ratings:  []*float64{nil, nil},
			wantAvg:  0,
			wantDist: map[int]int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := make([]schema.MovieFields, len(tt.ratings))
			for i, r := range tt.ratings {
				fields[i].Rating = r
			}
			avg, dist := Ratings(fields)
			assert.InDelta(t, tt.wantAvg, avg, 1e-9)
			assert.Equal(t, tt.wantDist, dist)
		})
	}
}

func TestBuildTimeline(t *testing.T) {
	fields := []schema.MovieFields{
		{WatchedDate: date("2023-01-15")},
		{WatchedDate: date("2023-01-15")},
		{WatchedDate: nil},
		{WatchedDate: date("2023-02-01")},
		{WatchedDate: date("2022-12-31")},
	}

	tl := BuildTimeline(fields, schema.FileOrderSpan, 0)

	assert.Equal(t, map[string]int{"2023-01": 2, "2023-02": 1, "2022-12": 1}, tl.MoviesPerMonth)
	assert.Equal(t, map[string]int{"2023": 3, "2022": 1}, tl.YearsWatched)
	require.Len(t, tl.TopWatchDates, 3)
	assert.Equal(t, schema.WatchDateCount{Date: "2023-01-15", Count: 2}, tl.TopWatchDates[0])
	assert.Equal(t, "2023-02-01", tl.TopWatchDates[1].Date, "ties keep first-seen order")
	assert.Equal(t, "2022-12-31", tl.TopWatchDates[2].Date)
	assert.Equal(t, 15, tl.TotalDaysTracking, "first minus last in record order")
}

func TestBuildTimelineTopLimit(t *testing.T) {
	var fields []schema.MovieFields
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 15 {
		d := start.AddDate(0, 0, i)
		fields = append(fields, schema.MovieFields{WatchedDate: &d})
	}

	tl := BuildTimeline(fields, schema.FileOrderSpan, 0)
	require.Len(t, tl.TopWatchDates, schema.DefaultTopWatchDates)
	assert.Equal(t, "2024-01-01", tl.TopWatchDates[0].Date)
	assert.Equal(t, "2024-01-10", tl.TopWatchDates[9].Date)

	tl = BuildTimeline(fields, schema.FileOrderSpan, 3)
	assert.Len(t, tl.TopWatchDates, 3)
}

func TestTrackingDays(t *testing.T) {
	ascending := []time.Time{*date("2024-01-01"), *date("2024-01-05"), *date("2024-01-11")}
	descending := []time.Time{*date("2024-01-11"), *date("2024-01-05"), *date("2024-01-01")}
	unordered := []time.Time{*date("2024-01-05"), *date("2024-01-11"), *date("2024-01-01"), *date("2024-01-03")}

	assert.Equal(t, -10, trackingDays(ascending, schema.FileOrderSpan))
	assert.Equal(t, 10, trackingDays(descending, schema.FileOrderSpan))
	assert.Equal(t, 2, trackingDays(unordered, schema.FileOrderSpan))
	assert.Equal(t, 10, trackingDays(ascending, schema.ChronologicalSpan))
	assert.Equal(t, 10, trackingDays(unordered, schema.ChronologicalSpan))
	assert.Zero(t, trackingDays(ascending[:1], schema.FileOrderSpan))
	assert.Zero(t, trackingDays(nil, schema.ChronologicalSpan))

	partial := []time.Time{
		time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, 2, trackingDays(partial, schema.FileOrderSpan), "partial days round up")

	distant := []time.Time{*date("0001-01-01"), *date("2024-01-01")}
	want := int(date("2024-01-01").Unix()-date("0001-01-01").Unix()) / 86400
	assert.Equal(t, 738885, want)
	assert.Equal(t, want, trackingDays(distant, schema.ChronologicalSpan))
	assert.Equal(t, -want, trackingDays(distant, schema.FileOrderSpan))
}

func TestGenres(t *testing.T) {
	fields := []schema.MovieFields{
		{Genres: []string{"Drama", "Crime"}},
		{Genres: []string{"Crime", "Thriller"}},
		{Genres: []string{"Drama"}},
		{Genres: nil},
	}

	dist, favorite := Genres(fields)
	assert.Equal(t, map[string]int{"Drama": 2, "Crime": 2, "Thriller": 1}, dist)
	require.NotNil(t, favorite)
	assert.Equal(t, "Drama", *favorite, "ties go to the genre seen first")

	dist, favorite = Genres([]schema.MovieFields{{}, {}})
	assert.Empty(t, dist)
	assert.Nil(t, favorite)
}

func TestRuntimeHours(t *testing.T) {
	assert.Equal(t, 4, RuntimeHours([]schema.MovieFields{{RuntimeMinutes: 142}, {RuntimeMinutes: 100}}))
	assert.Equal(t, 1, RuntimeHours([]schema.MovieFields{{RuntimeMinutes: 30}}), "half an hour rounds up")
	assert.Zero(t, RuntimeHours([]schema.MovieFields{{RuntimeMinutes: 29}}))
	assert.Zero(t, RuntimeHours(nil))
}

func TestOrderedCounter(t *testing.T) {
	c := newOrderedCounter()
	for _, k := range []string{"b", "a", "c", "a", "b", "d"} {
		c.Add(k)
	}

	assert.Equal(t, 4, c.Len())
	assert.Equal(t, []CountEntry{{"b", 2}, {"a", 2}, {"c", 1}, {"d", 1}}, c.Top(10))
	assert.Equal(t, []CountEntry{{"b", 2}}, c.Top(1))
	assert.Empty(t, c.Top(0))

	counts := c.Counts()
	counts["a"] = 100
	assert.Equal(t, 2, c.Counts()["a"])
}

func TestRoundHalfAway(t *testing.T) {
	assert.Equal(t, 3.0, RoundHalfAway(2.5))
	assert.Equal(t, -3.0, RoundHalfAway(-2.5))
	assert.Equal(t, 2.0, RoundHalfAway(2.49))
	assert.Equal(t, -2.0, RoundHalfAway(-2.49))

	neg := -2.5
	_, dist := Ratings([]schema.MovieFields{{Rating: &neg}})
	assert.Equal(t, map[int]int{-3: 1}, dist)
}

func TestClampToInt(t *testing.T) {
	assert.Equal(t, 42, clampToInt(42))
	assert.Equal(t, math.MaxInt, clampToInt(1e300))
	assert.Equal(t, math.MinInt, clampToInt(-1e300))
	assert.Zero(t, clampToInt(math.NaN()))
}

func TestOverflowStaysFinite(t *testing.T) {
	huge := math.MaxFloat64
	avg, dist := Ratings([]schema.MovieFields{{Rating: &huge}, {Rating: &huge}})
	assert.Zero(t, avg)
	assert.Len(t, dist, 1)

	assert.Zero(t, RuntimeHours([]schema.MovieFields{{RuntimeMinutes: huge}, {RuntimeMinutes: huge}}))

	large := 1e300
	_, dist = Ratings([]schema.MovieFields{{Rating: &large}})
	assert.Equal(t, map[int]int{math.MaxInt: 1}, dist)
	assert.Equal(t, math.MaxInt, RuntimeHours([]schema.MovieFields{{RuntimeMinutes: large}}))
}
