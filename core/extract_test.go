package core

import (
	"math"
	"testing"
	"time"

	"github.com/huangsam/reelstats/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	rec := schema.Record{"Watched Date": "", "Date": "2024-01-02", "name": "heat"}
	assert.Equal(t, "2024-01-02", lookup(rec, watchedDateColumns))
	assert.Equal(t, "heat", lookup(rec, nameColumns))
	assert.Equal(t, "", lookup(rec, ratingColumns))
}

func TestFilterRecords(t *testing.T) {
	rows := []schema.Record{
		{"Name": "Heat"},
		{"Name": "   ", "Watched Date": ""},
		{"Watched Date": "2024-01-01"},
		{"Year": "1999", "Rating": "4"},
	}
	kept := filterRecords(rows)
	require.Len(t, kept, 2)
	assert.Equal(t, "Heat", kept[0]["Name"])
	assert.Equal(t, "2024-01-01", kept[1]["Watched Date"])
}

func TestParseLeadingFloat(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{"4.5", 4.5, true},
		{" 3 ", 3, true},
		{"4.5 stars", 4.5, true},
		{".5", 0.5, true},
		{"-2", -2, true},
		{"1e2", 100, true},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parseLeadingFloat(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	inf, ok := parseLeadingFloat("Infinity")
	assert.True(t, ok)
	assert.True(t, math.IsInf(inf, 1))
}

func TestParseReleaseYear(t *testing.T) {
	assert.Equal(t, "1995", parseReleaseYear(" 1995 "))
	assert.Equal(t, "", parseReleaseYear("N/A"))
	assert.Equal(t, "", parseReleaseYear(""))
}

func TestParseWatchDate(t *testing.T) {
	want := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	for _, input := range []string{"2024-01-05", "2024/01/05", "01/05/2024", "Jan 5, 2024", "January 5, 2024", "5 Jan 2024", " 2024-01-05 "} {
		t.Run(input, func(t *testing.T) {
			got, ok := parseWatchDate(input)
			require.True(t, ok)
			assert.True(t, want.Equal(got), "got %v", got)
		})
	}

	got, ok := parseWatchDate("2024-01-05T23:30:00-05:00")
	require.True(t, ok)
	assert.Equal(t, time.UTC, got.Location())

	for _, input := range []string{"", "soon", "2024-13-01"} {
		_, ok := parseWatchDate(input)
		assert.False(t, ok, input)
	}
}

func TestSplitGenres(t *testing.T) {
	assert.Equal(t, []string{"Action", "Crime", "Drama"}, splitGenres("Action, Crime , Drama", ","))
	assert.Equal(t, []string{"Action", "Drama"}, splitGenres("Action|Drama", ",|"))
	assert.Equal(t, []string{"Action", "Drama"}, splitGenres("Action,,Drama,", ""))
	assert.Nil(t, splitGenres("", ","))
	assert.Nil(t, splitGenres(" , ", ","))
}

func TestExtractFields(t *testing.T) {
	records := []schema.Record{
		{"Name": " Heat ", "Year": "1995", "Rating": "4.5", "Watched Date": "2024-01-05", "Genres": "Crime, Drama", "Runtime": "170"},
		{"name": "Ronin", "year": "N/A", "rating": "Infinity", "runtime": "n/a"},
	}
	fields := ExtractFields(records, ",")
	require.Len(t, fields, 2)

	assert.Equal(t, "Heat", fields[0].Name)
	assert.Equal(t, "1995", fields[0].ReleaseYear)
	require.NotNil(t, fields[0].Rating)
	assert.Equal(t, 4.5, *fields[0].Rating)
	require.NotNil(t, fields[0].WatchedDate)
	assert.Equal(t, []string{"Crime", "Drama"}, fields[0].Genres)
	assert.Equal(t, 170.0, fields[0].RuntimeMinutes)

	assert.Equal(t, "Ronin", fields[1].Name)
	assert.Empty(t, fields[1].ReleaseYear)
	assert.Nil(t, fields[1].Rating)
	assert.Nil(t, fields[1].WatchedDate)
	assert.Zero(t, fields[1].RuntimeMinutes)

	assert.Empty(t, ExtractFields(nil, ","))
}
