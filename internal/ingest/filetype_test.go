package ingest

import (
	"testing"

	"github.com/huangsam/reelstats/schema"
	"github.com/stretchr/testify/assert"
)

func TestDetectFileType(t *testing.T) {
	tests := []struct {
		filename string
		expected schema.FileType
	}{
		{"watched.csv", schema.WatchedFile},
		{"WATCHED.CSV", schema.WatchedFile},
		{"exports/letterboxd/ratings.csv", schema.RatingsFile},
		{"Diary.csv", schema.DiaryFile},
		{"reviews.csv", schema.UnknownFile},
		{"watched.csv.bak", schema.UnknownFile},
		{"", schema.UnknownFile},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectFileType(tt.filename))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		fileType schema.FileType
		text     string
		valid    bool
		errors   []string
	}{
		{
			name:     "watched ok",
			fileType: schema.WatchedFile,
			text:     "Watched Date,Name,Year\n2024-01-01,Heat,1995\n",
			valid:    true,
			errors:   []string{},
		},
		{
			name:     "watched missing columns",
			fileType: schema.WatchedFile,
			text:     "Date,Year\n2024-01-01,1995\n",
			errors:   []string{`Missing required column: "Name"`, `Missing required column: "Watched Date"`},
		},
		{
			name:     "watched without rows",
			fileType: schema.WatchedFile,
			text:     "Watched Date,Name\n",
			errors:   []string{"CSV file is empty"},
		},
		{
			name:     "ratings needs name or rating",
			fileType: schema.RatingsFile,
			text:     "Date,Year\n2024-01-01,1995\n",
			errors:   []string{"Expected columns like: Name, Rating"},
		},
		{
			name:     "ratings with rating only",
			fileType: schema.RatingsFile,
			text:     "Rating\n4.5\n",
			valid:    true,
			errors:   []string{},
		},
		{
			name:     "diary with name only",
			fileType: schema.DiaryFile,
			text:     "Name,Rating\nHeat,5\n",
			valid:    true,
			errors:   []string{},
		},
		{
			name:     "diary without either column",
			fileType: schema.DiaryFile,
			text:     "Year\n1995\n",
			errors:   []string{`Expected at least "Name" and "Watched Date" columns`},
		},
		{
			name:     "unknown type",
			fileType: schema.UnknownFile,
			text:     "Name\nHeat\n",
			errors:   []string{"Unknown file type"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateText(tt.fileType, tt.text, Options{})
			assert.Equal(t, tt.valid, result.Valid)
			assert.Equal(t, tt.errors, result.Errors)
			assert.Equal(t, tt.fileType, result.FileType)
			assert.NotNil(t, result.Headers)
		})
	}
}

func TestValidateTextParseError(t *testing.T) {
	result := ValidateText(schema.WatchedFile, "Name,Watched Date\n\"Heat,2024-01-01\n", Options{})

	assert.False(t, result.Valid)
	assert.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "CSV parsing error: ")
}
