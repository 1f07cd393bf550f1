// Package ingest turns delimited export text into header-keyed records.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/huangsam/reelstats/schema"
)

// Error codes reported by Parse.
const (
	CodeTooFewFields  = "TooFewFields"
	CodeTooManyFields = "TooManyFields"
	CodeInvalidQuotes = "InvalidQuotes"
)

// ExtraFieldsKey holds the values of a row that has more fields than the header.
const ExtraFieldsKey = "__parsed_extra"

// byteOrderMark is stripped from the start of the text.
const byteOrderMark = "\ufeff"

// ParseError describes one structural problem found while parsing.
type ParseError struct {
	Row     int    // Zero-based data row index (header excluded)
	Code    string // One of the Code* constants
	Message string // Human-readable description
}

// Error implements the error interface.
func (e ParseError) Error() string {
	return e.Message
}

// Options controls parsing.
type Options struct {
	Delimiter rune // Field delimiter; 0 means auto-detect
}

// ParseResult is the outcome of parsing delimited text in header-row mode.
type ParseResult struct {
	Headers   []string
	Rows      []schema.Record
	Errors    []ParseError
	Warnings  []string
	Delimiter rune
}

// RowCount returns the number of data rows.
func (pr ParseResult) RowCount() int {
	return len(pr.Rows)
}

// HasErrors reports whether any structural errors were found.
func (pr ParseResult) HasErrors() bool {
	return len(pr.Errors) > 0
}

// FirstError returns the first error message, or an empty string.
func (pr ParseResult) FirstError() string {
	if len(pr.Errors) == 0 {
		return ""
	}
	return pr.Errors[0].Message
}

// HasHeader reports whether the given column name is present.
func (pr ParseResult) HasHeader(name string) bool {
	for _, h := range pr.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// ValidateDelimiter checks that a delimiter can be used to split fields.
func ValidateDelimiter(r rune) error {
	if r == 0 {
		return nil
	}
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return fmt.Errorf("invalid delimiter %q", r)
	}
	return nil
}

// Parse splits text into records. The first row names the columns and blank lines
// are skipped. Parsing never fails outright; problems are reported in Errors.
func Parse(text string, opts Options) ParseResult {
	text = strings.TrimPrefix(text, byteOrderMark)

	result := ParseResult{Rows: []schema.Record{}}
	delimiter := opts.Delimiter
	if delimiter == 0 {
		guessed, ok := guessDelimiter(text)
		if !ok {
			result.Warnings = append(result.Warnings, "Unable to auto-detect delimiting character; defaulted to ','")
		}
		delimiter = guessed
	}
	result.Delimiter = delimiter

	reader := newReader(strings.NewReader(text), delimiter)

	headerRow, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return result
	}
	if err != nil {
		result.Errors = append(result.Errors, quoteError(0, err))
		return result
	}
	result.Headers = dedupeHeaders(headerRow)

	for row := 0; ; row++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// The reader cannot resynchronize after a read error.
			result.Errors = append(result.Errors, quoteError(row, err))
			break
		}
		record, parseErr := buildRecord(result.Headers, fields, row, delimiter)
		if parseErr != nil {
			result.Errors = append(result.Errors, *parseErr)
		}
		result.Rows = append(result.Rows, record)
	}

	if unterminatedQuote(text, delimiter) {
		result.Errors = append(result.Errors, ParseError{
			Row:     max(len(result.Rows)-1, 0),
			Code:    CodeInvalidQuotes,
			Message: "Quoted field unterminated",
		})
	}
	return result
}

// ParseReader reads all of r and parses it.
func ParseReader(r io.Reader, opts Options) (ParseResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ParseResult{}, fmt.Errorf("failed to read input: %w", err)
	}
	return Parse(string(data), opts), nil
}

// ParseFile reads and parses the file at path.
func ParseFile(path string, opts Options) (ParseResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ParseResult{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(string(data), opts), nil
}

// newReader builds a csv.Reader that tolerates ragged rows so field counts can be reported per row.
// A quote only opens a quoted field at the start of the field; anywhere else it is kept as text.
func newReader(r io.Reader, delimiter rune) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader
}

// unterminatedQuote reports whether text ends inside a quoted field.
// The lazy reader accepts such input silently, so it is checked separately.
// Inside quotes, "" is an escaped quote and a quote closes the field only before
// a delimiter, a line break or the end of the text.
func unterminatedQuote(text string, delimiter rune) bool {
	runes := []rune(text)
	endsField := func(i int) bool {
		return i == len(runes) || runes[i] == delimiter || runes[i] == '\n' || runes[i] == '\r'
	}

	inQuotes, atFieldStart := false, true
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if inQuotes {
			if r != '"' {
				continue
			}
			if i+1 < len(runes) && runes[i+1] == '"' {
				i++
				continue
			}
			if endsField(i + 1) {
				inQuotes = false
			}
			continue
		}
		if r == '"' && atFieldStart {
			inQuotes, atFieldStart = true, false
			continue
		}
		atFieldStart = r == delimiter || r == '\n' || r == '\r'
	}
	return inQuotes
}

// buildRecord maps fields onto headers, reporting mismatched field counts.
func buildRecord(headers, fields []string, row int, delimiter rune) (schema.Record, *ParseError) {
	record := make(schema.Record, len(headers))
	for i, h := range headers {
		if i < len(fields) {
			record[h] = fields[i]
		}
	}

	switch {
	case len(fields) < len(headers):
		return record, &ParseError{
			Row:     row,
			Code:    CodeTooFewFields,
			Message: fmt.Sprintf("Too few fields: expected %d fields but parsed %d", len(headers), len(fields)),
		}
	case len(fields) > len(headers):
		record[ExtraFieldsKey] = strings.Join(fields[len(headers):], string(delimiter))
		return record, &ParseError{
			Row:     row,
			Code:    CodeTooManyFields,
			Message: fmt.Sprintf("Too many fields: expected %d fields but parsed %d", len(headers), len(fields)),
		}
	}
	return record, nil
}

// dedupeHeaders renames repeated column names to Name_1, Name_2 and so on.
func dedupeHeaders(headers []string) []string {
	out := make([]string, len(headers))
	seen := make(map[string]int, len(headers))
	taken := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		taken[h] = struct{}{}
	}
	for i, h := range headers {
		count := seen[h]
		seen[h]++
		if count == 0 {
			out[i] = h
			continue
		}
		name := fmt.Sprintf("%s_%d", h, count)
		for {
			if _, exists := taken[name]; !exists {
				break
			}
			count++
			name = fmt.Sprintf("%s_%d", h, count)
		}
		taken[name] = struct{}{}
		out[i] = name
	}
	return out
}

// quoteError converts a csv reader error into a ParseError.
func quoteError(row int, err error) ParseError {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return ParseError{
			Row:     row,
			Code:    CodeInvalidQuotes,
			Message: fmt.Sprintf("Malformed field on line %d, column %d: %v", csvErr.Line, csvErr.Column, csvErr.Err),
		}
	}
	return ParseError{Row: row, Code: CodeInvalidQuotes, Message: err.Error()}
}
