package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/huangsam/reelstats/internal/contract"
	"github.com/huangsam/reelstats/schema"
)

// uploadTimeFormat is how upload times are shown in tables.
const uploadTimeFormat = "2006-01-02 15:04:05"

// WriteUploads outputs the files of an upload session.
func WriteUploads(sessionID string, files []schema.UploadedFile, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, files)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeUploadsCSV(w, files)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeUploadsTable(w, sessionID, files, cfg)
		}, "Wrote table")
	}
	return nil
}

func writeUploadsCSV(w io.Writer, files []schema.UploadedFile) error {
	header := []string{"id", "name", "type", "size", "uploaded_at"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, f := range files {
			rec := []string{
				f.ID,
				f.Name,
				string(f.Type),
				strconv.FormatInt(f.Size, 10),
				f.UploadedAt.UTC().Format(time.RFC3339),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeUploadsTable(w io.Writer, sessionID string, files []schema.UploadedFile, cfg *contract.Config) error {
	if _, err := fmt.Fprintf(w, "Session: %s\n", sessionID); err != nil {
		return err
	}
	if len(files) == 0 {
		_, err := fmt.Fprintln(w, "No files uploaded.")
		return err
	}

	nameWidth := GetMaxTableKeyWidth(cfg)
	data := make([][]string, 0, len(files))
	for i, f := range files {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			f.ID,
			contract.TruncateText(f.Name, nameWidth),
			string(f.Type),
			strconv.FormatInt(f.Size, 10),
			f.UploadedAt.Local().Format(uploadTimeFormat),
		})
	}
	return renderTable(w, sectionTitle(cfg, "📂", "Uploaded Files"),
		[]string{"#", "ID", "Name", "Type", "Size", "Uploaded"}, data)
}

// WriteValidation outputs the validation report of one export file.
func WriteValidation(name string, result schema.ValidationResult, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeValidationCSV(w, name, result)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeValidationText(w, name, result, cfg)
		}, "Wrote report")
	}
	return nil
}

func writeValidationCSV(w io.Writer, name string, result schema.ValidationResult) error {
	header := []string{"name", "file_type", "valid", "row_count", "headers", "errors"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		return cw.Write([]string{
			name,
			string(result.FileType),
			strconv.FormatBool(result.Valid),
			strconv.Itoa(result.RowCount),
			strings.Join(result.Headers, "|"),
			strings.Join(result.Errors, "|"),
		})
	})
}

func writeValidationText(w io.Writer, name string, result schema.ValidationResult, cfg *contract.Config) error {
	mark, verdict := "✅", "valid"
	if !result.Valid {
		mark, verdict = "❌", "invalid"
	}
	if !cfg.UseEmojis {
		mark = ""
	}
	if cfg.UseColors {
		paint := color.New(color.FgGreen).SprintFunc()
		if !result.Valid {
			paint = color.New(color.FgRed).SprintFunc()
		}
		verdict = paint(verdict)
	}

	line := fmt.Sprintf("%s (%s): %s, %d rows", name, result.FileType, verdict, result.RowCount)
	if mark != "" {
		line = mark + " " + line
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	if len(result.Headers) > 0 {
		if _, err := fmt.Fprintf(w, "  Headers: %s\n", strings.Join(result.Headers, ", ")); err != nil {
			return err
		}
	}
	for _, e := range result.Errors {
		if _, err := fmt.Fprintf(w, "  - %s\n", e); err != nil {
			return err
		}
	}
	return nil
}
