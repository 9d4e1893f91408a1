// Package export writes video records as JSON and CSV.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/yt-insights/ytexport/internal/models"
)

// Paths holds the output file locations of one export.
type Paths struct {
	JSON string
	CSV  string
}

// Files returns the export paths in dir for the given YYYY-MM-DD date.
// A second export on the same date overwrites the first.
func Files(dir, date string) Paths {
	return Paths{
		JSON: filepath.Join(dir, fmt.Sprintf("videos_%s.json", date)),
		CSV:  filepath.Join(dir, fmt.Sprintf("videos_%s.csv", date)),
	}
}

// WriteJSON writes records as an indented JSON array. Nil is written as [].
func WriteJSON(w io.Writer, records []models.VideoRecord) error {
	if records == nil {
		records = []models.VideoRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	return enc.Encode(records)
}

// ReadJSON parses an array written by WriteJSON.
func ReadJSON(r io.Reader) ([]models.VideoRecord, error) {
	var records []models.VideoRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}
	return records, nil
}

// WriteCSV writes the header followed by one row per record.
func WriteCSV(w io.Writer, records []models.VideoRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.CSVHeader); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(r.CSVRow()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFiles writes both files for date into dir and returns their paths.
func ExportFiles(dir, date string, records []models.VideoRecord) (Paths, error) {
	paths := Files(dir, date)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return paths, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := writeFile(paths.JSON, records, WriteJSON); err != nil {
		return paths, err
	}
	if err := writeFile(paths.CSV, records, WriteCSV); err != nil {
		return paths, err
	}
	return paths, nil
}

func writeFile(path string, records []models.VideoRecord, write func(io.Writer, []models.VideoRecord) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f, records); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
