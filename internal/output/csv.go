package output

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"remap/pkg/records"
)

// CSVSink writes the grid as delimited text. Cell values are rendered in
// canonical string form so a run produces byte-identical files regardless of
// whether a rule returned "1" or the number 1.
type CSVSink struct {
	Path  string
	Comma rune
}

// Write creates (or truncates) the destination file and writes the header row
// followed by the data rows.
func (s *CSVSink) Write(ctx context.Context, headers []string, rows [][]any) error {
	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("output: create %s: %w", s.Path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if s.Comma != 0 {
		w.Comma = s.Comma
	}

	if err := w.Write(headers); err != nil {
		return fmt.Errorf("output: write header: %w", err)
	}
	line := make([]string, len(headers))
	for i, row := range rows {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		for j := range line {
			if j < len(row) {
				line[j] = records.Canon(row[j])
			} else {
				line[j] = ""
			}
		}
		if err := w.Write(line); err != nil {
			return fmt.Errorf("output: write row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("output: flush: %w", err)
	}
	return f.Close()
}
