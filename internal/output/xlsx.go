package output

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXSink writes the grid as a single-sheet spreadsheet. Values keep their
// native types where the format allows (numbers stay numbers).
type XLSXSink struct {
	Path string
	// Sheet names the worksheet; empty means "Sheet1".
	Sheet string
}

// Write renders headers in row 1 and data rows below, then saves the file.
func (s *XLSXSink) Write(ctx context.Context, headers []string, rows [][]any) error {
	sheet := s.Sheet
	if sheet == "" {
		sheet = "Sheet1"
	}

	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("output: xlsx sheet %q: %w", sheet, err)
		}
	}

	hdr := make([]any, len(headers))
	for i, h := range headers {
		hdr[i] = h
	}
	if err := setRow(f, sheet, 1, hdr); err != nil {
		return err
	}
	for i, row := range rows {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	if err := f.SaveAs(s.Path); err != nil {
		return fmt.Errorf("output: save %s: %w", s.Path, err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("output: xlsx row %d: %w", rowNum, err)
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("output: xlsx row %d: %w", rowNum, err)
	}
	return nil
}
