// Package csv is the input provider for remapping runs: it decodes template
// and input files into headers and row maps that the engine consumes. The
// core never sees file bytes; everything downstream operates on the values
// returned here.
//
// Decoding is tolerant by default. Ragged rows, quoting glitches, and similar
// per-row anomalies are collected as Warnings and the row is kept (missing
// cells become absent, extra cells are dropped); nothing at row level is
// fatal. Only an unreadable file or a template with no header row aborts.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"remap/internal/config"
	"remap/pkg/records"
)

// ErrEmptyTemplate is returned when the template file contains no rows.
var ErrEmptyTemplate = errors.New("template has no header row")

// Warning is one recoverable decode anomaly. Row is the 1-based data row
// number (0 for file-level anomalies such as a bad header).
type Warning struct {
	Kind    string // "ragged", "parse"
	Row     int
	Message string
}

// Options captures the csvOptions block of the mapping file in typed form.
type Options struct {
	// Comma is the field delimiter. Zero means ','.
	Comma rune
	// TrimSpace trims edge whitespace from every cell. Defaults to true via
	// FromConfig.
	TrimSpace bool
	// LazyQuotes tolerates bare quotes inside fields.
	LazyQuotes bool
	// FieldsPerRecord is forwarded to csv.Reader: 0 infers from the header,
	// negative allows variable widths. Width mismatches surface as Warnings
	// either way.
	FieldsPerRecord int
	// Encoding optionally names a legacy single-byte charset to decode before
	// CSV parsing (e.g. "windows-1250"). Empty means UTF-8 as-is.
	Encoding string
	// HeaderMap renames source headers to canonical names before rows are
	// keyed (source-name -> canonical).
	HeaderMap map[string]string
}

// FromConfig extracts typed Options from the free-form csvOptions bag.
func FromConfig(o config.Options) Options {
	return Options{
		Comma:           o.Rune("delimiter", ','),
		TrimSpace:       o.Bool("trim_space", true),
		LazyQuotes:      o.Bool("lazy_quotes", false),
		FieldsPerRecord: o.Int("fields_per_record", 0),
		Encoding:        o.String("encoding", ""),
		HeaderMap:       o.StringMap("header_map"),
	}
}

// ReadTemplate reads the template file and returns its first row as the
// ordered output headers. A template with zero rows is fatal
// (ErrEmptyTemplate); rows beyond the first are ignored.
func ReadTemplate(path string, opt Options) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open template %s: %w", path, err)
	}
	defer f.Close()

	r, err := newReader(f, opt)
	if err != nil {
		return nil, err
	}
	hdr, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv: template %s: %w", path, ErrEmptyTemplate)
	}
	if err != nil {
		return nil, fmt.Errorf("csv: read template %s: %w", path, err)
	}
	return normalizeHeader(hdr, opt), nil
}

// ReadRows decodes the input file into its source headers and one Record per
// data row, plus any recoverable decode warnings. The first row is always
// treated as the header.
func ReadRows(path string, opt Options) ([]string, []records.Record, []Warning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("csv: open input %s: %w", path, err)
	}
	defer f.Close()

	r, err := newReader(f, opt)
	if err != nil {
		return nil, nil, nil, err
	}

	hdr, err := r.Read()
	if err == io.EOF {
		return nil, nil, nil, nil // no header, no rows
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("csv: read header %s: %w", path, err)
	}
	headers := normalizeHeader(hdr, opt)

	var (
		rows  []records.Record
		warns []Warning
	)
	rowNum := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) && errors.Is(perr.Err, csv.ErrFieldCount) {
				// Ragged row: encoding/csv still returns the record; keep it.
				warns = append(warns, Warning{
					Kind:    "ragged",
					Row:     rowNum,
					Message: fmt.Sprintf("row %d has %d fields, header has %d", rowNum, len(rec), len(headers)),
				})
			} else {
				warns = append(warns, Warning{
					Kind:    "parse",
					Row:     rowNum,
					Message: fmt.Sprintf("row %d: %v", rowNum, err),
				})
				continue
			}
		}
		if len(rec) != len(headers) && r.FieldsPerRecord <= 0 {
			warns = append(warns, Warning{
				Kind:    "ragged",
				Row:     rowNum,
				Message: fmt.Sprintf("row %d has %d fields, header has %d", rowNum, len(rec), len(headers)),
			})
		}
		rows = append(rows, toRecord(headers, rec, opt))
	}
	return headers, rows, warns, nil
}

// newReader builds the tuned csv.Reader over src, applying the optional
// charset decode first.
func newReader(src io.Reader, opt Options) (*csv.Reader, error) {
	dec, err := decodingReader(src, opt.Encoding)
	if err != nil {
		return nil, err
	}
	r := csv.NewReader(dec)
	if opt.Comma != 0 {
		r.Comma = opt.Comma
	}
	r.LazyQuotes = opt.LazyQuotes
	if opt.FieldsPerRecord != 0 {
		r.FieldsPerRecord = opt.FieldsPerRecord
	}
	return r, nil
}

// normalizeHeader strips the BOM, trims edge whitespace, and applies the
// configured header renames.
func normalizeHeader(hdr []string, opt Options) []string {
	out := StripHeaderBOM(append([]string(nil), hdr...))
	for i, h := range out {
		h = strings.TrimSpace(h)
		if mapped, ok := opt.HeaderMap[h]; ok && mapped != "" {
			h = mapped
		}
		out[i] = h
	}
	return out
}

// toRecord keys a raw record by header name. Missing trailing cells stay
// absent from the map; extra cells beyond the header width are dropped.
func toRecord(headers []string, rec []string, opt Options) records.Record {
	row := make(records.Record, len(headers))
	for i, h := range headers {
		if i >= len(rec) {
			break
		}
		v := rec[i]
		if opt.TrimSpace {
			v = strings.TrimSpace(v)
		}
		row[h] = v
	}
	return row
}
