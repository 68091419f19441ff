// Package output persists the remapped grid. Sinks implement one narrow
// interface and are selected by kind from configuration, so the engine stays
// indifferent to the destination format: it hands every sink the same uniform
// 2-D grid (headers plus data rows).
//
// Available kinds: "csv" (default), "xlsx", "sqlite", "postgres".
package output

import (
	"context"
	"fmt"

	"remap/internal/config"
)

// Sink writes the output grid to its destination. rows excludes the header
// row; every row has exactly len(headers) cells.
type Sink interface {
	Write(ctx context.Context, headers []string, rows [][]any) error
}

// New builds the sink selected by cfg.Kind. path is the destination for the
// file-based sinks (csv, xlsx) and ignored by the database sinks.
func New(cfg config.Output, path string) (Sink, error) {
	switch cfg.Kind {
	case "", "csv":
		if path == "" {
			return nil, fmt.Errorf("output: csv sink needs an output path")
		}
		comma := ','
		if cfg.Delimiter != "" {
			comma = []rune(cfg.Delimiter)[0]
		}
		return &CSVSink{Path: path, Comma: comma}, nil
	case "xlsx":
		if path == "" {
			return nil, fmt.Errorf("output: xlsx sink needs an output path")
		}
		return &XLSXSink{Path: path}, nil
	case "sqlite":
		return &SQLiteSink{Config: cfg.SQLite}, nil
	case "postgres":
		return &PostgresSink{Config: cfg.Postgres}, nil
	default:
		return nil, fmt.Errorf("output: unknown sink kind %q", cfg.Kind)
	}
}
