package remap

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"remap/internal/rules"
	"remap/pkg/records"
)

// Parallel runs the engine over contiguous row chunks on up to workers
// goroutines and reassembles the grid in input order, so the result is
// byte-identical to Remap on the same inputs.
//
// Each worker compiles its own registry from set: a script registry carries a
// single-threaded runtime and cannot be shared across goroutines. Rules must
// be pure per the mapping contract, so chunked execution cannot observe
// cross-row state.
//
// onErr may be called concurrently from multiple workers; callers that do
// more than logging must synchronize.
func Parallel(ctx context.Context, headers []string, rows []records.Record, comp rules.Compiler, set rules.Set, workers int, onErr OnError) ([][]any, Stats, []string, error) {
	if workers <= 1 || len(rows) <= 1 {
		reg, err := comp.Compile(set)
		if err != nil {
			return nil, Stats{}, nil, err
		}
		grid, stats, unmapped := Remap(headers, rows, reg, onErr)
		return grid, stats, unmapped, nil
	}
	if workers > len(rows) {
		workers = len(rows)
	}

	// The unmapped scan only needs one registry; it also validates the set
	// before any worker starts.
	reg, err := comp.Compile(set)
	if err != nil {
		return nil, Stats{}, nil, err
	}
	unmapped := unmappedColumns(headers, reg)

	type chunk struct {
		base int
		rows []records.Record
	}
	chunks := make([]chunk, 0, workers)
	size := (len(rows) + workers - 1) / workers
	for base := 0; base < len(rows); base += size {
		end := base + size
		if end > len(rows) {
			end = len(rows)
		}
		chunks = append(chunks, chunk{base: base, rows: rows[base:end]})
	}

	frags := make([][][]any, len(chunks))
	partials := make([]Stats, len(chunks))

	g, ctx := errgroup.WithContext(ctx)
	for ci, c := range chunks {
		ci, c := ci, c
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			wreg, err := comp.Compile(set)
			if err != nil {
				return fmt.Errorf("remap: worker compile: %w", err)
			}
			frags[ci], partials[ci] = remapRows(headers, c.rows, wreg, c.base, onErr)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Stats{}, nil, err
	}

	grid := make([][]any, 0, len(rows)+1)
	grid = append(grid, headerRow(headers))
	var stats Stats
	for ci := range chunks {
		grid = append(grid, frags[ci]...)
		stats.merge(partials[ci])
	}
	stats.Warnings = stats.CellErrors + len(unmapped)
	return grid, stats, unmapped, nil
}
