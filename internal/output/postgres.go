// Postgres sink using pgx v5. It bulk-loads the grid with COPY, which is the
// fastest path pgx offers for append-only loads.
package output

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"remap/internal/config"
)

// PostgresSink loads the grid into a Postgres table via CopyFrom. With
// AutoCreateTable set, the table is created from the template headers as
// all-TEXT columns.
type PostgresSink struct {
	Config config.DBConfig
}

// Write connects, optionally creates the table, and streams the rows with a
// single COPY.
func (s *PostgresSink) Write(ctx context.Context, headers []string, rows [][]any) error {
	if strings.TrimSpace(s.Config.DSN) == "" {
		return fmt.Errorf("output: postgres: DSN must not be empty")
	}
	if strings.TrimSpace(s.Config.Table) == "" {
		return fmt.Errorf("output: postgres: table must not be empty")
	}

	pool, err := pgxpool.New(ctx, s.Config.DSN)
	if err != nil {
		return fmt.Errorf("output: postgres: pgxpool: %w", err)
	}
	defer pool.Close()

	ident := tableIdent(s.Config.Table)

	if s.Config.AutoCreateTable {
		cols := make([]string, len(headers))
		for i, h := range headers {
			cols[i] = sqlIdent(h) + " TEXT"
		}
		ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
			ident.Sanitize(), strings.Join(cols, ", "))
		if _, err := pool.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("output: postgres: create table: %w", err)
		}
	}

	copied, err := pool.CopyFrom(ctx, ident, headers, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("output: postgres: copy: %w", err)
	}
	if copied != int64(len(rows)) {
		return fmt.Errorf("output: postgres: copied %d of %d rows", copied, len(rows))
	}
	return nil
}

// tableIdent turns a possibly schema-qualified name ("public.customers") into
// a pgx Identifier.
func tableIdent(table string) pgx.Identifier {
	parts := strings.SplitN(table, ".", 2)
	return pgx.Identifier(parts)
}
