// SQLite sink using database/sql. It performs batched INSERTs inside a single
// transaction; SQLite has no dedicated bulk-load API like Postgres COPY, but
// one transaction keeps performance acceptable for moderate volumes.
package output

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	// SQLite driver; replace with your preferred driver if desired.
	_ "modernc.org/sqlite" // alternative: github.com/mattn/go-sqlite3

	"remap/internal/config"
)

// SQLiteSink loads the grid into a SQLite table. With AutoCreateTable set,
// the table is created from the template headers as all-TEXT columns.
type SQLiteSink struct {
	Config config.DBConfig
}

// Write opens the database, optionally creates the table, and inserts every
// row inside one transaction.
func (s *SQLiteSink) Write(ctx context.Context, headers []string, rows [][]any) error {
	if strings.TrimSpace(s.Config.DSN) == "" {
		return fmt.Errorf("output: sqlite: DSN must not be empty")
	}
	if strings.TrimSpace(s.Config.Table) == "" {
		return fmt.Errorf("output: sqlite: table must not be empty")
	}

	db, err := sql.Open("sqlite", s.Config.DSN)
	if err != nil {
		return fmt.Errorf("output: sqlite: open: %w", err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("output: sqlite: ping: %w", err)
	}

	if s.Config.AutoCreateTable {
		cols := make([]string, len(headers))
		for i, h := range headers {
			cols[i] = sqlIdent(h) + " TEXT"
		}
		ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
			sqlIdent(s.Config.Table), strings.Join(cols, ", "))
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("output: sqlite: create table: %w", err)
		}
	}

	colList := make([]string, len(headers))
	placeholders := make([]string, len(headers))
	for i, h := range headers {
		colList[i] = sqlIdent(h)
		placeholders[i] = "?"
	}
	stmtSQL := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		sqlIdent(s.Config.Table),
		strings.Join(colList, ", "),
		strings.Join(placeholders, ", "))

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("output: sqlite: begin tx: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("output: sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range rows {
		if len(row) != len(headers) {
			_ = tx.Rollback()
			return fmt.Errorf("output: sqlite: row %d length %d != %d columns", i+1, len(row), len(headers))
		}
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("output: sqlite: insert row %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("output: sqlite: commit: %w", err)
	}
	return nil
}

// sqlIdent quotes an identifier for SQLite and Postgres DDL.
func sqlIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
