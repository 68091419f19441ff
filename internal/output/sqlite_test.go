package output

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"remap/internal/config"
)

func TestSQLiteSinkWrite(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "out.db")
	sink := &SQLiteSink{Config: config.DBConfig{
		DSN:             dsn,
		Table:           "remapped",
		AutoCreateTable: true,
	}}

	headers := []string{"ID", "Full Name"}
	rows := [][]any{
		{"001", "John Doe"},
		{"002", "Jane Roe"},
	}
	if err := sink.Write(context.Background(), headers, rows); err != nil {
		t.Fatal(err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM "remapped"`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("row count = %d, want 2", count)
	}

	var name string
	if err := db.QueryRow(`SELECT "Full Name" FROM "remapped" WHERE "ID" = '001'`).Scan(&name); err != nil {
		t.Fatal(err)
	}
	if name != "John Doe" {
		t.Errorf("name = %q, want John Doe", name)
	}
}

func TestSQLiteSinkMissingConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DBConfig
	}{
		{"empty dsn", config.DBConfig{Table: "t"}},
		{"empty table", config.DBConfig{DSN: "x.db"}},
	}
	for _, tt := range tests {
		sink := &SQLiteSink{Config: tt.cfg}
		if err := sink.Write(context.Background(), []string{"A"}, nil); err == nil {
			t.Errorf("%s: want error", tt.name)
		}
	}
}

func TestSQLiteSinkRowLengthMismatch(t *testing.T) {
	sink := &SQLiteSink{Config: config.DBConfig{
		DSN:             filepath.Join(t.TempDir(), "out.db"),
		Table:           "t",
		AutoCreateTable: true,
	}}
	err := sink.Write(context.Background(), []string{"A", "B"}, [][]any{{"only one"}})
	if err == nil {
		t.Fatal("want error for short row")
	}
}
