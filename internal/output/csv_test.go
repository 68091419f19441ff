package output

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"remap/internal/config"
)

func TestCSVSinkWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	sink := &CSVSink{Path: path, Comma: ','}

	headers := []string{"ID", "Name", "Score"}
	rows := [][]any{
		{"001", "John Doe", float64(12.5)},
		{"002", nil, true},
	}
	if err := sink.Write(context.Background(), headers, rows); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "ID,Name,Score\n001,John Doe,12.5\n002,,true\n"
	if string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}
}

func TestCSVSinkDeterministic(t *testing.T) {
	dir := t.TempDir()
	headers := []string{"A", "B"}
	rows := [][]any{{float64(1), "x"}, {"ERROR", ""}}

	var outputs [][]byte
	for i := 0; i < 2; i++ {
		path := filepath.Join(dir, "out.csv")
		sink := &CSVSink{Path: path}
		if err := sink.Write(context.Background(), headers, rows); err != nil {
			t.Fatal(err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		outputs = append(outputs, data)
	}
	if string(outputs[0]) != string(outputs[1]) {
		t.Errorf("runs differ:\n%q\n%q", outputs[0], outputs[1])
	}
}

func TestNewSinkKinds(t *testing.T) {
	tests := []struct {
		kind    string
		path    string
		wantErr bool
	}{
		{"", "out.csv", false},
		{"csv", "out.csv", false},
		{"csv", "", true},
		{"xlsx", "out.xlsx", false},
		{"xlsx", "", true},
		{"sqlite", "", false},
		{"postgres", "", false},
		{"parquet", "out.pq", true},
	}
	for _, tt := range tests {
		_, err := New(config.Output{Kind: tt.kind}, tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("New(kind=%q, path=%q) err = %v, wantErr %v", tt.kind, tt.path, err, tt.wantErr)
		}
	}
}
