package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Load reads and decodes a mapping file. Any decoding failure is fatal for
// the run; the returned error names the file.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	var cfg Config
	dec := json.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if cfg.CSVOptions == nil {
		cfg.CSVOptions = Options{}
	}
	return cfg, nil
}
