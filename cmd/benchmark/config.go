package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config selects the scenarios and sizes to measure.
type Config struct {
	Iterations int
	Seed       int64
	Rows       []int
	Depths     []int
	Shuffles   []int
}

func DefaultConfig() Config {
	return Config{
		Iterations: 100,
		Seed:       1,
		Rows:       []int{10, 100, 1_000},
		Depths:     []int{10, 100, 500},
		Shuffles:   []int{10, 100, 1_000},
	}
}

type fileConfig struct {
	Iterations int   `toml:"iterations"`
	Seed       int64 `toml:"seed"`
	Rows       []int `toml:"rows"`
	Depths     []int `toml:"depths"`
	Shuffles   []int `toml:"shuffles"`
}

// loadConfig overlays the keys defined in the TOML file at path onto the defaults.
func loadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load benchmark config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load benchmark config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("iterations") {
		cfg.Iterations = raw.Iterations
	}
	if meta.IsDefined("seed") {
		cfg.Seed = raw.Seed
	}
	if meta.IsDefined("rows") {
		cfg.Rows = raw.Rows
	}
	if meta.IsDefined("depths") {
		cfg.Depths = raw.Depths
	}
	if meta.IsDefined("shuffles") {
		cfg.Shuffles = raw.Shuffles
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Iterations <= 0 {
		return fmt.Errorf("iterations must be positive, got %d", c.Iterations)
	}
	for name, sizes := range map[string][]int{"rows": c.Rows, "depths": c.Depths, "shuffles": c.Shuffles} {
		for _, s := range sizes {
			if s <= 0 {
				return fmt.Errorf("%s: size must be positive, got %d", name, s)
			}
		}
	}
	return nil
}
