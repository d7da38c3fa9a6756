package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// config holds the optional overrides loaded via --config. Every field
// has a usable zero value, so a missing --config is equivalent to an
// empty file.
type config struct {
	LogLevel string `toml:"log_level"`
}

func loadConfig(path string) (config, error) {
	var cfg config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return cfg, nil
}
