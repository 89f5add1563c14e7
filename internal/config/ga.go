package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"fleet-route-optimizer/internal/ga"

	"gopkg.in/yaml.v3"
)

// LoadGA reads a YAML file of GA parameters over ga.DefaultConfig.
// An empty path returns the defaults.
func LoadGA(path string) (ga.Config, error) {
	cfg := ga.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("load ga config: read %q: %w", path, err)
	}
	return ParseGA(data)
}

// ParseGA decodes YAML over the defaults; unknown keys are rejected.
func ParseGA(data []byte) (ga.Config, error) {
	cfg := ga.DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("load ga config: parse yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("load ga config: %w", err)
	}
	return cfg, nil
}
