// Package config provides configuration loading and validation for the API
// server and the CLI.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the render command configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	Input    string `json:"input,omitempty"`    // Path to a resume JSON document
	Output   string `json:"output,omitempty"`   // Path for the rendered HTML
	Template string `json:"template,omitempty"` // Template id (01, 02, 03 or a legacy alias)
	Width    int    `json:"width,omitempty"`    // Container width in pixels
	Verbose  bool   `json:"verbose,omitempty"`  // Print the computed layout
}

// LoadConfig reads a render configuration file. Relative input and output
// paths are resolved against the directory holding the file, and unknown keys
// are rejected.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", abs, err)
	}

	var cfg Config
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	dir := filepath.Dir(abs)
	cfg.Input = resolveAgainst(dir, cfg.Input)
	cfg.Output = resolveAgainst(dir, cfg.Output)
	return &cfg, nil
}

func resolveAgainst(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Width < 0 {
		return fmt.Errorf("config error: 'width' must be non-negative")
	}

	if c.Input != "" {
		if _, err := os.Stat(c.Input); os.IsNotExist(err) {
			return fmt.Errorf("config error: input file not found: %s", c.Input)
		}
	}

	if c.Input != "" && c.Output != "" && filepath.Clean(c.Input) == filepath.Clean(c.Output) {
		return fmt.Errorf("config error: 'input' and 'output' must differ")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Input == "" {
		result.Input = defaults.Input
	}
	if result.Output == "" {
		result.Output = defaults.Output
	}
	if result.Template == "" {
		result.Template = defaults.Template
	}
	if result.Width == 0 {
		result.Width = defaults.Width
	}

	// Verbose is not merged: false and unset look the same.
	return result
}
