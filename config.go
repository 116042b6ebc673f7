package main

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/goccy/go-yaml"

	"github.com/sergev/kale/parser"
)

// config is the optional YAML session configuration.
//
//	operators:
//	  ">": 10
//	  "|": 5
//	history: /tmp/kale_history
type config struct {
	// Operators adds or overrides binary-operator precedences. Keys must
	// be single characters; values are positive binding strengths.
	Operators map[string]int `yaml:"operators"`
	// History overrides the REPL history file location.
	History string `yaml:"history"`
}

// loadConfig reads the configuration file at path. An empty path yields
// the built-in defaults.
func loadConfig(path string) (*config, error) {
	cfg := &config{}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// apply installs the configured operators into the precedence table.
func (c *config) apply(prec *parser.Precedence) error {
	for op, strength := range c.Operators {
		r, size := utf8.DecodeRuneInString(op)
		if size == 0 || size != len(op) {
			return fmt.Errorf("config: operator %q must be a single character", op)
		}
		if err := prec.Set(r, strength); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	return nil
}

// historyPath resolves the REPL history file, falling back to a dotfile in
// the user's home directory.
func (c *config) historyPath() string {
	if c.History != "" {
		return c.History
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".kale_history")
}
