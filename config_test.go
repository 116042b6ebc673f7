package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sergev/kale/parser"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kale.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if len(cfg.Operators) != 0 || cfg.History != "" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadConfigOperators(t *testing.T) {
	path := writeConfig(t, "operators:\n  \">\": 10\n  \"|\": 5\nhistory: /tmp/hist\n")
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if got := cfg.Operators[">"]; got != 10 {
		t.Errorf("operators[>] = %d, want 10", got)
	}
	if got := cfg.Operators["|"]; got != 5 {
		t.Errorf("operators[|] = %d, want 5", got)
	}
	if cfg.History != "/tmp/hist" {
		t.Errorf("history = %q", cfg.History)
	}

	prec := parser.DefaultPrecedence()
	if err := cfg.apply(prec); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := prec.Lookup('>'); got != 10 {
		t.Errorf("Lookup('>') = %d, want 10", got)
	}
}

func TestApplyRejectsMultiCharOperator(t *testing.T) {
	cfg := &config{Operators: map[string]int{">=": 10}}
	err := cfg.apply(parser.DefaultPrecedence())
	if err == nil || !strings.Contains(err.Error(), "single character") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestApplyRejectsBadStrength(t *testing.T) {
	cfg := &config{Operators: map[string]int{"^": 0}}
	if err := cfg.apply(parser.DefaultPrecedence()); err == nil {
		t.Error("expected error for non-positive strength")
	}
}

func TestHistoryPathOverride(t *testing.T) {
	cfg := &config{History: "/tmp/custom"}
	if got := cfg.historyPath(); got != "/tmp/custom" {
		t.Errorf("historyPath = %q", got)
	}
}
