package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds the full TOML-driven tool configuration.
type Config struct {
	Source SourceConfig `toml:"source"`
	Target TargetConfig `toml:"target"`
	Output OutputConfig `toml:"output"`
	Hooks  HooksConfig  `toml:"hooks"`

	// configDir is the directory containing the TOML file, used to resolve
	// relative hook paths.
	configDir string
}

// SourceConfig identifies the source engine and connection string.
type SourceConfig struct {
	Type    string `toml:"type"`    // mysql, oracle, postgres or sqlite
	DSN     string `toml:"dsn"`
	Schema  string `toml:"schema"`  // database/owner/schema; derived from the DSN when empty
	Charset string `toml:"charset"` // MySQL-only connection character set
}

// TargetConfig names the dialect conversion commands translate into.
type TargetConfig struct {
	Type string `toml:"type"`
}

// OutputConfig controls where scripts land.
type OutputConfig struct {
	Dir       string `toml:"dir"`
	TableCase string `toml:"table_case"` // ""|uppercase|lowercase, for tablelist
}

// HooksConfig names SQL files spliced verbatim around generated data
// scripts: prologue before the first INSERT, epilogue after the last.
type HooksConfig struct {
	Prologue []string `toml:"prologue"`
	Epilogue []string `toml:"epilogue"`
}

// loadConfig reads a TOML config file and returns a Config with defaults
// applied. Unknown keys are an error, not a shrug.
func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Config{
		Output: OutputConfig{Dir: "."},
	}
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if unknown := md.Undecoded(); len(unknown) > 0 {
		keys := make([]string, len(unknown))
		for i, k := range unknown {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	cfg.configDir = filepath.Dir(absPath)

	if cfg.Source.Type == "" {
		return nil, fmt.Errorf("source.type is required (mysql, oracle, postgres or sqlite)")
	}
	if _, err := newDialect(cfg.Source.Type); err != nil {
		return nil, err
	}
	if cfg.Source.DSN == "" {
		return nil, fmt.Errorf("source.dsn is required")
	}
	if cfg.Source.Charset != "" && cfg.Source.Type != "mysql" {
		return nil, fmt.Errorf("source.charset is a MySQL-only option")
	}

	if cfg.Target.Type != "" {
		if _, err := newDialect(cfg.Target.Type); err != nil {
			return nil, err
		}
		if _, err := conversionFor(cfg.Source.Type, cfg.Target.Type); err != nil {
			return nil, err
		}
	}

	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "."
	}
	if err := validateCaseFormat(cfg.Output.TableCase); err != nil {
		return nil, fmt.Errorf("output.table_case: %w", err)
	}

	return &cfg, nil
}

// resolvePath resolves a path relative to the config file directory.
func (c *Config) resolvePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.configDir, p)
}
