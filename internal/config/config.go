// Package config loads wtfindex.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gitlisted/tracing-framework/internal/ingest"
	"github.com/gitlisted/tracing-framework/internal/logging"
	"github.com/gitlisted/tracing-framework/internal/zoneindex"
)

// FileName is the configuration file looked up by Find.
const FileName = "wtfindex.toml"

// Config is the full configuration.
type Config struct {
	Ingest IngestConfig `toml:"ingest"`
	Index  IndexConfig  `toml:"index"`
	Log    LogConfig    `toml:"log"`
	Output OutputConfig `toml:"output"`

	// Path is the file the configuration was loaded from, "" for defaults.
	Path string `toml:"-"`
}

type IngestConfig struct {
	BatchSize int    `toml:"batch_size"`
	Format    string `toml:"format"`
}

type IndexConfig struct {
	PendingWarnThreshold int `toml:"pending_warn_threshold"`
	Jobs                 int `toml:"jobs"`
}

type LogConfig struct {
	Level string `toml:"level"`
	JSON  bool   `toml:"json"`
}

type OutputConfig struct {
	Color    string `toml:"color"`
	MaxDepth int    `toml:"max_depth"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Ingest: IngestConfig{BatchSize: ingest.Unbounded, Format: "auto"},
		Index:  IndexConfig{PendingWarnThreshold: zoneindex.DefaultPendingWarnThreshold},
		Log:    LogConfig{Level: "info"},
		Output: OutputConfig{Color: "auto"},
	}
}

// Load reads path on top of the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Find looks for FileName in startDir and its parents.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// Resolve loads path when given, otherwise the nearest FileName, otherwise
// the defaults.
func Resolve(path, startDir string) (Config, error) {
	if path != "" {
		return Load(path)
	}
	found, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(found)
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if c.Ingest.BatchSize < 0 {
		return fmt.Errorf("[ingest].batch_size must be >= 0, got %d", c.Ingest.BatchSize)
	}
	if _, err := ingest.ParseFormat(c.Ingest.Format); err != nil {
		return fmt.Errorf("[ingest].format: %w", err)
	}
	if c.Index.Jobs < 0 {
		return fmt.Errorf("[index].jobs must be >= 0, got %d", c.Index.Jobs)
	}
	if !logging.ValidLevel(c.Log.Level) {
		return fmt.Errorf("[log].level: invalid level %q (expected: debug|info|warn|error)", c.Log.Level)
	}
	switch c.Output.Color {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("[output].color: invalid value %q (expected: auto|on|off)", c.Output.Color)
	}
	if c.Output.MaxDepth < 0 {
		return fmt.Errorf("[output].max_depth must be >= 0, got %d", c.Output.MaxDepth)
	}
	return nil
}
