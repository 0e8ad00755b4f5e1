package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/example/rxpad/internal/canvas"
	"github.com/example/rxpad/internal/theme"
)

// Loader handles loading the configuration.
type Loader struct {
	Version      string // Build version, used to determine dev mode
	OverridePath string // Explicit -config path
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Load reads the configuration file, if any, and applies RXPAD_*
// environment overrides on top.
func (l *Loader) Load() (*Config, error) {
	cfg := New()
	if path := l.GetConfigPath(); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if cfg, err = Parse(f); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	} else if l.OverridePath != "" {
		return nil, fmt.Errorf("config file %s not found", l.OverridePath)
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetConfigPath returns the path to the configuration file, or empty string if not found.
func (l *Loader) GetConfigPath() string {
	if l.OverridePath != "" {
		if _, err := os.Stat(l.OverridePath); err == nil {
			return l.OverridePath
		}
		return ""
	}

	if l.Version == "dev" {
		wd, _ := os.Getwd()
		localPath := filepath.Join(wd, ".rxpadrc")
		if _, err := os.Stat(localPath); err == nil {
			return localPath
		}
	}

	if p := DefaultPath(); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// DefaultPath is where `rxpad config save` writes.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "rxpad", "config.rc")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "rxpad", "config.rc")
}

// ApplyEnv overrides fields from RXPAD_* variables.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	get := func(key string) string { return strings.TrimSpace(getenv(key)) }
	if v := get("RXPAD_SAVE_DIR"); v != "" {
		c.SaveDir = v
	}
	if v := get("RXPAD_STORE"); v != "" {
		c.Store = v
	}
	if v := get("RXPAD_THEME"); v != "" {
		c.Theme = v
	}
	if v := get("RXPAD_FORMAT"); v != "" {
		if err := setRootField(c, "format", v); err != nil {
			return fmt.Errorf("RXPAD_FORMAT: %w", err)
		}
	}
	if v := get("RXPAD_TOOL"); v != "" {
		tool, err := canvas.ParseTool(v)
		if err != nil {
			return fmt.Errorf("RXPAD_TOOL: %w", err)
		}
		c.Tool.Name = tool.String()
	}
	if v := get("RXPAD_COLOR"); v != "" {
		col, err := theme.ParseColor(v)
		if err != nil {
			return fmt.Errorf("RXPAD_COLOR: %w", err)
		}
		c.Tool.Color = col
	}
	if v := get("RXPAD_WIDTH"); v != "" {
		w, err := strconv.ParseFloat(v, 64)
		if err != nil || w <= 0 {
			return fmt.Errorf("RXPAD_WIDTH: invalid width %q", v)
		}
		c.Tool.Width = w
	}
	return nil
}

// Save writes the configuration to path in RC format.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(c.String()), 0o644)
}
