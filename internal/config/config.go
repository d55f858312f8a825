// Package config loads the launcher configuration from
// ~/.config/cheru/config.toml. A missing file is created with defaults so
// users can discover the knobs; an invalid file logs a warning and falls
// back to defaults rather than refusing to start.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
)

const (
	defaultHotkey     = "Alt+Space"
	defaultDebounceMS = 120
	defaultSearchURL  = "https://www.google.com/search?q="

	minDebounceMS = 60
	maxDebounceMS = 300
)

// Config is the on-disk configuration. The hotkey is consumed by the
// window-toggle shell around the engine, not by the engine itself, but it
// lives here so there is a single config file.
type Config struct {
	Hotkey      string `toml:"hotkey"`
	DebounceMS  int    `toml:"debounce_ms"`
	SearchURL   string `toml:"search_url"`
	MaxImages   int    `toml:"max_images"`
	FolderDepth int    `toml:"folder_depth"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Hotkey:      defaultHotkey,
		DebounceMS:  defaultDebounceMS,
		SearchURL:   defaultSearchURL,
		MaxImages:   5000,
		FolderDepth: 3,
	}
}

// Path returns the config file location.
func Path() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "cheru", "config.toml")
}

// Load reads the config from the default path.
func Load(log *logrus.Logger) *Config {
	return LoadFrom(Path(), log)
}

// LoadFrom reads the config from path, writing a default file when none
// exists yet.
func LoadFrom(path string, log *logrus.Logger) *Config {
	cfg := Default()
	if path == "" {
		return cfg
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			writeDefault(path)
		}
		return cfg
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		if log != nil {
			log.WithError(err).Warnf("invalid config at %s, using defaults", path)
		}
		return Default()
	}
	return cfg.normalized()
}

func (c *Config) normalized() *Config {
	if c.Hotkey == "" {
		c.Hotkey = defaultHotkey
	}
	if c.SearchURL == "" {
		c.SearchURL = defaultSearchURL
	}
	if c.DebounceMS < minDebounceMS {
		c.DebounceMS = minDebounceMS
	}
	if c.DebounceMS > maxDebounceMS {
		c.DebounceMS = maxDebounceMS
	}
	if c.MaxImages <= 0 {
		c.MaxImages = 5000
	}
	if c.FolderDepth <= 0 {
		c.FolderDepth = 3
	}
	return c
}

func writeDefault(path string) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}
	content := fmt.Sprintf(`# cheru launcher configuration
# Hotkey to toggle the launcher window.
# Examples: "Alt+Space", "Cmd+D", "Ctrl+Space"
hotkey = %q

# Milliseconds to wait after the last keystroke before searching (60-300).
debounce_ms = %d

# URL prefix for the web-search fallback; the query is appended URL-escaped.
search_url = %q
`, defaultHotkey, defaultDebounceMS, defaultSearchURL)
	_ = os.WriteFile(path, []byte(content), 0o644)
}
