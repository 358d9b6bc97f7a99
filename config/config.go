// Package config loads the process configuration: defaults overlaid
// with an optional TOML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the full process configuration.
type Config struct {
	Log        LogConfig        `toml:"log"`
	Engine     EngineConfig     `toml:"engine"`
	Dictionary DictionaryConfig `toml:"dictionary"`
	Semantic   SemanticConfig   `toml:"semantic"`
	Store      StoreConfig      `toml:"store"`
}

// LogConfig controls the file logger.
type LogConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// EngineConfig holds the scheduler timing knobs, in milliseconds.
type EngineConfig struct {
	ImmediateDelayMs int `toml:"immediate_delay_ms"`
	IdleDelayMs      int `toml:"idle_delay_ms"`
	AnalysisTimeout  int `toml:"analysis_timeout_ms"`
	MaxRemoteTokens  int `toml:"max_remote_tokens"`
	RecentWordWindow int `toml:"recent_word_window"`
}

// DictionaryConfig points at the two static spell assets. Each value
// is an http(s) URL or a local file path.
type DictionaryConfig struct {
	AffixURL    string `toml:"affix_url"`
	WordListURL string `toml:"word_list_url"`
}

// SemanticConfig configures the remote analysis service.
type SemanticConfig struct {
	URL            string `toml:"url"`
	APIKey         string `toml:"api_key"`
	TimeoutMs      int    `toml:"timeout_ms"`
	MaxSuggestions int    `toml:"max_suggestions"`
}

// StoreConfig locates the document store.
type StoreConfig struct {
	Dir string `toml:"dir"`
}

// Default returns the built-in configuration.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, ".redline")

	return &Config{
		Log: LogConfig{
			File:  filepath.Join(base, "redline.log"),
			Level: "info",
		},
		Engine: EngineConfig{
			ImmediateDelayMs: 150,
			IdleDelayMs:      2000,
			AnalysisTimeout:  10000,
			MaxRemoteTokens:  4000,
			RecentWordWindow: 3,
		},
		Semantic: SemanticConfig{
			TimeoutMs:      8000,
			MaxSuggestions: 5,
		},
		Store: StoreConfig{
			Dir: filepath.Join(base, "documents"),
		},
	}
}

// Load returns the defaults overlaid with the TOML file at path. An
// empty path, or a missing file at the default location, yields pure
// defaults; a file that exists but fails to parse is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file %s does not exist", path)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return cfg, nil
}

// ImmediateDelay returns the immediate-check debounce as a duration.
func (c *EngineConfig) ImmediateDelay() time.Duration {
	return time.Duration(c.ImmediateDelayMs) * time.Millisecond
}

// IdleDelay returns the idle debounce as a duration.
func (c *EngineConfig) IdleDelay() time.Duration {
	return time.Duration(c.IdleDelayMs) * time.Millisecond
}

// Timeout returns the per-analysis timeout as a duration.
func (c *EngineConfig) Timeout() time.Duration {
	return time.Duration(c.AnalysisTimeout) * time.Millisecond
}
