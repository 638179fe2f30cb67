// Package config loads promptcheck configuration from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the conventional config location relative to the
// working directory.
const DefaultConfigFile = ".promptcheck.yaml"

// CacheConfig configures the shared result cache.
type CacheConfig struct {
	// TTL is the default entry lifetime.
	TTL time.Duration `yaml:"ttl"`

	// Capacity bounds the number of live entries.
	Capacity int `yaml:"capacity"`

	// SnapshotPath is where the CLI persists the cache between runs.
	SnapshotPath string `yaml:"snapshot_path"`
}

// SemanticConfig configures the semantic analysis pass.
type SemanticConfig struct {
	// Timeout bounds each provider request.
	Timeout time.Duration `yaml:"timeout"`

	// MinBodyChars is the document size under which the pass is skipped.
	MinBodyChars int `yaml:"min_body_chars"`
}

// Config holds all promptcheck options.
type Config struct {
	// LogLevel sets logging verbosity (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// DebounceDelay is the quiet period before a full analysis runs.
	DebounceDelay time.Duration `yaml:"debounce_delay"`

	// BudgetWindow names the context window the token budget check warns
	// against (4k, 8k, 16k, 32k, 128k, 200k).
	BudgetWindow string `yaml:"budget_window"`

	// WeakPhraseSuggestions overrides the suggested replacement for a weak
	// phrase, keyed by the phrase.
	WeakPhraseSuggestions map[string]string `yaml:"weak_phrase_suggestions"`

	Cache    CacheConfig    `yaml:"cache"`
	Semantic SemanticConfig `yaml:"semantic"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:      "info",
		DebounceDelay: 800 * time.Millisecond,
		BudgetWindow:  "8k",
		Cache: CacheConfig{
			TTL:          30 * time.Minute,
			Capacity:     256,
			SnapshotPath: ".promptcheck/cache.json",
		},
		Semantic: SemanticConfig{
			Timeout:      60 * time.Second,
			MinBodyChars: 80,
		},
	}
}

// Load reads configuration from path. A missing file returns defaults
// without error; a malformed file is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks option values that have hard constraints.
func (c *Config) Validate() error {
	if c.DebounceDelay < 0 {
		return fmt.Errorf("debounce_delay must not be negative")
	}
	if c.Cache.Capacity < 0 {
		return fmt.Errorf("cache.capacity must not be negative")
	}
	return nil
}
