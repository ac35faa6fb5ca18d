// Package config handles publist configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mslw/publist/internal/extract"
	"gopkg.in/yaml.v3"
)

// Config is the publist configuration, stored in
// $XDG_CONFIG_HOME/publist/config.yml. All fields are optional; zero
// values fall back to built-in defaults at the point of use.
type Config struct {
	// Email is the contact address advertised in the User-Agent and sent
	// to Crossref for polite-pool routing.
	Email string `yaml:"email,omitempty"`

	// HighlightAuthors lists author family names to mark in resolved
	// metadata (e.g. institutional members, for bolding in rendered output).
	HighlightAuthors []string `yaml:"highlight_authors,omitempty"`

	// CachePath overrides the response cache location.
	CachePath string `yaml:"cache_path,omitempty"`

	// RateLimit is the per-host outbound requests/second ceiling.
	RateLimit float64 `yaml:"rate_limit,omitempty"`

	// MaxRetries bounds retries of transient service failures.
	MaxRetries int `yaml:"max_retries,omitempty"`

	// BackoffMillis is the base backoff between retries (doubled each time).
	BackoffMillis int `yaml:"backoff_millis,omitempty"`

	// MinScore is the bibliographic-search acceptance threshold.
	MinScore float64 `yaml:"min_score,omitempty"`

	// TieMargin is the near-tie window below the leading search score.
	TieMargin float64 `yaml:"tie_margin,omitempty"`

	// SearchRows is how many candidates the bibliographic search requests.
	SearchRows int `yaml:"search_rows,omitempty"`

	// PublisherPatterns appends publisher URL rules to the built-in
	// extraction table.
	PublisherPatterns []extract.PublisherPattern `yaml:"publisher_patterns,omitempty"`
}

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "publist"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"
	// CacheFile is the default cache database file name.
	CacheFile = "query_cache.db"
)

// Path returns the path to the config file. Respects XDG_CONFIG_HOME,
// defaults to ~/.config/publist/config.yml.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// DefaultCachePath returns the default cache database location under the
// user cache directory.
func DefaultCachePath() string {
	cacheHome, err := os.UserCacheDir()
	if err != nil {
		return CacheFile
	}
	return filepath.Join(cacheHome, ConfigDir, CacheFile)
}

// Load reads configuration from the given path, or from Path() when empty.
// A missing file returns an empty config, not an error; PUBLIST_EMAIL in
// the environment overrides the configured email.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", path, err)
			}
		}
	}

	if email := os.Getenv("PUBLIST_EMAIL"); email != "" {
		cfg.Email = email
	}

	return cfg, nil
}

// Save writes the configuration to the given path, creating parent
// directories as needed. An empty path uses Path().
func (c *Config) Save(path string) error {
	if path == "" {
		path = Path()
	}
	if path == "" {
		return fmt.Errorf("no config path available")
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// EffectiveCachePath returns the configured cache path or the default.
func (c *Config) EffectiveCachePath() string {
	if c.CachePath != "" {
		return c.CachePath
	}
	return DefaultCachePath()
}
