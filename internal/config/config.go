// Package config handles configuration loading for CryptoPulse.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	API       APIConfig       `mapstructure:"api"       yaml:"api"`
	Sources   SourcesConfig   `mapstructure:"sources"   yaml:"sources"`
	Dashboard DashboardConfig `mapstructure:"dashboard" yaml:"dashboard"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
}

// APIConfig holds HTTP server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// SourcesConfig holds the upstream API endpoints and credentials.
type SourcesConfig struct {
	BackendURL   string `mapstructure:"backend_url"   yaml:"backend_url"`
	CoinGeckoURL string `mapstructure:"coingecko_url" yaml:"coingecko_url"`
	CoinGeckoKey string `mapstructure:"coingecko_key" yaml:"coingecko_key"`
	NewsDataURL  string `mapstructure:"newsdata_url"  yaml:"newsdata_url"`
	NewsDataKey  string `mapstructure:"newsdata_key"  yaml:"newsdata_key"`

	// RSSFeeds overrides the built-in crypto RSS feed list. Empty means
	// the default feeds.
	RSSFeeds []string `mapstructure:"rss_feeds" yaml:"rss_feeds"`
}

// DashboardConfig holds view-state engine settings.
type DashboardConfig struct {
	SyncDelayMs        int `mapstructure:"sync_delay_ms"        yaml:"sync_delay_ms"`        // URL sync debounce window
	FreshnessWindowSec int `mapstructure:"freshness_window_sec" yaml:"freshness_window_sec"` // "just refreshed" banner window
	SnapshotTTLSec     int `mapstructure:"snapshot_ttl_sec"     yaml:"snapshot_ttl_sec"`     // server-side dashboard snapshot lifetime
	HistoryDays        int `mapstructure:"history_days"         yaml:"history_days"`         // detail-page chart span
	NewsLimit          int `mapstructure:"news_limit"           yaml:"news_limit"`           // articles per detail page
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.cryptopulse/config.yaml (home directory)
//  3. /etc/cryptopulse/config.yaml (system)
//
// Environment variables override config file values.
// Format: CRYPTOPULSE_<SECTION>_<KEY>, e.g., CRYPTOPULSE_SOURCES_NEWSDATA_KEY
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".cryptopulse"))
	v.AddConfigPath("/etc/cryptopulse")

	v.SetEnvPrefix("CRYPTOPULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, that's fine, use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("CRYPTOPULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})

	// Source defaults (public endpoints; keys come from env)
	v.SetDefault("sources.backend_url", "https://cryptopulse-backend-102g.onrender.com")
	v.SetDefault("sources.coingecko_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("sources.newsdata_url", "https://newsdata.io")

	// Dashboard defaults
	v.SetDefault("dashboard.sync_delay_ms", 300)
	v.SetDefault("dashboard.freshness_window_sec", 60)
	v.SetDefault("dashboard.snapshot_ttl_sec", 30)
	v.SetDefault("dashboard.history_days", 30)
	v.SetDefault("dashboard.news_limit", 5)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("CRYPTOPULSE_SOURCES_COINGECKO_KEY"); key != "" {
		cfg.Sources.CoinGeckoKey = key
	}
	if key := os.Getenv("CRYPTOPULSE_SOURCES_NEWSDATA_KEY"); key != "" {
		cfg.Sources.NewsDataKey = key
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
