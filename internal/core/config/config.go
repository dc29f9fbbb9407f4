// Package config provides configuration management for insight tooling.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds settings for commands that touch the definition store.
type Config struct {
	DatabaseURL string
	ListLimit   int
}

// Default returns configuration with default values.
func Default() *Config {
	return &Config{
		DatabaseURL: "sqlite://insight.db",
		ListLimit:   50,
	}
}

// Load reads configuration with CLI flags > environment > config file >
// defaults precedence. Environment variables carry the INSIGHT_ prefix
// (INSIGHT_STORE_DATABASE_URL, INSIGHT_STORE_LIST_LIMIT).
func Load(configPath string) (*Config, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("store.database_url", defaults.DatabaseURL)
	v.SetDefault("store.list_limit", defaults.ListLimit)

	v.SetEnvPrefix("INSIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		DatabaseURL: v.GetString("store.database_url"),
		ListLimit:   v.GetInt("store.list_limit"),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("store.database_url must not be empty")
	}
	if !strings.HasPrefix(cfg.DatabaseURL, "sqlite://") && !strings.HasPrefix(cfg.DatabaseURL, "postgres://") {
		return fmt.Errorf("store.database_url must use sqlite:// or postgres://, got %q", cfg.DatabaseURL)
	}
	if cfg.ListLimit <= 0 {
		return fmt.Errorf("store.list_limit must be positive, got %d", cfg.ListLimit)
	}
	return nil
}
