// Package config provides configuration management for the shares dashboard.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Database    DatabaseConfig `mapstructure:"database"`
	Vendors     VendorConfig   `mapstructure:"vendors"`
	UI          UIConfig       `mapstructure:"ui"`
	Credentials Credentials    `mapstructure:"-"` // Loaded separately
}

// DatabaseConfig holds local storage configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// VendorConfig holds outbound vendor API configuration.
type VendorConfig struct {
	AlphaVantageBaseURL string `mapstructure:"alphavantage_base_url"`
	MarketauxBaseURL    string `mapstructure:"marketaux_base_url"`
	TimeoutSeconds      int    `mapstructure:"timeout_seconds"`
	RequestsPerMinute   int    `mapstructure:"requests_per_minute"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
}

// Credentials holds API credentials. They are never embedded in source;
// they come from credentials.toml or environment variables.
type Credentials struct {
	AlphaVantage AlphaVantageCredentials `mapstructure:"alphavantage"`
	Marketaux    MarketauxCredentials    `mapstructure:"marketaux"`
}

// AlphaVantageCredentials holds the company-data vendor credential.
type AlphaVantageCredentials struct {
	APIKey string `mapstructure:"api_key"`
}

// MarketauxCredentials holds the news vendor credential.
type MarketauxCredentials struct {
	APIToken string `mapstructure:"api_token"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/sharewatch"
	}
	return filepath.Join(home, ".config", "sharewatch")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir string, target *Config) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("database.path", filepath.Join(configDir, "shares_data.db"))
	v.SetDefault("vendors.alphavantage_base_url", "https://www.alphavantage.co")
	v.SetDefault("vendors.marketaux_base_url", "https://api.marketaux.com")
	v.SetDefault("vendors.timeout_seconds", 30)
	v.SetDefault("vendors.requests_per_minute", 5)
	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "02-Jan-2006")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
		// Config file not found, create template and continue with defaults
		if err := createTemplateConfig(configDir); err != nil {
			return err
		}
	}

	return v.Unmarshal(target)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateCredentials(configDir)
		}
		return err
	}

	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		cfg.Credentials.AlphaVantage.APIKey = v
	}
	if v := os.Getenv("MARKETAUX_API_TOKEN"); v != "" {
		cfg.Credentials.Marketaux.APIToken = v
	}
	if v := os.Getenv("SHAREWATCH_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.Vendors.AlphaVantageBaseURL == "" {
		return fmt.Errorf("vendors.alphavantage_base_url must not be empty")
	}
	if c.Vendors.MarketauxBaseURL == "" {
		return fmt.Errorf("vendors.marketaux_base_url must not be empty")
	}
	if c.Vendors.TimeoutSeconds <= 0 {
		return fmt.Errorf("vendors.timeout_seconds must be positive")
	}
	if c.Vendors.RequestsPerMinute <= 0 {
		return fmt.Errorf("vendors.requests_per_minute must be positive")
	}
	return nil
}

// HasAlphaVantageKey reports whether the company-data credential is set.
func (c *Config) HasAlphaVantageKey() bool {
	return c.Credentials.AlphaVantage.APIKey != ""
}

// HasMarketauxToken reports whether the news credential is set.
func (c *Config) HasMarketauxToken() bool {
	return c.Credentials.Marketaux.APIToken != ""
}
