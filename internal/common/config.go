// Package common provides shared utilities for Folio
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Folio
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Cache       CacheConfig   `toml:"cache"`
	Clients     ClientsConfig `toml:"clients"`
	Market      MarketConfig  `toml:"market"`
	Logging     LoggingConfig `toml:"logging"`
	Auth        AuthConfig    `toml:"auth"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds SurrealDB connection configuration.
type StorageConfig struct {
	Address   string `toml:"address"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
}

// CacheConfig holds the local BadgerHold cache configuration.
type CacheConfig struct {
	Path string `toml:"path"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	AlphaVantage AlphaVantageConfig `toml:"alphavantage"`
}

// AlphaVantageConfig holds Alpha Vantage API configuration
type AlphaVantageConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *AlphaVantageConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// MarketConfig holds market watch configuration.
type MarketConfig struct {
	RefreshInterval string `toml:"refresh_interval"` // duration string, "0" disables the background refresh
	QuoteTTL        string `toml:"quote_ttl"`
	NewsTTL         string `toml:"news_ttl"`
	SearchTTL       string `toml:"search_ttl"`
}

// GetRefreshInterval parses the background refresh interval. Zero disables it.
func (c *MarketConfig) GetRefreshInterval() time.Duration {
	d, err := time.ParseDuration(c.RefreshInterval)
	if err != nil {
		return 5 * time.Minute
	}
	return d
}

// GetQuoteTTL parses the quote cache freshness window.
func (c *MarketConfig) GetQuoteTTL() time.Duration {
	d, err := time.ParseDuration(c.QuoteTTL)
	if err != nil {
		return 5 * time.Minute
	}
	return d
}

// GetNewsTTL parses the news cache freshness window.
func (c *MarketConfig) GetNewsTTL() time.Duration {
	d, err := time.ParseDuration(c.NewsTTL)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}

// GetSearchTTL parses the symbol search cache freshness window.
func (c *MarketConfig) GetSearchTTL() time.Duration {
	d, err := time.ParseDuration(c.SearchTTL)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// AuthConfig holds JWT authentication configuration.
type AuthConfig struct {
	JWTSecret   string `toml:"jwt_secret"`
	TokenExpiry string `toml:"token_expiry"` // duration string, default "24h"
}

// GetTokenExpiry parses and returns the token expiry duration.
func (c *AuthConfig) GetTokenExpiry() time.Duration {
	d, err := time.ParseDuration(c.TokenExpiry)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Address:   "ws://localhost:8000/rpc",
			Namespace: "folio",
			Database:  "folio",
			Username:  "root",
			Password:  "root",
		},
		Cache: CacheConfig{
			Path: "data/cache",
		},
		Clients: ClientsConfig{
			AlphaVantage: AlphaVantageConfig{
				BaseURL:   "https://www.alphavantage.co/query",
				RateLimit: 5,
				Timeout:   "30s",
			},
		},
		Market: MarketConfig{
			RefreshInterval: "5m",
			QuoteTTL:        "5m",
			NewsTTL:         "15m",
			SearchTTL:       "24h",
		},
		Auth: AuthConfig{
			JWTSecret:   "dev-jwt-secret-change-in-production",
			TokenExpiry: "24h",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// Apply environment overrides
	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FOLIO_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("FOLIO_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("FOLIO_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("FOLIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	// Storage overrides
	if v := os.Getenv("FOLIO_STORAGE_ADDRESS"); v != "" {
		config.Storage.Address = v
	}
	if v := os.Getenv("FOLIO_STORAGE_NAMESPACE"); v != "" {
		config.Storage.Namespace = v
	}
	if v := os.Getenv("FOLIO_STORAGE_DATABASE"); v != "" {
		config.Storage.Database = v
	}
	if v := os.Getenv("FOLIO_STORAGE_USERNAME"); v != "" {
		config.Storage.Username = v
	}
	if v := os.Getenv("FOLIO_STORAGE_PASSWORD"); v != "" {
		config.Storage.Password = v
	}

	if v := os.Getenv("FOLIO_CACHE_PATH"); v != "" {
		config.Cache.Path = v
	}

	// Auth overrides
	if v := os.Getenv("FOLIO_AUTH_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := os.Getenv("FOLIO_AUTH_TOKEN_EXPIRY"); v != "" {
		config.Auth.TokenExpiry = v
	}

	// Client overrides
	if v := os.Getenv("FOLIO_ALPHAVANTAGE_API_KEY"); v != "" {
		config.Clients.AlphaVantage.APIKey = v
	}
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" && config.Clients.AlphaVantage.APIKey == "" {
		config.Clients.AlphaVantage.APIKey = v
	}

	if v := os.Getenv("FOLIO_MARKET_REFRESH_INTERVAL"); v != "" {
		config.Market.RefreshInterval = v
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
