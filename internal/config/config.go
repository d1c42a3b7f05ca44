// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"

	"astrochart/internal/logging"
)

// EnvPath names the environment variable that overrides the config file path
const EnvPath = "ASTROCHART_CONFIG"

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// CatalogPath points at an HCL catalog; empty uses the built-in catalog
	CatalogPath string `json:"catalog_path,omitempty"`

	// Server contains HTTP server configuration
	Server ServerConfig `json:"server"`

	// Cache contains chart cache configuration
	Cache CacheConfig `json:"cache"`

	// Returns contains return finder configuration
	Returns ReturnsConfig `json:"returns"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr"`

	// ReadTimeoutSeconds bounds request reading
	ReadTimeoutSeconds int `json:"read_timeout_seconds"`

	// WriteTimeoutSeconds bounds response writing
	WriteTimeoutSeconds int `json:"write_timeout_seconds"`
}

// CacheConfig contains Redis chart cache settings
type CacheConfig struct {
	// Enabled enables caching of computed charts
	Enabled bool `json:"enabled"`

	// Addr is the Redis address
	Addr string `json:"addr"`

	// Password is the Redis password
	Password string `json:"password,omitempty"`

	// DB is the Redis database index
	DB int `json:"db"`

	// TTLSeconds is how long computed charts stay cached
	TTLSeconds int `json:"ttl_seconds"`
}

// ReturnsConfig contains return finder settings
type ReturnsConfig struct {
	// Workers bounds concurrent provider calls per scan window
	Workers int `json:"workers"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Server: ServerConfig{
			Addr:                ":8080",
			ReadTimeoutSeconds:  15,
			WriteTimeoutSeconds: 30,
		},
		Cache: CacheConfig{
			Enabled:    false,
			Addr:       "localhost:6379",
			TTLSeconds: 3600,
		},
		Returns: ReturnsConfig{
			Workers: runtime.GOMAXPROCS(0),
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file, falling back to defaults when it does not exist
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadFromEnv loads the file named by ASTROCHART_CONFIG, or defaults when unset
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvPath)
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
