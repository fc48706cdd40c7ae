package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is where the CLI looks for configuration.
const DefaultConfigPath = ".bags.yaml"

// Config holds all bag counter configuration.
type Config struct {
	Name string `yaml:"name"`

	// Rule input
	Input InputConfig `yaml:"input"`

	// Memoization cache
	Cache CacheConfig `yaml:"cache"`

	// Mangle holders query
	Mangle MangleConfig `yaml:"mangle"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// InputConfig locates the rule file.
type InputConfig struct {
	Path string `yaml:"path"`
}

// CacheConfig sizes the containment cache.
type CacheConfig struct {
	// Size bounds the cache to an LRU of this many entries; 0 is unbounded.
	Size int `yaml:"size"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name: "bags",
		Input: InputConfig{
			Path: "input.txt",
		},
		Cache: CacheConfig{
			Size: 0,
		},
		Mangle: MangleConfig{
			FactLimit: 1000000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides (including a .env file in the working
// directory) are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	_ = godotenv.Load()
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	if path := strings.TrimSpace(os.Getenv("BAGS_INPUT")); path != "" {
		c.Input.Path = path
	}
	if level := strings.TrimSpace(os.Getenv("BAGS_LOG_LEVEL")); level != "" {
		c.Logging.Level = level
	}
	if format := strings.TrimSpace(os.Getenv("BAGS_LOG_FORMAT")); format != "" {
		c.Logging.Format = format
	}
	if raw := strings.TrimSpace(os.Getenv("BAGS_CACHE_SIZE")); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid BAGS_CACHE_SIZE %q: %w", raw, err)
		}
		c.Cache.Size = size
	}
	return nil
}

// ValidLogLevels lists the accepted logging levels.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// ValidLogFormats lists the accepted log encodings.
var ValidLogFormats = []string{"console", "json"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Input.Path) == "" {
		return fmt.Errorf("input path not configured")
	}
	if c.Cache.Size < 0 {
		return fmt.Errorf("cache size must be >= 0, got %d", c.Cache.Size)
	}
	if c.Mangle.FactLimit < 0 {
		return fmt.Errorf("mangle fact_limit must be >= 0, got %d", c.Mangle.FactLimit)
	}
	if !contains(ValidLogLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLogLevels)
	}
	if !contains(ValidLogFormats, c.Logging.Format) {
		return fmt.Errorf("invalid log format: %s (valid: %v)", c.Logging.Format, ValidLogFormats)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
