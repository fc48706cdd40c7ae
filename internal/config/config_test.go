package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Name != "bags" {
		t.Errorf("expected Name=bags, got %s", cfg.Name)
	}
	if cfg.Input.Path != "input.txt" {
		t.Errorf("expected Input.Path=input.txt, got %s", cfg.Input.Path)
	}
	if cfg.Cache.Size != 0 {
		t.Errorf("expected unbounded cache, got %d", cfg.Cache.Size)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	t.Setenv("BAGS_INPUT", "")
	t.Setenv("BAGS_CACHE_SIZE", "")

	path := filepath.Join(t.TempDir(), "nested", "bags.yaml")

	cfg := DefaultConfig()
	cfg.Input.Path = "rules.txt"
	cfg.Cache.Size = 64
	cfg.Logging.Categories = map[string]bool{"kernel": false}

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "rules.txt", loaded.Input.Path)
	assert.Equal(t, 64, loaded.Cache.Size)
	assert.False(t, loaded.Logging.IsCategoryEnabled("kernel"))
	assert.True(t, loaded.Logging.IsCategoryEnabled("counter"))
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("BAGS_INPUT", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Input.Path, cfg.Input.Path)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("input: [unterminated"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty input", func(c *Config) { c.Input.Path = " " }},
		{"negative cache", func(c *Config) { c.Cache.Size = -1 }},
		{"negative fact limit", func(c *Config) { c.Mangle.FactLimit = -5 }},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
