package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvOverrides(t *testing.T) {
	t.Run("BAGS_INPUT replaces input path", func(t *testing.T) {
		t.Setenv("BAGS_INPUT", "/tmp/rules.txt")

		cfg := DefaultConfig()
		require.NoError(t, cfg.applyEnvOverrides())

		assert.Equal(t, "/tmp/rules.txt", cfg.Input.Path)
	})

	t.Run("logging overrides", func(t *testing.T) {
		t.Setenv("BAGS_LOG_LEVEL", "debug")
		t.Setenv("BAGS_LOG_FORMAT", "json")

		cfg := DefaultConfig()
		require.NoError(t, cfg.applyEnvOverrides())

		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, "json", cfg.Logging.Format)
	})

	t.Run("BAGS_CACHE_SIZE parsed", func(t *testing.T) {
		t.Setenv("BAGS_CACHE_SIZE", "128")

		cfg := DefaultConfig()
		require.NoError(t, cfg.applyEnvOverrides())

		assert.Equal(t, 128, cfg.Cache.Size)
	})

	t.Run("BAGS_CACHE_SIZE rejects garbage", func(t *testing.T) {
		t.Setenv("BAGS_CACHE_SIZE", "lots")

		cfg := DefaultConfig()
		assert.Error(t, cfg.applyEnvOverrides())
	})

	t.Run("empty values leave config alone", func(t *testing.T) {
		t.Setenv("BAGS_INPUT", "  ")
		t.Setenv("BAGS_LOG_LEVEL", "")

		cfg := DefaultConfig()
		require.NoError(t, cfg.applyEnvOverrides())

		assert.Equal(t, "input.txt", cfg.Input.Path)
		assert.Equal(t, "info", cfg.Logging.Level)
	})
}
