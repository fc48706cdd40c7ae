package logging

import (
	"testing"

	"bagrules/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"":        zapcore.InfoLevel,
		"INFO":    zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("chatty")
	assert.Error(t, err)
}

func TestGetBeforeInitializeIsNoop(t *testing.T) {
	Use(nil, config.LoggingConfig{})
	l := Get(CategoryCounter)
	require.NotNil(t, l)
	assert.False(t, l.Core().Enabled(zapcore.ErrorLevel))
}

func TestCategoryFiltering(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Use(zap.New(core), config.LoggingConfig{
		Categories: map[string]bool{"kernel": false},
	})
	t.Cleanup(func() { Use(nil, config.LoggingConfig{}) })

	Get(CategoryKernel).Info("hidden")
	Get(CategoryParse).Info("parsed", zap.Int("rules", 3))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "parsed", entries[0].Message)
	assert.Equal(t, "parse", entries[0].LoggerName)
	assert.Equal(t, int64(3), entries[0].ContextMap()["rules"])
}

func TestGetCachesLoggers(t *testing.T) {
	core, _ := observer.New(zapcore.InfoLevel)
	Use(zap.New(core), config.LoggingConfig{})
	t.Cleanup(func() { Use(nil, config.LoggingConfig{}) })

	assert.Same(t, Get(CategoryBoot), Get(CategoryBoot))
}

func TestInitializeRejectsBadLevel(t *testing.T) {
	_, err := Initialize(config.LoggingConfig{Level: "shout"}, false)
	assert.Error(t, err)
}

func TestInitializeVerbose(t *testing.T) {
	l, err := Initialize(config.LoggingConfig{Level: "error", Format: "json"}, true)
	require.NoError(t, err)
	t.Cleanup(func() { Use(nil, config.LoggingConfig{}) })

	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, Get(CategoryBoot).Core().Enabled(zapcore.DebugLevel))
}
