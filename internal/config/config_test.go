package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.LogLevel)
	assert.InDelta(t, 0.3, cfg.Matcher.BottomFraction, 1e-9)
	assert.InDelta(t, 1000.0, cfg.Matcher.YTolerance, 1e-9)
	assert.InDelta(t, 10.0, cfg.Matcher.XTolerance, 1e-9)
	assert.True(t, cfg.Classifier.Enabled)
	assert.Equal(t, 30, cfg.Classifier.BarWidth)
	assert.Equal(t, 1, cfg.Batch.Workers)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }},
		{"zero bottom fraction", func(c *Config) { c.Matcher.BottomFraction = 0 }},
		{"bottom fraction above one", func(c *Config) { c.Matcher.BottomFraction = 1.5 }},
		{"negative y tolerance", func(c *Config) { c.Matcher.YTolerance = -1 }},
		{"zero x tolerance", func(c *Config) { c.Matcher.XTolerance = 0 }},
		{"zero bar width", func(c *Config) { c.Classifier.BarWidth = 0 }},
		{"even adaptive window", func(c *Config) { c.Classifier.AdaptiveWindow = 10 }},
		{"tiny adaptive window", func(c *Config) { c.Classifier.AdaptiveWindow = 1 }},
		{"zero kernel", func(c *Config) { c.Classifier.KernelSize = 0 }},
		{"threshold at one", func(c *Config) { c.Classifier.ForegroundThreshold = 1 }},
		{"negative workers", func(c *Config) { c.Batch.Workers = -1 }},
		{"negative limit", func(c *Config) { c.Batch.Limit = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfigSectionMapping(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Matcher.XTolerance = 25
	cfg.Classifier.SingleMethod = true
	cfg.Classifier.Enabled = false
	cfg.Batch.Workers = 0

	m := cfg.ToMatcher()
	assert.InDelta(t, 25.0, m.XTolerance, 1e-9)

	c := cfg.ToClassifier()
	assert.True(t, c.SingleMethod)

	s := cfg.ToSnapshot()
	assert.False(t, s.ClassifyBars)
	// Zero workers normalizes to one.
	assert.Equal(t, 1, s.Workers)
}
