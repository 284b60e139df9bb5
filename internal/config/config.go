package config

import (
	"fmt"
	"strings"

	"github.com/seung-gu/factset-data-collector/internal/classifier"
	"github.com/seung-gu/factset-data-collector/internal/matcher"
	"github.com/seung-gu/factset-data-collector/internal/snapshot"
)

// Config is the complete configuration for the chartocr application. It is
// loaded from configuration files, environment variables, and command-line
// flags, in ascending precedence.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Quarter/number pairing tolerances
	Matcher MatcherConfig `mapstructure:"matcher" yaml:"matcher" json:"matcher"`

	// Bar shade classification parameters
	Classifier ClassifierConfig `mapstructure:"classifier" yaml:"classifier" json:"classifier"`

	// Directory batch settings
	Batch BatchConfig `mapstructure:"batch" yaml:"batch" json:"batch"`

	// Output settings
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`
}

// MatcherConfig contains the geometric pairing tolerances. These are
// empirically tuned against the FactSet chart layout and intentionally
// configuration rather than constants.
type MatcherConfig struct {
	BottomFraction float64 `mapstructure:"bottom_fraction" yaml:"bottom_fraction" json:"bottom_fraction"`
	YTolerance     float64 `mapstructure:"y_tolerance" yaml:"y_tolerance" json:"y_tolerance"`
	XTolerance     float64 `mapstructure:"x_tolerance" yaml:"x_tolerance" json:"x_tolerance"`
}

// ClassifierConfig contains bar classification settings.
type ClassifierConfig struct {
	Enabled             bool    `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	SingleMethod        bool    `mapstructure:"single_method" yaml:"single_method" json:"single_method"`
	BarWidth            int     `mapstructure:"bar_width" yaml:"bar_width" json:"bar_width"`
	AdaptiveWindow      int     `mapstructure:"adaptive_window" yaml:"adaptive_window" json:"adaptive_window"`
	AdaptiveBias        float64 `mapstructure:"adaptive_bias" yaml:"adaptive_bias" json:"adaptive_bias"`
	KernelSize          int     `mapstructure:"kernel_size" yaml:"kernel_size" json:"kernel_size"`
	ForegroundThreshold float64 `mapstructure:"foreground_threshold" yaml:"foreground_threshold" json:"foreground_threshold"`
}

// BatchConfig contains directory processing settings.
type BatchConfig struct {
	Workers int `mapstructure:"workers" yaml:"workers" json:"workers"`
	Limit   int `mapstructure:"limit" yaml:"limit" json:"limit"`
}

// OutputConfig contains output file settings.
type OutputConfig struct {
	File     string `mapstructure:"file" yaml:"file" json:"file"`
	LongFile string `mapstructure:"long_file" yaml:"long_file" json:"long_file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	m := matcher.DefaultConfig()
	c := classifier.DefaultConfig()
	return &Config{
		LogLevel: "info",
		Verbose:  false,
		Matcher: MatcherConfig{
			BottomFraction: m.BottomFraction,
			YTolerance:     m.YTolerance,
			XTolerance:     m.XTolerance,
		},
		Classifier: ClassifierConfig{
			Enabled:             true,
			SingleMethod:        c.SingleMethod,
			BarWidth:            c.BarWidth,
			AdaptiveWindow:      c.AdaptiveWindow,
			AdaptiveBias:        c.AdaptiveBias,
			KernelSize:          c.KernelSize,
			ForegroundThreshold: c.ForegroundThreshold,
		},
		Batch: BatchConfig{
			Workers: 1,
			Limit:   0,
		},
		Output: OutputConfig{
			File:     "",
			LongFile: "",
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level: %q (must be debug, info, warn or error)", c.LogLevel)
	}

	if c.Matcher.BottomFraction <= 0 || c.Matcher.BottomFraction > 1 {
		return fmt.Errorf("invalid matcher.bottom_fraction: %v (must be in (0, 1])", c.Matcher.BottomFraction)
	}
	if c.Matcher.YTolerance <= 0 {
		return fmt.Errorf("invalid matcher.y_tolerance: %v (must be positive)", c.Matcher.YTolerance)
	}
	if c.Matcher.XTolerance <= 0 {
		return fmt.Errorf("invalid matcher.x_tolerance: %v (must be positive)", c.Matcher.XTolerance)
	}

	if c.Classifier.BarWidth <= 0 {
		return fmt.Errorf("invalid classifier.bar_width: %d (must be positive)", c.Classifier.BarWidth)
	}
	if c.Classifier.AdaptiveWindow < 3 || c.Classifier.AdaptiveWindow%2 == 0 {
		return fmt.Errorf("invalid classifier.adaptive_window: %d (must be odd and >= 3)", c.Classifier.AdaptiveWindow)
	}
	if c.Classifier.KernelSize < 1 {
		return fmt.Errorf("invalid classifier.kernel_size: %d (must be >= 1)", c.Classifier.KernelSize)
	}
	if c.Classifier.ForegroundThreshold <= 0 || c.Classifier.ForegroundThreshold >= 1 {
		return fmt.Errorf("invalid classifier.foreground_threshold: %v (must be in (0, 1))",
			c.Classifier.ForegroundThreshold)
	}

	if c.Batch.Workers < 0 {
		return fmt.Errorf("invalid batch.workers: %d (must be >= 0)", c.Batch.Workers)
	}
	if c.Batch.Limit < 0 {
		return fmt.Errorf("invalid batch.limit: %d (must be >= 0)", c.Batch.Limit)
	}

	return nil
}

// ToMatcher maps the matcher section onto the matcher package's config.
func (c *Config) ToMatcher() matcher.Config {
	return matcher.Config{
		BottomFraction: c.Matcher.BottomFraction,
		YTolerance:     c.Matcher.YTolerance,
		XTolerance:     c.Matcher.XTolerance,
	}
}

// ToClassifier maps the classifier section onto the classifier package's
// config.
func (c *Config) ToClassifier() classifier.Config {
	return classifier.Config{
		BarWidth:            c.Classifier.BarWidth,
		AdaptiveWindow:      c.Classifier.AdaptiveWindow,
		AdaptiveBias:        c.Classifier.AdaptiveBias,
		KernelSize:          c.Classifier.KernelSize,
		ForegroundThreshold: c.Classifier.ForegroundThreshold,
		SingleMethod:        c.Classifier.SingleMethod,
	}
}

// ToSnapshot maps the configuration onto the snapshot processor's config.
func (c *Config) ToSnapshot() snapshot.Config {
	workers := c.Batch.Workers
	if workers < 1 {
		workers = 1
	}
	return snapshot.Config{
		Matcher:      c.ToMatcher(),
		Classifier:   c.ToClassifier(),
		ClassifyBars: c.Classifier.Enabled,
		Workers:      workers,
		Limit:        c.Batch.Limit,
	}
}
