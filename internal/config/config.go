// Package config loads engine-wide settings via viper: log level/format,
// the consensus and bounds-override policy for the enable state
// machine, and strategy performance-tracking limits.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is the full set of tunables the engine reads at startup.
// Every field has a sensible Default; none are required.
type Config struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// StrictBoundsOverride, when true, makes enable validation count a
	// display that the bounds detector has no record for as not enabled,
	// even if the topology reports its path active. When false, a missing
	// bounds record contributes no consensus signal at all.
	StrictBoundsOverride bool `mapstructure:"strict_bounds_override"`

	// ConsensusMinSources is the minimum number of consensus sources
	// (of bounds, adapter enumeration, topology query) that must
	// resolve before the enable state machine takes a majority vote on
	// a strategy's result; with fewer, validation fails.
	ConsensusMinSources int `mapstructure:"consensus_min_sources"`

	// PerformanceHistoryLimit bounds how many attempt records the
	// strategy performance tracker retains in total, across all
	// strategies, before purging the oldest.
	PerformanceHistoryLimit int `mapstructure:"performance_history_limit"`
}

// Default returns the engine's built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:                "info",
		LogFormat:               "text",
		StrictBoundsOverride:    true,
		ConsensusMinSources:     1,
		PerformanceHistoryLimit: 750,
	}
}

// Load reads configuration from cfgFile (if non-empty), or from
// "displayctl.yaml" in the current directory or the platform config
// directory, overlaying environment variables prefixed DISPLAYCTL_.
// A missing config file is not an error -- Default() values apply.
func Load(cfgFile string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("displayctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(configDir())
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("DISPLAYCTL")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// configDir returns the platform config directory for displayctl.
func configDir() string {
	if dir := os.Getenv("ProgramData"); dir != "" {
		return filepath.Join(dir, "displayctl")
	}
	return "."
}
