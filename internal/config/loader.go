package config

import (
	"os"
	"strconv"
	"time"
)

// Loader handles loading configuration from multiple sources
type Loader struct {
	config     *Config
	configFile string
}

// NewLoader creates a new configuration loader. The config file is taken
// from TODO_CONFIG, falling back to DefaultConfigPath.
func NewLoader() *Loader {
	return &Loader{
		config:     NewConfig(),
		configFile: os.Getenv("TODO_CONFIG"),
	}
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the TOML config file
// 3. Override with environment variables
// 4. Override with command line flags (handled by cobra)
func (l *Loader) Load() (*Config, error) {
	// Step 1: Start with defaults (already done in NewConfig)

	// Step 2: Load the config file; only a named file has to exist
	path, required := l.configFile, l.configFile != ""
	if !required {
		path = DefaultConfigPath()
	}
	if err := l.config.LoadFromFile(path, required); err != nil {
		return nil, err
	}

	// Step 3: Load from environment variables
	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	// Step 4: Validate the configuration
	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	if overrides != nil && overrides.ConfigFile != nil {
		l.configFile = *overrides.ConfigFile
	}

	// Load base configuration
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	// Apply command line overrides
	if overrides != nil {
		l.applyOverrides(config, overrides)
	}

	// Re-validate after applying overrides
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	ConfigFile *string

	// Server overrides
	Port      *int
	StaticDir *string

	// Database overrides
	DBDriver *string
	DBPath   *string

	// Client overrides
	APIURL        *string
	ClientTimeout *time.Duration

	// Cache overrides
	CachePath *string

	// Logging overrides
	LogLevel  *string
	LogFormat *string

	// Application overrides
	Timeout *time.Duration
}

// applyOverrides applies command line overrides to the configuration
func (l *Loader) applyOverrides(config *Config, overrides *ConfigOverrides) {
	// Server overrides
	if overrides.Port != nil {
		config.Server.Port = *overrides.Port
	}
	if overrides.StaticDir != nil {
		config.Server.StaticDir = *overrides.StaticDir
	}

	// Database overrides
	if overrides.DBDriver != nil {
		config.Database.Driver = *overrides.DBDriver
	}
	if overrides.DBPath != nil {
		config.Database.Path = *overrides.DBPath
	}

	// Client overrides
	if overrides.APIURL != nil {
		config.Client.APIURL = *overrides.APIURL
	}
	if overrides.ClientTimeout != nil {
		config.Client.Timeout = *overrides.ClientTimeout
	}

	// Cache overrides
	if overrides.CachePath != nil {
		config.Cache.Path = *overrides.CachePath
	}

	// Logging overrides
	if overrides.LogLevel != nil {
		config.Logging.Level = *overrides.LogLevel
	}
	if overrides.LogFormat != nil {
		config.Logging.Format = *overrides.LogFormat
	}

	// Application overrides
	if overrides.Timeout != nil {
		config.Application.Timeout = *overrides.Timeout
	}
}

// ParseDurationWithFallback parses a duration string with a fallback value
func ParseDurationWithFallback(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return fallback
}

// ParseIntWithFallback parses an integer string with a fallback value
func ParseIntWithFallback(s string, fallback int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return fallback
}

// ParseBoolWithFallback parses a boolean string with a fallback value
func ParseBoolWithFallback(s string, fallback bool) bool {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return fallback
}
