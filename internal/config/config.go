package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"todo-manager/internal/logging"
)

// Config holds all configuration options for the todo manager
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Database    DatabaseConfig    `toml:"database"`
	Client      ClientConfig      `toml:"client"`
	Cache       CacheConfig       `toml:"cache"`
	Logging     LoggingConfig     `toml:"logging"`
	Application ApplicationConfig `toml:"application"`
}

// ServerConfig holds REST API server configuration
type ServerConfig struct {
	Port            int           `toml:"port" env:"PORT"`
	StaticDir       string        `toml:"static_dir" env:"TODO_STATIC_DIR"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" env:"TODO_SHUTDOWN_TIMEOUT"`
}

// DatabaseConfig selects and configures the server-side repository
type DatabaseConfig struct {
	Driver        string `toml:"driver" env:"TODO_DB_DRIVER"`
	Path          string `toml:"path" env:"TODO_DB_PATH"`
	Neo4jURI      string `toml:"neo4j_uri" env:"TODO_NEO4J_URI"`
	Neo4jUser     string `toml:"neo4j_user" env:"TODO_NEO4J_USER"`
	Neo4jPassword string `toml:"neo4j_password" env:"TODO_NEO4J_PASSWORD"`
	Neo4jDatabase string `toml:"neo4j_database" env:"TODO_NEO4J_DATABASE"`
}

// ClientConfig holds configuration for talking to the REST API
type ClientConfig struct {
	APIURL  string        `toml:"api_url" env:"TODO_API_URL"`
	Timeout time.Duration `toml:"timeout" env:"TODO_CLIENT_TIMEOUT"` // 0 keeps the transport default
}

// CacheConfig holds local cache configuration
type CacheConfig struct {
	Path     string `toml:"path" env:"TODO_CACHE_PATH"`
	MaxBytes int    `toml:"max_bytes" env:"TODO_CACHE_MAX_BYTES"`
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level      string `toml:"level" env:"TODO_LOG_LEVEL"`
	Format     string `toml:"format" env:"TODO_LOG_FORMAT"`
	Timestamps bool   `toml:"timestamps" env:"TODO_LOG_TIMESTAMPS"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `toml:"timeout" env:"TODO_APP_TIMEOUT"`
}

// Supported database drivers
const (
	DriverSQLite = "sqlite"
	DriverNeo4j  = "neo4j"
)

// DefaultDir returns the directory holding the database, cache and config file.
func DefaultDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".todo")
}

// DefaultConfigPath returns the config file read when none is named.
func DefaultConfigPath() string {
	return filepath.Join(DefaultDir(), "config.toml")
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	dir := DefaultDir()

	return &Config{
		Server: ServerConfig{
			Port:            3000,
			StaticDir:       "public",
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:        DriverSQLite,
			Path:          filepath.Join(dir, "todos.db"),
			Neo4jURI:      "neo4j://localhost:7687",
			Neo4jUser:     "neo4j",
			Neo4jDatabase: "neo4j",
		},
		Client: ClientConfig{
			APIURL:  "http://localhost:3000",
			Timeout: 0,
		},
		Cache: CacheConfig{
			Path:     filepath.Join(dir, "cache.db"),
			MaxBytes: 5 << 20,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Timestamps: false,
		},
		Application: ApplicationConfig{
			Timeout: 60 * time.Second,
		},
	}
}

// Addr returns the listen address for the server
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Server.Port)
}

// LoggingOptions converts the logging section for logging.New
func (c *Config) LoggingOptions() logging.Options {
	opts := logging.DefaultOptions()
	opts.Level = c.Logging.Level
	opts.Format = c.Logging.Format
	opts.Timestamps = c.Logging.Timestamps
	return opts
}

// LoadFromFile overlays the TOML file at path. Keys missing from the file
// keep their current values. A missing file is an error only when required.
func (c *Config) LoadFromFile(path string, required bool) error {
	_, err := toml.DecodeFile(path, c)
	if err != nil && !required && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return &ConfigError{Field: "file", Message: err.Error()}
	}
	return nil
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() error {
	// Server configuration
	if port := os.Getenv("PORT"); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil {
			return &ConfigError{Field: "server.port", Message: "PORT must be a number"}
		}
		c.Server.Port = n
	}
	if dir := os.Getenv("TODO_STATIC_DIR"); dir != "" {
		c.Server.StaticDir = dir
	}
	if timeout := os.Getenv("TODO_SHUTDOWN_TIMEOUT"); timeout != "" {
		c.Server.ShutdownTimeout = ParseDurationWithFallback(timeout, c.Server.ShutdownTimeout)
	}

	// Database configuration
	if driver := os.Getenv("TODO_DB_DRIVER"); driver != "" {
		c.Database.Driver = strings.ToLower(driver)
	}
	if path := os.Getenv("TODO_DB_PATH"); path != "" {
		c.Database.Path = path
	}
	if uri := os.Getenv("TODO_NEO4J_URI"); uri != "" {
		c.Database.Neo4jURI = uri
	}
	if user := os.Getenv("TODO_NEO4J_USER"); user != "" {
		c.Database.Neo4jUser = user
	}
	if password := os.Getenv("TODO_NEO4J_PASSWORD"); password != "" {
		c.Database.Neo4jPassword = password
	}
	if db := os.Getenv("TODO_NEO4J_DATABASE"); db != "" {
		c.Database.Neo4jDatabase = db
	}

	// Client configuration
	if url := os.Getenv("TODO_API_URL"); url != "" {
		c.Client.APIURL = url
	}
	if timeout := os.Getenv("TODO_CLIENT_TIMEOUT"); timeout != "" {
		c.Client.Timeout = ParseDurationWithFallback(timeout, c.Client.Timeout)
	}

	// Cache configuration
	if path := os.Getenv("TODO_CACHE_PATH"); path != "" {
		c.Cache.Path = path
	}
	if maxBytes := os.Getenv("TODO_CACHE_MAX_BYTES"); maxBytes != "" {
		c.Cache.MaxBytes = ParseIntWithFallback(maxBytes, c.Cache.MaxBytes)
	}

	// Logging configuration
	if level := os.Getenv("TODO_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if format := os.Getenv("TODO_LOG_FORMAT"); format != "" {
		c.Logging.Format = format
	}
	if ts := os.Getenv("TODO_LOG_TIMESTAMPS"); ts != "" {
		c.Logging.Timestamps = ParseBoolWithFallback(ts, c.Logging.Timestamps)
	}

	// Application configuration
	if timeout := os.Getenv("TODO_APP_TIMEOUT"); timeout != "" {
		c.Application.Timeout = ParseDurationWithFallback(timeout, c.Application.Timeout)
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Validate server configuration
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return &ConfigError{Field: "server.port", Message: "port must be between 1 and 65535"}
	}
	if c.Server.ShutdownTimeout <= 0 {
		return &ConfigError{Field: "server.shutdown_timeout", Message: "shutdown timeout must be positive"}
	}

	// Validate database configuration
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return &ConfigError{Field: "database.path", Message: "database path cannot be empty"}
		}
	case DriverNeo4j:
		if c.Database.Neo4jURI == "" {
			return &ConfigError{Field: "database.neo4j_uri", Message: "neo4j uri cannot be empty"}
		}
	default:
		return &ConfigError{Field: "database.driver", Message: "driver must be sqlite or neo4j"}
	}

	// Validate client configuration
	if c.Client.APIURL == "" {
		return &ConfigError{Field: "client.api_url", Message: "api url cannot be empty"}
	}
	if c.Client.Timeout < 0 {
		return &ConfigError{Field: "client.timeout", Message: "client timeout cannot be negative"}
	}

	// Validate cache configuration
	if c.Cache.Path == "" {
		return &ConfigError{Field: "cache.path", Message: "cache path cannot be empty"}
	}
	if c.Cache.MaxBytes <= 0 {
		return &ConfigError{Field: "cache.max_bytes", Message: "cache quota must be positive"}
	}

	// Validate logging configuration
	if !logging.ValidLevel(c.Logging.Level) {
		return &ConfigError{Field: "logging.level", Message: "level must be debug, info, warn or error"}
	}
	if !logging.ValidFormat(c.Logging.Format) {
		return &ConfigError{Field: "logging.format", Message: "format must be text, json or logfmt"}
	}

	// Validate application configuration
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
