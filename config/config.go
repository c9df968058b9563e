// Package config loads themeprefs server configuration from YAML or TOML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/CreativeUnicorns/themeprefs"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config is the complete server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" toml:"server"`
	Storage  StorageConfig  `yaml:"storage" toml:"storage"`
	Resolver ResolverConfig `yaml:"resolver" toml:"resolver"`
	Sessions SessionsConfig `yaml:"sessions" toml:"sessions"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
	Discord  DiscordConfig  `yaml:"discord" toml:"discord"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr string `yaml:"addr" toml:"addr"`
}

// StorageConfig selects and configures the preference store.
type StorageConfig struct {
	Driver  string      `yaml:"driver" toml:"driver"`
	Path    string      `yaml:"path" toml:"path"` // sqlite
	DSN     string      `yaml:"dsn" toml:"dsn"`   // postgres
	Redis   RedisConfig `yaml:"redis" toml:"redis"`
	Encrypt bool        `yaml:"encrypt" toml:"encrypt"` // key from THEMEPREFS_ENCRYPTION_KEY
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `yaml:"addr" toml:"addr"`
	Password string `yaml:"password" toml:"password"`
	DB       int    `yaml:"db" toml:"db"`
	Prefix   string `yaml:"prefix" toml:"prefix"`
}

// ResolverConfig bounds store calls made by each resolver.
type ResolverConfig struct {
	ReadTimeout  time.Duration `yaml:"-" toml:"-"`
	WriteTimeout time.Duration `yaml:"-" toml:"-"`

	// Raw string values for unmarshaling
	ReadTimeoutRaw  string `yaml:"read_timeout" toml:"read_timeout"`
	WriteTimeoutRaw string `yaml:"write_timeout" toml:"write_timeout"`
}

// SessionsConfig controls per-user sessions.
type SessionsConfig struct {
	IdleTTL       time.Duration `yaml:"-" toml:"-"`
	IdleTTLRaw    string        `yaml:"idle_ttl" toml:"idle_ttl"`
	InitialScheme string        `yaml:"initial_scheme" toml:"initial_scheme"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// DiscordConfig configures the Discord bot.
type DiscordConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Token   string `yaml:"token" toml:"token"`
	GuildID string `yaml:"guild_id" toml:"guild_id"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080"},
		Storage: StorageConfig{
			Driver: DriverMemory,
			Path:   "themeprefs.db",
		},
		Resolver: ResolverConfig{
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		},
		Sessions: SessionsConfig{
			IdleTTL:       30 * time.Minute,
			InitialScheme: string(themeprefs.SchemeLight),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads a configuration file from the given path on top of Default.
// The format follows the extension: .yaml, .yml or .toml.
// Environment variables in the format ${VAR_NAME} are expanded.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := expandEnvVars(string(data))

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(expanded, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}

	if err := parseDurations(cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// Unset variables expand to an empty string.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(envVarPattern.FindStringSubmatch(match)[1])
	})
}

// Validate checks that the configuration is usable.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}

	switch c.Storage.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for the postgres driver")
		}
	case DriverRedis:
		if c.Storage.Redis.Addr == "" {
			return fmt.Errorf("storage.redis.addr is required for the redis driver")
		}
	default:
		return fmt.Errorf("storage.driver %q is not one of memory, sqlite, postgres, redis", c.Storage.Driver)
	}

	if c.Resolver.ReadTimeout <= 0 || c.Resolver.WriteTimeout <= 0 {
		return fmt.Errorf("resolver timeouts must be positive")
	}
	if c.Sessions.IdleTTL <= 0 {
		return fmt.Errorf("sessions.idle_ttl must be positive")
	}
	if _, err := themeprefs.ParseScheme(c.Sessions.InitialScheme); err != nil {
		return fmt.Errorf("sessions.initial_scheme: %w", err)
	}

	if _, err := themeprefs.ParseLogLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("logging.format %q is not one of json, text", c.Logging.Format)
	}

	if c.Discord.Enabled && c.Discord.Token == "" {
		return fmt.Errorf("discord.token is required when discord is enabled")
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	if cfg.Resolver.ReadTimeoutRaw != "" {
		cfg.Resolver.ReadTimeout, err = time.ParseDuration(cfg.Resolver.ReadTimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing read_timeout %q: %w", cfg.Resolver.ReadTimeoutRaw, err)
		}
	}

	if cfg.Resolver.WriteTimeoutRaw != "" {
		cfg.Resolver.WriteTimeout, err = time.ParseDuration(cfg.Resolver.WriteTimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing write_timeout %q: %w", cfg.Resolver.WriteTimeoutRaw, err)
		}
	}

	if cfg.Sessions.IdleTTLRaw != "" {
		cfg.Sessions.IdleTTL, err = time.ParseDuration(cfg.Sessions.IdleTTLRaw)
		if err != nil {
			return fmt.Errorf("parsing idle_ttl %q: %w", cfg.Sessions.IdleTTLRaw, err)
		}
	}

	return nil
}
