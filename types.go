// Package themeprefs defines the core types used by the theme preference resolver.
package themeprefs

import (
	"time"
)

// Mode is the user-selected theme preference.
type Mode string

// Scheme is a rendered color scheme. It is derived from a Mode and the OS scheme
// and is never persisted directly.
type Scheme string

const (
	// ModeLight always renders the light scheme.
	ModeLight Mode = "light"
	// ModeDark always renders the dark scheme.
	ModeDark Mode = "dark"
	// ModeSystem follows the scheme reported by the operating system.
	ModeSystem Mode = "system"
)

const (
	SchemeLight Scheme = "light"
	SchemeDark  Scheme = "dark"
)

// DefaultStorageKey is the key under which the preference is persisted.
const DefaultStorageKey = "app_theme-mode"

const (
	defaultReadTimeout  = 5 * time.Second
	defaultWriteTimeout = 5 * time.Second
)

// State is an immutable snapshot of a Resolver.
type State struct {
	// Mode is the current user preference.
	Mode Mode `json:"mode"`
	// OSScheme is the last scheme reported by the SchemeProvider.
	OSScheme Scheme `json:"os_scheme"`
	// Scheme is the effective scheme, Resolve(Mode, OSScheme).
	Scheme Scheme `json:"color_scheme"`
	// Ready reports whether the initial read of the persisted preference has completed.
	Ready bool `json:"ready"`
}

// IsDark reports whether the effective scheme is dark.
func (s State) IsDark() bool {
	return s.Scheme == SchemeDark
}

// Resolve returns the effective scheme for a mode and an OS-reported scheme.
// ModeSystem yields os; any other mode yields itself.
func Resolve(mode Mode, os Scheme) Scheme {
	switch mode {
	case ModeLight:
		return SchemeLight
	case ModeDark:
		return SchemeDark
	default:
		if os == SchemeDark {
			return SchemeDark
		}
		return SchemeLight
	}
}

// Config holds the internal configuration for a Resolver instance.
// It is populated by applying functional Options when a Resolver is created with New().
type Config struct {
	// store is the persistence layer (e.g. MemoryStore, SQLiteStorage, RedisStorage).
	store Store
	// provider reports the OS color scheme.
	provider SchemeProvider
	// logger is the logging interface used by the Resolver.
	logger Logger
	// key is the storage key of the persisted preference.
	key          string
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// Option defines the signature for a functional option that configures a Resolver.
type Option func(*Config)

// WithStore sets the Store used to persist the preference.
// This is a mandatory option.
func WithStore(s Store) Option {
	return func(c *Config) {
		c.store = s
	}
}

// WithSchemeProvider sets the source of the OS-reported color scheme.
// Without it the OS scheme is fixed at SchemeLight.
func WithSchemeProvider(p SchemeProvider) Option {
	return func(c *Config) {
		c.provider = p
	}
}

// WithLogger sets the Logger used for read and write failures.
// If not set, NewDefaultLogger() is used.
func WithLogger(l Logger) Option {
	return func(c *Config) {
		c.logger = l
	}
}

// WithStorageKey overrides DefaultStorageKey.
func WithStorageKey(key string) Option {
	return func(c *Config) {
		c.key = key
	}
}

// WithReadTimeout bounds the initial read of the persisted preference.
func WithReadTimeout(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.readTimeout = d
		}
	}
}

// WithWriteTimeout bounds each persistence write.
func WithWriteTimeout(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.writeTimeout = d
		}
	}
}
