package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/CreativeUnicorns/themeprefs"
	"github.com/CreativeUnicorns/themeprefs/discord"
	"github.com/CreativeUnicorns/themeprefs/registry"
	"github.com/CreativeUnicorns/themeprefs/storage"
)

// OpenStore builds the Store selected by the storage section. When Encrypt is
// set the store is wrapped in a storage.SecureStore keyed from the environment.
func (c StorageConfig) OpenStore() (themeprefs.Store, error) {
	var (
		store themeprefs.Store
		err   error
	)

	switch c.Driver {
	case DriverMemory:
		store = storage.NewMemoryStore()
	case DriverSQLite:
		store, err = storage.NewSQLiteStorage(c.Path)
	case DriverPostgres:
		store, err = storage.NewPostgresStorage(c.DSN)
	case DriverRedis:
		store, err = storage.NewRedisStorage(c.Redis.Addr, c.Redis.Password, c.Redis.DB, c.Redis.Prefix)
	default:
		return nil, fmt.Errorf("%w: unknown storage driver %q", themeprefs.ErrInvalidInput, c.Driver)
	}
	if err != nil {
		return nil, err
	}

	if !c.Encrypt {
		return store, nil
	}

	enc, err := themeprefs.NewEncryptionAdapter()
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("storage encryption: %w", err)
	}
	secure, err := storage.NewSecureStore(store, enc)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return secure, nil
}

// NewLogger builds a logger writing to w at the configured level and format.
func (c LoggingConfig) NewLogger(w io.Writer) (themeprefs.LevelLogger, error) {
	level, err := themeprefs.ParseLogLevel(c.Level)
	if err != nil {
		return nil, err
	}
	return themeprefs.NewLogger(w, c.Format, level), nil
}

// RegistryOptions translates the sessions and resolver sections into registry options.
func (c *Config) RegistryOptions(logger themeprefs.Logger) []registry.Option {
	return []registry.Option{
		registry.WithLogger(logger),
		registry.WithIdleTTL(c.Sessions.IdleTTL),
		registry.WithInitialScheme(themeprefs.Scheme(strings.ToLower(strings.TrimSpace(c.Sessions.InitialScheme)))),
		registry.WithResolverOptions(
			themeprefs.WithReadTimeout(c.Resolver.ReadTimeout),
			themeprefs.WithWriteTimeout(c.Resolver.WriteTimeout),
		),
	}
}

// ErrDiscordDisabled is returned by DiscordConfig.NewBot when discord.enabled is false.
var ErrDiscordDisabled = errors.New("config: discord is disabled")

// NewBot builds the Discord bot over reg, or returns ErrDiscordDisabled.
func (c DiscordConfig) NewBot(reg *registry.Registry, logger themeprefs.Logger) (*discord.Bot, error) {
	if !c.Enabled {
		return nil, ErrDiscordDisabled
	}
	return discord.NewBot(c.Token, c.GuildID, reg, logger)
}
