// Package main is the entry point for the themeprefs-server application.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/CreativeUnicorns/themeprefs"
	"github.com/CreativeUnicorns/themeprefs/api"
	"github.com/CreativeUnicorns/themeprefs/config"
	"github.com/CreativeUnicorns/themeprefs/registry"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML or TOML config file")
	listenAddr := flag.String("listen-addr", "", "HTTP listen address (overrides server.addr)")
	logLevel := flag.String("log-level", "", "Log level (overrides logging.level)")
	flag.Parse()

	bootLogger := themeprefs.NewDefaultLogger()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			bootLogger.Error("Failed to load config", "path", *configPath, "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *listenAddr != "" {
		cfg.Server.Addr = *listenAddr
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	logger, err := cfg.Logging.NewLogger(os.Stderr)
	if err != nil {
		bootLogger.Error("Invalid logging config", "error", err)
		os.Exit(1)
	}
	logger.Info("Themeprefs server starting up", "storage", cfg.Storage.Driver)

	store, err := cfg.Storage.OpenStore()
	if err != nil {
		logger.Error("Failed to open store", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}

	reg, err := registry.New(store, cfg.RegistryOptions(logger)...)
	if err != nil {
		logger.Error("Failed to create session registry", "error", err)
		os.Exit(1)
	}

	apiServer, err := api.NewServer(api.Config{
		ListenAddress: cfg.Server.Addr,
		Registry:      reg,
		Logger:        logger.With("component", "api"),
	})
	if err != nil {
		logger.Error("Failed to create API server", "error", err)
		os.Exit(1)
	}

	bot, err := cfg.Discord.NewBot(reg, logger.With("component", "discord"))
	switch {
	case errors.Is(err, config.ErrDiscordDisabled):
		bot = nil
	case err != nil:
		logger.Error("Failed to create Discord bot", "error", err)
		os.Exit(1)
	default:
		if err := bot.Open(); err != nil {
			logger.Error("Failed to start Discord bot", "error", err)
			os.Exit(1)
		}
		logger.Info("Discord bot started")
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- apiServer.Start()
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		if err != nil {
			logger.Error("API server error", "error", err)
		}
	}
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Stop(ctx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}

	if bot != nil {
		if err := bot.Close(); err != nil {
			logger.Error("Failed to close Discord bot", "error", err)
		}
	}

	// Closing the registry flushes every pending theme write.
	if err := reg.Close(); err != nil {
		logger.Error("Failed to close session registry", "error", err)
	}
	if err := store.Close(); err != nil {
		logger.Error("Failed to close store", "error", err)
	}

	logger.Info("Server exited gracefully")
}
