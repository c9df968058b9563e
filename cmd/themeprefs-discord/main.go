// Package main runs the /theme Discord bot.
package main

import (
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/CreativeUnicorns/themeprefs"
	"github.com/CreativeUnicorns/themeprefs/config"
	"github.com/CreativeUnicorns/themeprefs/registry"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML or TOML config file")
	token := flag.String("t", "", "Bot token (overrides discord.token)")
	guildID := flag.String("g", "", "Guild ID to register the command in (overrides discord.guild_id)")
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
	if *token != "" {
		cfg.Discord.Token = *token
		cfg.Discord.Enabled = true
	}
	if *guildID != "" {
		cfg.Discord.GuildID = *guildID
	}

	logger, err := cfg.Logging.NewLogger(os.Stderr)
	if err != nil {
		bootLogger.Error("Invalid logging config", "error", err)
		os.Exit(1)
	}

	store, err := cfg.Storage.OpenStore()
	if err != nil {
		logger.Error("Failed to open store", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	reg, err := registry.New(store, cfg.RegistryOptions(logger)...)
	if err != nil {
		logger.Error("Failed to create session registry", "error", err)
		os.Exit(1)
	}
	defer reg.Close()

	bot, err := cfg.Discord.NewBot(reg, logger.With("component", "discord"))
	if errors.Is(err, config.ErrDiscordDisabled) {
		logger.Error("Discord is disabled, set discord.enabled or pass -t")
		os.Exit(1)
	}
	if err != nil {
		logger.Error("Failed to create Discord bot", "error", err)
		os.Exit(1)
	}
	if err := bot.Open(); err != nil {
		logger.Error("Failed to start Discord bot", "error", err)
		os.Exit(1)
	}
	defer bot.Close()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	logger.Info("Bot is running. Press Ctrl+C to exit.")
	<-stop
}
