// Package discord exposes theme preferences through a /theme slash command.
package discord

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/CreativeUnicorns/themeprefs"
	"github.com/CreativeUnicorns/themeprefs/registry"
)

const commandTimeout = 5 * time.Second

// Command is the /theme application command.
var Command = &discordgo.ApplicationCommand{
	Name:        "theme",
	Description: "Manage your colour theme",
	Type:        discordgo.ChatApplicationCommand,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Name:        "view",
			Description: "Show your current theme",
			Type:        discordgo.ApplicationCommandOptionSubCommand,
		},
		{
			Name:        "set",
			Description: "Choose light, dark or follow your device",
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "mode",
					Description: "Theme mode",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Light", Value: string(themeprefs.ModeLight)},
						{Name: "Dark", Value: string(themeprefs.ModeDark)},
						{Name: "System", Value: string(themeprefs.ModeSystem)},
					},
				},
			},
		},
		{
			Name:        "toggle",
			Description: "Switch between light and dark",
			Type:        discordgo.ApplicationCommandOptionSubCommand,
		},
	},
}

// responder is the part of *discordgo.Session used to answer interactions.
type responder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
}

// Bot answers /theme commands from a registry.
type Bot struct {
	registry *registry.Registry
	logger   themeprefs.Logger
	guildID  string

	session    *discordgo.Session
	registered []*discordgo.ApplicationCommand
}

// NewBot creates a Bot for token. guildID limits the command to one guild;
// empty registers it globally.
func NewBot(token, guildID string, reg *registry.Registry, logger themeprefs.Logger) (*Bot, error) {
	if reg == nil {
		return nil, fmt.Errorf("%w: registry is required", themeprefs.ErrInvalidInput)
	}
	if token == "" {
		return nil, fmt.Errorf("%w: discord token is empty", themeprefs.ErrInvalidInput)
	}
	if logger == nil {
		logger = themeprefs.NewDefaultLogger()
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("discord: creating session: %w", err)
	}

	return &Bot{registry: reg, logger: logger, guildID: guildID, session: session}, nil
}

// Open connects to Discord and registers the /theme command.
func (b *Bot) Open() error {
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onInteraction)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("discord: opening connection: %w", err)
	}

	cmd, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.guildID, Command)
	if err != nil {
		_ = b.session.Close()
		return fmt.Errorf("discord: creating command %q: %w", Command.Name, err)
	}
	b.registered = append(b.registered, cmd)
	return nil
}

// Close removes the registered commands and disconnects.
func (b *Bot) Close() error {
	for _, cmd := range b.registered {
		if err := b.session.ApplicationCommandDelete(b.session.State.User.ID, b.guildID, cmd.ID); err != nil {
			b.logger.Warn("Cannot delete command", "command", cmd.Name, "error", err)
		}
	}
	b.registered = nil
	return b.session.Close()
}

func (b *Bot) onReady(s *discordgo.Session, _ *discordgo.Ready) {
	b.logger.Info("Discord bot logged in", "user", s.State.User.Username)
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.dispatch(s, i)
}

func (b *Bot) dispatch(r responder, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := i.ApplicationCommandData()
	if data.Name != Command.Name {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	content, err := b.handle(ctx, userID(i), data)
	if err != nil {
		b.logger.Warn("Theme command failed", "error", err)
		content = "❌ " + content
	}

	if err := r.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}); err != nil {
		b.logger.Error("Error responding to interaction", "error", err)
	}
}

// handle runs one /theme sub-command and returns the reply. On error the
// reply is a user-facing message.
func (b *Bot) handle(ctx context.Context, user string, data discordgo.ApplicationCommandInteractionData) (string, error) {
	if user == "" {
		return "Could not tell who you are.", fmt.Errorf("%w: interaction without user", themeprefs.ErrInvalidInput)
	}
	if len(data.Options) == 0 {
		return "Missing sub-command.", fmt.Errorf("%w: no sub-command", themeprefs.ErrInvalidInput)
	}

	sub := data.Options[0]
	var (
		state   themeprefs.State
		toggled themeprefs.Mode // reapplied if the update is retried
	)

	err := b.registry.Update(ctx, user, func(sess *registry.Session) error {
		switch sub.Name {
		case "view":
		case "set":
			mode, err := themeprefs.ParseMode(optionString(sub.Options, "mode"))
			if err != nil {
				return err
			}
			if err := sess.Resolver.SetMode(mode); err != nil {
				return err
			}
		case "toggle":
			if toggled != "" {
				if err := sess.Resolver.SetMode(toggled); err != nil {
					return err
				}
				break
			}
			mode, err := sess.Resolver.Toggle()
			if err != nil {
				return err
			}
			toggled = mode
		default:
			return fmt.Errorf("%w: unknown sub-command %q", themeprefs.ErrInvalidInput, sub.Name)
		}
		state = sess.Resolver.State()
		return nil
	})

	switch {
	case errors.Is(err, themeprefs.ErrInvalidMode):
		return "Mode must be light, dark or system.", err
	case err != nil:
		return "Failed to update your theme.", err
	}

	return describe(sub.Name, state), nil
}

func describe(sub string, st themeprefs.State) string {
	prefix := "Your theme"
	if sub != "view" {
		prefix = "Theme updated"
	}
	if st.Mode == themeprefs.ModeSystem {
		return fmt.Sprintf("%s: **%s** (following your device, currently %s)", prefix, st.Scheme, st.OSScheme)
	}
	return fmt.Sprintf("%s: **%s**", prefix, st.Scheme)
}

func optionString(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, opt := range opts {
		if opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionString {
			return opt.StringValue()
		}
	}
	return ""
}

// userID returns the invoking user for guild and direct-message interactions.
func userID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
