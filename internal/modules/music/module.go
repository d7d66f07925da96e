package music

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/caarlos0/env/v11"

	"github.com/unknownzop/musicbot/internal/bot"
	"github.com/unknownzop/musicbot/internal/modules/music/application"
	"github.com/unknownzop/musicbot/internal/modules/music/infrastructure"
	"github.com/unknownzop/musicbot/internal/modules/music/presentation"
)

func init() {
	bot.Register(&Module{})
}

// Compile-time interface checks.
var _ bot.ConfigurableModule = (*Module)(nil)

// Module provides voice-channel music playback: a per-guild playback
// session driven by slash commands, text-prefix commands and the
// buttons on the now-playing message.
type Module struct {
	config *Config

	registry *infrastructure.MemoryRegistry
	backend  *infrastructure.LavalinkBackend
	bridge   *application.PlaybackEventBridge
	router   *presentation.Router
	prefix   *presentation.PrefixHandler
	buttons  *presentation.ButtonHandler
}

// Name returns the module name.
func (m *Module) Name() string {
	return "music"
}

// Commands returns the slash commands for this module.
func (m *Module) Commands() []*discordgo.ApplicationCommand {
	return presentation.Commands()
}

// CommandHandlers returns the slash-command handlers. Every command
// funnels into the same dispatch table the prefix and button surfaces
// use.
func (m *Module) CommandHandlers() map[string]bot.InteractionHandler {
	handlers := make(map[string]bot.InteractionHandler)
	for _, cmd := range presentation.Commands() {
		handlers[cmd.Name] = m.slashHandler(cmd.Name)
	}
	return handlers
}

func (m *Module) slashHandler(name string) bot.InteractionHandler {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate, r bot.Responder) error {
		surface := presentation.NewSlashSurface(s, i, r)
		// Dispatch replies on the surface for both success and failure,
		// so errors are not propagated to the interaction fallback.
		if err := m.router.Dispatch(context.Background(), name, surface); err != nil {
			slog.Debug("slash command failed", "command", name, "error", err)
		}
		return nil
	}
}

// EventHandlers returns the gateway event handlers for this module.
func (m *Module) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		func(s *discordgo.Session, event *discordgo.VoiceServerUpdate) {
			if m.backend != nil {
				m.backend.OnVoiceServerUpdate(event)
			}
		},
		func(s *discordgo.Session, event *discordgo.VoiceStateUpdate) {
			if m.backend != nil {
				m.backend.OnVoiceStateUpdate(event)
			}
		},
		func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			if m.buttons != nil {
				m.buttons.HandleInteraction(s, i)
			}
		},
		func(s *discordgo.Session, msg *discordgo.MessageCreate) {
			if m.prefix != nil {
				m.prefix.HandleMessage(s, msg)
			}
		},
	}
}

// LoadConfig loads module configuration from environment variables.
func (m *Module) LoadConfig() error {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Init wires the module together: registry, event bridge, Lavalink
// backend, and the three command surfaces over one router.
func (m *Module) Init(deps bot.ModuleDependencies) error {
	if deps.Session == nil {
		return fmt.Errorf("music module requires a Discord session")
	}

	m.registry = infrastructure.NewMemoryRegistry()
	m.bridge = application.NewPlaybackEventBridge(m.registry)

	backend, err := infrastructure.NewLavalinkBackend(deps.Session, m.bridge, infrastructure.LavalinkConfig{
		Address:      m.config.LavalinkAddress,
		Password:     m.config.LavalinkPassword,
		Secure:       m.config.LavalinkSecure,
		SearchPrefix: m.config.DefaultSearch,
	})
	if err != nil {
		return fmt.Errorf("failed to connect audio backend: %w", err)
	}
	m.backend = backend

	notifier := infrastructure.NewDiscordNotifier(deps.Session)
	voiceState := infrastructure.NewVoiceStateProvider(deps.Session)

	playback := application.NewPlaybackService(m.registry, m.backend, notifier, voiceState)
	queue := application.NewQueueService(m.registry, voiceState)

	links := presentation.Links{
		Invite:  m.config.InviteURL,
		Support: m.config.SupportServerURL,
		GitHub:  m.config.GitHubURL,
	}
	if links.Invite == "" {
		links.Invite = fmt.Sprintf(
			"https://discord.com/oauth2/authorize?client_id=%s&permissions=%d&scope=bot%%20applications.commands",
			deps.Session.State.User.ID, 277083450689,
		)
	}

	m.router = presentation.NewRouter(
		playback, queue, m.registry, links, m.config.CommandPrefix,
		deps.Session.HeartbeatLatency,
	)
	m.buttons = presentation.NewButtonHandler(m.router, playback, m.registry)
	if m.config.EnablePrefix {
		m.prefix = presentation.NewPrefixHandler(m.router, m.config.CommandPrefix)
	}

	slog.Info("music module initialized",
		"lavalink", m.config.LavalinkAddress,
		"prefix_enabled", m.config.EnablePrefix,
	)
	return nil
}

// Shutdown tears down every active session and closes the Lavalink
// connection.
func (m *Module) Shutdown() error {
	if m.registry != nil {
		for _, session := range m.registry.All() {
			session.Destroy(context.Background())
		}
	}
	if m.backend != nil {
		m.backend.Close()
	}
	return nil
}
