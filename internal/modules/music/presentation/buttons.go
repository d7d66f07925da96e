package presentation

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"

	"github.com/unknownzop/musicbot/internal/modules/music/application"
	"github.com/unknownzop/musicbot/internal/modules/music/domain"
)

// ButtonHandler routes now-playing control button interactions through
// the shared dispatch table. Mutating buttons are restricted to the
// user who requested the current track.
type ButtonHandler struct {
	router   *Router
	playback *application.PlaybackService
	registry domain.SessionRegistry
}

// NewButtonHandler creates a ButtonHandler.
func NewButtonHandler(
	router *Router,
	playback *application.PlaybackService,
	registry domain.SessionRegistry,
) *ButtonHandler {
	return &ButtonHandler{
		router:   router,
		playback: playback,
		registry: registry,
	}
}

// HandleInteraction processes one message-component interaction. Non
// control-button interactions are ignored.
func (h *ButtonHandler) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	customID := i.MessageComponentData().CustomID
	surface := newButtonSurface(s, i)

	var command string
	switch customID {
	case domain.ControlPause:
		// One button toggles both ways.
		paused, err := h.playback.IsPaused(surface.GuildID())
		if err != nil {
			h.replyError(surface, err)
			return
		}
		command = "pause"
		if paused {
			command = "resume"
		}
	case domain.ControlSkip:
		command = "skip"
	case domain.ControlStop:
		command = "stop"
	case domain.ControlLoop:
		command = "loop"
	case domain.ControlQueue:
		command = "queue"
	default:
		return
	}

	if command != "queue" && !h.isRequester(surface.GuildID(), surface.UserID()) {
		if err := surface.ReplyEphemeral(domain.Notification{
			Title:       "Error",
			Description: "Only the user who requested this track can use these controls.",
			Color:       colorError,
		}); err != nil {
			slog.Warn("failed to reply to unauthorized button", "error", err)
		}
		return
	}

	if err := h.router.Dispatch(context.Background(), command, surface); err != nil {
		slog.Debug("button command failed", "command", command, "error", err)
	}
}

func (h *ButtonHandler) isRequester(guildID, userID snowflake.ID) bool {
	session := h.registry.Get(guildID)
	if session == nil {
		return true // no session, let the router produce the not-playing error
	}
	current := session.Snapshot().Current
	return current == nil || current.Requester.ID == userID
}

func (h *ButtonHandler) replyError(surface Surface, err error) {
	if replyErr := surface.ReplyEphemeral(errorNotification(err)); replyErr != nil {
		slog.Warn("failed to send button error reply", "error", replyErr)
	}
}

// buttonSurface adapts a component interaction to the Surface
// interface. Button commands carry no arguments.
type buttonSurface struct {
	session     *discordgo.Session
	interaction *discordgo.InteractionCreate
}

func newButtonSurface(session *discordgo.Session, interaction *discordgo.InteractionCreate) *buttonSurface {
	return &buttonSurface{session: session, interaction: interaction}
}

func (b *buttonSurface) GuildID() snowflake.ID {
	id, _ := snowflake.Parse(b.interaction.GuildID)
	return id
}

func (b *buttonSurface) ChannelID() snowflake.ID {
	id, _ := snowflake.Parse(b.interaction.ChannelID)
	return id
}

func (b *buttonSurface) UserID() snowflake.ID {
	if b.interaction.Member == nil {
		return 0
	}
	id, _ := snowflake.Parse(b.interaction.Member.User.ID)
	return id
}

func (b *buttonSurface) UserName() string {
	if b.interaction.Member == nil {
		return ""
	}
	if b.interaction.Member.Nick != "" {
		return b.interaction.Member.Nick
	}
	return b.interaction.Member.User.Username
}

func (b *buttonSurface) UserAvatarURL() string {
	if b.interaction.Member == nil {
		return ""
	}
	return b.interaction.Member.User.AvatarURL("")
}

func (b *buttonSurface) StringArg(name string) string { return "" }

func (b *buttonSurface) IntArg(name string) (int, bool) { return 0, false }

func (b *buttonSurface) Reply(n domain.Notification) error {
	return b.respond(n, 0)
}

func (b *buttonSurface) ReplyEphemeral(n domain.Notification) error {
	return b.respond(n, discordgo.MessageFlagsEphemeral)
}

func (b *buttonSurface) respond(n domain.Notification, flags discordgo.MessageFlags) error {
	return b.session.InteractionRespond(b.interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{notificationEmbed(n)},
			Flags:  flags,
		},
	})
}

// Ensure buttonSurface implements Surface.
var _ Surface = (*buttonSurface)(nil)
