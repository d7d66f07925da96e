package presentation

import (
	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"

	"github.com/unknownzop/musicbot/internal/bot"
	"github.com/unknownzop/musicbot/internal/modules/music/domain"
)

// SlashSurface adapts an application-command interaction to the Surface
// interface.
type SlashSurface struct {
	session     *discordgo.Session
	interaction *discordgo.InteractionCreate
	responder   bot.Responder

	args map[string]*discordgo.ApplicationCommandInteractionDataOption
}

// NewSlashSurface creates a SlashSurface for an application-command
// interaction.
func NewSlashSurface(
	session *discordgo.Session,
	interaction *discordgo.InteractionCreate,
	responder bot.Responder,
) *SlashSurface {
	args := make(map[string]*discordgo.ApplicationCommandInteractionDataOption)
	for _, opt := range interaction.ApplicationCommandData().Options {
		args[opt.Name] = opt
	}
	return &SlashSurface{
		session:     session,
		interaction: interaction,
		responder:   responder,
		args:        args,
	}
}

func (s *SlashSurface) GuildID() snowflake.ID {
	id, _ := snowflake.Parse(s.interaction.GuildID)
	return id
}

func (s *SlashSurface) ChannelID() snowflake.ID {
	id, _ := snowflake.Parse(s.interaction.ChannelID)
	return id
}

func (s *SlashSurface) UserID() snowflake.ID {
	if s.interaction.Member == nil {
		return 0
	}
	id, _ := snowflake.Parse(s.interaction.Member.User.ID)
	return id
}

func (s *SlashSurface) UserName() string {
	if s.interaction.Member == nil {
		return ""
	}
	if s.interaction.Member.Nick != "" {
		return s.interaction.Member.Nick
	}
	return s.interaction.Member.User.Username
}

func (s *SlashSurface) UserAvatarURL() string {
	if s.interaction.Member == nil {
		return ""
	}
	return s.interaction.Member.User.AvatarURL("")
}

func (s *SlashSurface) StringArg(name string) string {
	opt, ok := s.args[name]
	if !ok || opt.Type != discordgo.ApplicationCommandOptionString {
		return ""
	}
	return opt.StringValue()
}

func (s *SlashSurface) IntArg(name string) (int, bool) {
	opt, ok := s.args[name]
	if !ok || opt.Type != discordgo.ApplicationCommandOptionInteger {
		return 0, false
	}
	return int(opt.IntValue()), true
}

func (s *SlashSurface) Reply(n domain.Notification) error {
	return s.respond(n, 0)
}

func (s *SlashSurface) ReplyEphemeral(n domain.Notification) error {
	return s.respond(n, discordgo.MessageFlagsEphemeral)
}

func (s *SlashSurface) respond(n domain.Notification, flags discordgo.MessageFlags) error {
	return s.responder.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{notificationEmbed(n)},
			Flags:  flags,
		},
	})
}

// notificationEmbed renders a Notification as a Discord embed.
func notificationEmbed(n domain.Notification) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       n.Title,
		Description: n.Description,
		Color:       n.Color,
	}
	if n.ThumbnailURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: n.ThumbnailURL}
	}
	for _, field := range n.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   field.Name,
			Value:  field.Value,
			Inline: field.Inline,
		})
	}
	if n.FooterText != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text:    n.FooterText,
			IconURL: n.FooterIcon,
		}
	}
	return embed
}

// Ensure SlashSurface implements Surface.
var _ Surface = (*SlashSurface)(nil)
