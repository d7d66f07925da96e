package infrastructure

import (
	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"

	"github.com/unknownzop/musicbot/internal/modules/music/application"
)

// VoiceStateProvider answers voice-channel lookups from the gateway's
// cached guild state.
type VoiceStateProvider struct {
	session *discordgo.Session
}

// NewVoiceStateProvider creates a new VoiceStateProvider.
func NewVoiceStateProvider(session *discordgo.Session) *VoiceStateProvider {
	return &VoiceStateProvider{session: session}
}

// UserVoiceChannel returns the voice channel the user is in, or false
// if the user is not in any voice channel of the guild.
func (v *VoiceStateProvider) UserVoiceChannel(guildID, userID snowflake.ID) (snowflake.ID, bool) {
	guild, err := v.session.State.Guild(guildID.String())
	if err != nil {
		return 0, false
	}

	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID.String() && vs.ChannelID != "" {
			channelID, err := snowflake.Parse(vs.ChannelID)
			if err != nil {
				return 0, false
			}
			return channelID, true
		}
	}
	return 0, false
}

// Ensure VoiceStateProvider implements the application contract.
var _ application.VoiceStateProvider = (*VoiceStateProvider)(nil)
