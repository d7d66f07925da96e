package application

import (
	"github.com/disgoorg/snowflake/v2"
)

// VoiceStateProvider reports which voice channel a user currently
// occupies. Backed by the gateway's cached guild state.
type VoiceStateProvider interface {
	// UserVoiceChannel returns the voice channel the user is in, or
	// false if the user is not in any voice channel of the guild.
	UserVoiceChannel(guildID, userID snowflake.ID) (snowflake.ID, bool)
}
