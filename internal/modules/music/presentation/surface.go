package presentation

import (
	"github.com/disgoorg/snowflake/v2"

	"github.com/unknownzop/musicbot/internal/modules/music/domain"
)

// Surface abstracts one inbound command regardless of how it arrived.
// Slash commands, text-prefix commands and button interactions each
// provide an adapter; the router depends only on this interface so the
// three surfaces cannot drift apart semantically.
type Surface interface {
	// GuildID is the guild the command was issued in.
	GuildID() snowflake.ID

	// ChannelID is the text channel the command was issued in, used as
	// the session's notification channel.
	ChannelID() snowflake.ID

	// UserID identifies the invoking user.
	UserID() snowflake.ID

	// UserName is the invoking user's display name.
	UserName() string

	// UserAvatarURL is the invoking user's avatar, for embed footers.
	UserAvatarURL() string

	// StringArg returns the named string argument, or "" if absent.
	StringArg(name string) string

	// IntArg returns the named integer argument and whether it was set.
	IntArg(name string) (int, bool)

	// Reply sends the command response.
	Reply(n domain.Notification) error

	// ReplyEphemeral sends a response visible only to the invoking user
	// where the surface supports it; otherwise it behaves like Reply.
	ReplyEphemeral(n domain.Notification) error
}
