package domain

import (
	"github.com/disgoorg/snowflake/v2"
)

// SessionRegistry maps guild IDs to their playback sessions. At most one
// session exists per guild; get-or-create is a single atomic step so
// concurrent play commands cannot race a duplicate into existence.
type SessionRegistry interface {
	// Get returns the session for the guild, or nil if none exists.
	Get(guildID snowflake.ID) *Session

	// GetOrCreate returns the existing session for the guild, or creates
	// one with create and stores it. The boolean reports whether a new
	// session was created.
	GetOrCreate(guildID snowflake.ID, create func() *Session) (*Session, bool)

	// Delete removes the session for the guild.
	Delete(guildID snowflake.ID)

	// Count returns the number of active sessions.
	Count() int

	// All returns a snapshot of every active session.
	All() []*Session
}
