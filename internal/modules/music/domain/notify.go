package domain

import (
	"github.com/disgoorg/snowflake/v2"
)

// MessageRef identifies a previously sent message so its controls can be
// disabled later. The message may live in a different channel than the
// session's current notification channel.
type MessageRef struct {
	ChannelID snowflake.ID
	MessageID snowflake.ID
}

// Notification is a structured message for a text channel.
type Notification struct {
	Title        string
	Description  string
	Color        int
	ThumbnailURL string
	Fields       []NotificationField
	FooterText   string
	FooterIcon   string
}

// NotificationField is one name/value pair in a notification.
type NotificationField struct {
	Name   string
	Value  string
	Inline bool
}

// Custom IDs for the playback control buttons attached to now-playing
// messages. The notifier renders them; the button surface decodes them.
const (
	ControlPause = "music:pause"
	ControlSkip  = "music:skip"
	ControlStop  = "music:stop"
	ControlLoop  = "music:loop"
	ControlQueue = "music:queue"
)

// Notifier delivers notifications to text channels.
type Notifier interface {
	// Send delivers a plain notification. Failures are logged by the
	// implementation; callers treat delivery as best-effort.
	Send(channelID snowflake.ID, n Notification) error

	// SendNowPlaying delivers a now-playing notification with playback
	// control buttons and returns a reference to the sent message.
	SendNowPlaying(channelID snowflake.ID, track *Track, paused bool) (*MessageRef, error)

	// DisableControls strips the interactive controls from a previously
	// sent now-playing message.
	DisableControls(ref MessageRef) error
}
