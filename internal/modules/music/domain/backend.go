package domain

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
)

// LoadType describes the shape of a search result.
type LoadType string

const (
	LoadTypeTrack    LoadType = "track"    // single track (direct URL)
	LoadTypePlaylist LoadType = "playlist" // every track of a playlist
	LoadTypeSearch   LoadType = "search"   // ordered search matches
)

// SearchResult is the outcome of resolving a query against the audio
// backend. Tracks is never empty; an empty result surfaces as
// ErrNoResults instead.
type SearchResult struct {
	Type         LoadType
	Tracks       []*Track
	PlaylistName string // set only for LoadTypePlaylist
}

// AudioBackend abstracts the remote audio node. Implementations must
// fail fast rather than hang; callers pass bounded contexts.
type AudioBackend interface {
	// Search resolves a query or URL to playable tracks.
	Search(ctx context.Context, query string, requester Requester) (*SearchResult, error)

	// Connect joins the bot to the given voice channel. Rebinding an
	// existing connection to another channel is allowed.
	Connect(ctx context.Context, guildID, voiceChannelID snowflake.ID) error

	// Disconnect leaves the voice channel and releases backend player
	// resources for the guild.
	Disconnect(ctx context.Context, guildID snowflake.ID) error

	// Play starts playback of the track on the guild's player.
	Play(ctx context.Context, guildID snowflake.ID, track *Track) error

	// StopTrack stops the current track without releasing the voice
	// connection. The backend emits a track-end event in response.
	StopTrack(ctx context.Context, guildID snowflake.ID) error

	// Pause pauses or resumes the guild's player.
	Pause(ctx context.Context, guildID snowflake.ID, paused bool) error

	// SetVolume sets the player volume, 0 to 100.
	SetVolume(ctx context.Context, guildID snowflake.ID, volume int) error
}
