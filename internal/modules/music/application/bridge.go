package application

import (
	"context"
	"log/slog"

	"github.com/disgoorg/snowflake/v2"

	"github.com/unknownzop/musicbot/internal/modules/music/domain"
)

// PlaybackEventBridge routes asynchronous backend lifecycle events to
// the owning session. Events for guilds with no session arrive late,
// after teardown; they are discarded, not errors.
type PlaybackEventBridge struct {
	registry domain.SessionRegistry
}

// NewPlaybackEventBridge creates a new PlaybackEventBridge.
func NewPlaybackEventBridge(registry domain.SessionRegistry) *PlaybackEventBridge {
	return &PlaybackEventBridge{registry: registry}
}

// HandleTrackStart handles a playback-started event.
func (b *PlaybackEventBridge) HandleTrackStart(guildID snowflake.ID, track *domain.Track) {
	session := b.registry.Get(guildID)
	if session == nil {
		slog.Debug("discarding track start for absent session", "guild_id", guildID)
		return
	}
	session.OnTrackStarted(track)
}

// HandleTrackEnd handles a playback-ended event.
func (b *PlaybackEventBridge) HandleTrackEnd(ctx context.Context, guildID snowflake.ID, reason domain.TrackEndReason) {
	session := b.registry.Get(guildID)
	if session == nil {
		slog.Debug("discarding track end for absent session", "guild_id", guildID, "reason", reason)
		return
	}
	session.OnTrackEnded(ctx, reason)
}

// HandleTrackFailed handles a track load failure. The backend pairs it
// with a loadFailed end event that advances the queue; this only
// surfaces the error to the bound channel.
func (b *PlaybackEventBridge) HandleTrackFailed(guildID snowflake.ID, message string) {
	session := b.registry.Get(guildID)
	if session == nil {
		slog.Debug("discarding track failure for absent session", "guild_id", guildID)
		return
	}
	session.OnTrackFailed(message)
}

// HandleTrackError handles a playback error with no paired end event.
func (b *PlaybackEventBridge) HandleTrackError(ctx context.Context, guildID snowflake.ID, message string) {
	session := b.registry.Get(guildID)
	if session == nil {
		slog.Debug("discarding track error for absent session", "guild_id", guildID)
		return
	}
	session.OnTrackError(ctx, message)
}

// HandleNodeDisconnected destroys every affected session and notifies
// its bound channel that service was interrupted.
func (b *PlaybackEventBridge) HandleNodeDisconnected(ctx context.Context, guildIDs []snowflake.ID) {
	for _, guildID := range guildIDs {
		session := b.registry.Get(guildID)
		if session == nil {
			slog.Debug("discarding node disconnect for absent session", "guild_id", guildID)
			continue
		}
		session.OnDisconnected(ctx)
	}
}
