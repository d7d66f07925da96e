package application

import (
	"github.com/disgoorg/snowflake/v2"

	"github.com/unknownzop/musicbot/internal/modules/music/domain"
)

// QueueService exposes queue inspection and mutation commands. Indices
// arriving here are zero-based; the router translates the user-facing
// 1-based positions.
type QueueService struct {
	registry   domain.SessionRegistry
	voiceState VoiceStateProvider
}

// NewQueueService creates a new QueueService.
func NewQueueService(registry domain.SessionRegistry, voiceState VoiceStateProvider) *QueueService {
	return &QueueService{registry: registry, voiceState: voiceState}
}

// Snapshot returns the session state for display. Read-only, so no
// voice channel check applies.
func (q *QueueService) Snapshot(guildID snowflake.ID) (*domain.Snapshot, error) {
	session := q.registry.Get(guildID)
	if session == nil {
		return nil, domain.ErrNotPlaying
	}
	snap := session.Snapshot()
	return &snap, nil
}

// Shuffle randomizes the pending queue order.
func (q *QueueService) Shuffle(guildID, userID snowflake.ID) error {
	session, err := q.authorize(guildID, userID)
	if err != nil {
		return err
	}
	return session.ShuffleQueue()
}

// Remove removes the pending track at the given index and returns it.
func (q *QueueService) Remove(guildID, userID snowflake.ID, index int) (*domain.Track, error) {
	session, err := q.authorize(guildID, userID)
	if err != nil {
		return nil, err
	}
	return session.RemoveTrack(index)
}

// Move relocates a pending track between indices.
func (q *QueueService) Move(guildID, userID snowflake.ID, from, to int) error {
	session, err := q.authorize(guildID, userID)
	if err != nil {
		return err
	}
	return session.MoveTrack(from, to)
}

// Clear drops all pending tracks and returns how many were removed.
func (q *QueueService) Clear(guildID, userID snowflake.ID) (int, error) {
	session, err := q.authorize(guildID, userID)
	if err != nil {
		return 0, err
	}
	return session.ClearQueue(), nil
}

func (q *QueueService) authorize(guildID, userID snowflake.ID) (*domain.Session, error) {
	session := q.registry.Get(guildID)
	if session == nil {
		return nil, domain.ErrNotPlaying
	}
	voiceChannelID, ok := q.voiceState.UserVoiceChannel(guildID, userID)
	if !ok || voiceChannelID != session.VoiceChannelID() {
		return nil, domain.ErrNotInVoiceChannel
	}
	return session, nil
}
