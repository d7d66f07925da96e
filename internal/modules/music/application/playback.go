package application

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"

	"github.com/unknownzop/musicbot/internal/modules/music/domain"
)

// backendTimeout bounds every call to the audio backend so a dead node
// surfaces as ErrBackendUnavailable instead of hanging a command.
const backendTimeout = 10 * time.Second

// PlayInput contains the input for the Play use case.
type PlayInput struct {
	GuildID         snowflake.ID
	UserID          snowflake.ID
	UserName        string
	UserAvatarURL   string
	NotifyChannelID snowflake.ID
	Query           string
}

// PlayOutput contains the result of the Play use case.
type PlayOutput struct {
	Started      bool // true if the first enqueued track began playing immediately
	Tracks       []*domain.Track
	LoadType     domain.LoadType
	PlaylistName string
	Position     int // 1-based queue position of the first enqueued track, 0 if playing now
}

// PlaybackService coordinates playback commands against per-guild
// sessions. Same-channel authorization applies to every mutating
// operation except Play, which instead rebinds the session's voice
// channel to wherever the issuing user is.
type PlaybackService struct {
	registry   domain.SessionRegistry
	backend    domain.AudioBackend
	notifier   domain.Notifier
	voiceState VoiceStateProvider
}

// NewPlaybackService creates a new PlaybackService.
func NewPlaybackService(
	registry domain.SessionRegistry,
	backend domain.AudioBackend,
	notifier domain.Notifier,
	voiceState VoiceStateProvider,
) *PlaybackService {
	return &PlaybackService{
		registry:   registry,
		backend:    backend,
		notifier:   notifier,
		voiceState: voiceState,
	}
}

// Play resolves the query and enqueues the result, creating a session
// and joining the user's voice channel if needed. A search resolves to
// its best match; a playlist URL enqueues every track.
func (p *PlaybackService) Play(ctx context.Context, input PlayInput) (*PlayOutput, error) {
	voiceChannelID, ok := p.voiceState.UserVoiceChannel(input.GuildID, input.UserID)
	if !ok {
		return nil, domain.ErrNotInVoiceChannel
	}

	bctx, cancel := context.WithTimeout(ctx, backendTimeout)
	defer cancel()

	requester := domain.Requester{
		ID:        input.UserID,
		Name:      input.UserName,
		AvatarURL: input.UserAvatarURL,
	}
	result, err := p.backend.Search(bctx, input.Query, requester)
	if err != nil {
		return nil, err
	}

	tracks := make([]*domain.Track, 0, len(result.Tracks))
	for _, track := range result.Tracks {
		if track.IsValid() {
			tracks = append(tracks, track)
		}
	}
	if len(tracks) == 0 {
		return nil, domain.ErrNoResults
	}
	if result.Type == domain.LoadTypeSearch {
		tracks = tracks[:1]
	}

	session, created := p.registry.GetOrCreate(input.GuildID, func() *domain.Session {
		return domain.NewSession(
			input.GuildID, voiceChannelID, input.NotifyChannelID,
			p.backend, p.notifier, p.registry,
		)
	})

	if created {
		if err := p.backend.Connect(bctx, input.GuildID, voiceChannelID); err != nil {
			session.Destroy(bctx)
			return nil, fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
		}
	} else if err := session.Rebind(bctx, voiceChannelID, input.NotifyChannelID); err != nil {
		return nil, err
	}

	snap := session.Snapshot()
	position := snap.Pending

	started, err := session.Enqueue(bctx, tracks...)
	if err != nil {
		if created {
			session.Destroy(bctx)
		}
		return nil, err
	}

	out := &PlayOutput{
		Started:      started,
		Tracks:       tracks,
		LoadType:     result.Type,
		PlaylistName: result.PlaylistName,
	}
	if !started {
		out.Position = len(position) + 1
	}
	return out, nil
}

// Pause pauses playback for the guild.
func (p *PlaybackService) Pause(ctx context.Context, guildID, userID snowflake.ID) error {
	session, err := p.authorize(guildID, userID)
	if err != nil {
		return err
	}
	bctx, cancel := context.WithTimeout(ctx, backendTimeout)
	defer cancel()
	return session.Pause(bctx)
}

// Resume resumes paused playback for the guild.
func (p *PlaybackService) Resume(ctx context.Context, guildID, userID snowflake.ID) error {
	session, err := p.authorize(guildID, userID)
	if err != nil {
		return err
	}
	bctx, cancel := context.WithTimeout(ctx, backendTimeout)
	defer cancel()
	return session.Resume(bctx)
}

// Skip skips the current track and returns it.
func (p *PlaybackService) Skip(ctx context.Context, guildID, userID snowflake.ID) (*domain.Track, error) {
	session, err := p.authorize(guildID, userID)
	if err != nil {
		return nil, err
	}
	bctx, cancel := context.WithTimeout(ctx, backendTimeout)
	defer cancel()
	return session.Skip(bctx)
}

// Stop tears down the guild's session.
func (p *PlaybackService) Stop(ctx context.Context, guildID, userID snowflake.ID) error {
	session, err := p.authorize(guildID, userID)
	if err != nil {
		return err
	}
	bctx, cancel := context.WithTimeout(ctx, backendTimeout)
	defer cancel()
	return session.Stop(bctx)
}

// SetVolume sets the playback volume. The value is validated by the
// router before it gets here.
func (p *PlaybackService) SetVolume(ctx context.Context, guildID, userID snowflake.ID, volume int) error {
	session, err := p.authorize(guildID, userID)
	if err != nil {
		return err
	}
	bctx, cancel := context.WithTimeout(ctx, backendTimeout)
	defer cancel()
	return session.SetVolume(bctx, volume)
}

// SetLoopMode sets the loop mode for the guild's session.
func (p *PlaybackService) SetLoopMode(guildID, userID snowflake.ID, mode domain.LoopMode) error {
	session, err := p.authorize(guildID, userID)
	if err != nil {
		return err
	}
	session.SetLoopMode(mode)
	return nil
}

// CycleLoopMode flips the loop mode between off and track. Used by the
// loop control button, which carries no mode argument.
func (p *PlaybackService) CycleLoopMode(guildID, userID snowflake.ID) (domain.LoopMode, error) {
	session, err := p.authorize(guildID, userID)
	if err != nil {
		return domain.LoopModeOff, err
	}
	mode := domain.LoopModeOff
	if session.LoopMode() == domain.LoopModeOff {
		mode = domain.LoopModeTrack
	}
	session.SetLoopMode(mode)
	return mode, nil
}

// ToggleAlwaysOn flips the 24/7 flag and returns the new value.
func (p *PlaybackService) ToggleAlwaysOn(guildID, userID snowflake.ID) (bool, error) {
	session, err := p.authorize(guildID, userID)
	if err != nil {
		return false, err
	}
	return session.ToggleAlwaysOn(), nil
}

// IsPaused reports whether the guild's playback is paused.
func (p *PlaybackService) IsPaused(guildID snowflake.ID) (bool, error) {
	session := p.registry.Get(guildID)
	if session == nil {
		return false, domain.ErrNotPlaying
	}
	return session.IsPaused(), nil
}

// authorize looks up the guild's session and verifies the user occupies
// the session's voice channel.
func (p *PlaybackService) authorize(guildID, userID snowflake.ID) (*domain.Session, error) {
	session := p.registry.Get(guildID)
	if session == nil {
		return nil, domain.ErrNotPlaying
	}
	voiceChannelID, ok := p.voiceState.UserVoiceChannel(guildID, userID)
	if !ok || voiceChannelID != session.VoiceChannelID() {
		return nil, domain.ErrNotInVoiceChannel
	}
	return session, nil
}
