package domain

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/disgoorg/snowflake/v2"
)

// SessionState is the lifecycle state of a playback session. There is no
// idle state; an idle guild simply has no session in the registry.
type SessionState int

const (
	StateConnecting SessionState = iota // voice binding requested, first track not yet started
	StatePlaying
	StatePaused
	StateStopping // teardown in progress
	StateDestroyed
)

// String returns a human-readable representation of the state.
func (s SessionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateStopping:
		return "stopping"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// TrackEndReason describes why the backend reported a track end.
type TrackEndReason string

const (
	TrackEndFinished   TrackEndReason = "finished"
	TrackEndLoadFailed TrackEndReason = "loadFailed"
	TrackEndStopped    TrackEndReason = "stopped"
	TrackEndReplaced   TrackEndReason = "replaced"
	TrackEndCleanup    TrackEndReason = "cleanup"
)

// ShouldAdvance reports whether this end reason moves the queue forward.
// A replaced track already has a successor playing; cleanup means the
// player went away entirely.
func (r TrackEndReason) ShouldAdvance() bool {
	return r == TrackEndFinished || r == TrackEndLoadFailed || r == TrackEndStopped
}

// Snapshot is a consistent read of session state for display.
type Snapshot struct {
	State          SessionState
	Current        *Track
	Pending        []*Track
	LoopMode       LoopMode
	Volume         int
	AlwaysOn       bool
	VoiceChannelID snowflake.ID
}

// Session is the per-guild playback state machine. All operations and
// event handlers take the session mutex, so a user command and a
// concurrent playback event for the same guild never interleave their
// queue mutations. Operations on different sessions are independent.
type Session struct {
	mu sync.Mutex

	guildID         snowflake.ID
	voiceChannelID  snowflake.ID
	notifyChannelID snowflake.ID

	state    SessionState
	queue    *Queue
	loopMode LoopMode
	volume   int
	alwaysOn bool // 24/7 flag: keep the session alive when the queue empties

	nowPlayingMsg *MessageRef

	backend  AudioBackend
	notifier Notifier
	registry SessionRegistry
}

// NewSession creates a session in the connecting state, bound to the
// given voice and notification channels.
func NewSession(
	guildID, voiceChannelID, notifyChannelID snowflake.ID,
	backend AudioBackend,
	notifier Notifier,
	registry SessionRegistry,
) *Session {
	return &Session{
		guildID:         guildID,
		voiceChannelID:  voiceChannelID,
		notifyChannelID: notifyChannelID,
		state:           StateConnecting,
		queue:           NewQueue(),
		loopMode:        LoopModeOff,
		volume:          100,
		backend:         backend,
		notifier:        notifier,
		registry:        registry,
	}
}

// GuildID returns the guild this session belongs to.
func (s *Session) GuildID() snowflake.ID {
	return s.guildID
}

// VoiceChannelID returns the voice channel the session is bound to.
func (s *Session) VoiceChannelID() snowflake.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.voiceChannelID
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsPaused reports whether playback is paused.
func (s *Session) IsPaused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StatePaused
}

// Rebind updates the voice and notification channel bindings. A play
// command from a different channel moves the session rather than
// recreating it.
func (s *Session) Rebind(ctx context.Context, voiceChannelID, notifyChannelID snowflake.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateDestroyed || s.state == StateStopping {
		return ErrSessionDestroyed
	}
	if s.voiceChannelID != voiceChannelID {
		if err := s.backend.Connect(ctx, s.guildID, voiceChannelID); err != nil {
			return fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
		}
		s.voiceChannelID = voiceChannelID
	}
	s.notifyChannelID = notifyChannelID
	return nil
}

// Enqueue appends tracks to the queue and starts playback if nothing is
// playing. Returns true if the first of the new tracks started
// immediately. On a failed start the queue is rolled back so no partial
// mutation persists.
func (s *Session) Enqueue(ctx context.Context, tracks ...*Track) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateDestroyed || s.state == StateStopping {
		return false, ErrSessionDestroyed
	}

	before := s.queue.PendingLen()
	s.queue.Append(tracks...)

	if s.queue.Current() != nil {
		return false, nil
	}

	next := s.queue.Advance()
	if err := s.backend.Play(ctx, s.guildID, next); err != nil {
		// Roll back to the pre-operation queue.
		s.queue.current = nil
		s.queue.pending = append([]*Track{next}, s.queue.pending...)
		s.queue.pending = s.queue.pending[:before]
		return false, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}
	return true, nil
}

// Pause pauses playback.
func (s *Session) Pause(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StatePaused:
		return ErrAlreadyPaused
	case StatePlaying:
	default:
		return ErrNotPlaying
	}
	if err := s.backend.Pause(ctx, s.guildID, true); err != nil {
		return fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}
	s.state = StatePaused
	return nil
}

// Resume resumes paused playback.
func (s *Session) Resume(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePaused {
		return ErrNotPaused
	}
	if err := s.backend.Pause(ctx, s.guildID, false); err != nil {
		return fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}
	s.state = StatePlaying
	return nil
}

// Skip stops the current track. With pending tracks the resulting end
// event advances the queue; with an empty queue the session is torn
// down instead of idling on the last track.
func (s *Session) Skip(ctx context.Context) (*Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePlaying && s.state != StatePaused {
		return nil, ErrNotPlaying
	}
	skipped := s.queue.Current()

	if s.queue.IsEmpty() {
		s.destroyLocked(ctx)
		return skipped, nil
	}

	if err := s.backend.StopTrack(ctx, s.guildID); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}
	return skipped, nil
}

// Stop tears the session down at the user's request. No queue-ended
// notification is sent.
func (s *Session) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateDestroyed || s.state == StateStopping {
		return ErrNotPlaying
	}
	s.destroyLocked(ctx)
	return nil
}

// SetVolume sets the playback volume. The value is validated by the
// caller; on backend failure the previous volume is kept.
func (s *Session) SetVolume(ctx context.Context, volume int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateDestroyed || s.state == StateStopping {
		return ErrSessionDestroyed
	}
	if err := s.backend.SetVolume(ctx, s.guildID, volume); err != nil {
		return fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}
	s.volume = volume
	return nil
}

// SetLoopMode sets the loop mode.
func (s *Session) SetLoopMode(mode LoopMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loopMode = mode
}

// LoopMode returns the current loop mode.
func (s *Session) LoopMode() LoopMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loopMode
}

// ToggleAlwaysOn flips the 24/7 flag and returns the new value.
func (s *Session) ToggleAlwaysOn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alwaysOn = !s.alwaysOn
	return s.alwaysOn
}

// ShuffleQueue randomizes the pending queue order.
func (s *Session) ShuffleQueue() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.queue.IsEmpty() {
		return ErrQueueEmpty
	}
	s.queue.Shuffle()
	return nil
}

// RemoveTrack removes the pending track at the given zero-based index.
func (s *Session) RemoveTrack(index int) (*Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Remove(index)
}

// MoveTrack relocates a pending track between zero-based positions.
func (s *Session) MoveTrack(from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Move(from, to)
}

// ClearQueue drops all pending tracks and returns how many were removed.
// The current track keeps playing.
func (s *Session) ClearQueue() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Clear()
}

// Snapshot returns a consistent copy of the session state for display.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		State:          s.state,
		Current:        s.queue.Current(),
		Pending:        s.queue.Pending(),
		LoopMode:       s.loopMode,
		Volume:         s.volume,
		AlwaysOn:       s.alwaysOn,
		VoiceChannelID: s.voiceChannelID,
	}
}

// OnTrackStarted handles a playback-started event: the session enters
// the playing state and the now-playing notification goes out. Controls
// on the previous now-playing message are disabled first.
func (s *Session) OnTrackStarted(track *Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateDestroyed || s.state == StateStopping {
		return
	}
	s.state = StatePlaying

	// Prefer the queue's own current track; it carries the requester
	// identity the backend event lacks.
	if current := s.queue.Current(); current != nil {
		track = current
	}

	if s.nowPlayingMsg != nil {
		if err := s.notifier.DisableControls(*s.nowPlayingMsg); err != nil {
			slog.Debug("failed to disable stale controls", "guild_id", s.guildID, "error", err)
		}
		s.nowPlayingMsg = nil
	}

	ref, err := s.notifier.SendNowPlaying(s.notifyChannelID, track, false)
	if err != nil {
		slog.Warn("failed to send now playing notification", "guild_id", s.guildID, "error", err)
		return
	}
	s.nowPlayingMsg = ref
}

// OnTrackEnded handles a playback-ended event. Depending on loop mode
// the finished track is re-inserted, then the queue advances. An empty
// queue destroys the session unless 24/7 mode holds it open. End events
// trailing a user-initiated stop or skip-to-empty arrive after teardown
// and are dropped by the state check; the stop path owns that teardown.
func (s *Session) OnTrackEnded(ctx context.Context, reason TrackEndReason) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateDestroyed || s.state == StateStopping {
		return
	}
	if !reason.ShouldAdvance() {
		return
	}

	finished := s.queue.Current()
	if finished != nil && reason != TrackEndLoadFailed {
		switch s.loopMode {
		case LoopModeTrack:
			s.queue.PushFront(finished)
		case LoopModeQueue:
			s.queue.Append(finished)
		}
	}

	next := s.queue.Advance()
	if next != nil {
		if err := s.backend.Play(ctx, s.guildID, next); err != nil {
			slog.Error("failed to play next track", "guild_id", s.guildID, "error", err)
			s.notifyLocked(Notification{
				Title:       "Playback Error",
				Description: "Could not start the next track.",
				Color:       colorRed,
			})
			s.destroyLocked(ctx)
		}
		return
	}

	if s.alwaysOn {
		// 24/7 mode: stay connected and wait for new tracks.
		s.notifyLocked(Notification{
			Title:       "Queue Ended",
			Description: "Playback finished. Staying in the voice channel (24/7).",
			Color:       colorYellow,
		})
		s.state = StatePlaying
		s.clearNowPlayingLocked()
		return
	}

	s.notifyLocked(Notification{
		Title:       "Queue Ended",
		Description: "Playback finished. Leaving the voice channel.",
		Color:       colorYellow,
	})
	s.destroyLocked(ctx)
}

// OnTrackFailed handles a track load or decode failure. It only
// notifies: the backend follows the failure with a loadFailed end
// event, and that event drives the queue advance. Advancing here too
// would stop the successor track the end event is about to start.
func (s *Session) OnTrackFailed(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateDestroyed || s.state == StateStopping {
		return
	}
	s.notifyLocked(Notification{
		Title:       "Playback Error",
		Description: errorDescription(message),
		Color:       colorRed,
	})
}

// OnTrackError handles a playback error that carries no paired end
// event, such as a stuck track. With pending tracks it behaves like an
// automatic skip; otherwise the session is destroyed.
func (s *Session) OnTrackError(ctx context.Context, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateDestroyed || s.state == StateStopping {
		return
	}

	desc := errorDescription(message)

	next := s.queue.Advance()
	if next != nil {
		s.notifyLocked(Notification{
			Title:       "Playback Error",
			Description: desc + " Skipping to the next track.",
			Color:       colorRed,
		})
		if err := s.backend.Play(ctx, s.guildID, next); err != nil {
			slog.Error("failed to play next track after error", "guild_id", s.guildID, "error", err)
			s.destroyLocked(ctx)
		}
		return
	}

	s.notifyLocked(Notification{
		Title:       "Playback Error",
		Description: desc,
		Color:       colorRed,
	})
	s.destroyLocked(ctx)
}

func errorDescription(message string) string {
	if message == "" {
		return "An error occurred during playback."
	}
	return "An error occurred during playback: " + message
}

// OnDisconnected handles a backend node disconnect with no failover.
func (s *Session) OnDisconnected(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateDestroyed || s.state == StateStopping {
		return
	}
	s.notifyLocked(Notification{
		Title:       "Connection Lost",
		Description: "The audio service disconnected. Playback stopped.",
		Color:       colorRed,
	})
	s.destroyLocked(ctx)
}

// Destroy tears the session down immediately without a notification.
func (s *Session) Destroy(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateDestroyed || s.state == StateStopping {
		return
	}
	s.destroyLocked(ctx)
}

// destroyLocked releases the voice binding, disables stale controls and
// removes the session from the registry. Cleanup failures are logged,
// never raised. Callers must hold s.mu.
func (s *Session) destroyLocked(ctx context.Context) {
	s.state = StateStopping
	s.clearNowPlayingLocked()
	if err := s.backend.Disconnect(ctx, s.guildID); err != nil {
		slog.Warn("failed to disconnect from voice", "guild_id", s.guildID, "error", err)
	}
	s.registry.Delete(s.guildID)
	s.state = StateDestroyed
}

func (s *Session) clearNowPlayingLocked() {
	if s.nowPlayingMsg == nil {
		return
	}
	if err := s.notifier.DisableControls(*s.nowPlayingMsg); err != nil {
		slog.Debug("failed to disable controls", "guild_id", s.guildID, "error", err)
	}
	s.nowPlayingMsg = nil
}

func (s *Session) notifyLocked(n Notification) {
	if err := s.notifier.Send(s.notifyChannelID, n); err != nil {
		slog.Warn("failed to send notification", "guild_id", s.guildID, "error", err)
	}
}

// Embed colors shared by session notifications.
const (
	colorRed    = 0xFF0000
	colorYellow = 0xFFFF00
)
