package presentation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/unknownzop/musicbot/internal/modules/music/application"
	"github.com/unknownzop/musicbot/internal/modules/music/domain"
)

// Links holds the external URLs rendered by the invite and support
// commands.
type Links struct {
	Invite  string
	Support string
	GitHub  string
}

// Router maps command names to session operations. One dispatch table
// serves the slash, prefix and button surfaces. Argument validation
// happens here; invalid input never reaches a session.
type Router struct {
	playback  *application.PlaybackService
	queue     *application.QueueService
	registry  domain.SessionRegistry
	links     Links
	prefix    string
	latency   func() time.Duration
	startedAt time.Time

	handlers map[string]func(ctx context.Context, s Surface) error
}

// NewRouter creates a Router over the playback and queue services.
// latency reports the gateway heartbeat latency for the ping command.
func NewRouter(
	playback *application.PlaybackService,
	queue *application.QueueService,
	registry domain.SessionRegistry,
	links Links,
	prefix string,
	latency func() time.Duration,
) *Router {
	r := &Router{
		playback:  playback,
		queue:     queue,
		registry:  registry,
		links:     links,
		prefix:    prefix,
		latency:   latency,
		startedAt: time.Now(),
	}
	r.handlers = map[string]func(ctx context.Context, s Surface) error{
		"play":       r.handlePlay,
		"pause":      r.handlePause,
		"resume":     r.handleResume,
		"skip":       r.handleSkip,
		"stop":       r.handleStop,
		"queue":      r.handleQueue,
		"nowplaying": r.handleNowPlaying,
		"shuffle":    r.handleShuffle,
		"loop":       r.handleLoop,
		"remove":     r.handleRemove,
		"move":       r.handleMove,
		"clearqueue": r.handleClearQueue,
		"volume":     r.handleVolume,
		"247":        r.handleAlwaysOn,
		"help":       r.handleHelp,
		"invite":     r.handleInvite,
		"ping":       r.handlePing,
		"stats":      r.handleStats,
		"support":    r.handleSupport,
	}
	return r
}

// Dispatch routes one command to its handler. Errors are translated to
// a user-facing reply on the surface and returned for logging.
func (r *Router) Dispatch(ctx context.Context, name string, s Surface) error {
	handler, ok := r.handlers[name]
	if !ok {
		if err := s.ReplyEphemeral(errorNotification(domain.ErrUnknownCommand)); err != nil {
			slog.Warn("failed to reply to unknown command", "command", name, "error", err)
		}
		return domain.ErrUnknownCommand
	}

	err := handler(ctx, s)
	if err != nil {
		slog.Debug("command failed", "command", name, "guild_id", s.GuildID(), "error", err)
		if replyErr := s.ReplyEphemeral(errorNotification(err)); replyErr != nil {
			slog.Warn("failed to send error reply", "command", name, "error", replyErr)
		}
	}
	return err
}

func (r *Router) handlePlay(ctx context.Context, s Surface) error {
	query := s.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: a search query or URL is required", domain.ErrInvalidArgument)
	}

	out, err := r.playback.Play(ctx, application.PlayInput{
		GuildID:         s.GuildID(),
		UserID:          s.UserID(),
		UserName:        s.UserName(),
		UserAvatarURL:   s.UserAvatarURL(),
		NotifyChannelID: s.ChannelID(),
		Query:           query,
	})
	if err != nil {
		return err
	}
	return s.Reply(playReplyNotification(out))
}

func (r *Router) handlePause(ctx context.Context, s Surface) error {
	if err := r.playback.Pause(ctx, s.GuildID(), s.UserID()); err != nil {
		return err
	}
	return s.Reply(domain.Notification{
		Description: "Playback paused.",
		Color:       colorSuccess,
	})
}

func (r *Router) handleResume(ctx context.Context, s Surface) error {
	if err := r.playback.Resume(ctx, s.GuildID(), s.UserID()); err != nil {
		return err
	}
	return s.Reply(domain.Notification{
		Description: "Playback resumed.",
		Color:       colorSuccess,
	})
}

func (r *Router) handleSkip(ctx context.Context, s Surface) error {
	skipped, err := r.playback.Skip(ctx, s.GuildID(), s.UserID())
	if err != nil {
		return err
	}
	description := "Skipped the current track."
	if skipped != nil {
		description = fmt.Sprintf("Skipped **%s**.", skipped.Title)
	}
	return s.Reply(domain.Notification{
		Description: description,
		Color:       colorSuccess,
	})
}

func (r *Router) handleStop(ctx context.Context, s Surface) error {
	if err := r.playback.Stop(ctx, s.GuildID(), s.UserID()); err != nil {
		return err
	}
	return s.Reply(domain.Notification{
		Description: "Playback stopped. Leaving the voice channel.",
		Color:       colorSuccess,
	})
}

func (r *Router) handleQueue(ctx context.Context, s Surface) error {
	snap, err := r.queue.Snapshot(s.GuildID())
	if err != nil {
		return err
	}
	return s.Reply(queueNotification(snap))
}

func (r *Router) handleNowPlaying(ctx context.Context, s Surface) error {
	snap, err := r.queue.Snapshot(s.GuildID())
	if err != nil {
		return err
	}
	if snap.Current == nil {
		return domain.ErrNotPlaying
	}
	return s.Reply(nowPlayingNotification(snap))
}

func (r *Router) handleShuffle(ctx context.Context, s Surface) error {
	if err := r.queue.Shuffle(s.GuildID(), s.UserID()); err != nil {
		return err
	}
	return s.Reply(domain.Notification{
		Description: "Queue shuffled.",
		Color:       colorSuccess,
	})
}

func (r *Router) handleLoop(ctx context.Context, s Surface) error {
	modeArg := s.StringArg("mode")

	var mode domain.LoopMode
	if modeArg == "" {
		// The loop button carries no argument and toggles off and track.
		var err error
		mode, err = r.playback.CycleLoopMode(s.GuildID(), s.UserID())
		if err != nil {
			return err
		}
	} else {
		parsed, ok := domain.ParseLoopMode(modeArg)
		if !ok {
			return fmt.Errorf("%w: loop mode must be one of off, track, queue", domain.ErrInvalidArgument)
		}
		mode = parsed
		if err := r.playback.SetLoopMode(s.GuildID(), s.UserID(), mode); err != nil {
			return err
		}
	}

	description := "Looping is off."
	switch mode {
	case domain.LoopModeTrack:
		description = "Looping the current track."
	case domain.LoopModeQueue:
		description = "Looping the whole queue."
	}
	return s.Reply(domain.Notification{
		Description: description,
		Color:       colorSuccess,
	})
}

func (r *Router) handleRemove(ctx context.Context, s Surface) error {
	position, ok := s.IntArg("position")
	if !ok || position < 1 {
		return fmt.Errorf("%w: position must be 1 or greater", domain.ErrInvalidArgument)
	}

	removed, err := r.queue.Remove(s.GuildID(), s.UserID(), position-1)
	if err != nil {
		return err
	}
	return s.Reply(domain.Notification{
		Description: fmt.Sprintf("Removed **%s** from the queue.", removed.Title),
		Color:       colorSuccess,
	})
}

func (r *Router) handleMove(ctx context.Context, s Surface) error {
	from, okFrom := s.IntArg("from")
	to, okTo := s.IntArg("to")
	if !okFrom || !okTo || from < 1 || to < 1 {
		return fmt.Errorf("%w: both positions must be 1 or greater", domain.ErrInvalidArgument)
	}

	if err := r.queue.Move(s.GuildID(), s.UserID(), from-1, to-1); err != nil {
		return err
	}
	return s.Reply(domain.Notification{
		Description: fmt.Sprintf("Moved track from position %d to %d.", from, to),
		Color:       colorSuccess,
	})
}

func (r *Router) handleClearQueue(ctx context.Context, s Surface) error {
	cleared, err := r.queue.Clear(s.GuildID(), s.UserID())
	if err != nil {
		return err
	}
	return s.Reply(domain.Notification{
		Description: fmt.Sprintf("Cleared %d track(s) from the queue.", cleared),
		Color:       colorSuccess,
	})
}

func (r *Router) handleVolume(ctx context.Context, s Surface) error {
	level, ok := s.IntArg("level")
	if !ok || level < 0 || level > 100 {
		return fmt.Errorf("%w: volume must be between 0 and 100", domain.ErrInvalidArgument)
	}

	if err := r.playback.SetVolume(ctx, s.GuildID(), s.UserID(), level); err != nil {
		return err
	}
	return s.Reply(domain.Notification{
		Description: fmt.Sprintf("Volume set to %d%%.", level),
		Color:       colorSuccess,
	})
}

func (r *Router) handleAlwaysOn(ctx context.Context, s Surface) error {
	enabled, err := r.playback.ToggleAlwaysOn(s.GuildID(), s.UserID())
	if err != nil {
		return err
	}
	description := "24/7 mode disabled. I will leave when the queue ends."
	if enabled {
		description = "24/7 mode enabled. I will stay in the voice channel."
	}
	return s.Reply(domain.Notification{
		Description: description,
		Color:       colorSuccess,
	})
}

func (r *Router) handleHelp(ctx context.Context, s Surface) error {
	return s.Reply(helpNotification(r.prefix))
}

func (r *Router) handleInvite(ctx context.Context, s Surface) error {
	return s.Reply(inviteNotification(r.links))
}

func (r *Router) handlePing(ctx context.Context, s Surface) error {
	return s.Reply(pingNotification(r.latency()))
}

func (r *Router) handleStats(ctx context.Context, s Surface) error {
	return s.Reply(statsNotification(r.registry, time.Since(r.startedAt)))
}

func (r *Router) handleSupport(ctx context.Context, s Surface) error {
	return s.Reply(supportNotification(r.links))
}

// errorNotification translates a command error into a user-facing
// notification.
func errorNotification(err error) domain.Notification {
	description := "Something went wrong. Please try again."
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		description = err.Error()
	case errors.Is(err, domain.ErrInvalidPosition):
		description = "That queue position does not exist."
	case errors.Is(err, domain.ErrNotInVoiceChannel):
		description = "You need to be in my voice channel to do that."
	case errors.Is(err, domain.ErrNotPlaying):
		description = "Nothing is playing right now."
	case errors.Is(err, domain.ErrAlreadyPaused):
		description = "Playback is already paused."
	case errors.Is(err, domain.ErrNotPaused):
		description = "Playback is not paused."
	case errors.Is(err, domain.ErrQueueEmpty):
		description = "The queue is empty."
	case errors.Is(err, domain.ErrNoResults):
		description = "No results found for that query."
	case errors.Is(err, domain.ErrBackendUnavailable):
		description = "The audio service is unavailable. Please try again shortly."
	case errors.Is(err, domain.ErrUnknownCommand):
		description = "That command is not recognized. Try the help command."
	}
	return domain.Notification{
		Title:       "Error",
		Description: description,
		Color:       colorError,
	}
}
