package domain

import "errors"

// Sentinel errors returned by session and queue operations. Callers map
// these to user-facing messages; wrap with %w to add context.
var (
	// ErrInvalidArgument indicates user input that fails validation before
	// reaching any session state.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidPosition indicates a queue index outside the valid range.
	ErrInvalidPosition = errors.New("invalid queue position")

	// ErrNotInVoiceChannel indicates the user is not in the voice channel
	// the session is bound to.
	ErrNotInVoiceChannel = errors.New("not in the session's voice channel")

	// ErrNotPlaying indicates no active session exists for the guild.
	ErrNotPlaying = errors.New("nothing is playing")

	// ErrAlreadyPaused indicates pause was requested while already paused.
	ErrAlreadyPaused = errors.New("playback is already paused")

	// ErrNotPaused indicates resume was requested while not paused.
	ErrNotPaused = errors.New("playback is not paused")

	// ErrQueueEmpty indicates an operation that requires pending tracks
	// found none.
	ErrQueueEmpty = errors.New("queue is empty")

	// ErrNoResults indicates the audio backend found nothing for a query.
	ErrNoResults = errors.New("no results found")

	// ErrBackendUnavailable indicates a search or playback-control call to
	// the audio backend failed or timed out. Retryable; session state is
	// rolled back to its pre-operation value.
	ErrBackendUnavailable = errors.New("audio backend unavailable")

	// ErrUnknownCommand indicates a command name with no handler.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrSessionDestroyed indicates an operation arrived after the session
	// was torn down.
	ErrSessionDestroyed = errors.New("session destroyed")
)
