package application

import (
	"context"
	"testing"

	"github.com/disgoorg/snowflake/v2"

	"github.com/unknownzop/musicbot/internal/modules/music/domain"
)

func newBridgeFixture(t *testing.T) (*PlaybackEventBridge, *fakeBackend, *fakeNotifier, *mapRegistry) {
	t.Helper()
	backend := &fakeBackend{}
	notifier := &fakeNotifier{}
	registry := newMapRegistry()
	bridge := NewPlaybackEventBridge(registry)
	return bridge, backend, notifier, registry
}

func addPlayingSession(t *testing.T, registry *mapRegistry, backend *fakeBackend, notifier *fakeNotifier, guild snowflake.ID, tracks ...*domain.Track) *domain.Session {
	t.Helper()
	session, _ := registry.GetOrCreate(guild, func() *domain.Session {
		return domain.NewSession(guild, voiceID, notifyID, backend, notifier, registry)
	})
	if _, err := session.Enqueue(context.Background(), tracks...); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	session.OnTrackStarted(tracks[0])
	return session
}

func TestBridge_TrackEnd_AbsentSession_Ignored(t *testing.T) {
	bridge, _, notifier, _ := newBridgeFixture(t)

	bridge.HandleTrackEnd(context.Background(), snowflake.ID(42), domain.TrackEndFinished)
	bridge.HandleTrackStart(snowflake.ID(42), &domain.Track{Encoded: "e", Title: "t"})
	bridge.HandleTrackError(context.Background(), snowflake.ID(42), "boom")
	bridge.HandleTrackFailed(snowflake.ID(42), "boom")

	if len(notifier.sent) != 0 {
		t.Errorf("events for absent sessions must be silent, got %d notifications", len(notifier.sent))
	}
}

func TestBridge_TrackEnd_Advances(t *testing.T) {
	bridge, backend, notifier, registry := newBridgeFixture(t)
	tracks := []*domain.Track{
		{Encoded: "e1", Title: "One"},
		{Encoded: "e2", Title: "Two"},
	}
	addPlayingSession(t, registry, backend, notifier, guildID, tracks...)

	bridge.HandleTrackEnd(context.Background(), guildID, domain.TrackEndFinished)

	if len(backend.played) != 2 {
		t.Fatalf("expected advance to play the next track, got %d play calls", len(backend.played))
	}
	if backend.played[1] != tracks[1] {
		t.Error("expected the second track to play")
	}
}

func TestBridge_TrackError_WithPending_AutoSkips(t *testing.T) {
	bridge, backend, notifier, registry := newBridgeFixture(t)
	tracks := []*domain.Track{
		{Encoded: "e1", Title: "One"},
		{Encoded: "e2", Title: "Two"},
	}
	addPlayingSession(t, registry, backend, notifier, guildID, tracks...)

	bridge.HandleTrackError(context.Background(), guildID, "decode failure")

	if len(backend.played) != 2 {
		t.Fatalf("expected error to trigger an automatic skip, got %d play calls", len(backend.played))
	}
	if registry.Count() != 1 {
		t.Error("session should survive an error with pending tracks")
	}
}

func TestBridge_TrackFailed_ThenLoadFailedEnd_AdvancesOnce(t *testing.T) {
	bridge, backend, notifier, registry := newBridgeFixture(t)
	tracks := []*domain.Track{
		{Encoded: "e1", Title: "One"},
		{Encoded: "e2", Title: "Two"},
	}
	addPlayingSession(t, registry, backend, notifier, guildID, tracks...)

	// A load failure arrives as an exception followed by a loadFailed
	// end event for the same track.
	bridge.HandleTrackFailed(guildID, "decode failure")
	bridge.HandleTrackEnd(context.Background(), guildID, domain.TrackEndLoadFailed)

	if len(backend.played) != 2 {
		t.Fatalf("expected a single advance, got %d play calls", len(backend.played))
	}
	if backend.played[1] != tracks[1] {
		t.Error("expected the second track to play")
	}
	if registry.Count() != 1 {
		t.Error("session must survive a failed track with a pending successor")
	}
}

func TestBridge_TrackError_EmptyQueue_Destroys(t *testing.T) {
	bridge, backend, notifier, registry := newBridgeFixture(t)
	addPlayingSession(t, registry, backend, notifier, guildID, &domain.Track{Encoded: "e1", Title: "One"})

	bridge.HandleTrackError(context.Background(), guildID, "decode failure")

	if registry.Count() != 0 {
		t.Errorf("expected session removed, got %d sessions", registry.Count())
	}
}

func TestBridge_NodeDisconnected_DestroysAllAffected(t *testing.T) {
	bridge, backend, notifier, registry := newBridgeFixture(t)
	guildA := snowflake.ID(10)
	guildB := snowflake.ID(20)
	addPlayingSession(t, registry, backend, notifier, guildA, &domain.Track{Encoded: "a", Title: "A"})
	addPlayingSession(t, registry, backend, notifier, guildB, &domain.Track{Encoded: "b", Title: "B"})

	bridge.HandleNodeDisconnected(context.Background(), []snowflake.ID{guildA, guildB, snowflake.ID(30)})

	if registry.Count() != 0 {
		t.Errorf("expected every affected session destroyed, got %d", registry.Count())
	}

	lostNotices := 0
	for _, n := range notifier.sent {
		if n.Title == "Connection Lost" {
			lostNotices++
		}
	}
	if lostNotices != 2 {
		t.Errorf("expected a notice per destroyed session, got %d", lostNotices)
	}
}
