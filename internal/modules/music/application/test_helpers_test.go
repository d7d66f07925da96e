package application

import (
	"context"
	"sync"

	"github.com/disgoorg/snowflake/v2"

	"github.com/unknownzop/musicbot/internal/modules/music/domain"
)

type fakeBackend struct {
	searchResult *domain.SearchResult
	searchErr    error
	connectErr   error
	playErr      error

	played       []*domain.Track
	connects     int
	disconnects  int
	stops        int
	pauseCalls   []bool
	volumeCalls  []int
}

func (b *fakeBackend) Search(ctx context.Context, query string, requester domain.Requester) (*domain.SearchResult, error) {
	if b.searchErr != nil {
		return nil, b.searchErr
	}
	return b.searchResult, nil
}

func (b *fakeBackend) Connect(ctx context.Context, guildID, voiceChannelID snowflake.ID) error {
	if b.connectErr != nil {
		return b.connectErr
	}
	b.connects++
	return nil
}

func (b *fakeBackend) Disconnect(ctx context.Context, guildID snowflake.ID) error {
	b.disconnects++
	return nil
}

func (b *fakeBackend) Play(ctx context.Context, guildID snowflake.ID, track *domain.Track) error {
	if b.playErr != nil {
		return b.playErr
	}
	b.played = append(b.played, track)
	return nil
}

func (b *fakeBackend) StopTrack(ctx context.Context, guildID snowflake.ID) error {
	b.stops++
	return nil
}

func (b *fakeBackend) Pause(ctx context.Context, guildID snowflake.ID, paused bool) error {
	b.pauseCalls = append(b.pauseCalls, paused)
	return nil
}

func (b *fakeBackend) SetVolume(ctx context.Context, guildID snowflake.ID, volume int) error {
	b.volumeCalls = append(b.volumeCalls, volume)
	return nil
}

type fakeNotifier struct {
	sent []domain.Notification
}

func (n *fakeNotifier) Send(channelID snowflake.ID, notification domain.Notification) error {
	n.sent = append(n.sent, notification)
	return nil
}

func (n *fakeNotifier) SendNowPlaying(channelID snowflake.ID, track *domain.Track, paused bool) (*domain.MessageRef, error) {
	return &domain.MessageRef{ChannelID: channelID, MessageID: 1}, nil
}

func (n *fakeNotifier) DisableControls(ref domain.MessageRef) error {
	return nil
}

// fakeVoiceState maps users to voice channels.
type fakeVoiceState struct {
	channels map[snowflake.ID]snowflake.ID // userID -> channelID
}

func (v *fakeVoiceState) UserVoiceChannel(guildID, userID snowflake.ID) (snowflake.ID, bool) {
	id, ok := v.channels[userID]
	return id, ok
}

// mapRegistry is a minimal registry with the production atomicity
// contract.
type mapRegistry struct {
	mu       sync.Mutex
	sessions map[snowflake.ID]*domain.Session
}

func newMapRegistry() *mapRegistry {
	return &mapRegistry{sessions: make(map[snowflake.ID]*domain.Session)}
}

func (r *mapRegistry) Get(guildID snowflake.ID) *domain.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[guildID]
}

func (r *mapRegistry) GetOrCreate(guildID snowflake.ID, create func() *domain.Session) (*domain.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[guildID]; ok {
		return s, false
	}
	s := create()
	r.sessions[guildID] = s
	return s, true
}

func (r *mapRegistry) Delete(guildID snowflake.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, guildID)
}

func (r *mapRegistry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *mapRegistry) All() []*domain.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	sessions := make([]*domain.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	return sessions
}
