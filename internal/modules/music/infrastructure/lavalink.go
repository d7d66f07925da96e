package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/disgolink/v3/disgolink"
	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/disgoorg/snowflake/v2"

	"github.com/unknownzop/musicbot/internal/modules/music/application"
	"github.com/unknownzop/musicbot/internal/modules/music/domain"
)

// voiceConnectionTimeout is the maximum time to wait for a voice
// connection to be established.
const voiceConnectionTimeout = 10 * time.Second

// pendingVoiceConnection tracks the state of a pending voice connection.
type pendingVoiceConnection struct {
	mu             sync.Mutex
	hasVoiceState  bool
	hasVoiceServer bool
	ready          chan struct{}
}

// onEvent marks an event as received and signals ready once both events
// are present.
func (p *pendingVoiceConnection) onEvent(isVoiceState bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if isVoiceState {
		p.hasVoiceState = true
	} else {
		p.hasVoiceServer = true
	}

	if p.hasVoiceState && p.hasVoiceServer {
		select {
		case <-p.ready:
			// Already closed
		default:
			close(p.ready)
		}
	}
}

// voiceEventBuffer buffers voice events to ensure both VoiceStateUpdate
// and VoiceServerUpdate are received before forwarding to Lavalink.
// This prevents partial-voice-state errors when events arrive out of
// order.
type voiceEventBuffer struct {
	mu sync.Mutex

	// From VoiceStateUpdate
	hasVoiceState bool
	channelID     *snowflake.ID
	sessionID     string

	// From VoiceServerUpdate
	hasVoiceServer bool
	token          string
	endpoint       string
}

// setVoiceState stores voice state data and returns true if both events are now ready.
func (b *voiceEventBuffer) setVoiceState(channelID *snowflake.ID, sessionID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.hasVoiceState = true
	b.channelID = channelID
	b.sessionID = sessionID

	return b.hasVoiceState && b.hasVoiceServer
}

// setVoiceServer stores voice server data and returns true if both events are now ready.
func (b *voiceEventBuffer) setVoiceServer(token, endpoint string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.hasVoiceServer = true
	b.token = token
	b.endpoint = endpoint

	return b.hasVoiceState && b.hasVoiceServer
}

// getData returns the buffered data and resets the buffer.
func (b *voiceEventBuffer) getData() (channelID *snowflake.ID, sessionID, token, endpoint string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	channelID = b.channelID
	sessionID = b.sessionID
	token = b.token
	endpoint = b.endpoint

	b.hasVoiceState = false
	b.hasVoiceServer = false
	b.channelID = nil
	b.sessionID = ""
	b.token = ""
	b.endpoint = ""

	return
}

// LavalinkBackend implements domain.AudioBackend on top of DisGoLink
// and forwards Lavalink lifecycle events to the playback event bridge.
type LavalinkBackend struct {
	link    disgolink.Client
	session *discordgo.Session
	botID   snowflake.ID
	bridge  *application.PlaybackEventBridge

	// searchPrefix is prepended to non-URL queries, e.g. "ytsearch".
	searchPrefix string

	pendingMu sync.Mutex
	pending   map[snowflake.ID]*pendingVoiceConnection

	// voiceBuffers holds buffered voice events per guild to handle out-of-order events
	voiceBufferMu sync.Mutex
	voiceBuffers  map[snowflake.ID]*voiceEventBuffer
}

// LavalinkConfig contains Lavalink connection configuration.
type LavalinkConfig struct {
	Address      string
	Password     string
	Secure       bool
	SearchPrefix string
}

// NewLavalinkBackend creates a backend connected to the configured
// Lavalink node.
func NewLavalinkBackend(
	session *discordgo.Session,
	bridge *application.PlaybackEventBridge,
	config LavalinkConfig,
) (*LavalinkBackend, error) {
	botID, err := snowflake.Parse(session.State.User.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bot ID: %w", err)
	}

	backend := &LavalinkBackend{
		session:      session,
		botID:        botID,
		bridge:       bridge,
		searchPrefix: config.SearchPrefix,
		pending:      make(map[snowflake.ID]*pendingVoiceConnection),
		voiceBuffers: make(map[snowflake.ID]*voiceEventBuffer),
	}

	link := disgolink.New(botID,
		disgolink.WithListenerFunc(backend.onTrackStart),
		disgolink.WithListenerFunc(backend.onTrackEnd),
		disgolink.WithListenerFunc(backend.onTrackException),
		disgolink.WithListenerFunc(backend.onTrackStuck),
		disgolink.WithListenerFunc(backend.onWebSocketClosed),
	)
	backend.link = link

	node, err := link.AddNode(context.Background(), disgolink.NodeConfig{
		Name:     "main",
		Address:  config.Address,
		Password: config.Password,
		Secure:   config.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add Lavalink node: %w", err)
	}

	slog.Info("connected to Lavalink", "node", node.Config().Name, "address", config.Address)

	return backend, nil
}

// Close shuts down the Lavalink client and its node connections.
func (c *LavalinkBackend) Close() {
	c.link.Close()
}

// Search resolves a query to playable tracks. Non-URL queries go
// through the configured search source.
func (c *LavalinkBackend) Search(
	ctx context.Context,
	query string,
	requester domain.Requester,
) (*domain.SearchResult, error) {
	node := c.link.BestNode()
	if node == nil {
		return nil, fmt.Errorf("%w: no available node", domain.ErrBackendUnavailable)
	}

	if !isURL(query) {
		query = c.searchPrefix + ":" + query
	}

	result, err := node.LoadTracks(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}

	switch data := result.Data.(type) {
	case lavalink.Track:
		return &domain.SearchResult{
			Type:   domain.LoadTypeTrack,
			Tracks: []*domain.Track{c.convertTrack(data, requester)},
		}, nil

	case lavalink.Playlist:
		tracks := make([]*domain.Track, len(data.Tracks))
		for i, track := range data.Tracks {
			tracks[i] = c.convertTrack(track, requester)
		}
		return &domain.SearchResult{
			Type:         domain.LoadTypePlaylist,
			Tracks:       tracks,
			PlaylistName: data.Info.Name,
		}, nil

	case lavalink.Search:
		if len(data) == 0 {
			return nil, domain.ErrNoResults
		}
		tracks := make([]*domain.Track, len(data))
		for i, track := range data {
			tracks[i] = c.convertTrack(track, requester)
		}
		return &domain.SearchResult{
			Type:   domain.LoadTypeSearch,
			Tracks: tracks,
		}, nil

	case lavalink.Exception:
		slog.Warn("track load failed", "query", query, "error", data.Message)
		return nil, domain.ErrNoResults

	default: // lavalink.Empty
		return nil, domain.ErrNoResults
	}
}

// Connect joins a voice channel. It waits for both VoiceStateUpdate and
// VoiceServerUpdate events before returning.
func (c *LavalinkBackend) Connect(ctx context.Context, guildID, channelID snowflake.ID) error {
	pending := &pendingVoiceConnection{
		ready: make(chan struct{}),
	}

	c.pendingMu.Lock()
	c.pending[guildID] = pending
	c.pendingMu.Unlock()

	defer func() {
		c.pendingMu.Lock()
		delete(c.pending, guildID)
		c.pendingMu.Unlock()
	}()

	err := c.session.ChannelVoiceJoinManual(guildID.String(), channelID.String(), false, false)
	if err != nil {
		return fmt.Errorf("failed to join voice channel: %w", err)
	}

	select {
	case <-pending.ready:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("context cancelled while waiting for voice connection: %w", ctx.Err())
	case <-time.After(voiceConnectionTimeout):
		return fmt.Errorf("timeout waiting for voice connection")
	}
}

// Disconnect destroys the guild's player and leaves the voice channel.
func (c *LavalinkBackend) Disconnect(ctx context.Context, guildID snowflake.ID) error {
	player := c.link.ExistingPlayer(guildID)
	if player != nil {
		if err := player.Destroy(ctx); err != nil {
			slog.Warn("failed to destroy player", "guild_id", guildID, "error", err)
		}
	}

	err := c.session.ChannelVoiceJoinManual(guildID.String(), "", false, false)
	if err != nil {
		return fmt.Errorf("failed to leave voice channel: %w", err)
	}
	return nil
}

// Play starts playback of the track. The paused flag is reset so a
// track queued behind a skip while paused starts audibly.
func (c *LavalinkBackend) Play(ctx context.Context, guildID snowflake.ID, track *domain.Track) error {
	player := c.link.Player(guildID)

	if err := player.Update(ctx,
		lavalink.WithEncodedTrack(track.Encoded),
		lavalink.WithPaused(false),
	); err != nil {
		return fmt.Errorf("failed to play track: %w", err)
	}
	return nil
}

// StopTrack stops the current track without leaving the channel.
func (c *LavalinkBackend) StopTrack(ctx context.Context, guildID snowflake.ID) error {
	player := c.link.Player(guildID)

	if err := player.Update(ctx, lavalink.WithNullTrack()); err != nil {
		return fmt.Errorf("failed to stop playback: %w", err)
	}
	return nil
}

// Pause pauses or resumes the guild's player.
func (c *LavalinkBackend) Pause(ctx context.Context, guildID snowflake.ID, paused bool) error {
	player := c.link.Player(guildID)

	if err := player.Update(ctx, lavalink.WithPaused(paused)); err != nil {
		return fmt.Errorf("failed to update pause state: %w", err)
	}
	return nil
}

// SetVolume sets the player volume.
func (c *LavalinkBackend) SetVolume(ctx context.Context, guildID snowflake.ID, volume int) error {
	player := c.link.Player(guildID)

	if err := player.Update(ctx, lavalink.WithVolume(volume)); err != nil {
		return fmt.Errorf("failed to set volume: %w", err)
	}
	return nil
}

func (c *LavalinkBackend) convertTrack(track lavalink.Track, requester domain.Requester) *domain.Track {
	info := track.Info
	artworkURL := ""
	if info.ArtworkURL != nil {
		artworkURL = *info.ArtworkURL
	}

	return &domain.Track{
		Encoded:    track.Encoded,
		Title:      info.Title,
		Artist:     info.Author,
		Duration:   time.Duration(info.Length) * time.Millisecond,
		URI:        getStringPtr(info.URI),
		ArtworkURL: artworkURL,
		SourceName: info.SourceName,
		IsStream:   info.IsStream,
		Requester:  requester,
	}
}

func getStringPtr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func isURL(query string) bool {
	return strings.HasPrefix(query, "http://") || strings.HasPrefix(query, "https://")
}

// OnVoiceServerUpdate handles Discord voice server updates. Must be
// called from the Discord event handler.
func (c *LavalinkBackend) OnVoiceServerUpdate(event *discordgo.VoiceServerUpdate) {
	guildID, err := snowflake.Parse(event.GuildID)
	if err != nil {
		slog.Error("failed to parse guild ID in voice server update", "error", err)
		return
	}

	buffer := c.getOrCreateVoiceBuffer(guildID)
	if buffer.setVoiceServer(event.Token, event.Endpoint) {
		c.forwardBufferedVoiceEvents(guildID, buffer)
	}

	c.pendingMu.Lock()
	pending := c.pending[guildID]
	c.pendingMu.Unlock()

	if pending != nil {
		pending.onEvent(false)
	}
}

// OnVoiceStateUpdate handles Discord voice state updates for the bot
// itself. Must be called from the Discord event handler.
func (c *LavalinkBackend) OnVoiceStateUpdate(event *discordgo.VoiceStateUpdate) {
	if event.UserID != c.botID.String() {
		return
	}

	guildID, err := snowflake.Parse(event.GuildID)
	if err != nil {
		slog.Error("failed to parse guild ID in voice state update", "error", err)
		return
	}

	sessionID := event.SessionID

	// An empty channel ID means the bot is disconnecting.
	var channelID *snowflake.ID
	if event.ChannelID != "" {
		id, err := snowflake.Parse(event.ChannelID)
		if err != nil {
			slog.Error("failed to parse channel ID in voice state update", "error", err)
			return
		}
		channelID = &id
	}

	if channelID == nil {
		c.link.OnVoiceStateUpdate(context.Background(), guildID, nil, sessionID)
		c.clearVoiceBuffer(guildID)
		return
	}

	buffer := c.getOrCreateVoiceBuffer(guildID)
	if buffer.setVoiceState(channelID, sessionID) {
		c.forwardBufferedVoiceEvents(guildID, buffer)
	}

	c.pendingMu.Lock()
	pending := c.pending[guildID]
	c.pendingMu.Unlock()

	if pending != nil {
		pending.onEvent(true)
	}
}

func (c *LavalinkBackend) getOrCreateVoiceBuffer(guildID snowflake.ID) *voiceEventBuffer {
	c.voiceBufferMu.Lock()
	defer c.voiceBufferMu.Unlock()

	buffer, exists := c.voiceBuffers[guildID]
	if !exists {
		buffer = &voiceEventBuffer{}
		c.voiceBuffers[guildID] = buffer
	}
	return buffer
}

func (c *LavalinkBackend) clearVoiceBuffer(guildID snowflake.ID) {
	c.voiceBufferMu.Lock()
	defer c.voiceBufferMu.Unlock()
	delete(c.voiceBuffers, guildID)
}

// forwardBufferedVoiceEvents sends the buffered voice events to
// Lavalink in the correct order.
func (c *LavalinkBackend) forwardBufferedVoiceEvents(
	guildID snowflake.ID,
	buffer *voiceEventBuffer,
) {
	channelID, sessionID, token, endpoint := buffer.getData()

	slog.Debug("forwarding buffered voice events to Lavalink",
		"guild_id", guildID,
		"channel_id", channelID,
		"hasSessionID", sessionID != "",
	)

	c.link.OnVoiceStateUpdate(context.Background(), guildID, channelID, sessionID)
	c.link.OnVoiceServerUpdate(context.Background(), guildID, token, endpoint)
}

func (c *LavalinkBackend) onTrackStart(player disgolink.Player, event lavalink.TrackStartEvent) {
	slog.Debug("track started", "guild_id", player.GuildID(), "track", event.Track.Info.Title)
	c.bridge.HandleTrackStart(player.GuildID(), c.convertTrack(event.Track, domain.Requester{}))
}

func (c *LavalinkBackend) onTrackEnd(player disgolink.Player, event lavalink.TrackEndEvent) {
	slog.Debug("track ended", "guild_id", player.GuildID(), "reason", event.Reason)
	c.bridge.HandleTrackEnd(context.Background(), player.GuildID(), domain.TrackEndReason(event.Reason))
}

func (c *LavalinkBackend) onTrackException(player disgolink.Player, event lavalink.TrackExceptionEvent) {
	slog.Warn("track exception", "guild_id", player.GuildID(), "error", event.Exception.Message)
	// The node follows this with a loadFailed end event, which drives
	// the queue advance.
	c.bridge.HandleTrackFailed(player.GuildID(), event.Exception.Message)
}

func (c *LavalinkBackend) onTrackStuck(player disgolink.Player, event lavalink.TrackStuckEvent) {
	slog.Warn("track stuck", "guild_id", player.GuildID(), "threshold", event.Threshold)
	c.bridge.HandleTrackError(context.Background(), player.GuildID(), "track stuck")
}

func (c *LavalinkBackend) onWebSocketClosed(player disgolink.Player, event lavalink.WebSocketClosedEvent) {
	slog.Warn("voice websocket closed",
		"guild_id", player.GuildID(),
		"code", event.Code,
		"reason", event.Reason,
	)
	// 4014 means the bot was removed from the channel; anything but a
	// clean close means playback cannot continue for this guild.
	if !event.ByRemote {
		return
	}
	c.bridge.HandleNodeDisconnected(context.Background(), []snowflake.ID{player.GuildID()})
}

// Ensure LavalinkBackend implements the backend contract.
var _ domain.AudioBackend = (*LavalinkBackend)(nil)
