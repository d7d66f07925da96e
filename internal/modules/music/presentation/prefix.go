package presentation

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"golang.org/x/time/rate"

	"github.com/unknownzop/musicbot/internal/modules/music/domain"
)

// commandAliases maps short prefix-command names to their canonical
// command.
var commandAliases = map[string]string{
	"np":    "nowplaying",
	"vol":   "volume",
	"clear": "clearqueue",
}

// positionalArgs names the positional arguments each prefix command
// accepts, in order. Commands absent from this map take no arguments.
// "query" is greedy and consumes the rest of the message.
var positionalArgs = map[string][]string{
	"play":   {"query"},
	"volume": {"level"},
	"loop":   {"mode"},
	"remove": {"position"},
	"move":   {"from", "to"},
}

// PrefixHandler parses legacy text-prefix commands out of guild
// messages and routes them through the shared dispatch table. Each user
// gets a small rate budget so command spam cannot flood the router.
type PrefixHandler struct {
	router *Router
	prefix string

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewPrefixHandler creates a PrefixHandler for the given prefix.
func NewPrefixHandler(router *Router, prefix string) *PrefixHandler {
	return &PrefixHandler{
		router:   router,
		prefix:   prefix,
		limiters: make(map[string]*rate.Limiter),
	}
}

// HandleMessage processes one guild message, dispatching it if it is a
// prefix command.
func (h *PrefixHandler) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}
	if !strings.HasPrefix(m.Content, h.prefix) {
		return
	}

	if !h.allow(m.Author.ID) {
		slog.Debug("rate limited prefix command", "user_id", m.Author.ID)
		return
	}

	fields := strings.Fields(strings.TrimPrefix(m.Content, h.prefix))
	if len(fields) == 0 {
		return
	}

	name := strings.ToLower(fields[0])
	if canonical, ok := commandAliases[name]; ok {
		name = canonical
	}

	surface := newPrefixSurface(s, m, name, fields[1:])
	if err := h.router.Dispatch(context.Background(), name, surface); err != nil {
		slog.Debug("prefix command failed", "command", name, "error", err)
	}
}

// allow checks the per-user rate budget: three commands at a burst,
// refilling one every 1.5 seconds.
func (h *PrefixHandler) allow(userID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	limiter, ok := h.limiters[userID]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(1500*time.Millisecond), 3)
		h.limiters[userID] = limiter
	}
	return limiter.Allow()
}

// prefixSurface adapts a parsed prefix message to the Surface
// interface.
type prefixSurface struct {
	session *discordgo.Session
	message *discordgo.MessageCreate
	args    map[string]string
}

func newPrefixSurface(
	session *discordgo.Session,
	message *discordgo.MessageCreate,
	command string,
	words []string,
) *prefixSurface {
	args := make(map[string]string)
	names := positionalArgs[command]
	for i, argName := range names {
		if i >= len(words) {
			break
		}
		if argName == "query" {
			args[argName] = strings.Join(words[i:], " ")
			break
		}
		args[argName] = words[i]
	}
	return &prefixSurface{session: session, message: message, args: args}
}

func (p *prefixSurface) GuildID() snowflake.ID {
	id, _ := snowflake.Parse(p.message.GuildID)
	return id
}

func (p *prefixSurface) ChannelID() snowflake.ID {
	id, _ := snowflake.Parse(p.message.ChannelID)
	return id
}

func (p *prefixSurface) UserID() snowflake.ID {
	id, _ := snowflake.Parse(p.message.Author.ID)
	return id
}

func (p *prefixSurface) UserName() string {
	if p.message.Member != nil && p.message.Member.Nick != "" {
		return p.message.Member.Nick
	}
	return p.message.Author.Username
}

func (p *prefixSurface) UserAvatarURL() string {
	return p.message.Author.AvatarURL("")
}

func (p *prefixSurface) StringArg(name string) string {
	return p.args[name]
}

func (p *prefixSurface) IntArg(name string) (int, bool) {
	raw, ok := p.args[name]
	if !ok {
		return 0, false
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return value, true
}

func (p *prefixSurface) Reply(n domain.Notification) error {
	_, err := p.session.ChannelMessageSendEmbed(p.message.ChannelID, notificationEmbed(n))
	return err
}

// ReplyEphemeral behaves like Reply; plain messages have no ephemeral
// delivery.
func (p *prefixSurface) ReplyEphemeral(n domain.Notification) error {
	return p.Reply(n)
}

// Ensure prefixSurface implements Surface.
var _ Surface = (*prefixSurface)(nil)
