package bot

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestNewBot(t *testing.T) {
	cfg := &Config{DiscordToken: "test-token"}

	b := NewBot(cfg)

	if b == nil {
		t.Fatal("expected bot to be created, got nil")
	}
	if b.config != cfg {
		t.Error("expected config to be stored")
	}
}

func TestBot_InitModules(t *testing.T) {
	b := NewBot(&Config{DiscordToken: "test-token"})
	mod := &fakeModule{name: "music"}
	b.modules = []Module{mod}

	if err := b.initModules(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mod.initCalls != 1 {
		t.Errorf("expected one Init call, got %d", mod.initCalls)
	}
}

func TestBot_InitModules_PropagatesFailure(t *testing.T) {
	b := NewBot(&Config{DiscordToken: "test-token"})
	wantErr := errors.New("lavalink unreachable")
	b.modules = []Module{&fakeModule{name: "music", initErr: wantErr}}

	err := b.initModules()
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped init error, got %v", err)
	}
}

func TestBot_BuildHandlerMap_MergesModules(t *testing.T) {
	b := NewBot(&Config{DiscordToken: "test-token"})

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, r Responder) error {
		return nil
	}
	b.modules = []Module{
		&fakeModule{
			name:     "music",
			handlers: map[string]InteractionHandler{"play": handler, "skip": handler},
		},
		&fakeModule{
			name:     "other",
			handlers: map[string]InteractionHandler{"ping": handler},
		},
	}

	b.buildHandlerMap()

	for _, name := range []string{"play", "skip", "ping"} {
		if _, ok := b.handlers[name]; !ok {
			t.Errorf("expected %q handler to be registered", name)
		}
	}
	if len(b.handlers) != 3 {
		t.Errorf("expected 3 handlers, got %d", len(b.handlers))
	}
}

func TestBot_CollectCommands(t *testing.T) {
	b := NewBot(&Config{DiscordToken: "test-token"})
	b.modules = []Module{
		&fakeModule{
			name: "music",
			commands: []*discordgo.ApplicationCommand{
				{Name: "play", Description: "Play a track"},
				{Name: "skip", Description: "Skip the current track"},
			},
		},
	}

	commands := b.collectCommands()

	if len(commands) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(commands))
	}
	if commands[0].Name != "play" {
		t.Errorf("expected first command %q, got %q", "play", commands[0].Name)
	}
}
