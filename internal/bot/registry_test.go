package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

// fakeModule implements Module for registry and bot tests.
type fakeModule struct {
	name          string
	commands      []*discordgo.ApplicationCommand
	handlers      map[string]InteractionHandler
	eventHandlers []EventHandler

	initCalls int
	initErr   error
	shutErr   error
}

func (m *fakeModule) Name() string                                   { return m.name }
func (m *fakeModule) Commands() []*discordgo.ApplicationCommand      { return m.commands }
func (m *fakeModule) CommandHandlers() map[string]InteractionHandler { return m.handlers }
func (m *fakeModule) EventHandlers() []EventHandler                  { return m.eventHandlers }
func (m *fakeModule) Shutdown() error                                { return m.shutErr }

func (m *fakeModule) Init(deps ModuleDependencies) error {
	m.initCalls++
	return m.initErr
}

func TestRegistry_RegisterAndList(t *testing.T) {
	reg := NewRegistry()

	reg.Register(&fakeModule{name: "music"})
	reg.Register(&fakeModule{name: "health"})

	modules := reg.Modules()
	if len(modules) != 2 {
		t.Fatalf("expected 2 modules, got %d", len(modules))
	}
	if modules[0].Name() != "music" || modules[1].Name() != "health" {
		t.Errorf("modules out of registration order: %q, %q", modules[0].Name(), modules[1].Name())
	}
}

func TestRegistry_ModulesIsACopy(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&fakeModule{name: "music"})

	before := reg.Modules()
	reg.Register(&fakeModule{name: "late"})

	if len(before) != 1 {
		t.Errorf("earlier snapshot grew to %d modules", len(before))
	}
}

func TestGlobalRegistry_InitStyleRegistration(t *testing.T) {
	ResetGlobalRegistry()
	defer ResetGlobalRegistry()

	Register(&fakeModule{name: "music"})

	modules := Modules()
	if len(modules) != 1 || modules[0].Name() != "music" {
		t.Fatalf("unexpected global registry contents: %v", modules)
	}
}
