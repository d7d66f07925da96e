package domain

import "testing"

func TestLoopMode_String(t *testing.T) {
	tests := []struct {
		mode LoopMode
		want string
	}{
		{LoopModeOff, "off"},
		{LoopModeTrack, "track"},
		{LoopModeQueue, "queue"},
	}

	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("String(%d) = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestParseLoopMode(t *testing.T) {
	tests := []struct {
		input string
		want  LoopMode
		ok    bool
	}{
		{"off", LoopModeOff, true},
		{"track", LoopModeTrack, true},
		{"queue", LoopModeQueue, true},
		{"banana", LoopModeOff, false},
		{"", LoopModeOff, false},
	}

	for _, tt := range tests {
		got, ok := ParseLoopMode(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseLoopMode(%q) = (%v, %v), want (%v, %v)", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}
