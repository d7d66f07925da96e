package domain

import (
	"testing"
	"time"
)

func TestTrack_FormattedDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		isStream bool
		want     string
	}{
		{"seconds only", 45 * time.Second, false, "00:45"},
		{"minutes and seconds", 3*time.Minute + 7*time.Second, false, "03:07"},
		{"hours", 1*time.Hour + 2*time.Minute + 3*time.Second, false, "01:02:03"},
		{"zero", 0, false, "00:00"},
		{"stream", 0, true, "LIVE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &Track{Duration: tt.duration, IsStream: tt.isStream}
			if got := tr.FormattedDuration(); got != tt.want {
				t.Errorf("FormattedDuration() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTrack_IsValid(t *testing.T) {
	valid := &Track{Encoded: "abc", Title: "Song"}
	if !valid.IsValid() {
		t.Error("expected track with encoded data and title to be valid")
	}

	noEncoded := &Track{Title: "Song"}
	if noEncoded.IsValid() {
		t.Error("expected track without encoded data to be invalid")
	}

	noTitle := &Track{Encoded: "abc"}
	if noTitle.IsValid() {
		t.Error("expected track without title to be invalid")
	}
}
