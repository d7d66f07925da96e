package domain

// LoopMode controls how the queue advances when a track ends.
type LoopMode int

const (
	LoopModeOff   LoopMode = iota // plain advance, no re-insertion
	LoopModeTrack                 // finished track returns to the pending head
	LoopModeQueue                 // finished track returns to the pending tail
)

// String returns a human-readable representation of the loop mode.
func (m LoopMode) String() string {
	switch m {
	case LoopModeTrack:
		return "track"
	case LoopModeQueue:
		return "queue"
	default:
		return "off"
	}
}

// ParseLoopMode converts a string to a LoopMode. The second return value
// is false if the string names no known mode.
func ParseLoopMode(s string) (LoopMode, bool) {
	switch s {
	case "off":
		return LoopModeOff, true
	case "track":
		return LoopModeTrack, true
	case "queue":
		return LoopModeQueue, true
	default:
		return LoopModeOff, false
	}
}
