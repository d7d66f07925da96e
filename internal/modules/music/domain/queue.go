package domain

import (
	"math/rand/v2"
)

// Queue holds the pending tracks for a session plus a separate current
// track. The current track is never part of the pending sequence; it is
// set exclusively by Advance and PushFront-then-Advance during loop
// handling.
type Queue struct {
	pending []*Track
	current *Track
}

// NewQueue creates a new empty Queue.
func NewQueue() *Queue {
	return &Queue{pending: make([]*Track, 0)}
}

// Current returns the track actively playing, or nil if none.
func (q *Queue) Current() *Track {
	return q.current
}

// PendingLen returns the number of pending tracks, excluding current.
func (q *Queue) PendingLen() int {
	return len(q.pending)
}

// IsEmpty returns true if there are no pending tracks.
func (q *Queue) IsEmpty() bool {
	return len(q.pending) == 0
}

// Pending returns a copy of the pending sequence.
func (q *Queue) Pending() []*Track {
	result := make([]*Track, len(q.pending))
	copy(result, q.pending)
	return result
}

// Append adds track(s) to the end of the pending sequence.
func (q *Queue) Append(tracks ...*Track) {
	q.pending = append(q.pending, tracks...)
}

// PushFront adds a track to the front of the pending sequence.
func (q *Queue) PushFront(track *Track) {
	q.pending = append([]*Track{track}, q.pending...)
}

// Insert places a track at the given index. Valid indices are 0 through
// the current pending length inclusive.
func (q *Queue) Insert(track *Track, index int) error {
	if index < 0 || index > len(q.pending) {
		return ErrInvalidPosition
	}
	q.pending = append(q.pending, nil)
	copy(q.pending[index+1:], q.pending[index:])
	q.pending[index] = track
	return nil
}

// Remove removes and returns the track at the given index.
func (q *Queue) Remove(index int) (*Track, error) {
	if index < 0 || index >= len(q.pending) {
		return nil, ErrInvalidPosition
	}
	track := q.pending[index]
	q.pending = append(q.pending[:index], q.pending[index+1:]...)
	return track, nil
}

// Move relocates the track at from to position to as one step. Both
// indices are validated against the pre-move length; on error the queue
// is unchanged.
func (q *Queue) Move(from, to int) error {
	n := len(q.pending)
	if from < 0 || from >= n || to < 0 || to >= n {
		return ErrInvalidPosition
	}
	if from == to {
		return nil
	}
	track := q.pending[from]
	rest := append(q.pending[:from], q.pending[from+1:]...)
	rest = append(rest, nil)
	copy(rest[to+1:], rest[to:])
	rest[to] = track
	q.pending = rest
	return nil
}

// Shuffle randomizes the order of the pending sequence with a uniform
// permutation. The current track is untouched.
func (q *Queue) Shuffle() {
	rand.Shuffle(len(q.pending), func(i, j int) {
		q.pending[i], q.pending[j] = q.pending[j], q.pending[i]
	})
}

// Clear empties the pending sequence and returns how many tracks were
// dropped. The current track is untouched.
func (q *Queue) Clear() int {
	n := len(q.pending)
	q.pending = make([]*Track, 0)
	return n
}

// Advance pops the pending head into current, or clears current if the
// pending sequence is empty. Returns the new current track. This is the
// only way current changes during normal playback.
func (q *Queue) Advance() *Track {
	if len(q.pending) == 0 {
		q.current = nil
		return nil
	}
	q.current = q.pending[0]
	q.pending = q.pending[1:]
	return q.current
}
