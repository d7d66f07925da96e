package domain

import (
	"errors"
	"strconv"
	"testing"
)

func makeTracks(n int) []*Track {
	tracks := make([]*Track, n)
	for i := range tracks {
		tracks[i] = &Track{
			Encoded: "enc-" + strconv.Itoa(i),
			Title:   "Song " + strconv.Itoa(i),
		}
	}
	return tracks
}

func TestNewQueue(t *testing.T) {
	q := NewQueue()

	if q == nil {
		t.Fatal("NewQueue returned nil")
	}
	if q.PendingLen() != 0 {
		t.Errorf("expected empty queue, got length %d", q.PendingLen())
	}
	if q.Current() != nil {
		t.Error("expected no current track")
	}
}

func TestQueue_AppendAndAdvance(t *testing.T) {
	q := NewQueue()
	tracks := makeTracks(2)
	q.Append(tracks...)

	if q.PendingLen() != 2 {
		t.Fatalf("expected 2 pending, got %d", q.PendingLen())
	}

	got := q.Advance()
	if got != tracks[0] {
		t.Errorf("expected first track as current, got %v", got)
	}
	if q.Current() != tracks[0] {
		t.Error("Current should match the advanced track")
	}
	if q.PendingLen() != 1 {
		t.Errorf("expected 1 pending after advance, got %d", q.PendingLen())
	}

	q.Advance()
	got = q.Advance()
	if got != nil {
		t.Errorf("expected nil advancing an empty queue, got %v", got)
	}
	if q.Current() != nil {
		t.Error("current should be cleared when the queue runs out")
	}
}

func TestQueue_Insert(t *testing.T) {
	q := NewQueue()
	tracks := makeTracks(3)
	q.Append(tracks[0], tracks[1])

	if err := q.Insert(tracks[2], 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pending := q.Pending()
	if pending[0] != tracks[0] || pending[1] != tracks[2] || pending[2] != tracks[1] {
		t.Error("insert did not place the track at index 1")
	}
}

func TestQueue_Insert_OutOfRange(t *testing.T) {
	q := NewQueue()
	q.Append(makeTracks(2)...)

	if err := q.Insert(&Track{Encoded: "x", Title: "x"}, 3); !errors.Is(err, ErrInvalidPosition) {
		t.Errorf("expected ErrInvalidPosition, got %v", err)
	}
	if err := q.Insert(&Track{Encoded: "x", Title: "x"}, -1); !errors.Is(err, ErrInvalidPosition) {
		t.Errorf("expected ErrInvalidPosition, got %v", err)
	}
	if q.PendingLen() != 2 {
		t.Errorf("queue should be unchanged, got length %d", q.PendingLen())
	}
}

func TestQueue_Remove(t *testing.T) {
	q := NewQueue()
	tracks := makeTracks(3)
	q.Append(tracks...)

	removed, err := q.Remove(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != tracks[1] {
		t.Errorf("expected track 1 removed, got %v", removed)
	}
	if q.PendingLen() != 2 {
		t.Errorf("expected 2 pending, got %d", q.PendingLen())
	}
}

func TestQueue_Remove_OutOfRange(t *testing.T) {
	q := NewQueue()
	q.Append(makeTracks(3)...)

	if _, err := q.Remove(5); !errors.Is(err, ErrInvalidPosition) {
		t.Errorf("expected ErrInvalidPosition, got %v", err)
	}
	if q.PendingLen() != 3 {
		t.Errorf("queue should be unchanged, got length %d", q.PendingLen())
	}
}

func TestQueue_Move(t *testing.T) {
	q := NewQueue()
	tracks := makeTracks(4)
	q.Append(tracks...)

	if err := q.Move(0, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pending := q.Pending()
	want := []*Track{tracks[1], tracks[2], tracks[0], tracks[3]}
	for i := range want {
		if pending[i] != want[i] {
			t.Fatalf("position %d: expected %v, got %v", i, want[i].Title, pending[i].Title)
		}
	}
	if q.PendingLen() != 4 {
		t.Errorf("length changed by move: %d", q.PendingLen())
	}
}

func TestQueue_Move_Inverse_RestoresOrder(t *testing.T) {
	q := NewQueue()
	tracks := makeTracks(5)
	q.Append(tracks...)

	if err := q.Move(1, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := q.Move(3, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pending := q.Pending()
	for i := range tracks {
		if pending[i] != tracks[i] {
			t.Fatalf("position %d: order not restored", i)
		}
	}
}

func TestQueue_Move_OutOfRange(t *testing.T) {
	q := NewQueue()
	q.Append(makeTracks(2)...)

	if err := q.Move(0, 5); !errors.Is(err, ErrInvalidPosition) {
		t.Errorf("expected ErrInvalidPosition, got %v", err)
	}
	if err := q.Move(-1, 0); !errors.Is(err, ErrInvalidPosition) {
		t.Errorf("expected ErrInvalidPosition, got %v", err)
	}
}

func TestQueue_Shuffle_IsPermutation(t *testing.T) {
	q := NewQueue()
	tracks := makeTracks(20)
	q.Append(tracks...)
	q.Advance()

	current := q.Current()
	q.Shuffle()

	if q.Current() != current {
		t.Error("shuffle must not touch the current track")
	}
	if q.PendingLen() != 19 {
		t.Fatalf("expected 19 pending after shuffle, got %d", q.PendingLen())
	}

	seen := make(map[*Track]int)
	for _, tr := range q.Pending() {
		seen[tr]++
	}
	for _, tr := range tracks[1:] {
		if seen[tr] != 1 {
			t.Fatalf("track %q appears %d times after shuffle", tr.Title, seen[tr])
		}
	}
}

func TestQueue_Shuffle_UniformPositions(t *testing.T) {
	const trials = 4000
	tracks := makeTracks(4)

	// counts[track index][position] over repeated shuffles of the same
	// starting order.
	var counts [4][4]int
	for range trials {
		q := NewQueue()
		q.Append(tracks...)
		q.Shuffle()
		for pos, tr := range q.Pending() {
			for idx, original := range tracks {
				if tr == original {
					counts[idx][pos]++
				}
			}
		}
	}

	// A uniform permutation puts each track in each position trials/4
	// times on average; the slack is several standard deviations wide.
	const expected = trials / 4
	const slack = expected / 5
	for idx := range counts {
		for pos, n := range counts[idx] {
			if n < expected-slack || n > expected+slack {
				t.Errorf("track %d landed in position %d %d times, want %d±%d",
					idx, pos, n, expected, slack)
			}
		}
	}
}

func TestQueue_Clear(t *testing.T) {
	q := NewQueue()
	q.Append(makeTracks(3)...)
	q.Advance()

	current := q.Current()
	n := q.Clear()

	if n != 2 {
		t.Errorf("expected 2 cleared, got %d", n)
	}
	if q.PendingLen() != 0 {
		t.Errorf("expected empty pending, got %d", q.PendingLen())
	}
	if q.Current() != current {
		t.Error("clear must not touch the current track")
	}
}

func TestQueue_PushFront(t *testing.T) {
	q := NewQueue()
	tracks := makeTracks(2)
	q.Append(tracks[0])
	q.PushFront(tracks[1])

	if got := q.Advance(); got != tracks[1] {
		t.Errorf("expected pushed track first, got %v", got)
	}
}

func TestQueue_LengthInvariant(t *testing.T) {
	q := NewQueue()
	tracks := makeTracks(6)
	q.Append(tracks[:4]...)

	q.Append(tracks[4])
	if _, err := q.Remove(0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := q.Insert(tracks[5], 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := q.Move(0, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 4 initial + 2 adds - 1 remove
	if q.PendingLen() != 5 {
		t.Errorf("expected length 5, got %d", q.PendingLen())
	}
}
