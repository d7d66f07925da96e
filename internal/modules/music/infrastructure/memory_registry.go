package infrastructure

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"

	"github.com/unknownzop/musicbot/internal/modules/music/domain"
)

// MemoryRegistry is an in-memory implementation of SessionRegistry.
// Get-or-create runs under one lock so concurrent play commands for the
// same guild observe a single session.
type MemoryRegistry struct {
	mu       sync.RWMutex
	sessions map[snowflake.ID]*domain.Session
}

// NewMemoryRegistry creates a new MemoryRegistry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		sessions: make(map[snowflake.ID]*domain.Session),
	}
}

// Get returns the session for the guild, or nil if none exists.
func (r *MemoryRegistry) Get(guildID snowflake.ID) *domain.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[guildID]
}

// GetOrCreate returns the existing session for the guild or atomically
// creates and stores a new one.
func (r *MemoryRegistry) GetOrCreate(guildID snowflake.ID, create func() *domain.Session) (*domain.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session, ok := r.sessions[guildID]; ok {
		return session, false
	}
	session := create()
	r.sessions[guildID] = session
	return session, true
}

// Delete removes the session for the guild.
func (r *MemoryRegistry) Delete(guildID snowflake.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, guildID)
}

// Count returns the number of active sessions.
func (r *MemoryRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// All returns a snapshot of every active session.
func (r *MemoryRegistry) All() []*domain.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := make([]*domain.Session, 0, len(r.sessions))
	for _, session := range r.sessions {
		sessions = append(sessions, session)
	}
	return sessions
}

// Ensure MemoryRegistry implements SessionRegistry.
var _ domain.SessionRegistry = (*MemoryRegistry)(nil)
