package infrastructure

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/disgoorg/snowflake/v2"

	"github.com/unknownzop/musicbot/internal/modules/music/domain"
)

func TestMemoryRegistry_GetOrCreate(t *testing.T) {
	r := NewMemoryRegistry()
	guildID := snowflake.ID(1)

	session, created := r.GetOrCreate(guildID, func() *domain.Session {
		return domain.NewSession(guildID, 2, 3, nil, nil, r)
	})
	if !created {
		t.Fatal("expected first call to create the session")
	}
	if session == nil {
		t.Fatal("expected a session")
	}

	again, created := r.GetOrCreate(guildID, func() *domain.Session {
		t.Fatal("create must not run when the session exists")
		return nil
	})
	if created {
		t.Error("expected second call to reuse the session")
	}
	if again != session {
		t.Error("expected the same session instance")
	}
}

func TestMemoryRegistry_ConcurrentGetOrCreate_SingleSession(t *testing.T) {
	r := NewMemoryRegistry()
	guildID := snowflake.ID(1)

	var creates atomic.Int32
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.GetOrCreate(guildID, func() *domain.Session {
				creates.Add(1)
				return domain.NewSession(guildID, 2, 3, nil, nil, r)
			})
		}()
	}
	wg.Wait()

	if got := creates.Load(); got != 1 {
		t.Errorf("expected exactly one creation, got %d", got)
	}
	if r.Count() != 1 {
		t.Errorf("expected one session, got %d", r.Count())
	}
}

func TestMemoryRegistry_Delete(t *testing.T) {
	r := NewMemoryRegistry()
	guildID := snowflake.ID(1)

	r.GetOrCreate(guildID, func() *domain.Session {
		return domain.NewSession(guildID, 2, 3, nil, nil, r)
	})
	r.Delete(guildID)

	if r.Get(guildID) != nil {
		t.Error("expected session removed")
	}
	if r.Count() != 0 {
		t.Errorf("expected empty registry, got %d", r.Count())
	}
}

func TestMemoryRegistry_All(t *testing.T) {
	r := NewMemoryRegistry()
	for i := 1; i <= 3; i++ {
		guildID := snowflake.ID(i)
		r.GetOrCreate(guildID, func() *domain.Session {
			return domain.NewSession(guildID, 2, 3, nil, nil, r)
		})
	}

	if got := len(r.All()); got != 3 {
		t.Errorf("expected 3 sessions, got %d", got)
	}
}
