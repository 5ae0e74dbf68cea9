package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/qnjualonzo/enkor/internal/orchestrator"
)

type sessionEntry struct {
	orch     *orchestrator.Orchestrator
	lastSeen time.Time
	// notice is a one-shot message for the next page render.
	notice string
}

// registry holds one orchestrator per browser session.
type registry struct {
	mu      sync.Mutex
	entries map[string]*sessionEntry
	ttl     time.Duration
	newOrch func() *orchestrator.Orchestrator
	now     func() time.Time
}

func newRegistry(ttl time.Duration, newOrch func() *orchestrator.Orchestrator) *registry {
	return &registry{
		entries: make(map[string]*sessionEntry),
		ttl:     ttl,
		newOrch: newOrch,
		now:     time.Now,
	}
}

// get returns the entry for id, starting a new session under a fresh id when
// id is malformed, unknown or expired.
func (r *registry) get(id string) (string, *sessionEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if _, err := uuid.Parse(id); err == nil {
		if e, ok := r.entries[id]; ok && now.Sub(e.lastSeen) < r.ttl {
			e.lastSeen = now
			return id, e
		}
		delete(r.entries, id)
	}

	id = uuid.NewString()
	e := &sessionEntry{orch: r.newOrch(), lastSeen: now}
	r.entries[id] = e
	return id, e
}

func (r *registry) setNotice(e *sessionEntry, notice string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.notice = notice
}

func (r *registry) takeNotice(e *sessionEntry) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := e.notice
	e.notice = ""
	return n
}

// evictExpired drops sessions idle for longer than the TTL and returns how
// many were removed.
func (r *registry) evictExpired() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	evicted := 0
	for id, e := range r.entries {
		if now.Sub(e.lastSeen) >= r.ttl {
			delete(r.entries, id)
			evicted++
		}
	}
	return evicted
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
