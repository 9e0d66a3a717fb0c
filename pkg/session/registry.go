package session

import (
	"context"
	"sync"
	"time"
)

// DefaultTTL is the session lifetime applied when the configuration does not
// override it.
const DefaultTTL = time.Hour

// Registry owns all live sessions. The registry map is guarded by its own
// lock, separate from the per-session locks; Get returns the session pointer
// so callers can lock it for the span of a request.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uint64]*Session
	nextID   uint64
	ttl      time.Duration
}

// NewRegistry creates an empty registry with the given session TTL.
// A non-positive ttl falls back to DefaultTTL.
func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Registry{
		sessions: make(map[uint64]*Session),
		ttl:      ttl,
	}
}

// Create allocates a fresh session id and registers a session for the given
// subject with the derived key. The new session has msg_id 0 and no assumed
// roles.
func (r *Registry) Create(organization, username string, key []byte) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	s := &Session{
		ID:           r.nextID,
		Organization: organization,
		Username:     username,
		Key:          key,
		ExpiresAt:    time.Now().Add(r.ttl),
	}
	r.sessions[s.ID] = s
	return s
}

// Get returns the session for id, or ErrUnknown.
func (r *Registry) Get(id uint64) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrUnknown
	}
	return s, nil
}

// Delete removes a session from the registry.
func (r *Registry) Delete(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len returns the number of registered sessions, expired or not.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// SweepExpired removes sessions whose expiration is before now and returns
// how many were dropped. Expiry is also checked on every decapsulation, so
// sweeping is garbage collection, not enforcement.
func (r *Registry) SweepExpired(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	dropped := 0
	for id, s := range r.sessions {
		if s.Expired(now) {
			delete(r.sessions, id)
			dropped++
		}
	}
	return dropped
}

// Run sweeps expired sessions at the given interval until the context is
// cancelled. Intended to run in its own goroutine.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			r.SweepExpired(now)
		}
	}
}
