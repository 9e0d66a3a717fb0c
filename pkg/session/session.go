// Package session implements the server-side session registry: keyed
// sessions with monotonic message ids, expiry, and the ordered list of
// assumed roles.
package session

import (
	"errors"
	"slices"
	"sync"
	"time"
)

var (
	// ErrUnknown is returned when a session id is not in the registry.
	ErrUnknown = errors.New("session: unknown session")

	// ErrExpired is returned when a session is past its expiration.
	ErrExpired = errors.New("session: expired")

	// ErrReplay is returned when a request msg_id does not strictly exceed
	// the last accepted one.
	ErrReplay = errors.New("session: replayed message id")
)

// Session is one authenticated channel between a subject and the server.
//
// MsgID and Roles are guarded by the session lock. Handlers hold the lock for
// the whole decapsulate/handle/encapsulate span so msg-id progression and role
// mutation are linearizable per session.
type Session struct {
	ID           uint64
	Organization string
	Username     string
	Key          []byte
	ExpiresAt    time.Time

	mu    sync.Mutex
	msgID uint64
	roles []string
}

// Lock acquires the per-session lock.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the per-session lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// Expired reports whether the session is past its expiration at now.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Accept validates that msgID strictly exceeds the last accepted id and
// advances the stored value. Callers must hold the session lock.
func (s *Session) Accept(msgID uint64) error {
	if msgID <= s.msgID {
		return ErrReplay
	}
	s.msgID = msgID
	return nil
}

// NextMsgID increments the stored msg id and returns it; the response is
// sealed under this value so the client can in turn reject stale responses.
// Callers must hold the session lock.
func (s *Session) NextMsgID() uint64 {
	s.msgID++
	return s.msgID
}

// MsgID returns the last accepted message id. Callers must hold the session lock.
func (s *Session) MsgID() uint64 { return s.msgID }

// AssumeRole appends a role to the ordered assumed-roles list. Duplicates are
// allowed; the list is a multiset in assumption order. Callers must hold the
// session lock.
func (s *Session) AssumeRole(role string) {
	s.roles = append(s.roles, role)
}

// DropRole removes the first occurrence of role from the assumed list.
// Returns false if the role was not assumed. Callers must hold the session lock.
func (s *Session) DropRole(role string) bool {
	i := slices.Index(s.roles, role)
	if i < 0 {
		return false
	}
	s.roles = slices.Delete(s.roles, i, i+1)
	return true
}

// AssumedRoles returns a copy of the assumed-roles list in assumption order.
// Callers must hold the session lock.
func (s *Session) AssumedRoles() []string {
	return slices.Clone(s.roles)
}

// HasAssumed reports whether role is currently assumed. Callers must hold the
// session lock.
func (s *Session) HasAssumed(role string) bool {
	return slices.Contains(s.roles, role)
}
