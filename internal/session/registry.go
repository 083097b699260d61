package session

import (
	"fmt"
	"sync"

	"github.com/waycrate/xdg-desktop-portal-luminous/internal/logging"
)

var log = logging.L("session")

// Registry is the process-wide mapping from session handle to Session
// (4.A). A single mutex protects it; the registry is not a hot path so
// coarse locking is acceptable.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	// closedHandles remembers handles that were ever removed, so they are
	// never reused for the lifetime of the process (§8).
	closedHandles map[string]bool
}

// NewRegistry creates an empty Session Registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions:      make(map[string]*Session),
		closedHandles: make(map[string]bool),
	}
}

// Append inserts a new session. Returns an error if the handle is already
// present (a caller bug — the dispatcher must never create two sessions at
// the same handle) or was used by a session that has since been removed.
func (r *Registry) Append(s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[s.handle]; exists {
		return fmt.Errorf("session: handle %q already registered", s.handle)
	}
	if r.closedHandles[s.handle] {
		return fmt.Errorf("session: handle %q was closed and cannot be reused", s.handle)
	}
	r.sessions[s.handle] = s
	return nil
}

// Find looks up a session by handle. Returns nil if absent.
func (r *Registry) Find(handle string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[handle]
}

// WasEverRegistered reports whether handle was ever appended to this
// registry, even if it has since been removed. Used to distinguish
// "unknown handle" from "closed handle" in RPC error messages.
func (r *Registry) WasEverRegistered(handle string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[handle]; ok {
		return true
	}
	return r.closedHandles[handle]
}

// Remove looks up the session, stops its owned workers, and drops the
// entry. Idempotent: removing an absent handle is a no-op.
func (r *Registry) Remove(handle string) {
	r.mu.Lock()
	s, ok := r.sessions[handle]
	if ok {
		delete(r.sessions, handle)
		r.closedHandles[handle] = true
	}
	r.mu.Unlock()

	if !ok {
		return
	}
	s.Close()
	log.Debug("session removed", logging.KeySession, handle)
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Close removes every session, stopping their owned workers. Used at
// process shutdown.
func (r *Registry) Close() {
	r.mu.Lock()
	handles := make([]string, 0, len(r.sessions))
	for h := range r.sessions {
		handles = append(handles, h)
	}
	r.mu.Unlock()

	for _, h := range handles {
		r.Remove(h)
	}
}
