package session

import (
	"maps"
	"sync"
)

// Session is the per-request view of a stored session. Handlers mutate it
// freely; the Manager persists the changes before the response is written.
type Session struct {
	mu        sync.RWMutex
	key       string
	values    map[string]string
	isNew     bool
	modified  bool
	destroyed bool
	renew     bool
}

func newSession(key string, values map[string]string, isNew bool) *Session {
	if values == nil {
		values = make(map[string]string)
	}
	return &Session{key: key, values: values, isNew: isNew}
}

// Key returns the session key, empty for a session that was never stored.
func (s *Session) Key() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key
}

// IsNew reports whether no live session was found for the request.
func (s *Session) IsNew() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isNew
}

// IsModified reports whether values changed during the request.
func (s *Session) IsModified() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modified
}

// Get retrieves a value from session data
func (s *Session) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores a value in session data
func (s *Session) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.values[key]; ok && old == value {
		return
	}
	s.values[key] = value
	s.modified = true
}

// Delete removes a value from session data
func (s *Session) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	s.modified = true
}

// Clear removes all data from the session
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return
	}
	s.values = make(map[string]string)
	s.modified = true
}

// Values returns a copy of the session data.
func (s *Session) Values() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.values)
}

// Destroy marks the session for deletion at the end of the request.
func (s *Session) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destroyed = true
	s.values = make(map[string]string)
}

// Renew moves the data to a fresh key at the end of the request, e.g. after
// login, so a key observed before authentication stops working.
func (s *Session) Renew() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renew = true
}

type snapshot struct {
	key       string
	values    map[string]string
	isNew     bool
	modified  bool
	destroyed bool
	renew     bool
}

func (s *Session) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		key:       s.key,
		values:    maps.Clone(s.values),
		isNew:     s.isNew,
		modified:  s.modified,
		destroyed: s.destroyed,
		renew:     s.renew,
	}
}

// persisted records the outcome of a commit.
func (s *Session) persisted(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.key = key
	s.isNew = false
	s.modified = false
	s.renew = false
}
