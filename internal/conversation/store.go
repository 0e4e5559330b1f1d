// Package conversation keeps the bounded per-session turn history used to
// give the assistant short-term memory. State lives for the process lifetime
// only; nothing is persisted.
package conversation

import (
	"sync"
	"time"

	"github.com/Shamlan321/OdooSense/internal/router"
)

// Turn is one completed exchange: the user's text, where it routed, a
// snapshot of what the ERP returned, and the assistant's answer. Turns are
// treated as immutable once appended.
type Turn struct {
	Query    string
	Module   router.Module
	Records  []map[string]any
	Status   string
	Response string
	At       time.Time
}

// Store holds every live session, keyed by session id. Sessions are created
// on first use and vanish with the process.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	size     int
	language string
}

func NewStore(size int, language string) *Store {
	if size < 1 {
		size = 1
	}
	return &Store{
		sessions: make(map[string]*Session),
		size:     size,
		language: language,
	}
}

// Session returns the session for id, creating it if needed.
func (s *Store) Session(id string) *Session {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		return sess
	}
	sess = &Session{id: id, max: s.size, Language: s.language}
	s.sessions[id] = sess
	return sess
}

// Append records a completed turn for the session, creating the session on
// first use.
func (s *Store) Append(id string, turn Turn) {
	s.Session(id).Append(turn)
}

// Get returns the retained turns for a session in order. An unknown session
// id yields an empty sequence rather than an error: a session that has never
// spoken simply has no history yet.
func (s *Store) Get(id string) []Turn {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	return sess.Turns()
}

// Clear drops the history of a session, keeping the session itself.
func (s *Store) Clear(id string) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		sess.Clear()
	}
}

// Session is a bounded, ordered turn history for one conversation. Mutation
// is serialized per session, so independent sessions can run concurrently.
type Session struct {
	Language string

	id  string
	max int

	mu    sync.Mutex
	turns []Turn
}

func (s *Session) ID() string {
	return s.id
}

// Append adds a turn, evicting the oldest when the bound is exceeded. The
// retained length never passes the configured history size.
func (s *Session) Append(turn Turn) {
	if turn.At.IsZero() {
		turn.At = time.Now()
	}
	if turn.Records != nil {
		turn.Records = append([]map[string]any(nil), turn.Records...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, turn)
	if len(s.turns) > s.max {
		s.turns = append([]Turn(nil), s.turns[len(s.turns)-s.max:]...)
	}
}

// Turns returns a read-only snapshot of the retained history in order.
func (s *Session) Turns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Turn(nil), s.turns...)
}

// Recent returns the last n turns, oldest first.
func (s *Session) Recent(n int) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n <= 0 || len(s.turns) == 0 {
		return nil
	}
	if n > len(s.turns) {
		n = len(s.turns)
	}
	return append([]Turn(nil), s.turns[len(s.turns)-n:]...)
}

func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
}
