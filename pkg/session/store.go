// Package session provides the per-conversation state store: turn counts, the
// cumulative scam flag, and merged intelligence, keyed by caller-supplied id.
//
// The store is in-memory and process-lifetime: sessions are created lazily on
// first reference and never expire. Every mutation is monotonic - turn counts
// only grow, the scam flag never resets, merged intelligence never shrinks.
package session

import (
	"sync"

	"github.com/FarhanSayed16/Agentic-Honey-Pot/pkg/intel"
)

// Session is the cumulative state for one conversation.
type Session struct {
	SessionID    string             `json:"session_id"`
	TurnCount    int                `json:"turn_count"`
	ScamDetected bool               `json:"scam_detected"`
	Intelligence intel.Intelligence `json:"intelligence"`

	// Notified guards at-most-once notification dispatch per session.
	Notified bool `json:"notified"`
}

// Store is a concurrency-safe keyed container of sessions. All operations are
// safe to call on an unseen id: the session is created first, then mutated.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// locked helper: fetch or lazily create the entry for id.
func (s *Store) getOrCreateLocked(id string) *Session {
	if sess, ok := s.sessions[id]; ok {
		return sess
	}
	sess := &Session{SessionID: id}
	s.sessions[id] = sess
	return sess
}

// GetOrCreate returns a snapshot of the session for id, creating it with zero
// state if unseen. The returned value is a copy; mutations go through the
// named operations below.
func (s *Store) GetOrCreate(id string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateLocked(id).snapshot()
}

// MarkScamDetected sets the scam flag for id. Monotonic: no-op if already set.
func (s *Store) MarkScamDetected(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getOrCreateLocked(id).ScamDetected = true
}

// MergeIntelligence folds newly extracted intelligence into the session's
// cumulative set. Merging is a per-field ordered set union, so repeated
// identical input yields no growth.
func (s *Store) MergeIntelligence(id string, newIntel intel.Intelligence) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.getOrCreateLocked(id)
	sess.Intelligence = intel.Merge(sess.Intelligence, newIntel)
}

// IncrementTurn adds one processed turn to the session.
func (s *Store) IncrementTurn(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getOrCreateLocked(id).TurnCount++
}

// MarkNotified atomically flips the notified flag and reports whether this
// call was the transition. Exactly one caller per session observes true, so
// notification dispatch stays at-most-once even when the turn threshold keeps
// being met on later turns.
func (s *Store) MarkNotified(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.getOrCreateLocked(id)
	if sess.Notified {
		return false
	}
	sess.Notified = true
	return true
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Stats returns store-wide counters for the health endpoint.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{SessionCount: len(s.sessions)}
	for _, sess := range s.sessions {
		st.TotalTurns += sess.TurnCount
		if sess.ScamDetected {
			st.ScamSessions++
		}
		st.IntelValues += sess.Intelligence.Count()
	}
	return st
}

// Stats contains session store statistics.
type Stats struct {
	SessionCount int `json:"session_count"`
	TotalTurns   int `json:"total_turns"`
	ScamSessions int `json:"scam_sessions"`
	IntelValues  int `json:"intel_values"`
}

// snapshot copies the session, including a deep copy of the intelligence
// slices, so callers never share memory with the store.
func (sess *Session) snapshot() Session {
	cp := *sess
	cp.Intelligence = intel.Merge(intel.Intelligence{}, sess.Intelligence)
	return cp
}
