package session

import (
	"log"
	"sync"
	"time"

	"github.com/user/weekly-report-bot/internal/dialog"
	"github.com/user/weekly-report-bot/internal/report"
)

// DefaultIdleTTL bounds how long an untouched session stays in memory.
const DefaultIdleTTL = 24 * time.Hour

// Session holds one user's dialogue state and draft. The embedded mutex
// serializes that user's events; distinct users never share it.
type Session struct {
	mu       sync.Mutex
	State    dialog.State
	Draft    *report.Draft
	lastSeen time.Time
}

// Store maps Telegram user IDs to sessions. The store-level lock only
// guards the map itself and is never held during event handling, so
// users are processed concurrently while each user's events stay serial.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
	idleTTL  time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewStore(idleTTL time.Duration) *Store {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	s := &Store{
		sessions: make(map[int64]*Session),
		idleTTL:  idleTTL,
		stopCh:   make(chan struct{}),
	}
	go s.janitor()
	return s
}

// GetOrCreate returns the session for userID, creating an empty one on
// first reference.
func (s *Store) GetOrCreate(userID int64) *Session {
	s.mu.RLock()
	sess, ok := s.sessions[userID]
	s.mu.RUnlock()
	if ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok = s.sessions[userID]; ok {
		return sess
	}
	sess = &Session{State: dialog.StateIdle, Draft: report.NewDraft(), lastSeen: time.Now()}
	s.sessions[userID] = sess
	return sess
}

// With runs fn holding the user's session lock: at most one in-flight
// mutation per user identifier.
func (s *Store) With(userID int64, fn func(sess *Session)) {
	sess := s.GetOrCreate(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastSeen = time.Now()
	fn(sess)
}

// Reset replaces the user's entry with a fresh empty draft in Idle.
func (s *Store) Reset(userID int64) {
	s.With(userID, func(sess *Session) {
		sess.State = dialog.StateIdle
		sess.Draft = report.NewDraft()
	})
}

// SetState mutates only the state tag, leaving draft fields alone.
func (s *Store) SetState(userID int64, st dialog.State) {
	s.With(userID, func(sess *Session) {
		sess.State = st
	})
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops the eviction goroutine.
func (s *Store) Close() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

func (s *Store) janitor() {
	ticker := time.NewTicker(s.idleTTL / 4)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.evictIdle(time.Now())
		}
	}
}

// evictIdle drops sessions untouched for longer than the TTL. Memory
// hardening only; a returning user simply gets a fresh session.
func (s *Store) evictIdle(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, sess := range s.sessions {
		if !sess.mu.TryLock() {
			continue // in-flight event, not idle
		}
		idle := now.Sub(sess.lastSeen) > s.idleTTL
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		log.Printf("[SESSION] evicted %d idle sessions", evicted)
	}
	return evicted
}
