package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/user/weekly-report-bot/internal/dialog"
)

func TestStore_GetOrCreate(t *testing.T) {
	s := NewStore(time.Hour)
	defer s.Close()

	sess := s.GetOrCreate(42)
	assert.Equal(t, dialog.StateIdle, sess.State)
	assert.NotNil(t, sess.Draft)
	assert.Equal(t, -1, sess.Draft.EditingIndex)

	// Same entry on the second reference, not a new one.
	sess.Draft.Week = 5
	again := s.GetOrCreate(42)
	assert.Equal(t, 5, again.Draft.Week)
	assert.Equal(t, 1, s.Len())

	// Distinct users get distinct sessions.
	other := s.GetOrCreate(43)
	assert.Equal(t, 0, other.Draft.Week)
	assert.Equal(t, 2, s.Len())
}

func TestStore_Reset(t *testing.T) {
	s := NewStore(time.Hour)
	defer s.Close()

	s.With(42, func(sess *Session) {
		sess.State = dialog.StateAwaitingComment
		sess.Draft.Week = 5
		sess.Draft.Planned = []string{"task"}
	})

	s.Reset(42)

	sess := s.GetOrCreate(42)
	assert.Equal(t, dialog.StateIdle, sess.State)
	assert.Equal(t, 0, sess.Draft.Week)
	assert.Empty(t, sess.Draft.Planned)
}

func TestStore_SetStateKeepsDraft(t *testing.T) {
	s := NewStore(time.Hour)
	defer s.Close()

	s.With(42, func(sess *Session) {
		sess.Draft.Week = 7
	})
	s.SetState(42, dialog.StateConfirmingReport)

	sess := s.GetOrCreate(42)
	assert.Equal(t, dialog.StateConfirmingReport, sess.State)
	assert.Equal(t, 7, sess.Draft.Week)
}

func TestStore_WithSerializesSameUser(t *testing.T) {
	s := NewStore(time.Hour)
	defer s.Close()

	const iterations = 200
	var wg sync.WaitGroup
	for i := 0; i < iterations; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.With(42, func(sess *Session) {
				sess.Draft.Week++
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, iterations, s.GetOrCreate(42).Draft.Week)
}

func TestStore_EvictIdle(t *testing.T) {
	s := NewStore(time.Minute)
	defer s.Close()

	s.GetOrCreate(1)
	s.GetOrCreate(2)
	s.With(2, func(sess *Session) {}) // touch

	// Age the first session past the TTL by hand.
	s.mu.Lock()
	s.sessions[1].lastSeen = time.Now().Add(-2 * time.Minute)
	s.mu.Unlock()

	evicted := s.evictIdle(time.Now())

	assert.Equal(t, 1, evicted)
	assert.Equal(t, 1, s.Len())
}
