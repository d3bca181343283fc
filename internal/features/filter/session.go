package filter

import (
	"context"
	"sync"
	"time"

	"github.com/xyz-asif/roadwatch/internal/pkg/logger"
	"github.com/xyz-asif/roadwatch/internal/pkg/metrics"
)

// Session owns one filter State. Dispatches are serialized: every event of a
// call is applied before another call is admitted.
type Session struct {
	mu       sync.Mutex
	reducer  Reducer
	state    State
	lastUsed time.Time
	now      func() time.Time
}

func NewSession(r Reducer) *Session {
	return newSession(r, time.Now)
}

func newSession(r Reducer, now func() time.Time) *Session {
	return &Session{
		reducer:  r,
		state:    r.Default(),
		lastUsed: now(),
		now:      now,
	}
}

// Dispatch applies events in order and returns the resulting state.
func (s *Session) Dispatch(events ...Event) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = s.reducer.ApplyAll(s.state, events...)
	s.lastUsed = s.now()
	return s.state
}

// Snapshot returns the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastUsed = s.now()
	return s.state
}

func (s *Session) Reset() State {
	return s.Dispatch(ResetAll{})
}

func (s *Session) idleSince(t time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed.Before(t)
}

// SessionStore keeps one Session per owner in memory. Sessions are created on
// first use and dropped on Discard or after ttl without activity.
type SessionStore struct {
	mu       sync.Mutex
	reducer  Reducer
	ttl      time.Duration
	sessions map[string]*Session
	now      func() time.Time
}

func NewSessionStore(r Reducer, ttl time.Duration) *SessionStore {
	return &SessionStore{
		reducer:  r,
		ttl:      ttl,
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Get returns the owner's session, creating it with the default state if needed.
func (st *SessionStore) Get(owner string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, ok := st.sessions[owner]
	if !ok {
		sess = newSession(st.reducer, st.now)
		st.sessions[owner] = sess
		metrics.FilterSessionsActive.Set(float64(len(st.sessions)))
	}
	return sess
}

// Discard drops the owner's session. It reports whether one existed.
func (st *SessionStore) Discard(owner string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	_, ok := st.sessions[owner]
	delete(st.sessions, owner)
	metrics.FilterSessionsActive.Set(float64(len(st.sessions)))
	return ok
}

func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep removes sessions idle for longer than the ttl and returns how many
// were removed. A non-positive ttl disables expiry.
func (st *SessionStore) Sweep() int {
	if st.ttl <= 0 {
		return 0
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	cutoff := st.now().Add(-st.ttl)
	removed := 0
	for owner, sess := range st.sessions {
		if sess.idleSince(cutoff) {
			delete(st.sessions, owner)
			removed++
		}
	}
	metrics.FilterSessionsActive.Set(float64(len(st.sessions)))
	return removed
}

// StartSweeper runs Sweep every interval until ctx is cancelled.
func (st *SessionStore) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := st.Sweep(); n > 0 {
					logger.Debug("filter: swept %d idle sessions", n)
				}
			}
		}
	}()
}
