package quiz

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// entry pairs a live session with its owner and lifecycle metadata.
type entry struct {
	session    *Session
	userID     int64
	studySetID int64
	cancel     context.CancelFunc
	createdAt  time.Time
}

// Manager owns all live quiz sessions, keyed by opaque session IDs.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	now      func() time.Time
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithManagerClock injects a clock for deterministic cleanup tests.
func WithManagerClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

// NewManager creates an empty session registry.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		sessions: make(map[string]*entry),
		now:      time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Create registers a new session for the given user and study set, starts
// its countdown, and returns the session ID.
func (m *Manager) Create(ctx context.Context, userID, studySetID int64, questions []Question, limitSeconds int, opts ...SessionOption) (string, *Session) {
	s := NewSession(questions, limitSeconds, opts...)
	sctx, cancel := context.WithCancel(ctx)
	s.Start(sctx)

	id := uuid.NewString()
	m.mu.Lock()
	m.sessions[id] = &entry{
		session:    s,
		userID:     userID,
		studySetID: studySetID,
		cancel:     cancel,
		createdAt:  m.now(),
	}
	m.mu.Unlock()
	return id, s
}

// Get returns the session for id owned by userID, or nil.
func (m *Manager) Get(id string, userID int64) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sessions[id]
	if !ok || e.userID != userID {
		return nil
	}
	return e.session
}

// StudySetID returns the study set a session was started from.
func (m *Manager) StudySetID(id string) (int64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sessions[id]
	if !ok {
		return 0, false
	}
	return e.studySetID, true
}

// Remove cancels and deletes a session.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	e, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if ok {
		e.cancel()
	}
}

// CleanupStale removes completed or abandoned sessions older than maxAge
// and returns how many were removed.
func (m *Manager) CleanupStale(maxAge time.Duration) int {
	cutoff := m.now().Add(-maxAge)

	m.mu.Lock()
	var stale []*entry
	for id, e := range m.sessions {
		if e.createdAt.Before(cutoff) {
			stale = append(stale, e)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, e := range stale {
		e.cancel()
	}
	return len(stale)
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
