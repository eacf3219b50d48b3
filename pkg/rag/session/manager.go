package session

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// IDFactory mints fresh session ids
type IDFactory func() string

// Manager resolves session ids and serializes turns within a session
type Manager struct {
	newID IDFactory

	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// NewManager creates a session manager. A nil factory falls back to UUIDv4.
func NewManager(newID IDFactory) *Manager {
	if newID == nil {
		newID = uuid.NewString
	}
	return &Manager{
		newID: newID,
		locks: make(map[string]*sessionLock),
	}
}

// Resolve returns the caller's session id, or a fresh one when absent
func (m *Manager) Resolve(sessionID string) (string, bool) {
	if id := strings.TrimSpace(sessionID); id != "" {
		return id, false
	}
	return m.newID(), true
}

// Lock blocks until the caller holds the session and returns the release func.
// Entries are dropped once no turn holds or waits on them.
func (m *Manager) Lock(sessionID string) func() {
	m.mu.Lock()
	l, ok := m.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		m.locks[sessionID] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Unlock()
			m.mu.Lock()
			l.refs--
			if l.refs == 0 {
				delete(m.locks, sessionID)
			}
			m.mu.Unlock()
		})
	}
}

// active reports how many sessions currently have lock entries
func (m *Manager) active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}
