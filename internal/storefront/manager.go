package storefront

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager tracks live sessions by id.
type Manager struct {
	Shop *Shop
	Now  func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(shop *Shop) *Manager {
	return &Manager{
		Shop:     shop,
		Now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) New() *Session {
	s := newSession(uuid.NewString(), m.Shop, m.Now())
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get returns the live session and marks it as seen.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		s.touch(m.Now())
	}
	return s, ok
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep drops sessions idle longer than maxIdle and returns how many went.
// A session with a reply still streaming is kept.
func (m *Manager) Sweep(maxIdle time.Duration) int {
	cutoff := m.Now().Add(-maxIdle)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) && !s.chat.Busy() {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}
