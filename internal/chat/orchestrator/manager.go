package orchestrator

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"portfolio_backend/platform/apperr"
	"portfolio_backend/platform/i18n"
	"portfolio_backend/platform/logger"
)

const (
	// DefaultSessionTTL is how long an idle session survives before the
	// sweeper reclaims it.
	DefaultSessionTTL = 30 * time.Minute

	sweepInterval = 5 * time.Minute
)

// Manager owns the in-memory session table. Sessions are ephemeral; nothing
// here survives a restart.
type Manager struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	ttl      time.Duration
	stop     chan struct{}
	stopOnce sync.Once
	log      *logger.Logger
}

func NewManager(ttl time.Duration, log *logger.Logger) *Manager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	m := &Manager{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
		stop:     make(chan struct{}),
		log:      log,
	}
	go m.sweep()
	return m
}

// Open creates a fresh session for a visitor.
func (m *Manager) Open(lang i18n.Lang, userID uuid.UUID) *Session {
	s := newSession(lang, userID)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	return s
}

// Get returns the session or a not-found error when it expired.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()

	if !ok {
		return nil, apperr.NotFound("chat session not found").WithOp("orchestrator.Manager.Get")
	}
	s.mu.Lock()
	s.touch()
	s.mu.Unlock()
	return s, nil
}

// Remove drops a session from the table.
func (m *Manager) Remove(id uuid.UUID) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Stop terminates the background sweeper.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}

func (m *Manager) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.reap(time.Now())
		}
	}
}

func (m *Manager) reap(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, s := range m.sessions {
		s.mu.Lock()
		idle := now.Sub(s.lastSeen)
		s.mu.Unlock()
		if idle > m.ttl {
			delete(m.sessions, id)
			if m.log != nil {
				m.log.Debug("chat session expired", "session", id.String())
			}
		}
	}
}
