package session

import (
	"sync"
	"time"

	"github.com/harrison/promptcheck/internal/analyzer"
	"github.com/harrison/promptcheck/internal/logger"
)

// Manager owns one session per open document plus the shared analyzer. It is
// the replacement for ambient singletons: every session holds its own timer
// and version counter, and the one shared cache lives inside the analyzer
// handle passed here.
type Manager struct {
	analyzer      *analyzer.Analyzer
	workspaceRoot string
	delay         time.Duration
	publish       PublishFunc
	log           logger.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a session manager.
func NewManager(a *analyzer.Analyzer, workspaceRoot string, delay time.Duration, publish PublishFunc, log logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{
		analyzer:      a,
		workspaceRoot: workspaceRoot,
		delay:         delay,
		publish:       publish,
		log:           log,
		sessions:      make(map[string]*Session),
	}
}

// Session returns the session for identifier, creating it on first use.
func (m *Manager) Session(identifier string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[identifier]; ok {
		return s
	}
	s := NewSession(identifier, m.workspaceRoot, m.analyzer, m.delay, m.publish, m.log)
	m.sessions[identifier] = s
	return s
}

// Remove closes and forgets the session for identifier, if any.
func (m *Manager) Remove(identifier string) {
	m.mu.Lock()
	s, ok := m.sessions[identifier]
	delete(m.sessions, identifier)
	m.mu.Unlock()

	if ok {
		s.Close()
	}
}

// Close closes every session.
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
