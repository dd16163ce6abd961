package session

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cap-customizer/preset"
)

var ErrNotFound = errors.New("session not found")

var _ preset.Notifier = (*Manager)(nil)

// Manager tracks viewer sessions by name and fans cap state out to them.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session // keyed by ID
	byName   map[string]string   // name -> ID
	logger   *zap.Logger
}

func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		byName:   make(map[string]string),
		logger:   logger,
	}
}

// Attach returns the session named name, creating it if needed, and makes ch
// its client. A client already attached under the same name is kicked. An
// empty name always creates a fresh session.
func (m *Manager) Attach(name string, ch chan preset.State) (*Session, <-chan struct{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var s *Session
	if id, ok := m.byName[name]; ok && name != "" {
		s = m.sessions[id]
	}
	if s == nil {
		id := uuid.New().String()
		if name == "" {
			name = id
		}
		s = newSession(id, name)
		m.sessions[id] = s
		m.byName[name] = id
		m.logger.Debug("viewer session created", zap.String("id", id), zap.String("name", name))
	} else {
		m.logger.Debug("viewer session displaced", zap.String("id", s.ID), zap.String("name", name))
	}
	kick := s.SetClient(ch)
	return s, kick
}

// Detach releases ch. The session is dropped once its owning client leaves.
func (m *Manager) Detach(s *Session, ch chan preset.State) {
	if !s.ClearClient(ch) {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.sessions[s.ID]; ok && cur == s && !s.Connected() {
		m.remove(s)
	}
}

// Publish sends st to every connected session without blocking.
func (m *Manager) Publish(st preset.State) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sessions {
		s.send(st)
	}
}

// List returns snapshots of all sessions, oldest first.
func (m *Manager) List() []Info {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := make([]Info, 0, len(m.sessions))
	for _, s := range m.sessions {
		list = append(list, s.Info())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Kill closes the session's Done channel and forgets it.
func (m *Manager) Kill(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}
	s.close()
	m.remove(s)
	return nil
}

// remove forgets s. Caller must hold m.mu.
func (m *Manager) remove(s *Session) {
	delete(m.sessions, s.ID)
	if m.byName[s.Name] == s.ID {
		delete(m.byName, s.Name)
	}
}
