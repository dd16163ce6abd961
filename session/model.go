package session

import (
	"sync"
	"time"

	"cap-customizer/preset"
)

// Session is one viewer (a browser tab) receiving live cap state.
type Session struct {
	ID        string
	Name      string
	CreatedAt time.Time

	outMu      sync.Mutex
	lastActive time.Time
	connected  bool
	outChan    chan preset.State
	kickChan   chan struct{}

	done      chan struct{}
	closeOnce sync.Once
}

// Info is a point-in-time view of a Session for listing.
type Info struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
	Connected  bool      `json:"connected"`
}

func newSession(id, name string) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		Name:       name,
		CreatedAt:  now,
		lastActive: now,
		done:       make(chan struct{}),
	}
}

// Info returns a snapshot of the session.
func (s *Session) Info() Info {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	return Info{
		ID:         s.ID,
		Name:       s.Name,
		CreatedAt:  s.CreatedAt,
		LastActive: s.lastActive,
		Connected:  s.connected,
	}
}

// SetClient registers a channel to receive state updates. If a previous
// client is connected it is kicked: its kick channel is closed so ws.go can
// detect the displacement and close that WebSocket connection. Returns a kick
// channel that will be closed if this client is itself later displaced.
func (s *Session) SetClient(ch chan preset.State) <-chan struct{} {
	s.outMu.Lock()
	defer s.outMu.Unlock()

	if s.kickChan != nil {
		close(s.kickChan)
	}
	kick := make(chan struct{})
	s.kickChan = kick
	s.outChan = ch
	s.connected = true
	s.lastActive = time.Now()
	return kick
}

// ClearClient is called when a connection ends. It only updates session state
// if ch is still the current owner (guards against a displaced connection
// clearing a newer one). It always closes ch so the pump goroutine exits.
// Reports whether ch was the owner.
func (s *Session) ClearClient(ch chan preset.State) bool {
	s.outMu.Lock()
	owned := s.outChan == ch
	if owned {
		s.outChan = nil
		s.connected = false
		s.kickChan = nil
	}
	s.outMu.Unlock()
	close(ch)
	return owned
}

// Connected reports whether a client currently owns the session.
func (s *Session) Connected() bool {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	return s.connected
}

// send delivers st to the current client without blocking. When the client
// has not drained the previous state, that stale state is replaced.
func (s *Session) send(st preset.State) {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	if s.outChan == nil {
		return
	}
	select {
	case s.outChan <- st:
		s.lastActive = time.Now()
		return
	default:
	}
	select {
	case <-s.outChan:
	default:
	}
	select {
	case s.outChan <- st:
		s.lastActive = time.Now()
	default:
	}
}

// Done returns a channel that is closed when the session is killed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) close() {
	s.closeOnce.Do(func() { close(s.done) })
}
