package preset

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cap-customizer/storage"
)

// Notifier receives every state written by the Manager.
type Notifier interface {
	Publish(State)
}

// Option configures a Manager.
type Option func(*Manager)

// WithNotifier sets the subscriber fan-out for state changes.
func WithNotifier(n Notifier) Option {
	return func(m *Manager) { m.notifier = n }
}

// WithLogger sets the Manager's logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// withIDFunc replaces UUID generation; used by tests.
func withIDFunc(fn func() string) Option {
	return func(m *Manager) { m.newID = fn }
}

// Manager is the cap state container. Every mutation is a single
// read-modify-write under mu: validate, apply the operation, save, publish.
type Manager struct {
	mu       sync.RWMutex
	backend  storage.Backend
	state    State
	notifier Notifier
	logger   *zap.Logger
	newID    func() string
}

// NewManager loads the state from backend, falling back to the seed.
func NewManager(ctx context.Context, backend storage.Backend, opts ...Option) *Manager {
	m := &Manager{
		backend: backend,
		logger:  zap.NewNop(),
		newID:   func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	m.state = Load(ctx, backend, m.logger)
	return m
}

// Get returns a snapshot of the current state.
func (m *Manager) Get() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.clone()
}

// Selected returns the selected cap (see State.Selected).
func (m *Manager) Selected() Cap {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Selected()
}

// All returns all caps in insertion order (see State.All).
func (m *Manager) All() []Cap {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.All()
}

// Add validates c, assigns an id if it has none, stores it and selects it.
// The stored cap is returned.
func (m *Manager) Add(ctx context.Context, c Cap) (Cap, error) {
	c = Normalize(c)
	if c.ID == "" {
		c.ID = m.newID()
	}
	if err := Validate(c); err != nil {
		return Cap{}, err
	}
	err := m.apply(ctx, "add", func(s State) (State, error) {
		return Add(s, c), nil
	})
	if err != nil {
		return Cap{}, err
	}
	return c, nil
}

// Remove deletes the cap with id. ErrLastCap is returned when it is the only one.
func (m *Manager) Remove(ctx context.Context, id string) error {
	return m.apply(ctx, "remove", func(s State) (State, error) {
		return Remove(s, id)
	})
}

// Update validates c and replaces the stored cap with the same id.
func (m *Manager) Update(ctx context.Context, c Cap) (Cap, error) {
	c = Normalize(c)
	if err := Validate(c); err != nil {
		return Cap{}, err
	}
	err := m.apply(ctx, "update", func(s State) (State, error) {
		return Update(s, c)
	})
	if err != nil {
		return Cap{}, err
	}
	return c, nil
}

// Select makes id the selected cap.
func (m *Manager) Select(ctx context.Context, id string) error {
	return m.apply(ctx, "select", func(s State) (State, error) {
		return Select(s, id)
	})
}

// Import adds caps in order and then selects selectedID, when non-empty, as a
// single change. Every cap is validated first; on any error nothing is stored.
func (m *Manager) Import(ctx context.Context, caps []Cap, selectedID string) error {
	prepared := make([]Cap, 0, len(caps))
	for i, c := range caps {
		c = Normalize(c)
		if c.ID == "" {
			c.ID = m.newID()
		}
		if err := Validate(c); err != nil {
			return fmt.Errorf("cap %d (%q): %w", i, c.ID, err)
		}
		prepared = append(prepared, c)
	}
	return m.apply(ctx, "import", func(s State) (State, error) {
		for _, c := range prepared {
			s = Add(s, c)
		}
		if selectedID == "" {
			return s, nil
		}
		return Select(s, selectedID)
	})
}

func (m *Manager) apply(ctx context.Context, op string, fn func(State) (State, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := fn(m.state)
	if err != nil {
		return err
	}
	if err := Save(ctx, m.backend, next); err != nil {
		m.logger.Error("persisting cap state failed", zap.String("op", op), zap.Error(err))
		return err
	}
	m.state = next

	m.logger.Debug("cap state changed",
		zap.String("op", op),
		zap.String("selected", next.SelectedID),
		zap.Int("caps", next.Len()))
	// Publish under the lock so subscribers see changes in order.
	// Notifier implementations must not block.
	if m.notifier != nil {
		m.notifier.Publish(next.clone())
	}
	return nil
}
