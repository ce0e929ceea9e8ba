package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Invalidation is published whenever a session loses its credentials.
type Invalidation struct {
	SessionID string
	Reason    string
	At        time.Time
}

type Manager struct {
	store     Store
	now       func() time.Time
	mu        sync.RWMutex
	listeners []func(Invalidation)
}

func NewManager(store Store) *Manager {
	return &Manager{store: store, now: time.Now}
}

// New creates an empty, unsaved session.
func (m *Manager) New() *Session {
	return newSession(uuid.NewString(), m.now())
}

func (m *Manager) Load(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	return m.store.Load(ctx, id)
}

func (m *Manager) Save(ctx context.Context, s *Session) error {
	return m.store.Save(ctx, s)
}

// Destroy removes the session from the store entirely.
func (m *Manager) Destroy(ctx context.Context, s *Session) error {
	s.Clear()
	return m.store.Delete(ctx, s.ID())
}

func (m *Manager) OnInvalidate(fn func(Invalidation)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Invalidate clears the token and user, persists the cleared state and
// notifies listeners.
func (m *Manager) Invalidate(ctx context.Context, s *Session, reason string) error {
	s.Clear()
	if err := m.store.Save(ctx, s); err != nil {
		return fmt.Errorf("invalidate session: %w", err)
	}

	event := Invalidation{SessionID: s.ID(), Reason: reason, At: m.now()}
	m.mu.RLock()
	listeners := append([]func(Invalidation){}, m.listeners...)
	m.mu.RUnlock()
	for _, fn := range listeners {
		fn(event)
	}
	return nil
}
