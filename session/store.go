package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

var ErrNotFound = errors.New("session not found")

type Store interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]record)}
}

func (m *MemoryStore) Load(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return fromRecord(r), nil
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[s.ID()] = s.toRecord()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

// FileStore keeps one yaml file per session under Dir.
type FileStore struct {
	Dir string
	mu  sync.Mutex
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &FileStore{Dir: dir}, nil
}

func (f *FileStore) path(id string) (string, error) {
	// ids are uuids; anything else could escape the directory
	if _, err := uuid.Parse(id); err != nil {
		return "", ErrNotFound
	}
	return filepath.Join(f.Dir, id+".yaml"), nil
}

func (f *FileStore) Load(_ context.Context, id string) (*Session, error) {
	p, err := f.path(id)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var r record
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return fromRecord(r), nil
}

func (f *FileStore) Save(_ context.Context, s *Session) error {
	p, err := f.path(s.ID())
	if err != nil {
		return fmt.Errorf("invalid session id %q", s.ID())
	}
	data, err := yaml.Marshal(s.toRecord())
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return os.Rename(tmp, p)
}

func (f *FileStore) Delete(_ context.Context, id string) error {
	p, err := f.path(id)
	if err != nil {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
