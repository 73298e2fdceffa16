package session

import (
	"encoding/json"
	"errors"
	"os"
	"sync"
)

// ErrNoSession is returned by Load when no persisted session exists. A
// malformed persisted record is reported the same way: the caller treats
// both as "not logged in".
var ErrNoSession = errors.New("no persisted session")

// Store is the single durable slot holding the serialized session. It is
// written on login, removed on logout, and read on restore.
type Store interface {
	Save(s *Session) error
	Load() (*Session, error)
	Clear() error
}

// FileStore persists the session as one JSON file, the server-side
// equivalent of a browser localStorage key.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a FileStore writing to the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Save(s *Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o600)
}

func (f *FileStore) Load() (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, ErrNoSession
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		// Malformed persisted data is treated as absent, never surfaced.
		return nil, ErrNoSession
	}
	if s.Email == "" || s.Token == "" {
		return nil, ErrNoSession
	}
	return &s, nil
}

func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	mu      sync.Mutex
	session *Session
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (m *MemStore) Save(s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *s
	m.session = &copied
	return nil
}

func (m *MemStore) Load() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil, ErrNoSession
	}
	copied := *m.session
	return &copied, nil
}

func (m *MemStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	return nil
}
