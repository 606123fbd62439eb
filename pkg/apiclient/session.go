package apiclient

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// Session is what survives a restart: the bearer token and the signed-in user.
type Session struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user,omitempty"`
}

type SessionStore interface {
	Load() (Session, error)
	Save(Session) error
	Clear() error
}

type MemorySession struct {
	mu sync.Mutex
	s  Session
}

func NewMemorySession(token string) *MemorySession {
	return &MemorySession{s: Session{Token: token}}
}

func (m *MemorySession) Load() (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s, nil
}

func (m *MemorySession) Save(s Session) error {
	m.mu.Lock()
	m.s = s
	m.mu.Unlock()
	return nil
}

func (m *MemorySession) Clear() error { return m.Save(Session{}) }

// FileSession persists the session as JSON so a later process can rehydrate it.
type FileSession struct {
	Path string
	mu   sync.Mutex
}

func NewFileSession(path string) *FileSession { return &FileSession{Path: path} }

func (f *FileSession) Load() (Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var s Session
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, err
	}
	if len(data) == 0 {
		return s, nil
	}
	err = json.Unmarshal(data, &s)
	return s, err
}

func (f *FileSession) Save(s Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(f.Path, data, 0o600)
}

func (f *FileSession) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := os.Remove(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
