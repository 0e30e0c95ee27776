package appcontext

import (
	"sync"

	"github.com/sideko-inc/sideko/internal/config"
)

// MemoryStore is a Store held in maps, for tests.
type MemoryStore struct {
	Path string

	mu      sync.Mutex
	Env     map[config.Key]string
	Dotfile map[config.Key]string
	Keyring map[config.Key]string
}

// NewMemoryStore creates an empty MemoryStore whose dotfile lives at path.
func NewMemoryStore(path string) *MemoryStore {
	return &MemoryStore{
		Path:    path,
		Env:     make(map[config.Key]string),
		Dotfile: make(map[config.Key]string),
		Keyring: make(map[config.Key]string),
	}
}

// ConfigPath returns the process override or Path.
func (s *MemoryStore) ConfigPath() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.Env[config.ConfigPath]; ok {
		return p, nil
	}
	return s.Path, nil
}

// SetProcessEnv records value for the process.
func (s *MemoryStore) SetProcessEnv(k config.Key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Env[k] = value
	return nil
}

// UnsetEnv removes k from the process and the dotfile.
func (s *MemoryStore) UnsetEnv(k config.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Env, k)
	delete(s.Dotfile, k)
	return nil
}

// SetKeyring stores value.
func (s *MemoryStore) SetKeyring(k config.Key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Keyring[k] = value
	return nil
}

// UnsetKeyring deletes k.
func (s *MemoryStore) UnsetKeyring(k config.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Keyring, k)
	return nil
}

// Secret returns the keyring entry for k.
func (s *MemoryStore) Secret(k config.Key) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.Keyring[k]
	return v, ok
}

var _ Store = (*MemoryStore)(nil)
