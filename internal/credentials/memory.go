package credentials

import (
	"fmt"
	"sync"
)

type memoryKey struct {
	kind     Kind
	username string
}

// Memory keeps secrets in process memory. Used by tests and as a fallback on
// platforms without a keychain. Writes are guarded by a mutex, so overwrite
// is atomic from a reader's perspective.
type Memory struct {
	mu      sync.RWMutex
	secrets map[memoryKey]string
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{secrets: make(map[memoryKey]string)}
}

func (m *Memory) Get(kind Kind, username string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	secret, ok := m.secrets[memoryKey{kind, username}]
	if !ok {
		return "", fmt.Errorf("%w: %s for %q", ErrNotFound, kind, username)
	}
	return secret, nil
}

func (m *Memory) Put(kind Kind, username, secret string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.secrets[memoryKey{kind, username}] = secret
	return nil
}

func (m *Memory) Delete(kind Kind, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := memoryKey{kind, username}
	if _, ok := m.secrets[key]; !ok {
		return fmt.Errorf("%w: %s for %q", ErrNotFound, kind, username)
	}
	delete(m.secrets, key)
	return nil
}
