package testfixtures

import (
	"context"
	"sync"

	"github.com/neuland-ingolstadt/neuland.app-native-sub000/internal/store"
)

// MemoryStore is an in-memory secret store for tests. It implements both
// store.SecretStore and store.Wiper and records per-key set counts so tests
// can assert how often the session layer persisted a value.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string

	// SetCalls counts Set invocations per key.
	SetCalls map[string]int
	// Err, when set, is returned by every operation.
	Err error
}

// NewMemoryStore constructs an empty store, optionally seeded with values.
func NewMemoryStore(seed map[string]string) *MemoryStore {
	values := make(map[string]string, len(seed))
	for key, value := range seed {
		values[key] = value
	}
	return &MemoryStore{values: values, SetCalls: make(map[string]int)}
}

// Get implements store.SecretStore.
func (m *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	value, ok := m.values[key]
	if !ok {
		return "", store.ErrNotFound
	}
	return value, nil
}

// Set implements store.SecretStore.
func (m *MemoryStore) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.values[key] = value
	m.SetCalls[key]++
	return nil
}

// Delete implements store.SecretStore.
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	delete(m.values, key)
	return nil
}

// Wipe implements store.Wiper.
func (m *MemoryStore) Wipe(ctx context.Context, except ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	preserved := make(map[string]string, len(except))
	for _, key := range except {
		if value, ok := m.values[key]; ok {
			preserved[key] = value
		}
	}
	m.values = preserved
	return nil
}

// Snapshot returns a copy of the stored values.
func (m *MemoryStore) Snapshot() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := make(map[string]string, len(m.values))
	for key, value := range m.values {
		snapshot[key] = value
	}
	return snapshot
}

var _ store.SecretStore = (*MemoryStore)(nil)
var _ store.Wiper = (*MemoryStore)(nil)
