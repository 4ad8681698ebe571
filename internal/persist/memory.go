package persist

import (
	"errors"
	"sync"
)

// ErrQuotaExceeded is returned by MemoryStorage writes past its quota
var ErrQuotaExceeded = errors.New("quota exceeded")

// ErrStorageDisabled is returned by every MemoryStorage call while it is disabled
var ErrStorageDisabled = errors.New("storage disabled")

// MemoryStorage is an in-process Storage. It backs ephemeral runs and tests.
type MemoryStorage struct {
	mu       sync.Mutex
	items    map[string]string
	quota    int // max bytes per value, 0 for unlimited
	disabled bool
}

// NewMemoryStorage creates an empty in-memory storage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string]string)}
}

// SetQuota limits the size of any single stored value; 0 removes the limit
func (m *MemoryStorage) SetQuota(bytes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quota = bytes
}

// SetDisabled makes every call fail until re-enabled
func (m *MemoryStorage) SetDisabled(disabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disabled = disabled
}

// GetItem returns the value stored under name
func (m *MemoryStorage) GetItem(name string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disabled {
		return "", false, ErrStorageDisabled
	}
	v, ok := m.items[name]
	return v, ok, nil
}

// SetItem stores value under name
func (m *MemoryStorage) SetItem(name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disabled {
		return ErrStorageDisabled
	}
	if m.quota > 0 && len(value) > m.quota {
		return ErrQuotaExceeded
	}
	m.items[name] = value
	return nil
}

// RemoveItem deletes name
func (m *MemoryStorage) RemoveItem(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disabled {
		return ErrStorageDisabled
	}
	delete(m.items, name)
	return nil
}
