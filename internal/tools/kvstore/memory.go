package kvstore

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// Memory keeps everything in process. Expiry is evaluated lazily against Now.
type Memory struct {
	Now func() time.Time

	entries map[string]memoryEntry
	sync.Mutex
}

func NewMemory() *Memory {
	return &Memory{
		Now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.Lock()
	defer m.Unlock()

	entry, ok := m.live(key)
	if !ok {
		return nil, nil
	}

	value := make([]byte, len(entry.value))
	copy(value, entry.value)

	return value, nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.Lock()
	m.store(key, value, ttl)
	m.Unlock()

	return nil
}

func (m *Memory) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.Lock()
	defer m.Unlock()

	if _, ok := m.live(key); ok {
		return false, nil
	}

	m.store(key, value, ttl)

	return true, nil
}

func (m *Memory) Del(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.Lock()
	delete(m.entries, key)
	m.Unlock()

	return nil
}

// Keys lists the keys that have not expired yet.
func (m *Memory) Keys() []string {
	m.Lock()
	defer m.Unlock()

	keys := []string{}
	for key := range m.entries {
		if _, ok := m.live(key); ok {
			keys = append(keys, key)
		}
	}

	return keys
}

func (m *Memory) live(key string) (memoryEntry, bool) {
	entry, ok := m.entries[key]
	if !ok {
		return memoryEntry{}, false
	}

	if !entry.expiresAt.IsZero() && !m.Now().Before(entry.expiresAt) {
		delete(m.entries, key)
		return memoryEntry{}, false
	}

	return entry, true
}

func (m *Memory) store(key string, value []byte, ttl time.Duration) {
	entry := memoryEntry{
		value: make([]byte, len(value)),
	}
	copy(entry.value, value)

	if ttl > 0 {
		entry.expiresAt = m.Now().Add(ttl)
	}

	m.entries[key] = entry
}
