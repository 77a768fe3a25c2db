package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultCapacity = 1024

type entry struct {
	ids       []uuid.UUID
	expiresAt time.Time
}

// Memory is an in-process ResultCache. Entries expire lazily on read and are
// swept on write; when the cache is full the entry closest to expiry is
// dropped. The lock is only held for map access, never across a store
// round-trip.
type Memory struct {
	mu       sync.RWMutex
	entries  map[string]entry
	capacity int
	now      func() time.Time
}

type MemoryOption func(*Memory)

// WithClock overrides the time source, used by tests to drive expiry.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) { m.now = now }
}

func WithCapacity(n int) MemoryOption {
	return func(m *Memory) {
		if n > 0 {
			m.capacity = n
		}
	}
}

func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		entries:  make(map[string]entry),
		capacity: DefaultCapacity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Get(_ context.Context, key string) ([]uuid.UUID, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok || m.now().After(e.expiresAt) {
		return nil, false, nil
	}

	out := make([]uuid.UUID, len(e.ids))
	copy(out, e.ids)
	return out, true, nil
}

func (m *Memory) Put(_ context.Context, key string, ids []uuid.UUID, ttl time.Duration) error {
	stored := make([]uuid.UUID, len(ids))
	copy(stored, ids)
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.capacity {
		m.evictLocked(now)
	}
	m.entries[key] = entry{ids: stored, expiresAt: now.Add(ttl)}
	return nil
}

// evictLocked drops expired entries, then the entry closest to expiry if the
// cache is still full.
func (m *Memory) evictLocked(now time.Time) {
	for k, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, k)
		}
	}
	if len(m.entries) < m.capacity {
		return
	}

	var oldestKey string
	var oldest time.Time
	first := true
	for k, e := range m.entries {
		if first || e.expiresAt.Before(oldest) {
			oldestKey, oldest = k, e.expiresAt
			first = false
		}
	}
	delete(m.entries, oldestKey)
}

// Len reports the number of live entries, counting unexpired ones only.
func (m *Memory) Len() int {
	now := m.now()
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, e := range m.entries {
		if !now.After(e.expiresAt) {
			n++
		}
	}
	return n
}

var _ ResultCache = (*Memory)(nil)
