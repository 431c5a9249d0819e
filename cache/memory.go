package cache

import (
	"context"
	"sync"
	"time"
)

// entry holds a cached page with its creation timestamp.
type entry struct {
	html      string
	createdAt time.Time
}

// Memory is an in-process page store. It is safe for concurrent use.
type Memory struct {
	mu         sync.RWMutex
	store      map[string]*entry
	maxEntries int
	ttl        time.Duration
	done       chan struct{}
	closeOnce  sync.Once
	now        func() time.Time
}

// NewMemory creates a Memory store. maxEntries <= 0 leaves it unbounded;
// ttl <= 0 keeps entries forever. With a TTL, a background goroutine evicts
// expired entries every ttl/2 (at most every 5 minutes) until Close.
func NewMemory(maxEntries int, ttl time.Duration) *Memory {
	return newMemory(maxEntries, ttl, time.Now)
}

func newMemory(maxEntries int, ttl time.Duration, now func() time.Time) *Memory {
	m := &Memory{
		store:      make(map[string]*entry),
		maxEntries: maxEntries,
		ttl:        ttl,
		done:       make(chan struct{}),
		now:        now,
	}
	if ttl > 0 {
		go m.cleanupLoop()
	}
	return m
}

// Get returns the cached page if it exists and has not expired.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	e, ok := m.store[key]
	m.mu.RUnlock()

	if !ok {
		return "", false, nil
	}
	if m.expired(e, m.now()) {
		return "", false, nil
	}
	return e.html, true, nil
}

// Set stores a page. If the store is at capacity, a random entry is evicted
// to make room.
func (m *Memory) Set(_ context.Context, key, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Evict one random entry if at capacity (map iteration is random in Go).
	if _, exists := m.store[key]; !exists && m.maxEntries > 0 && len(m.store) >= m.maxEntries {
		for k := range m.store {
			delete(m.store, k)
			break
		}
	}

	m.store[key] = &entry{
		html:      html,
		createdAt: m.now(),
	}
	return nil
}

// Len returns the number of stored pages, expired ones included until the
// next cleanup pass.
func (m *Memory) Len(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store), nil
}

// Close stops the cleanup goroutine.
func (m *Memory) Close() error {
	m.closeOnce.Do(func() { close(m.done) })
	return nil
}

func (m *Memory) expired(e *entry, now time.Time) bool {
	return m.ttl > 0 && now.Sub(e.createdAt) > m.ttl
}

func (m *Memory) cleanupLoop() {
	interval := m.ttl / 2
	if interval > 5*time.Minute {
		interval = 5 * time.Minute
	}
	if interval < time.Second {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.prune(m.now())
		}
	}
}

func (m *Memory) prune(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, e := range m.store {
		if m.expired(e, now) {
			delete(m.store, k)
		}
	}
}
