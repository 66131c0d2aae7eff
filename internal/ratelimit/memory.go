package ratelimit

import (
	"context"
	"sync"
	"time"
)

// window holds the hit count of one open window.
type window struct {
	count   int
	resetAt time.Time
}

// Memory is a process-local Store. It is safe for concurrent use.
type Memory struct {
	mu       sync.Mutex
	windows  map[string]*window
	now      func() time.Time
	cleanupN uint64
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return NewMemoryWithClock(time.Now)
}

// NewMemoryWithClock returns an empty store that reads time from now.
func NewMemoryWithClock(now func() time.Time) *Memory {
	return &Memory{windows: make(map[string]*window), now: now}
}

// gc drops closed windows after ~5000 calls. Caller holds mu.
func (m *Memory) gc(now time.Time) {
	m.cleanupN++
	if m.cleanupN < 5000 {
		return
	}
	for k, w := range m.windows {
		if !now.Before(w.resetAt) {
			delete(m.windows, k)
		}
	}
	m.cleanupN = 0
}

// Allow implements Store.
func (m *Memory) Allow(_ context.Context, key string, l Limit) (Result, error) {
	now := m.now()
	k := storeKey(l, key)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.gc(now)

	w, ok := m.windows[k]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(l.Window)}
		m.windows[k] = w
	}
	w.count++
	return result(l, w.count, w.resetAt.Sub(now)), nil
}

// Release implements Store.
func (m *Memory) Release(_ context.Context, key string, l Limit) error {
	now := m.now()
	k := storeKey(l, key)

	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.windows[k]; ok && now.Before(w.resetAt) && w.count > 0 {
		w.count--
	}
	return nil
}

// Len reports the number of tracked windows.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.windows)
}
