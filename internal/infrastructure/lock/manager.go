package lock

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrAcquireTimeout is returned when a keyed section cannot be entered within
// the manager's timeout. Callers treat it as a retryable conflict.
var ErrAcquireTimeout = errors.New("lock acquisition timed out")

// DefaultTimeout bounds how long an Acquire waits before giving up
const DefaultTimeout = 5 * time.Second

// Manager provides in-process exclusive sections keyed by string. Multi-key
// acquisition always happens in ascending key order, so two goroutines locking
// overlapping key sets cannot deadlock.
//
// Keys are never forgotten; the estudio's working set (ingresos and cuotas
// touched concurrently) is small and bounded.
type Manager struct {
	mu      sync.Mutex
	locks   map[string]chan struct{}
	timeout time.Duration
}

// NewManager creates a Manager with the given acquisition timeout.
// A non-positive timeout falls back to DefaultTimeout.
func NewManager(timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Manager{
		locks:   make(map[string]chan struct{}),
		timeout: timeout,
	}
}

func (m *Manager) slot(key string) chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch, ok := m.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		m.locks[key] = ch
	}
	return ch
}

// Acquire enters the exclusive sections for all keys and returns a release
// function. Duplicate keys are collapsed. On timeout or context cancellation
// every already-held key is released and ErrAcquireTimeout (or the context
// error) is returned.
func (m *Manager) Acquire(ctx context.Context, keys ...string) (func(), error) {
	ordered := dedupeSorted(keys)

	deadline := time.NewTimer(m.timeout)
	defer deadline.Stop()

	held := make([]chan struct{}, 0, len(ordered))
	release := func() {
		// Release in reverse acquisition order.
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i]
		}
	}

	for _, key := range ordered {
		ch := m.slot(key)
		select {
		case ch <- struct{}{}:
			held = append(held, ch)
		case <-deadline.C:
			release()
			return nil, ErrAcquireTimeout
		case <-ctx.Done():
			release()
			return nil, ctx.Err()
		}
	}

	var once sync.Once
	return func() { once.Do(release) }, nil
}

func dedupeSorted(keys []string) []string {
	ordered := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			ordered = append(ordered, k)
		}
	}
	sort.Strings(ordered)
	return ordered
}
