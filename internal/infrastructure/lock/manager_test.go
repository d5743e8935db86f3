package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerAcquireRelease(t *testing.T) {
	m := NewManager(time.Second)

	release, err := m.Acquire(context.Background(), "a", "b")
	require.NoError(t, err)
	release()

	// Keys are free again after release.
	release, err = m.Acquire(context.Background(), "b", "a")
	require.NoError(t, err)
	release()

	// Release is safe to call twice.
	release()
}

func TestManagerTimeout(t *testing.T) {
	m := NewManager(50 * time.Millisecond)

	release, err := m.Acquire(context.Background(), "busy")
	require.NoError(t, err)
	defer release()

	_, err = m.Acquire(context.Background(), "busy")
	assert.ErrorIs(t, err, ErrAcquireTimeout)
}

func TestManagerContextCancel(t *testing.T) {
	m := NewManager(time.Minute)

	release, err := m.Acquire(context.Background(), "busy")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.Acquire(ctx, "busy")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestManagerReleasesPartialHoldsOnTimeout(t *testing.T) {
	m := NewManager(50 * time.Millisecond)

	release, err := m.Acquire(context.Background(), "b")
	require.NoError(t, err)

	// "a" gets acquired first (ascending order), then "b" times out; the
	// failed attempt must not leave "a" held.
	_, err = m.Acquire(context.Background(), "b", "a")
	require.ErrorIs(t, err, ErrAcquireTimeout)
	release()

	release, err = m.Acquire(context.Background(), "a")
	require.NoError(t, err)
	release()
}

// Overlapping key sets locked from many goroutines must neither deadlock nor
// interleave inside the exclusive sections.
func TestManagerNoDeadlockOnOverlappingKeys(t *testing.T) {
	m := NewManager(5 * time.Second)

	keysets := [][]string{
		{"c1", "c2"},
		{"c2", "c3"},
		{"c3", "c1"},
		{"c1", "c2", "c3"},
	}

	var inSection sync.Map
	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		keys := keysets[i%len(keysets)]
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := m.Acquire(context.Background(), keys...)
			if !assert.NoError(t, err) {
				return
			}
			defer release()

			for _, k := range keys {
				_, loaded := inSection.LoadOrStore(k, true)
				assert.False(t, loaded, "key %s held twice", k)
			}
			time.Sleep(time.Millisecond)
			for _, k := range keys {
				inSection.Delete(k)
			}
		}()
	}
	wg.Wait()
}
