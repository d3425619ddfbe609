package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// fakeClock lets tests advance time without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1_700_000_000, 0).UTC()}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestSetThenGetRoundTrip(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	store := New(Config{}, clock, nil)

	store.Set("https://example.com/docs", "extracted text")
	got, ok := store.Get("https://example.com/docs")
	require.True(t, ok)
	require.Equal(t, "extracted text", got)
}

func TestGetAfterTTLExpiresAndRemoves(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	store := New(Config{TTL: 15 * time.Minute}, clock, nil)

	store.Set("key", "value")
	clock.advance(15*time.Minute + time.Second)

	_, ok := store.Get("key")
	require.False(t, ok)
	require.Zero(t, store.Len(), "expired entry should be removed on read")
}

func TestGetWithinTTLSucceeds(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	store := New(Config{TTL: 15 * time.Minute}, clock, nil)

	store.Set("key", "value")
	clock.advance(14 * time.Minute)

	got, ok := store.Get("key")
	require.True(t, ok)
	require.Equal(t, "value", got)
}

func TestSetOverwritesWholeEntry(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	store := New(Config{}, clock, nil)

	store.Set("key", "first")
	clock.advance(10 * time.Minute)
	store.Set("key", "second")
	clock.advance(10 * time.Minute)

	// The rewrite refreshed storedAt, so the entry is still live.
	got, ok := store.Get("key")
	require.True(t, ok)
	require.Equal(t, "second", got)
}

func TestSweepRemovesExpiredEntries(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	store := New(Config{TTL: 15 * time.Minute, SweepInterval: time.Minute}, clock, nil)

	store.Set("old", "v1")
	clock.advance(20 * time.Minute)
	store.Set("fresh", "v2")

	removed := store.sweepExpired()
	require.Equal(t, 1, removed)
	require.Equal(t, 1, store.Len())

	_, ok := store.Get("fresh")
	require.True(t, ok)
}

func TestStartStopClearsEntriesAndStopsSweeper(t *testing.T) {
	defer goleak.VerifyNone(t)

	clock := newFakeClock()
	store := New(Config{TTL: time.Minute, SweepInterval: 10 * time.Millisecond}, clock, nil)
	store.Start()

	store.Set("key", "value")
	store.Stop()

	require.Zero(t, store.Len(), "stop should clear the cache")

	// Stop is idempotent and must not block.
	store.Stop()
}

func TestStopWithoutStartDoesNotBlock(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	store := New(Config{}, clock, nil)
	done := make(chan struct{})
	go func() {
		store.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked for a never-started store")
	}
}

func TestConcurrentAccess(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	store := New(Config{}, clock, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				store.Set("shared", "value")
				store.Get("shared")
			}
		}()
	}
	wg.Wait()

	got, ok := store.Get("shared")
	require.True(t, ok)
	require.Equal(t, "value", got)
}
