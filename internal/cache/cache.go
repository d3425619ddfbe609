// Package cache provides the time-bounded response cache keyed by
// normalized locator. Entries hold post-extraction text, never raw markup.
package cache

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/webdigest/internal/digest"
)

// Defaults for entry lifetime and the background sweep interval.
const (
	DefaultTTL           = 15 * time.Minute
	DefaultSweepInterval = 5 * time.Minute
)

type entry struct {
	content  string
	storedAt time.Time
}

// Store is an in-memory TTL cache with a background sweep. It tolerates
// concurrent reads and writes from parallel invocations; writes are
// whole-entry overwrites, so last-writer-wins is the consistency model.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry

	ttl   time.Duration
	sweep time.Duration
	clock digest.Clock

	startOnce sync.Once
	stopOnce  sync.Once
	stopCh    chan struct{}
	doneCh    chan struct{}

	logger *zap.Logger
}

// Config controls Store behavior. Zero values fall back to the defaults.
type Config struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

// New constructs a Store. The sweep goroutine does not run until Start.
func New(cfg Config, clock digest.Clock, logger *zap.Logger) *Store {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultSweepInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		entries: make(map[string]entry),
		ttl:     cfg.TTL,
		sweep:   cfg.SweepInterval,
		clock:   clock,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
		logger:  logger,
	}
}

// Get returns the stored content for key if its age is within the TTL.
// Expired entries are deleted on read and reported as a miss.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return "", false
	}
	if s.clock.Now().Sub(e.storedAt) > s.ttl {
		s.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have
		// refreshed the entry.
		if cur, ok := s.entries[key]; ok && cur.storedAt.Equal(e.storedAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return "", false
	}
	return e.content, true
}

// Set unconditionally overwrites the entry for key.
func (s *Store) Set(key, content string) {
	s.mu.Lock()
	s.entries[key] = entry{content: content, storedAt: s.clock.Now()}
	s.mu.Unlock()
}

// Len returns the number of live entries, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Start launches the background sweep. Safe to call once per Store.
func (s *Store) Start() {
	s.startOnce.Do(func() {
		go s.run()
	})
}

// Stop halts the sweep, waits for the goroutine to exit, and clears all
// entries. It never blocks process exit: a Store that was never started
// stops immediately.
func (s *Store) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	s.startOnce.Do(func() {
		close(s.doneCh)
	})
	<-s.doneCh
	s.mu.Lock()
	s.entries = make(map[string]entry)
	s.mu.Unlock()
}

func (s *Store) run() {
	defer close(s.doneCh)
	ticker := time.NewTicker(s.sweep)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if removed := s.sweepExpired(); removed > 0 {
				s.logger.Debug("cache sweep removed entries", zap.Int("removed", removed))
			}
		case <-s.stopCh:
			return
		}
	}
}

// sweepExpired deletes every entry whose age exceeds the TTL and returns
// the number removed.
func (s *Store) sweepExpired() int {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, e := range s.entries {
		if now.Sub(e.storedAt) > s.ttl {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}
