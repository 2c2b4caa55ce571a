package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lumenfield/clientintel/internal/intel"
)

const janitorInterval = time.Minute

type memoryEntry struct {
	profile   *intel.ClientProfile
	expiresAt time.Time
}

// MemoryStore is the default Store when Redis is not configured. Entries
// live in process memory and are swept by a janitor goroutine. Profiles are
// deep-copied on Put and Get, matching RedisStore's serialization boundary:
// callers mutate their own snapshot, never the stored one.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	done    chan struct{}
	once    sync.Once
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	s := &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	go s.janitor()
	return s
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (*intel.ClientProfile, error) {
	if sessionID == "" {
		return nil, ErrNotFound
	}
	s.mu.RLock()
	e, ok := s.entries[sessionID]
	s.mu.RUnlock()
	if !ok || time.Now().After(e.expiresAt) {
		return nil, ErrNotFound
	}
	return cloneProfile(e.profile)
}

func (s *MemoryStore) Put(_ context.Context, profile *intel.ClientProfile) error {
	if profile == nil || profile.SessionID == "" {
		return errors.New("session: profile must have a session id")
	}
	stored, err := cloneProfile(profile)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.entries[profile.SessionID] = memoryEntry{
		profile:   stored,
		expiresAt: time.Now().Add(s.ttl),
	}
	s.mu.Unlock()
	return nil
}

func cloneProfile(p *intel.ClientProfile) (*intel.ClientProfile, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("session: encode profile %s: %w", p.SessionID, err)
	}
	var out intel.ClientProfile
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("session: decode profile %s: %w", p.SessionID, err)
	}
	return &out, nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.entries, sessionID)
	s.mu.Unlock()
	return nil
}

// Close stops the janitor. Safe to call more than once.
func (s *MemoryStore) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *MemoryStore) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for id, e := range s.entries {
				if now.After(e.expiresAt) {
					delete(s.entries, id)
				}
			}
			s.mu.Unlock()
		}
	}
}
