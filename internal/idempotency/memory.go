package idempotency

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	entry   Entry
	expires time.Time
}

// MemoryStore is the single-process fallback used when no Redis is configured.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     TTLs
	now     func() time.Time
	entries map[string]memoryEntry
}

func NewMemoryStore(ttl TTLs) *MemoryStore {
	return &MemoryStore{ttl: ttl.withDefaults(), now: time.Now, entries: map[string]memoryEntry{}}
}

func (s *MemoryStore) Begin(_ context.Context, key, fingerprint string) (Entry, error) {
	if key == "" {
		return Entry{}, ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, ok := s.entries[key]; ok && now.Before(e.expires) {
		return e.entry, nil
	}
	s.entries[key] = memoryEntry{
		entry:   Entry{State: StatePending, Fingerprint: fingerprint},
		expires: now.Add(s.ttl.Pending),
	}
	return Entry{State: StateNew, Fingerprint: fingerprint}, nil
}

func (s *MemoryStore) Complete(_ context.Context, key, fingerprint string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{
		entry: Entry{
			State:       StateCompleted,
			Fingerprint: fingerprint,
			Payload:     append([]byte(nil), payload...),
		},
		expires: s.now().Add(s.ttl.Completed),
	}
	return nil
}

func (s *MemoryStore) Abort(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
