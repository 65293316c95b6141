package history

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-process Store for tests and local runs.
type MemoryStore struct {
	mu      sync.Mutex
	records []Record
	last    time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Count(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.records {
		if r.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) Append(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	if !now.After(s.last) {
		now = s.last.Add(time.Microsecond)
	}
	s.last = now
	rec.CreatedAt = now
	s.records = append(s.records, *rec)
	return nil
}

func (s *MemoryStore) List(_ context.Context, userID string, f ListFilter) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := strings.ToLower(strings.TrimSpace(f.Query))
	limit := f.limit()

	out := []Record{}
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		r := s.records[i]
		if r.UserID != userID {
			continue
		}
		if f.Kind != "" && r.Kind != f.Kind {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(r.Prompt), q) && !strings.Contains(strings.ToLower(r.Response), q) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// All returns every stored record in insertion order.
func (s *MemoryStore) All() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Record(nil), s.records...)
}
