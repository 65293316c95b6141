package idempotency

import (
	"context"
	"errors"
	"time"
)

const (
	// DefaultTTL is how long a completed response stays replayable.
	DefaultTTL = 24 * time.Hour
	// DefaultPendingTTL bounds an in-flight claim so a crashed run frees its key.
	DefaultPendingTTL = time.Minute
)

type State string

const (
	StateNew       State = "new"
	StatePending   State = "pending"
	StateCompleted State = "completed"
)

var ErrEmptyKey = errors.New("idempotency key is empty")

// Entry is what Begin found for a key. Fingerprint identifies the request
// that claimed the key; Payload is set only for StateCompleted.
type Entry struct {
	State       State  `json:"state"`
	Fingerprint string `json:"fingerprint,omitempty"`
	Payload     []byte `json:"payload,omitempty"`
}

// Store claims request keys so a retried request is answered once.
// Begin returns StateNew when the caller now owns the key. Owners must
// finish with Complete or Abort.
type Store interface {
	Begin(ctx context.Context, key, fingerprint string) (Entry, error)
	Complete(ctx context.Context, key, fingerprint string, payload []byte) error
	Abort(ctx context.Context, key string) error
}

// TTLs configures how long claims live.
type TTLs struct {
	Pending   time.Duration
	Completed time.Duration
}

func (t TTLs) withDefaults() TTLs {
	if t.Pending <= 0 {
		t.Pending = DefaultPendingTTL
	}
	if t.Completed <= 0 {
		t.Completed = DefaultTTL
	}
	return t
}
