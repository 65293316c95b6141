package history

import (
	"context"
	"strings"
	"time"
)

type Kind string

const (
	KindAssistant    Kind = "ASSISTANT"
	KindFarmAnalyzer Kind = "FARM_ANALYZER"
	KindCropAnalyzer Kind = "CROP_ANALYZER"
	KindSoilAnalyzer Kind = "SOIL_ANALYZER"
)

var kinds = []Kind{KindAssistant, KindFarmAnalyzer, KindCropAnalyzer, KindSoilAnalyzer}

// ParseKind accepts any casing of a known kind.
func ParseKind(s string) (Kind, bool) {
	s = strings.TrimSpace(s)
	for _, k := range kinds {
		if strings.EqualFold(s, string(k)) {
			return k, true
		}
	}
	return "", false
}

// Record is one successful generation. Written once, never updated.
type Record struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Kind      Kind      `json:"kind"`
	Prompt    string    `json:"prompt"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"createdAt"`
}

type ListFilter struct {
	Kind  Kind
	Query string
	Limit int
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

func (f ListFilter) limit() int {
	switch {
	case f.Limit <= 0:
		return DefaultListLimit
	case f.Limit > MaxListLimit:
		return MaxListLimit
	default:
		return f.Limit
	}
}

// Store persists interaction records.
type Store interface {
	Count(ctx context.Context, userID string) (int, error)
	// Append assigns CreatedAt.
	Append(ctx context.Context, rec *Record) error
	// List returns records newest first.
	List(ctx context.Context, userID string, f ListFilter) ([]Record, error)
}
