package history

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Vovarama1992/agro-ai-gateway/internal/apperr"
)

// Recorder writes the interaction record for a completed generation.
type Recorder struct {
	store Store
	log   *zap.Logger
}

func NewRecorder(store Store, log *zap.Logger) *Recorder {
	return &Recorder{store: store, log: log.Named("history")}
}

// Record persists prompt/response for userID and returns the new record id.
// Store failures come back as PersistenceFailure.
func (r *Recorder) Record(ctx context.Context, userID string, kind Kind, prompt, response string) (string, error) {
	rec := &Record{
		ID:       uuid.NewString(),
		UserID:   userID,
		Kind:     kind,
		Prompt:   prompt,
		Response: response,
	}
	if err := r.store.Append(ctx, rec); err != nil {
		r.log.Error("append record failed",
			zap.String("user_id", userID),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return "", apperr.New(apperr.PersistenceFailure, err)
	}
	r.log.Debug("record saved",
		zap.String("record_id", rec.ID),
		zap.String("kind", string(kind)),
		zap.Int("prompt_len", len(prompt)),
		zap.Int("response_len", len(response)),
	)
	return rec.ID, nil
}
