package gateway

import (
	"context"

	"github.com/Vovarama1992/agro-ai-gateway/internal/ai"
	"github.com/Vovarama1992/agro-ai-gateway/internal/history"
	"github.com/Vovarama1992/agro-ai-gateway/internal/identity"
	"github.com/Vovarama1992/agro-ai-gateway/internal/prompt"
)

// Request is one generation request. Only the payload member matching Kind
// is read.
type Request struct {
	Kind         string             `json:"kind"`
	Language     string             `json:"language"`
	Text         string             `json:"text,omitempty"`
	PriorContext string             `json:"priorContext,omitempty"`
	Farm         *prompt.FarmFields `json:"farm,omitempty"`
	Soil         *prompt.SoilFields `json:"soil,omitempty"`
	Crop         *prompt.CropFields `json:"crop,omitempty"`

	IdempotencyKey string `json:"-"`
}

type Response struct {
	MainText    string   `json:"mainText"`
	Suggestions []string `json:"suggestions"`
	DurationMs  int64    `json:"durationMs"`
	RecordID    string   `json:"recordId,omitempty"`
	Recorded    bool     `json:"recorded"`
}

// Service orchestrates generation runs. The caller identity comes from ctx.
type Service interface {
	Generate(ctx context.Context, req Request) (Response, error)
	ListPrompts(ctx context.Context, f history.ListFilter) ([]history.Record, error)
}

type QuotaChecker interface {
	Check(ctx context.Context, userID string) (identity.Identity, error)
}

type Invoker interface {
	Invoke(ctx context.Context, req ai.Request) (ai.Result, error)
}

type Recorder interface {
	Record(ctx context.Context, userID string, kind history.Kind, prompt, response string) (string, error)
}
