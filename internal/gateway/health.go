package gateway

import (
	"context"
	"net/http"
	"time"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type CredentialReporter interface {
	HasCredentials() bool
	Model() string
}

type HealthReport struct {
	Status      string `json:"status"`
	Database    string `json:"database"`
	Credentials bool   `json:"credentials"`
	Model       string `json:"model"`
}

// Health reports storage reachability and provider configuration. It never
// calls the model.
type Health struct {
	db       Pinger
	provider CredentialReporter
	timeout  time.Duration
}

func NewHealth(db Pinger, provider CredentialReporter) *Health {
	return &Health{db: db, provider: provider, timeout: 2 * time.Second}
}

func (h *Health) Report(ctx context.Context) HealthReport {
	rep := HealthReport{
		Status:      "healthy",
		Database:    "ok",
		Credentials: h.provider.HasCredentials(),
		Model:       h.provider.Model(),
	}
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	if err := h.db.PingContext(ctx); err != nil {
		rep.Database = "unreachable"
		rep.Status = "unhealthy"
	}
	if !rep.Credentials {
		rep.Status = "unhealthy"
	}
	return rep
}

func (h *Health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rep := h.Report(r.Context())
	status := http.StatusOK
	if rep.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, rep)
}
