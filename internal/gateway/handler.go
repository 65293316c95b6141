package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Vovarama1992/agro-ai-gateway/internal/apperr"
	"github.com/Vovarama1992/agro-ai-gateway/internal/history"
)

// MaxBodyBytes bounds request bodies; crop images arrive as data URIs.
const MaxBodyBytes = 10 << 20

const IdempotencyHeader = "Idempotency-Key"

type Handler struct {
	svc Service
	log *zap.Logger
}

func NewHandler(svc Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log.Named("http")}
}

// Generate reads the kind from the body.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, "")
}

// GenerateKind fixes the kind from the route.
func (h *Handler) GenerateKind(kind history.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.generate(w, r, kind)
	}
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request, kind history.Kind) {
	var req Request
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apperr.WriteHTTP(w, apperr.Msg(apperr.InvalidInput, "request body too large"))
			return
		}
		h.log.Debug("decode request failed", zap.Error(err))
		apperr.WriteHTTP(w, apperr.New(apperr.InvalidInput, err))
		return
	}
	if kind != "" {
		req.Kind = string(kind)
	}
	req.IdempotencyKey = r.Header.Get(IdempotencyHeader)

	resp, err := h.svc.Generate(r.Context(), req)
	if err != nil {
		apperr.WriteHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListPrompts serves GET /prompts?kind=&q=&limit=.
func (h *Handler) ListPrompts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := history.ListFilter{Query: strings.TrimSpace(q.Get("q"))}

	if raw := q.Get("kind"); raw != "" {
		kind, ok := history.ParseKind(raw)
		if !ok {
			apperr.WriteHTTP(w, apperr.Msg(apperr.InvalidInput, "unknown kind "+strconv.Quote(raw)))
			return
		}
		f.Kind = kind
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			apperr.WriteHTTP(w, apperr.Msg(apperr.InvalidInput, "limit must be a non-negative integer"))
			return
		}
		f.Limit = n
	}

	recs, err := h.svc.ListPrompts(r.Context(), f)
	if err != nil {
		apperr.WriteHTTP(w, err)
		return
	}
	if recs == nil {
		recs = []history.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"prompts": recs})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
