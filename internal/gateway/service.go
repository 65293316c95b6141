package gateway

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Vovarama1992/agro-ai-gateway/internal/ai"
	"github.com/Vovarama1992/agro-ai-gateway/internal/apperr"
	"github.com/Vovarama1992/agro-ai-gateway/internal/followup"
	"github.com/Vovarama1992/agro-ai-gateway/internal/history"
	"github.com/Vovarama1992/agro-ai-gateway/internal/idempotency"
	"github.com/Vovarama1992/agro-ai-gateway/internal/identity"
	"github.com/Vovarama1992/agro-ai-gateway/internal/metrics"
	"github.com/Vovarama1992/agro-ai-gateway/internal/prompt"
)

const invalidKindLabel = "INVALID"

type Deps struct {
	Quota    QuotaChecker
	Composer *prompt.Composer
	Invoker  Invoker
	Recorder Recorder
	Records  history.Store
	// Idempotency is optional; without it Idempotency-Key is ignored.
	Idempotency idempotency.Store
	Metrics     *metrics.Gateway
	// StrictPersistence turns a failed record write into a failed request.
	// Otherwise the answer is returned with Recorded=false.
	StrictPersistence bool
	Log               *zap.Logger
}

type service struct {
	quota    QuotaChecker
	composer *prompt.Composer
	invoker  Invoker
	recorder Recorder
	records  history.Store
	idem     idempotency.Store
	metrics  *metrics.Gateway
	strict   bool
	log      *zap.Logger
}

func NewService(d Deps) Service {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &service{
		quota:    d.Quota,
		composer: d.Composer,
		invoker:  d.Invoker,
		recorder: d.Recorder,
		records:  d.Records,
		idem:     d.Idempotency,
		metrics:  d.Metrics,
		strict:   d.StrictPersistence,
		log:      log.Named("gateway"),
	}
}

// Generate runs auth, idempotency claim, quota, compose, invoke, parse and
// record in that order. Any failure ends the run; nothing is retried and
// nothing is recorded unless the model call succeeded.
func (s *service) Generate(ctx context.Context, req Request) (resp Response, err error) {
	kind, kindOK := history.ParseKind(req.Kind)
	label := string(kind)
	if !kindOK {
		label = invalidKindLabel
	}
	defer func() {
		if err != nil {
			s.metrics.Request(label, string(apperr.KindOf(err)))
		}
	}()

	userID, ok := identity.UserIDFromContext(ctx)
	if !ok {
		return Response{}, apperr.Msg(apperr.Unauthenticated, "no authenticated identity")
	}
	log := s.log.With(zap.String("user_id", userID), zap.String("kind", label))

	if !kindOK {
		return Response{}, apperr.Msg(apperr.InvalidInput, fmt.Sprintf("unknown kind %q", req.Kind))
	}
	strat := strategies[kind]

	fingerprint := requestFingerprint(kind, req)
	claimKey, replay, err := s.claim(ctx, userID, kind, req.IdempotencyKey, fingerprint, log)
	if err != nil {
		return Response{}, err
	}
	if replay != nil {
		s.metrics.Request(label, metrics.OutcomeReplayed)
		return *replay, nil
	}
	if claimKey != "" {
		defer func() { s.settle(ctx, claimKey, fingerprint, resp, err, log) }()
	}

	if _, err := s.quota.Check(ctx, userID); err != nil {
		return Response{}, err
	}

	comp, err := strat.compose(s.composer, req)
	if err != nil {
		log.Info("compose rejected", zap.Error(err))
		return Response{}, err
	}

	res, err := s.invoker.Invoke(ctx, ai.Request{System: comp.System, User: comp.User, ImageRef: comp.ImageRef})
	if err != nil {
		return Response{}, err
	}
	s.metrics.ModelDuration(label, res.Duration)

	resp = Response{
		MainText:    res.Text,
		Suggestions: []string{},
		DurationMs:  res.Duration.Milliseconds(),
	}
	if strat.followUps {
		resp.MainText, resp.Suggestions = followup.Parse(res.Text)
	}

	recordID, err := s.recorder.Record(ctx, userID, kind, strat.recordPrompt(req), resp.MainText)
	if err != nil {
		s.metrics.RecordFailure()
		if s.strict {
			return Response{}, err
		}
		log.Warn("answer returned without record", zap.Error(err))
		err = nil
	} else {
		resp.RecordID = recordID
		resp.Recorded = true
	}

	s.metrics.Request(label, metrics.OutcomeSuccess)
	log.Info("generation completed",
		zap.Int64("duration_ms", resp.DurationMs),
		zap.Int("suggestions", len(resp.Suggestions)),
		zap.Bool("recorded", resp.Recorded),
	)
	return resp, nil
}

// claim returns the scoped key the caller now owns, or a stored response to
// replay. A key reused for a different request is rejected. An unreachable
// idempotency store does not block generation.
func (s *service) claim(ctx context.Context, userID string, kind history.Kind, key, fingerprint string, log *zap.Logger) (string, *Response, error) {
	key = strings.TrimSpace(key)
	if s.idem == nil || key == "" {
		return "", nil, nil
	}
	scoped := userID + ":" + string(kind) + ":" + key

	entry, err := s.idem.Begin(ctx, scoped, fingerprint)
	if err != nil {
		log.Warn("idempotency store unavailable, continuing without claim", zap.Error(err))
		return "", nil, nil
	}
	if entry.State != idempotency.StateNew && entry.Fingerprint != "" && entry.Fingerprint != fingerprint {
		log.Info("idempotency key reused for a different request")
		return "", nil, apperr.Msg(apperr.InvalidInput, "idempotency key was used for a different request")
	}
	switch entry.State {
	case idempotency.StatePending:
		return "", nil, apperr.Msg(apperr.DuplicateRequest, "request with this key is in flight")
	case idempotency.StateCompleted:
		var stored Response
		if err := json.Unmarshal(entry.Payload, &stored); err != nil {
			log.Error("stored idempotent response unreadable", zap.Error(err))
			return "", nil, apperr.New(apperr.Unknown, err)
		}
		log.Info("replaying idempotent response", zap.String("record_id", stored.RecordID))
		return "", &stored, nil
	default:
		return scoped, nil, nil
	}
}

// settle completes or releases a claim. It runs detached from ctx so a
// cancelled caller cannot leave the key pending until it expires.
func (s *service) settle(ctx context.Context, key, fingerprint string, resp Response, err error, log *zap.Logger) {
	ctx = context.WithoutCancel(ctx)
	if err != nil {
		if abortErr := s.idem.Abort(ctx, key); abortErr != nil {
			log.Warn("idempotency abort failed", zap.Error(abortErr))
		}
		return
	}
	payload, mErr := json.Marshal(resp)
	if mErr == nil {
		mErr = s.idem.Complete(ctx, key, fingerprint, payload)
	}
	if mErr != nil {
		log.Warn("idempotency complete failed", zap.Error(mErr))
	}
}

// requestFingerprint hashes the request as decoded, with the kind in its
// canonical form. The idempotency key itself is not part of it.
func requestFingerprint(kind history.Kind, req Request) string {
	req.Kind = string(kind)
	b, err := json.Marshal(req)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func (s *service) ListPrompts(ctx context.Context, f history.ListFilter) ([]history.Record, error) {
	userID, ok := identity.UserIDFromContext(ctx)
	if !ok {
		return nil, apperr.Msg(apperr.Unauthenticated, "no authenticated identity")
	}
	recs, err := s.records.List(ctx, userID, f)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, apperr.New(apperr.Canceled, err)
		}
		s.log.Error("list prompts failed", zap.String("user_id", userID), zap.Error(err))
		return nil, apperr.New(apperr.Unknown, err)
	}
	return recs, nil
}
