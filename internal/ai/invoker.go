package ai

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Vovarama1992/agro-ai-gateway/internal/apperr"
)

const DefaultDeadline = 25 * time.Second

type Result struct {
	Text     string
	Duration time.Duration
}

// Invoker makes exactly one provider call per Invoke, bounded by a deadline.
// It never retries.
type Invoker struct {
	provider Provider
	deadline time.Duration
	log      *zap.Logger
}

func NewInvoker(provider Provider, deadline time.Duration, log *zap.Logger) *Invoker {
	if deadline <= 0 {
		deadline = DefaultDeadline
	}
	return &Invoker{provider: provider, deadline: deadline, log: log.Named("invoker")}
}

func (i *Invoker) Deadline() time.Duration { return i.deadline }

// Invoke races the provider call against the deadline. When the deadline
// fires first the call's context is cancelled and its late result, if any,
// is dropped.
func (i *Invoker) Invoke(ctx context.Context, req Request) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, i.deadline)
	defer cancel()

	type outcome struct {
		text string
		err  error
	}
	done := make(chan outcome, 1)
	start := time.Now()

	go func() {
		var o outcome
		if req.ImageRef != "" {
			o.text, o.err = i.provider.CompleteWithImage(ctx, req.System, req.User, req.ImageRef)
		} else {
			o.text, o.err = i.provider.Complete(ctx, req.System, req.User)
		}
		done <- o
	}()

	select {
	case o := <-done:
		elapsed := time.Since(start)
		if o.err == nil && ctx.Err() != nil {
			o.err = ctx.Err()
		}
		if o.err != nil {
			return Result{}, i.fail(o.err, elapsed, req)
		}
		i.log.Info("model call completed",
			zap.Int64("duration_ms", elapsed.Milliseconds()),
			zap.Int("response_len", len(o.text)),
			zap.Bool("image", req.ImageRef != ""),
		)
		return Result{Text: o.text, Duration: elapsed}, nil

	case <-ctx.Done():
		return Result{}, i.fail(ctx.Err(), time.Since(start), req)
	}
}

func (i *Invoker) fail(err error, elapsed time.Duration, req Request) error {
	kind := Classify(err)
	i.log.Warn("model call failed",
		zap.String("error_kind", string(kind)),
		zap.Int64("duration_ms", elapsed.Milliseconds()),
		zap.Duration("deadline", i.deadline),
		zap.Int("system_len", len(req.System)),
		zap.Int("user_len", len(req.User)),
		zap.Error(err),
	)
	return apperr.New(kind, err)
}
