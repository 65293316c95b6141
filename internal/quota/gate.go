package quota

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Vovarama1992/agro-ai-gateway/internal/apperr"
	"github.com/Vovarama1992/agro-ai-gateway/internal/identity"
)

const DefaultFreeTierLimit = 3

var ErrFreeTierExhausted = errors.New("free tier limit reached")

// Counter is the slice of the history store the gate needs.
type Counter interface {
	Count(ctx context.Context, userID string) (int, error)
}

// Allow is the free-tier rule: admins always pass, otherwise the caller
// needs either remaining free requests or a positive wallet balance.
func Allow(id identity.Identity, used, limit int) bool {
	return id.IsAdmin() || used < limit || id.WalletBalance.IsPositive()
}

type Gate struct {
	identities identity.Store
	counter    Counter
	limit      int
	log        *zap.Logger
}

func NewGate(identities identity.Store, counter Counter, limit int, log *zap.Logger) *Gate {
	if limit <= 0 {
		limit = DefaultFreeTierLimit
	}
	return &Gate{identities: identities, counter: counter, limit: limit, log: log.Named("quota")}
}

// Check loads the identity and its usage count and applies Allow.
//
// The check is not transactional with the later record append: concurrent
// requests from one user can all pass at count == limit-1. Accepted as a
// best-effort bound.
func (g *Gate) Check(ctx context.Context, userID string) (identity.Identity, error) {
	var (
		id   identity.Identity
		used int
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		id, err = g.identities.FindByID(egCtx, userID)
		return err
	})
	eg.Go(func() error {
		var err error
		used, err = g.counter.Count(egCtx, userID)
		return err
	})
	if err := eg.Wait(); err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			g.log.Warn("identity not found", zap.String("user_id", userID))
			return identity.Identity{}, apperr.New(apperr.IdentityNotFound, err)
		}
		if errors.Is(err, context.Canceled) {
			g.log.Info("quota lookup cancelled by caller", zap.String("user_id", userID))
			return identity.Identity{}, apperr.New(apperr.Canceled, err)
		}
		g.log.Error("quota lookup failed", zap.String("user_id", userID), zap.Error(err))
		return identity.Identity{}, apperr.New(apperr.Unknown, err)
	}

	if !Allow(id, used, g.limit) {
		g.log.Info("free tier limit reached",
			zap.String("user_id", userID),
			zap.Int("used", used),
			zap.String("wallet_balance", id.WalletBalance.String()),
		)
		return id, apperr.New(apperr.QuotaExceeded, ErrFreeTierExhausted)
	}
	return id, nil
}
