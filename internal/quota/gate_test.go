package quota

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Vovarama1992/agro-ai-gateway/internal/apperr"
	"github.com/Vovarama1992/agro-ai-gateway/internal/identity"
)

// blockingCounter waits for ctx like a database read would.
type blockingCounter struct{}

func (blockingCounter) Count(ctx context.Context, _ string) (int, error) {
	<-ctx.Done()
	return 0, ctx.Err()
}

type fixedCounter struct {
	n   int
	err error
}

func (c fixedCounter) Count(context.Context, string) (int, error) { return c.n, c.err }

func TestAllow(t *testing.T) {
	cases := []struct {
		name    string
		role    identity.Role
		used    int
		balance int64
		want    bool
	}{
		{"admin ignores usage", identity.RoleAdmin, 100, 0, true},
		{"under free tier", identity.RoleUser, 2, 0, true},
		{"free tier exhausted", identity.RoleUser, 3, 0, false},
		{"paid user", identity.RoleUser, 10, 1, true},
		{"negative balance", identity.RoleUser, 3, -5, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id := identity.Identity{ID: "u", Role: tc.role, WalletBalance: decimal.NewFromInt(tc.balance)}
			assert.Equal(t, tc.want, Allow(id, tc.used, DefaultFreeTierLimit))
		})
	}
}

func TestGateCheck(t *testing.T) {
	users := identity.NewMemoryStore(
		identity.Identity{ID: "free", Role: identity.RoleUser},
		identity.Identity{ID: "paid", Role: identity.RoleUser, WalletBalance: decimal.RequireFromString("0.01")},
	)
	ctx := context.Background()

	t.Run("denied", func(t *testing.T) {
		g := NewGate(users, fixedCounter{n: 3}, 0, zap.NewNop())
		_, err := g.Check(ctx, "free")
		require.Error(t, err)
		assert.Equal(t, apperr.QuotaExceeded, apperr.KindOf(err))
		assert.ErrorIs(t, err, ErrFreeTierExhausted)
	})

	t.Run("paid passes", func(t *testing.T) {
		g := NewGate(users, fixedCounter{n: 50}, 0, zap.NewNop())
		id, err := g.Check(ctx, "paid")
		require.NoError(t, err)
		assert.Equal(t, "paid", id.ID)
	})

	t.Run("identity not found", func(t *testing.T) {
		g := NewGate(users, fixedCounter{n: 0}, 0, zap.NewNop())
		_, err := g.Check(ctx, "ghost")
		assert.Equal(t, apperr.IdentityNotFound, apperr.KindOf(err))
	})

	t.Run("count failure", func(t *testing.T) {
		g := NewGate(users, fixedCounter{err: errors.New("db down")}, 0, zap.NewNop())
		_, err := g.Check(ctx, "free")
		assert.Equal(t, apperr.Unknown, apperr.KindOf(err))
	})

	t.Run("caller cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		g := NewGate(users, blockingCounter{}, 0, zap.NewNop())
		_, err := g.Check(cctx, "free")
		assert.Equal(t, apperr.Canceled, apperr.KindOf(err))
		assert.Equal(t, apperr.StatusClientClosedRequest, apperr.KindOf(err).HTTPStatus())
	})

	t.Run("custom limit", func(t *testing.T) {
		g := NewGate(users, fixedCounter{n: 4}, 5, zap.NewNop())
		_, err := g.Check(ctx, "free")
		assert.NoError(t, err)
	})
}
