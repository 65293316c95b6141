package identity

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Identity is owned by the user store; the gateway only reads it.
type Identity struct {
	ID            string
	Role          Role
	WalletBalance decimal.Decimal
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

var ErrNotFound = errors.New("identity not found")

// Store gives read-only access to users.
type Store interface {
	FindByID(ctx context.Context, id string) (Identity, error)
}
