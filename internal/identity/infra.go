package identity

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) Store {
	return &repo{db: db}
}

func (r *repo) FindByID(ctx context.Context, id string) (Identity, error) {
	var (
		out     Identity
		role    sql.NullString
		balance decimal.NullDecimal
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, role, wallet_balance
		FROM users
		WHERE id = $1
	`, id).Scan(&out.ID, &role, &balance)
	if errors.Is(err, sql.ErrNoRows) {
		return Identity{}, ErrNotFound
	}
	if err != nil {
		return Identity{}, err
	}

	out.Role = RoleUser
	if strings.EqualFold(role.String, string(RoleAdmin)) {
		out.Role = RoleAdmin
	}
	if balance.Valid {
		out.WalletBalance = balance.Decimal
	}
	return out, nil
}
