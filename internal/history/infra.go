package history

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
)

const Schema = `
CREATE TABLE IF NOT EXISTS prompts (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	type       TEXT NOT NULL,
	prompt     TEXT NOT NULL,
	response   TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp()
);
CREATE INDEX IF NOT EXISTS prompts_user_created_idx ON prompts (user_id, created_at DESC);
`

type repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) Store {
	return &repo{db: db}
}

// EnsureSchema creates the prompts table when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, Schema)
	return err
}

func (r *repo) Count(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT count(*) FROM prompts WHERE user_id = $1
	`, userID).Scan(&n)
	return n, err
}

func (r *repo) Append(ctx context.Context, rec *Record) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO prompts (id, user_id, type, prompt, response)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`,
		rec.ID,
		rec.UserID,
		string(rec.Kind),
		rec.Prompt,
		rec.Response,
	).Scan(&rec.CreatedAt)
}

func (r *repo) List(ctx context.Context, userID string, f ListFilter) ([]Record, error) {
	var sb strings.Builder
	args := []any{userID}
	sb.WriteString(`
		SELECT id, user_id, type, prompt, response, created_at
		FROM prompts
		WHERE user_id = $1`)

	if f.Kind != "" {
		args = append(args, string(f.Kind))
		sb.WriteString(" AND type = $" + strconv.Itoa(len(args)))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		args = append(args, "%"+escapeLike(q)+"%")
		n := strconv.Itoa(len(args))
		sb.WriteString(" AND (prompt ILIKE $" + n + " OR response ILIKE $" + n + ")")
	}
	args = append(args, f.limit())
	sb.WriteString(" ORDER BY created_at DESC LIMIT $" + strconv.Itoa(len(args)))

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		var rec Record
		var kind string
		if err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&kind,
			&rec.Prompt,
			&rec.Response,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		rec.Kind = Kind(kind)
		out = append(out, rec)
	}

	return out, rows.Err()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
