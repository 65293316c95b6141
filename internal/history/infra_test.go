package history

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, EnsureSchema(context.Background(), db))
	return db
}

func TestRepoRoundTrip(t *testing.T) {
	db := openTestDB(t)
	r := NewRepo(db)
	ctx := context.Background()
	userID := "it-" + uuid.NewString()
	t.Cleanup(func() { _, _ = db.Exec(`DELETE FROM prompts WHERE user_id = $1`, userID) })

	first := &Record{ID: uuid.NewString(), UserID: userID, Kind: KindAssistant, Prompt: "maize 50%", Response: "ok"}
	second := &Record{ID: uuid.NewString(), UserID: userID, Kind: KindSoilAnalyzer, Prompt: "{}", Response: "lime"}
	require.NoError(t, r.Append(ctx, first))
	require.NoError(t, r.Append(ctx, second))
	assert.False(t, first.CreatedAt.IsZero())

	n, err := r.Count(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err := r.List(ctx, userID, ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)

	got, err := r.List(ctx, userID, ListFilter{Kind: KindAssistant, Query: "50%"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, first.ID, got[0].ID)
}
