package repository

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"jokes-api/internal/database"
)

func TestPostgresStoreContract(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.New(ctx, url, database.PoolOptions{MaxConns: 4, MinConns: 1})
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(ctx))

	runStoreContract(t, NewUserRepository(db.Pool), NewJokeRepository(db.Pool))
}
