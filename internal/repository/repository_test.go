package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// openTestDB connects to POSTGRES_URI and makes sure the schema exists. Tests
// share the database, so each one works on rows it created itself.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	uri := os.Getenv("POSTGRES_URI")
	if uri == "" {
		t.Skip("Skipping test - no database connection configured")
	}

	db, err := sql.Open("postgres", uri)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, db.PingContext(ctx))
	require.NoError(t, EnsureSchema(ctx, db))
	return db
}
