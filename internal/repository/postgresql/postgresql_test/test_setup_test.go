package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/evermoment/evermoment-backend-go/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

var (
	testDB      *database.DB
	testDBErr   error
	testDBSetup sync.Once
)

// newTestDatabase connects to TEST_DATABASE_URL, applies the migrations
// once and truncates every table. Tests are skipped without a database.
func newTestDatabase(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	testDBSetup.Do(func() {
		ctx := context.Background()
		testDB, testDBErr = database.NewPostgreSQLDB(ctx, dsn, database.PoolConfig{MaxConns: 16})
		if testDBErr != nil {
			return
		}
		testDBErr = testDB.Migrate(ctx)
	})
	require.NoError(t, testDBErr)

	require.NoError(t, truncateAllTables(context.Background(), testDB))
	return testDB
}

func truncateAllTables(ctx context.Context, db *database.DB) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, table := range []string{"payments", "rsvps", "invitations"} {
		if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}
