package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/storeshift/hris-backend-go/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

// migrationPath is relative to this package directory
var migrationPath = filepath.Join("..", "..", "..", "..", "migrations", "001_init.sql")

var tables = []string{
	"audit_trails",
	"leave_requests",
	"roster_entries",
	"rosters",
	"employees",
	"branches",
}

// newTestDB connects to TEST_DATABASE_URL, applies the schema and empties
// every table. Tests are skipped when the variable is unset.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 10, MinConns: 1})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	schema, err := os.ReadFile(migrationPath)
	require.NoError(t, err)
	_, err = db.Exec(ctx, string(schema))
	require.NoError(t, err)

	require.NoError(t, truncateAll(ctx, db))
	return db
}

func truncateAll(ctx context.Context, db *database.DB) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, table := range tables {
		if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// seedDirectory inserts branch STR_1 and employees EMP_1, EMP_2 with a
// balance of 12 days.
func seedDirectory(t *testing.T, db *database.DB) {
	t.Helper()
	ctx := context.Background()

	_, err := db.Exec(ctx, `
		INSERT INTO branches (id, name, latitude, longitude, timezone)
		VALUES ('STR_1', 'Kemang', -6.2607, 106.8137, 'Asia/Jakarta')
	`)
	require.NoError(t, err)

	_, err = db.Exec(ctx, `
		INSERT INTO employees (id, name, branch_id, role, annual_leave_balance)
		VALUES ('EMP_1', 'Andi', 'STR_1', 'employee', 12),
		       ('EMP_2', 'Dewi', 'STR_1', 'employee', 12)
	`)
	require.NoError(t, err)
}
