package repo_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/eld-logbook/internal/domain"
	"github.com/pkordes/eld-logbook/internal/repo"
	"github.com/pkordes/eld-logbook/migrations"
	"github.com/pkordes/eld-logbook/testutil"
)

// TestMain applies all pending migrations to the test database once for the
// whole test binary so individual tests never need to think about schema state.
func TestMain(m *testing.M) {
	if os.Getenv(testutil.DSNEnv) == "" {
		// No test DB configured; every test skips itself via testutil.
		os.Exit(m.Run())
	}

	db := testutil.MustOpenSQLDB(os.Getenv(testutil.DSNEnv))
	if _, err := migrations.Up(context.Background(), db); err != nil {
		db.Close()
		log.Fatalf("TestMain: run migrations: %v", err)
	}
	db.Close()

	os.Exit(m.Run())
}

// createDriver inserts a driver with a unique license number and returns it.
func createDriver(t *testing.T, tx pgx.Tx, name string) domain.Driver {
	t.Helper()
	d, err := repo.NewDriverRepo(tx).Create(context.Background(), domain.Driver{
		Name:          name,
		LicenseNumber: "CDL-" + name + "-" + t.Name(),
	})
	require.NoError(t, err)
	return d
}
