package db

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"

	"github.com/udisondev/shire/internal/testutil"
)

// The container is started on first use so SQLite tests run without Docker.
var (
	pgOnce      sync.Once
	pgDB        *DB
	pgErr       error
	pgTerminate func()
)

func TestMain(m *testing.M) {
	code := m.Run()
	if pgDB != nil {
		pgDB.Close()
	}
	if pgTerminate != nil {
		pgTerminate()
	}
	os.Exit(code)
}

func startPostgres() {
	ctx := context.Background()

	dsn, terminate, err := testutil.StartPostgres(ctx)
	if err != nil {
		pgErr = err
		return
	}
	pgTerminate = terminate

	if err := RunMigrations(ctx, dsn); err != nil {
		pgErr = err
		return
	}
	pgDB, pgErr = New(ctx, dsn)
}

// setupPostgres returns the shared pool with save_entries emptied.
func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container skipped in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	pgOnce.Do(startPostgres)
	if pgErr != nil {
		t.Fatalf("postgres: %v", pgErr)
	}

	if _, err := pgDB.Pool().Exec(context.Background(), "TRUNCATE save_entries"); err != nil {
		t.Fatalf("truncating save_entries: %v", err)
	}
	return pgDB.Pool()
}
