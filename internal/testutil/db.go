package testutil

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// StartPostgres runs a PostgreSQL 16 container and returns its DSN together
// with a function that terminates it. BasicWaitStrategies waits for the
// second readiness log line and the mapped port.
func StartPostgres(ctx context.Context) (dsn string, terminate func(), err error) {
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.BasicWaitStrategies(),
	)
	terminate = func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			slog.Warn("terminating postgres container", "error", err)
		}
	}
	if err != nil {
		terminate()
		return "", nil, fmt.Errorf("starting postgres container: %w", err)
	}

	dsn, err = container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		terminate()
		return "", nil, fmt.Errorf("getting connection string: %w", err)
	}
	return dsn, terminate, nil
}
