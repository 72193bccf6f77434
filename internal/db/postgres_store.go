package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/shire/internal/save"
)

// PostgresStore keeps save records in the save_entries table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store over an already migrated pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Read(ctx context.Context, key save.Key) ([]byte, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM save_entries WHERE slot = $1 AND entry = $2`, key.Slot, string(key.Entry),
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, save.ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", key, err)
	}
	return data, nil
}

// Write upserts the record in a transaction.
func (s *PostgresStore) Write(ctx context.Context, key save.Key, data []byte) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction for %s: %w", key, err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("rollback failed", "slot", key.Slot, "entry", key.Entry, "error", err)
		}
	}()

	_, err = tx.Exec(ctx,
		`INSERT INTO save_entries (slot, entry, data, updated_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (slot, entry) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		key.Slot, string(key.Entry), data,
	)
	if err != nil {
		return fmt.Errorf("upserting %s: %w", key, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, key save.Key) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM save_entries WHERE slot = $1 AND entry = $2`, key.Slot, string(key.Entry))
	if err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	if tag.RowsAffected() == 0 {
		return save.ErrSlotEmpty
	}
	return nil
}

func (s *PostgresStore) Keys(ctx context.Context) ([]save.Key, error) {
	rows, err := s.pool.Query(ctx, `SELECT slot, entry FROM save_entries ORDER BY slot, entry COLLATE "C"`)
	if err != nil {
		return nil, fmt.Errorf("querying keys: %w", err)
	}
	keys, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (save.Key, error) {
		var (
			slot  int
			entry string
		)
		err := row.Scan(&slot, &entry)
		return save.Key{Slot: slot, Entry: save.Entry(entry)}, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning keys: %w", err)
	}
	return keys, nil
}
