package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/udisondev/shire/internal/db/migrations"
	"github.com/udisondev/shire/internal/save"
)

// SQLiteStore keeps save records in a local SQLite database.
type SQLiteStore struct {
	sqlDB *sql.DB
}

// OpenSQLite opens the database at path and applies migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}

	dsn := "file:" + filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(FULL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging sqlite %s: %w", path, err)
	}
	if err := migrate(ctx, sqlDB, "sqlite3", migrations.SQLiteDir); err != nil {
		sqlDB.Close()
		return nil, err
	}

	slog.Info("sqlite save store ready", "path", path)
	return &SQLiteStore{sqlDB: sqlDB}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.sqlDB.Close()
}

func (s *SQLiteStore) Read(ctx context.Context, key save.Key) ([]byte, error) {
	var data []byte
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT data FROM save_entries WHERE slot = ? AND entry = ?`, key.Slot, string(key.Entry),
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, save.ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", key, err)
	}
	return data, nil
}

// Write upserts the record in a transaction.
func (s *SQLiteStore) Write(ctx context.Context, key save.Key, data []byte) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction for %s: %w", key, err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			slog.Error("rollback failed", "slot", key.Slot, "entry", key.Entry, "error", err)
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO save_entries (slot, entry, data, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (slot, entry) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		key.Slot, string(key.Entry), data, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("upserting %s: %w", key, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key save.Key) error {
	res, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM save_entries WHERE slot = ? AND entry = ?`, key.Slot, string(key.Entry))
	if err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	if n == 0 {
		return save.ErrSlotEmpty
	}
	return nil
}

func (s *SQLiteStore) Keys(ctx context.Context) ([]save.Key, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT slot, entry FROM save_entries ORDER BY slot, entry`)
	if err != nil {
		return nil, fmt.Errorf("querying keys: %w", err)
	}
	defer rows.Close()

	var keys []save.Key
	for rows.Next() {
		var (
			slot  int
			entry string
		)
		if err := rows.Scan(&slot, &entry); err != nil {
			return nil, fmt.Errorf("scanning keys: %w", err)
		}
		keys = append(keys, save.Key{Slot: slot, Entry: save.Entry(entry)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating keys: %w", err)
	}
	return keys, nil
}
