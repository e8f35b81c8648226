// Package sqlite provides a SQLite-backed cookie hunt storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	sqlitemigrate "github.com/louisbranch/manageable/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/manageable/internal/services/cookiehunt/storage"
	"github.com/louisbranch/manageable/internal/services/cookiehunt/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists cookie hunt scores in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite cookie hunt store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// ModifyCount adjusts a user's cookie count by delta and returns the new
// count.
func (s *Store) ModifyCount(ctx context.Context, discordID string, delta int) (int, error) {
	userID, err := s.ensureUser(ctx, discordID)
	if err != nil {
		return 0, err
	}
	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO cookie_counts (user_id, count) VALUES (?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET count = count + excluded.count`,
		userID,
		delta,
	)
	if err != nil {
		return 0, fmt.Errorf("modify cookie count: %w", err)
	}
	var count int
	row := s.sqlDB.QueryRowContext(ctx, "SELECT count FROM cookie_counts WHERE user_id = ?", userID)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("read cookie count: %w", err)
	}
	return count, nil
}

// Count returns a user's cookie count, zero for unknown users.
func (s *Store) Count(ctx context.Context, discordID string) (int, error) {
	var count int
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT c.count FROM cookie_counts c
		   JOIN users u ON u.id = c.user_id
		  WHERE u.discord_id = ?`,
		discordID,
	)
	if err := row.Scan(&count); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("read cookie count: %w", err)
	}
	return count, nil
}

// TopCollectors returns up to n collectors with the highest counts.
func (s *Store) TopCollectors(ctx context.Context, n int) ([]storage.Collector, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT u.discord_id, c.count FROM cookie_counts c
		   JOIN users u ON u.id = c.user_id
		  WHERE c.count > 0
		  ORDER BY c.count DESC, u.discord_id ASC
		  LIMIT ?`,
		n,
	)
	if err != nil {
		return nil, fmt.Errorf("query top collectors: %w", err)
	}
	defer rows.Close()

	var collectors []storage.Collector
	for rows.Next() {
		var c storage.Collector
		if err := rows.Scan(&c.DiscordID, &c.Cookies); err != nil {
			return nil, fmt.Errorf("scan collector: %w", err)
		}
		collectors = append(collectors, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate collectors: %w", err)
	}
	return collectors, nil
}

// ResetAll zeroes every cookie count.
func (s *Store) ResetAll(ctx context.Context) error {
	if _, err := s.sqlDB.ExecContext(ctx, "UPDATE cookie_counts SET count = 0"); err != nil {
		return fmt.Errorf("reset cookie counts: %w", err)
	}
	return nil
}

func (s *Store) ensureUser(ctx context.Context, discordID string) (int64, error) {
	if strings.TrimSpace(discordID) == "" {
		return 0, fmt.Errorf("discord id is required")
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		"INSERT OR IGNORE INTO users (discord_id) VALUES (?)",
		discordID,
	)
	if err != nil {
		return 0, fmt.Errorf("ensure user: %w", err)
	}
	var id int64
	row := s.sqlDB.QueryRowContext(ctx, "SELECT id FROM users WHERE discord_id = ?", discordID)
	if err := row.Scan(&id); err != nil {
		return 0, fmt.Errorf("lookup user: %w", err)
	}
	return id, nil
}
