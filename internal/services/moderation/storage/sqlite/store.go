// Package sqlite provides a SQLite-backed moderation storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/manageable/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/manageable/internal/services/moderation/storage"
	"github.com/louisbranch/manageable/internal/services/moderation/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists moderation state in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite moderation store and applies embedded migrations.
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

// AddWarning records a warning stamped with the provided time, creating the
// user row on first contact.
func (s *Store) AddWarning(ctx context.Context, discordID string, at time.Time) error {
	userID, err := s.ensureUser(ctx, discordID)
	if err != nil {
		return err
	}
	_, err = s.sqlDB.ExecContext(
		ctx,
		"INSERT INTO warnings (user_id, created_at) VALUES (?, ?)",
		userID,
		at.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert warning: %w", err)
	}
	return nil
}

// ListWarnings returns a user's warnings, oldest first.
func (s *Store) ListWarnings(ctx context.Context, discordID string) ([]storage.Warning, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT w.id, u.discord_id, w.created_at
		   FROM warnings w
		   JOIN users u ON u.id = w.user_id
		  WHERE u.discord_id = ?
		  ORDER BY w.created_at ASC, w.id ASC`,
		discordID,
	)
	if err != nil {
		return nil, fmt.Errorf("query warnings: %w", err)
	}
	defer rows.Close()

	var warnings []storage.Warning
	for rows.Next() {
		var w storage.Warning
		var stamp int64
		if err := rows.Scan(&w.ID, &w.DiscordID, &stamp); err != nil {
			return nil, fmt.Errorf("scan warning: %w", err)
		}
		w.CreatedAt = time.UnixMilli(stamp).UTC()
		warnings = append(warnings, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate warnings: %w", err)
	}
	return warnings, nil
}

// DeleteWarning removes a single warning by its ID.
func (s *Store) DeleteWarning(ctx context.Context, id int64) error {
	result, err := s.sqlDB.ExecContext(ctx, "DELETE FROM warnings WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete warning: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete warning rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// PurgeBefore removes all of a user's warnings stamped before cutoff.
func (s *Store) PurgeBefore(ctx context.Context, discordID string, cutoff time.Time) error {
	_, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM warnings
		  WHERE created_at < ?
		    AND user_id IN (SELECT id FROM users WHERE discord_id = ?)`,
		cutoff.UTC().UnixMilli(),
		discordID,
	)
	if err != nil {
		return fmt.Errorf("purge warnings: %w", err)
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
