// Package storage defines persistence contracts for moderation state.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// Warning is one recorded warning against a guild member.
type Warning struct {
	ID        int64
	DiscordID string
	CreatedAt time.Time
}

// Store persists warnings keyed by Discord user ID.
type Store interface {
	// AddWarning records a warning stamped with the provided time.
	AddWarning(ctx context.Context, discordID string, at time.Time) error

	// ListWarnings returns a user's warnings, oldest first.
	ListWarnings(ctx context.Context, discordID string) ([]Warning, error)

	// DeleteWarning removes a single warning by its ID.
	DeleteWarning(ctx context.Context, id int64) error

	// PurgeBefore removes all of a user's warnings stamped before cutoff.
	PurgeBefore(ctx context.Context, discordID string, cutoff time.Time) error
}
