// Package moderation tracks warnings issued against guild members.
//
// Warnings age out after a configured number of days; expired warnings are
// purged before any operation so counts always reflect the live window.
package moderation

import (
	"context"
	"fmt"
	"time"

	"github.com/louisbranch/manageable/internal/services/moderation/storage"
)

// Service implements warning bookkeeping on top of a storage.Store.
type Service struct {
	store storage.Store
	// window is how long a warning stays on record. Zero or negative
	// means warnings are permanent.
	window time.Duration
	now    func() time.Time
}

// New creates a moderation service. expiryDays <= 0 makes warnings
// permanent.
func New(store storage.Store, expiryDays int) *Service {
	return &Service{
		store:  store,
		window: time.Duration(expiryDays) * 24 * time.Hour,
		now:    time.Now,
	}
}

// Apply records a new warning and returns the user's warning count.
func (s *Service) Apply(ctx context.Context, discordID string) (int, error) {
	if err := s.purgeExpired(ctx, discordID); err != nil {
		return 0, err
	}
	if err := s.store.AddWarning(ctx, discordID, s.now().UTC()); err != nil {
		return 0, fmt.Errorf("apply warning: %w", err)
	}
	return s.count(ctx, discordID)
}

// Resolve removes the user's oldest warning and returns the remaining
// count. Resolving a user with no warnings leaves the count at zero.
func (s *Service) Resolve(ctx context.Context, discordID string) (int, error) {
	return s.remove(ctx, discordID, false)
}

// Undo removes the user's newest warning and returns the remaining count.
func (s *Service) Undo(ctx context.Context, discordID string) (int, error) {
	return s.remove(ctx, discordID, true)
}

// Count returns the user's current warning count.
func (s *Service) Count(ctx context.Context, discordID string) (int, error) {
	if err := s.purgeExpired(ctx, discordID); err != nil {
		return 0, err
	}
	return s.count(ctx, discordID)
}

func (s *Service) remove(ctx context.Context, discordID string, newest bool) (int, error) {
	if err := s.purgeExpired(ctx, discordID); err != nil {
		return 0, err
	}
	warnings, err := s.store.ListWarnings(ctx, discordID)
	if err != nil {
		return 0, fmt.Errorf("list warnings: %w", err)
	}
	if len(warnings) == 0 {
		return 0, nil
	}
	target := warnings[0]
	if newest {
		target = warnings[len(warnings)-1]
	}
	if err := s.store.DeleteWarning(ctx, target.ID); err != nil {
		return 0, fmt.Errorf("delete warning: %w", err)
	}
	return len(warnings) - 1, nil
}

func (s *Service) count(ctx context.Context, discordID string) (int, error) {
	warnings, err := s.store.ListWarnings(ctx, discordID)
	if err != nil {
		return 0, fmt.Errorf("list warnings: %w", err)
	}
	return len(warnings), nil
}

func (s *Service) purgeExpired(ctx context.Context, discordID string) error {
	if s.window <= 0 {
		return nil
	}
	cutoff := s.now().UTC().Add(-s.window)
	if err := s.store.PurgeBefore(ctx, discordID, cutoff); err != nil {
		return fmt.Errorf("purge expired warnings: %w", err)
	}
	return nil
}
