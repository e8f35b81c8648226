// Package storage defines persistence contracts for cookie hunt scores.
package storage

import "context"

// Collector pairs a Discord user with a cookie count.
type Collector struct {
	DiscordID string
	Cookies   int
}

// Store persists cookie counts keyed by Discord user ID.
type Store interface {
	// ModifyCount adjusts a user's cookie count by delta and returns the
	// new count, creating the user row on first contact.
	ModifyCount(ctx context.Context, discordID string, delta int) (int, error)

	// Count returns a user's cookie count, zero for unknown users.
	Count(ctx context.Context, discordID string) (int, error)

	// TopCollectors returns up to n collectors with the highest counts,
	// best first. Users with zero cookies are not listed.
	TopCollectors(ctx context.Context, n int) ([]Collector, error)

	// ResetAll zeroes every cookie count.
	ResetAll(ctx context.Context) error
}
