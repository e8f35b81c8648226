// Package cookiehunt implements the timed cookie drop-and-claim minigame.
//
// A drop is armed for a random future moment inside a configured hour
// window. Once dropped, exactly one cookie is claimable until someone takes
// it, at which point the next drop is armed. Scores persist across restarts;
// reaching the goal crowns a winner and resets every count.
package cookiehunt

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/louisbranch/manageable/internal/services/cookiehunt/storage"
)

// ErrNoCookie indicates a claim attempt with nothing dropped.
var ErrNoCookie = errors.New("no cookie available")

// Config holds cookie hunt tuning.
type Config struct {
	Kinds []Kind
	// Goal is the count that crowns a winner and resets all scores.
	Goal int
	// MinDelayHours and MaxDelayHours bound the random delay between a
	// claim and the next drop.
	MinDelayHours int
	MaxDelayHours int
}

// ClaimResult reports the outcome of a successful claim.
type ClaimResult struct {
	Kind Kind
	// TargetID is the user whose count changed (the claimer, or the
	// current leader for leader-targeted cookies).
	TargetID string
	// Count is the target's count after the claim.
	Count int
	// GoalReached is set when the claim crowned a winner; every count
	// has been reset when it is.
	GoalReached bool
}

// Hunt is the drop scheduler and scorekeeper. All methods are safe for
// concurrent use.
type Hunt struct {
	store storage.Store
	cfg   Config

	mu        sync.Mutex
	available *Kind
	armedAt   time.Time
	delay     time.Duration
	pending   Kind

	now func() time.Time
	rng *rand.Rand
}

// New creates a hunt and arms the first drop.
func New(store storage.Store, cfg Config, seed int64) (*Hunt, error) {
	if len(cfg.Kinds) == 0 {
		return nil, fmt.Errorf("at least one cookie kind is required")
	}
	if cfg.Goal <= 0 {
		return nil, fmt.Errorf("goal must be positive")
	}
	if cfg.MinDelayHours < 0 || cfg.MaxDelayHours < cfg.MinDelayHours {
		return nil, fmt.Errorf("invalid drop delay window [%d, %d]", cfg.MinDelayHours, cfg.MaxDelayHours)
	}
	h := &Hunt{
		store: store,
		cfg:   cfg,
		now:   time.Now,
		rng:   rand.New(rand.NewSource(seed)),
	}
	h.mu.Lock()
	h.arm()
	h.mu.Unlock()
	return h, nil
}

// Run checks for a due drop once per interval until ctx is cancelled,
// handing each dropped kind to announce. An announce error cancels the drop
// so it can be re-armed rather than leaving an unannounced cookie claimable.
func (h *Hunt) Run(ctx context.Context, interval time.Duration, announce func(Kind) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			kind, ok := h.TryDrop(false)
			if !ok {
				continue
			}
			if err := announce(kind); err != nil {
				h.CancelDrop()
			}
		}
	}
}

// TryDrop marks the pending cookie as claimable when its delay has elapsed
// (or immediately when forced) and returns the dropped kind. It reports
// false while a drop is already claimable or not yet due.
func (h *Hunt) TryDrop(force bool) (Kind, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.available != nil {
		return Kind{}, false
	}
	if !force && h.now().Sub(h.armedAt) < h.delay {
		return Kind{}, false
	}
	kind := h.pending
	h.available = &kind
	return kind, true
}

// CancelDrop withdraws a claimable cookie and re-arms the schedule.
func (h *Hunt) CancelDrop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.available == nil {
		return
	}
	h.arm()
}

// Claim takes the claimable cookie for the given user. The points go to the
// claimer or to the current leader depending on the cookie kind. The next
// drop is armed immediately so only one claim can ever win a drop.
func (h *Hunt) Claim(ctx context.Context, claimerID string) (ClaimResult, error) {
	h.mu.Lock()
	if h.available == nil {
		h.mu.Unlock()
		return ClaimResult{}, ErrNoCookie
	}
	kind := *h.available
	h.arm()
	h.mu.Unlock()

	targetID := claimerID
	if kind.Target == TargetLeader {
		leaders, err := h.store.TopCollectors(ctx, 1)
		if err != nil {
			return ClaimResult{}, fmt.Errorf("find leader: %w", err)
		}
		if len(leaders) > 0 {
			targetID = leaders[0].DiscordID
		}
	}

	count, err := h.store.ModifyCount(ctx, targetID, kind.Modifier)
	if err != nil {
		return ClaimResult{}, fmt.Errorf("award cookie: %w", err)
	}

	result := ClaimResult{Kind: kind, TargetID: targetID, Count: count}
	if count >= h.cfg.Goal {
		result.GoalReached = true
		if err := h.store.ResetAll(ctx); err != nil {
			return ClaimResult{}, fmt.Errorf("reset counts: %w", err)
		}
	}
	return result, nil
}

// Count returns a user's cookie count.
func (h *Hunt) Count(ctx context.Context, discordID string) (int, error) {
	return h.store.Count(ctx, discordID)
}

// TopCollectors returns up to n of the highest scorers, best first.
func (h *Hunt) TopCollectors(ctx context.Context, n int) ([]storage.Collector, error) {
	return h.store.TopCollectors(ctx, n)
}

// arm schedules the next drop. Callers must hold h.mu.
func (h *Hunt) arm() {
	h.available = nil
	h.armedAt = h.now()
	hours := h.cfg.MinDelayHours
	if span := h.cfg.MaxDelayHours - h.cfg.MinDelayHours; span > 0 {
		hours += h.rng.Intn(span + 1)
	}
	minutes := h.rng.Intn(60)
	h.delay = time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute
	h.pending = h.pickKind()
}

// pickKind draws a cookie kind proportionally to the configured weights.
// Callers must hold h.mu.
func (h *Hunt) pickKind() Kind {
	total := 0.0
	for _, kind := range h.cfg.Kinds {
		total += kind.Weight
	}
	r := h.rng.Float64() * total
	for _, kind := range h.cfg.Kinds {
		r -= kind.Weight
		if r < 0 {
			return kind
		}
	}
	return h.cfg.Kinds[len(h.cfg.Kinds)-1]
}
