package bot

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/louisbranch/manageable/internal/platform/errors"
	"github.com/louisbranch/manageable/internal/services/cookiehunt"
	cookiestorage "github.com/louisbranch/manageable/internal/services/cookiehunt/storage"
)

type memoryCookies struct {
	counts map[string]int
}

func newMemoryCookies() *memoryCookies {
	return &memoryCookies{counts: map[string]int{}}
}

func (m *memoryCookies) ModifyCount(ctx context.Context, discordID string, delta int) (int, error) {
	m.counts[discordID] += delta
	return m.counts[discordID], nil
}

func (m *memoryCookies) Count(ctx context.Context, discordID string) (int, error) {
	return m.counts[discordID], nil
}

func (m *memoryCookies) TopCollectors(ctx context.Context, n int) ([]cookiestorage.Collector, error) {
	var collectors []cookiestorage.Collector
	for id, count := range m.counts {
		if count > 0 {
			collectors = append(collectors, cookiestorage.Collector{DiscordID: id, Cookies: count})
		}
	}
	sort.Slice(collectors, func(i, j int) bool {
		if collectors[i].Cookies != collectors[j].Cookies {
			return collectors[i].Cookies > collectors[j].Cookies
		}
		return collectors[i].DiscordID < collectors[j].DiscordID
	})
	if len(collectors) > n {
		collectors = collectors[:n]
	}
	return collectors, nil
}

func (m *memoryCookies) ResetAll(ctx context.Context) error {
	for id := range m.counts {
		m.counts[id] = 0
	}
	return nil
}

func newCookieFixture(t *testing.T, store cookiestorage.Store, goal int) (*fakeReplier, *fakeRoles, *cookieHandler) {
	t.Helper()
	hunt, err := cookiehunt.New(store, cookiehunt.Config{
		Kinds:         []cookiehunt.Kind{{Name: "chocolate chip", Weight: 1, Modifier: 1, Target: cookiehunt.TargetClaimer}},
		Goal:          goal,
		MinDelayHours: 1,
		MaxDelayHours: 2,
	}, 11)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	replier := &fakeReplier{}
	roles := &fakeRoles{}
	return replier, roles, newCookieHandler(replier, roles, hunt, "!", "winner-role")
}

func TestGimmeWithoutDrop(t *testing.T) {
	_, _, h := newCookieFixture(t, newMemoryCookies(), 5)
	err := h.gimmeCommand().Handler(context.Background(), newRequest())
	if code := errors.CodeOf(err); code != errors.CodeCookieNoneAvailable {
		t.Fatalf("expected CodeCookieNoneAvailable, got %v", code)
	}
}

func TestForceDropThenGimme(t *testing.T) {
	replier, roles, h := newCookieFixture(t, newMemoryCookies(), 5)
	ctx := context.Background()

	if err := h.forceDropCommand().Handler(ctx, newRequest()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(replier.lastMessage(t).Content, "chocolate chip") {
		t.Fatalf("unexpected drop notice %q", replier.lastMessage(t).Content)
	}

	if err := h.gimmeCommand().Handler(ctx, newRequest()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	msg := replier.lastMessage(t)
	if !strings.Contains(msg.Content, "<@author-1>") || !strings.Contains(msg.Content, "1 cookie") {
		t.Fatalf("unexpected claim reply %q", msg.Content)
	}
	if len(roles.added) != 0 {
		t.Fatalf("expected no winner role yet, got %v", roles.added)
	}
}

func TestGimmeReachingGoalGrantsWinnerRole(t *testing.T) {
	store := newMemoryCookies()
	store.counts["author-1"] = 4
	replier, roles, h := newCookieFixture(t, store, 5)
	ctx := context.Background()

	if err := h.forceDropCommand().Handler(ctx, newRequest()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := h.gimmeCommand().Handler(ctx, newRequest()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := roleChange{"guild-1", "author-1", "winner-role"}
	if len(roles.added) != 1 || roles.added[0] != want {
		t.Fatalf("expected winner role grant %v, got %v", want, roles.added)
	}
	if !strings.Contains(replier.lastMessage(t).Content, "wins the hunt") {
		t.Fatalf("unexpected win notice %q", replier.lastMessage(t).Content)
	}
	if store.counts["author-1"] != 0 {
		t.Fatalf("expected counts reset, got %d", store.counts["author-1"])
	}
}

func TestSugarShowsOwnCount(t *testing.T) {
	store := newMemoryCookies()
	store.counts["author-1"] = 3
	replier, _, h := newCookieFixture(t, store, 10)

	if err := h.sugarCommand().Handler(context.Background(), newRequest()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(replier.lastMessage(t).Content, "3 cookies") {
		t.Fatalf("unexpected reply %q", replier.lastMessage(t).Content)
	}
}

func TestSugarHighLeaderboard(t *testing.T) {
	store := newMemoryCookies()
	store.counts["alice"] = 5
	store.counts["bob"] = 2
	replier, _, h := newCookieFixture(t, store, 10)

	if err := h.sugarCommand().Handler(context.Background(), newRequest("high")); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	embed := replier.lastEmbed(t)
	if !strings.Contains(embed.Description, "1. <@alice> with 5 cookies") {
		t.Fatalf("unexpected leaderboard %q", embed.Description)
	}
	if !strings.Contains(embed.Description, "2. <@bob> with 2 cookies") {
		t.Fatalf("unexpected leaderboard %q", embed.Description)
	}
}

func TestSugarUnknownOption(t *testing.T) {
	_, _, h := newCookieFixture(t, newMemoryCookies(), 10)
	err := h.sugarCommand().Handler(context.Background(), newRequest("low"))
	if code := errors.CodeOf(err); code != errors.CodeCookieUnknownOption {
		t.Fatalf("expected CodeCookieUnknownOption, got %v", code)
	}
}

func TestForceDropWithCookieOnFloor(t *testing.T) {
	replier, _, h := newCookieFixture(t, newMemoryCookies(), 10)
	ctx := context.Background()

	if err := h.forceDropCommand().Handler(ctx, newRequest()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := h.forceDropCommand().Handler(ctx, newRequest()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(replier.lastMessage(t).Content, "already on the floor") {
		t.Fatalf("unexpected reply %q", replier.lastMessage(t).Content)
	}
}
