package bot

import (
	"context"
	"strings"
	"testing"

	"github.com/louisbranch/manageable/internal/platform/errors"
)

func newRoleFixture(roles *fakeRoles) (*fakeReplier, *Command) {
	replier := &fakeReplier{}
	return replier, newRoleCommand(replier, roles, []string{"Artist", "Gamer"})
}

func TestRoleAdd(t *testing.T) {
	roles := &fakeRoles{guildRoles: []Role{
		{ID: "r1", Name: "Artist"},
		{ID: "r2", Name: "Admin"},
	}}
	replier, cmd := newRoleFixture(roles)

	if err := cmd.Handler(context.Background(), newRequest("add", "artist")); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(roles.added) != 1 {
		t.Fatalf("expected one role grant, got %v", roles.added)
	}
	want := roleChange{"guild-1", "author-1", "r1"}
	if roles.added[0] != want {
		t.Fatalf("expected grant %v, got %v", want, roles.added[0])
	}
	if !strings.Contains(replier.lastMessage(t).Content, "Artist") {
		t.Fatalf("unexpected reply %q", replier.lastMessage(t).Content)
	}
}

func TestRoleAddAlreadyHeld(t *testing.T) {
	roles := &fakeRoles{guildRoles: []Role{{ID: "r1", Name: "Artist"}}}
	_, cmd := newRoleFixture(roles)

	req := newRequest("add", "artist")
	req.AuthorRoleIDs = []string{"r1"}
	err := cmd.Handler(context.Background(), req)
	if code := errors.CodeOf(err); code != errors.CodeRoleAlreadyHeld {
		t.Fatalf("expected CodeRoleAlreadyHeld, got %v", code)
	}
	if len(roles.added) != 0 {
		t.Fatalf("expected no grants, got %v", roles.added)
	}
}

func TestRoleRemove(t *testing.T) {
	roles := &fakeRoles{guildRoles: []Role{{ID: "r1", Name: "Artist"}}}
	_, cmd := newRoleFixture(roles)

	req := newRequest("remove", "Artist")
	req.AuthorRoleIDs = []string{"r1"}
	if err := cmd.Handler(context.Background(), req); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := roleChange{"guild-1", "author-1", "r1"}
	if len(roles.removed) != 1 || roles.removed[0] != want {
		t.Fatalf("expected revoke %v, got %v", want, roles.removed)
	}
}

func TestRoleRemoveNotHeld(t *testing.T) {
	roles := &fakeRoles{guildRoles: []Role{{ID: "r1", Name: "Artist"}}}
	_, cmd := newRoleFixture(roles)

	err := cmd.Handler(context.Background(), newRequest("remove", "Artist"))
	if code := errors.CodeOf(err); code != errors.CodeRoleNotHeld {
		t.Fatalf("expected CodeRoleNotHeld, got %v", code)
	}
}

func TestRoleNotWhitelisted(t *testing.T) {
	roles := &fakeRoles{guildRoles: []Role{{ID: "r2", Name: "Admin"}}}
	_, cmd := newRoleFixture(roles)

	err := cmd.Handler(context.Background(), newRequest("add", "Admin"))
	if code := errors.CodeOf(err); code != errors.CodeRoleNotAllowed {
		t.Fatalf("expected CodeRoleNotAllowed, got %v", code)
	}
	if len(roles.added) != 0 {
		t.Fatalf("expected no grants, got %v", roles.added)
	}
}

func TestRoleNotFoundInGuild(t *testing.T) {
	roles := &fakeRoles{guildRoles: []Role{{ID: "r2", Name: "Admin"}}}
	_, cmd := newRoleFixture(roles)

	err := cmd.Handler(context.Background(), newRequest("add", "Gamer"))
	if code := errors.CodeOf(err); code != errors.CodeRoleNotFound {
		t.Fatalf("expected CodeRoleNotFound, got %v", code)
	}
}

func TestRoleList(t *testing.T) {
	roles := &fakeRoles{guildRoles: []Role{
		{ID: "r1", Name: "Artist"},
		{ID: "r2", Name: "Admin"},
		{ID: "r3", Name: "Gamer"},
	}}
	replier, cmd := newRoleFixture(roles)

	if err := cmd.Handler(context.Background(), newRequest("list")); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	msg := replier.lastMessage(t)
	if !strings.Contains(msg.Content, "Artist") || !strings.Contains(msg.Content, "Gamer") {
		t.Fatalf("unexpected reply %q", msg.Content)
	}
	if strings.Contains(msg.Content, "Admin") {
		t.Fatalf("non-whitelisted role leaked into %q", msg.Content)
	}
}

func TestRoleMissingAction(t *testing.T) {
	_, cmd := newRoleFixture(&fakeRoles{})
	err := cmd.Handler(context.Background(), newRequest())
	if code := errors.CodeOf(err); code != errors.CodeCommandMissingArgument {
		t.Fatalf("expected CodeCommandMissingArgument, got %v", code)
	}
}

func TestRoleUnknownAction(t *testing.T) {
	roles := &fakeRoles{guildRoles: []Role{{ID: "r1", Name: "Artist"}}}
	_, cmd := newRoleFixture(roles)
	err := cmd.Handler(context.Background(), newRequest("toggle", "Artist"))
	if code := errors.CodeOf(err); code != errors.CodeRoleUnknownAction {
		t.Fatalf("expected CodeRoleUnknownAction, got %v", code)
	}
}
