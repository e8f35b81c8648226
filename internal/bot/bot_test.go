package bot

import (
	"fmt"
	"testing"

	"github.com/bwmarrin/discordgo"
)

type sentMessage struct {
	ChannelID string
	Content   string
}

type fakeReplier struct {
	messages []sentMessage
	embeds   []*discordgo.MessageEmbed
	err      error
}

func (f *fakeReplier) Reply(channelID, content string) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, sentMessage{ChannelID: channelID, Content: content})
	return nil
}

func (f *fakeReplier) ReplyEmbed(channelID string, embed *discordgo.MessageEmbed) error {
	if f.err != nil {
		return f.err
	}
	f.embeds = append(f.embeds, embed)
	return nil
}

func (f *fakeReplier) lastMessage(t *testing.T) sentMessage {
	t.Helper()
	if len(f.messages) == 0 {
		t.Fatal("expected a reply, got none")
	}
	return f.messages[len(f.messages)-1]
}

func (f *fakeReplier) lastEmbed(t *testing.T) *discordgo.MessageEmbed {
	t.Helper()
	if len(f.embeds) == 0 {
		t.Fatal("expected an embed, got none")
	}
	return f.embeds[len(f.embeds)-1]
}

type fakeFinder struct {
	byID     map[string]Member
	bySearch map[string][]Member
}

func (f *fakeFinder) Member(guildID, userID string) (Member, error) {
	member, ok := f.byID[userID]
	if !ok {
		return Member{}, fmt.Errorf("unknown member %s", userID)
	}
	return member, nil
}

func (f *fakeFinder) SearchMembers(guildID, query string) ([]Member, error) {
	return f.bySearch[query], nil
}

type roleChange struct {
	GuildID string
	UserID  string
	RoleID  string
}

type fakeRoles struct {
	guildRoles []Role
	added      []roleChange
	removed    []roleChange
	err        error
}

func (f *fakeRoles) GuildRoles(guildID string) ([]Role, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.guildRoles, nil
}

func (f *fakeRoles) AddRole(guildID, userID, roleID string) error {
	if f.err != nil {
		return f.err
	}
	f.added = append(f.added, roleChange{guildID, userID, roleID})
	return nil
}

func (f *fakeRoles) RemoveRole(guildID, userID, roleID string) error {
	if f.err != nil {
		return f.err
	}
	f.removed = append(f.removed, roleChange{guildID, userID, roleID})
	return nil
}

type fakeDeleter struct {
	deleted chan string
}

func newFakeDeleter() *fakeDeleter {
	return &fakeDeleter{deleted: make(chan string, 8)}
}

func (f *fakeDeleter) DeleteMessage(channelID, messageID string) error {
	f.deleted <- messageID
	return nil
}

// scripted returns preset draws for deterministic roll tests.
type scripted struct {
	values []int64
	next   int
}

func (s *scripted) IntInRange(lo, hi int64) int64 {
	if s.next >= len(s.values) {
		panic("scripted source exhausted")
	}
	v := s.values[s.next]
	s.next++
	return v
}

func newRequest(args ...string) *Request {
	return &Request{
		GuildID:   "guild-1",
		ChannelID: "chan-1",
		MessageID: "msg-1",
		AuthorID:  "author-1",
		Args:      args,
	}
}
