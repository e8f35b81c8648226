package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

const memberSearchLimit = 10

// sessionAdapter implements the handler interfaces on a live discordgo
// session.
type sessionAdapter struct {
	session *discordgo.Session
}

func (a *sessionAdapter) Reply(channelID, content string) error {
	_, err := a.session.ChannelMessageSend(channelID, content)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func (a *sessionAdapter) ReplyEmbed(channelID string, embed *discordgo.MessageEmbed) error {
	_, err := a.session.ChannelMessageSendEmbed(channelID, embed)
	if err != nil {
		return fmt.Errorf("send embed: %w", err)
	}
	return nil
}

func (a *sessionAdapter) Member(guildID, userID string) (Member, error) {
	m, err := a.session.GuildMember(guildID, userID)
	if err != nil {
		return Member{}, fmt.Errorf("fetch member: %w", err)
	}
	return convertMember(m), nil
}

func (a *sessionAdapter) SearchMembers(guildID, query string) ([]Member, error) {
	found, err := a.session.GuildMembersSearch(guildID, query, memberSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search members: %w", err)
	}
	members := make([]Member, len(found))
	for i, m := range found {
		members[i] = convertMember(m)
	}
	return members, nil
}

func (a *sessionAdapter) GuildRoles(guildID string) ([]Role, error) {
	guildRoles, err := a.session.GuildRoles(guildID)
	if err != nil {
		return nil, fmt.Errorf("fetch guild roles: %w", err)
	}
	roles := make([]Role, len(guildRoles))
	for i, r := range guildRoles {
		roles[i] = Role{ID: r.ID, Name: r.Name}
	}
	return roles, nil
}

func (a *sessionAdapter) AddRole(guildID, userID, roleID string) error {
	if err := a.session.GuildMemberRoleAdd(guildID, userID, roleID); err != nil {
		return fmt.Errorf("add role: %w", err)
	}
	return nil
}

func (a *sessionAdapter) RemoveRole(guildID, userID, roleID string) error {
	if err := a.session.GuildMemberRoleRemove(guildID, userID, roleID); err != nil {
		return fmt.Errorf("remove role: %w", err)
	}
	return nil
}

func (a *sessionAdapter) DeleteMessage(channelID, messageID string) error {
	if err := a.session.ChannelMessageDelete(channelID, messageID); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

func convertMember(m *discordgo.Member) Member {
	member := Member{RoleIDs: m.Roles}
	if m.User != nil {
		member.ID = m.User.ID
		member.Username = m.User.Username
	}
	member.DisplayName = m.DisplayName()
	return member
}
