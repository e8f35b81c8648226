package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/louisbranch/manageable/internal/platform/errors"
	"github.com/louisbranch/manageable/internal/services/cookiehunt"
)

const (
	cookieEmbedColor = 0xd2a679
	leaderboardSize  = 10
)

// cookieHandler is the command surface of the cookie hunt.
type cookieHandler struct {
	replier Replier
	roles   RoleManager
	hunt    *cookiehunt.Hunt
	prefix  string
	// winnerRoleID is granted to whoever reaches the goal; empty disables
	// the trophy role.
	winnerRoleID string
}

func newCookieHandler(replier Replier, roles RoleManager, hunt *cookiehunt.Hunt, prefix, winnerRoleID string) *cookieHandler {
	return &cookieHandler{replier: replier, roles: roles, hunt: hunt, prefix: prefix, winnerRoleID: winnerRoleID}
}

func (h *cookieHandler) gimmeCommand() *Command {
	return &Command{
		Name:    "gimme",
		Usage:   "gimme",
		Summary: "Claims the dropped cookie.",
		Detail:  "Grabs the cookie currently on the floor. First one wins.",
		Handler: h.gimme,
	}
}

func (h *cookieHandler) sugarCommand() *Command {
	return &Command{
		Name:    "sugar",
		Usage:   "sugar [high]",
		Summary: "Shows cookie scores.",
		Detail:  "Shows your cookie count, or the leaderboard with `sugar high`.",
		Handler: h.sugar,
	}
}

func (h *cookieHandler) forceDropCommand() *Command {
	return &Command{
		Name:    "forcedrop",
		Usage:   "forcedrop",
		Summary: "Drops a cookie immediately.",
		Detail:  "Skips the drop timer and puts a cookie on the floor right away.",
		ModOnly: true,
		Handler: h.forceDrop,
	}
}

func (h *cookieHandler) gimme(ctx context.Context, req *Request) error {
	result, err := h.hunt.Claim(ctx, req.AuthorID)
	if err == cookiehunt.ErrNoCookie {
		return errors.New(errors.CodeCookieNoneAvailable, "no cookie dropped")
	}
	if err != nil {
		return errors.Wrap(errors.CodeUnknown, "claim cookie", err)
	}

	var msg string
	if result.TargetID == req.AuthorID {
		msg = fmt.Sprintf("<@%s> grabbed the **%s** cookie and now has %s!",
			result.TargetID, result.Kind.Name, pluralCookies(result.Count))
	} else {
		msg = fmt.Sprintf("The **%s** cookie goes to the leader: <@%s> now has %s!",
			result.Kind.Name, result.TargetID, pluralCookies(result.Count))
	}
	if err := h.replier.Reply(req.ChannelID, msg); err != nil {
		return err
	}

	if !result.GoalReached {
		return nil
	}
	if h.winnerRoleID != "" {
		if err := h.roles.AddRole(req.GuildID, result.TargetID, h.winnerRoleID); err != nil {
			return errors.Wrap(errors.CodeUnknown, "grant winner role", err)
		}
	}
	return h.replier.Reply(req.ChannelID,
		fmt.Sprintf("🏆 <@%s> reached the goal and wins the hunt! Scores have been reset.", result.TargetID))
}

func (h *cookieHandler) sugar(ctx context.Context, req *Request) error {
	if len(req.Args) == 0 {
		count, err := h.hunt.Count(ctx, req.AuthorID)
		if err != nil {
			return errors.Wrap(errors.CodeUnknown, "read cookie count", err)
		}
		return h.replier.Reply(req.ChannelID,
			fmt.Sprintf("<@%s>, you have %s.", req.AuthorID, pluralCookies(count)))
	}

	option := strings.ToLower(req.Args[0])
	if option != "high" {
		return errors.WithMetadata(errors.CodeCookieUnknownOption,
			fmt.Sprintf("unknown sugar option %q", option),
			map[string]string{"option": option})
	}

	collectors, err := h.hunt.TopCollectors(ctx, leaderboardSize)
	if err != nil {
		return errors.Wrap(errors.CodeUnknown, "read leaderboard", err)
	}
	if len(collectors) == 0 {
		return h.replier.Reply(req.ChannelID, "Nobody has any cookies yet.")
	}
	var b strings.Builder
	for i, c := range collectors {
		fmt.Fprintf(&b, "%d. <@%s> with %s\n", i+1, c.DiscordID, pluralCookies(c.Cookies))
	}
	return h.replier.ReplyEmbed(req.ChannelID, &discordgo.MessageEmbed{
		Title:       "🍪 Cookie leaderboard",
		Description: b.String(),
		Color:       cookieEmbedColor,
	})
}

func (h *cookieHandler) forceDrop(ctx context.Context, req *Request) error {
	kind, ok := h.hunt.TryDrop(true)
	if !ok {
		return h.replier.Reply(req.ChannelID, "A cookie is already on the floor.")
	}
	return h.announce(req.ChannelID, kind)
}

// announce posts a drop notice to a channel. It is also used by the
// scheduler loop for timed drops.
func (h *cookieHandler) announce(channelID string, kind cookiehunt.Kind) error {
	return h.replier.Reply(channelID,
		fmt.Sprintf("🍪 A **%s** cookie dropped! Type `%sgimme` fast to grab it.", kind.Name, h.prefix))
}

func pluralCookies(count int) string {
	if count == 1 {
		return "1 cookie"
	}
	return fmt.Sprintf("%d cookies", count)
}
