package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

const helpEmbedColor = 0x2ecc71

// helpHandler builds help pages from the router's registered commands.
type helpHandler struct {
	replier  Replier
	router   *Router
	pageSize int
}

func newHelpCommand(replier Replier, router *Router, pageSize int) *Command {
	if pageSize <= 0 {
		pageSize = 6
	}
	h := &helpHandler{replier: replier, router: router, pageSize: pageSize}
	return &Command{
		Name:    "help",
		Usage:   "help [command]",
		Summary: "Shows this help.",
		Detail:  "Lists every command, or shows usage details for one command.",
		Handler: h.handle,
	}
}

func (h *helpHandler) handle(ctx context.Context, req *Request) error {
	if len(req.Args) > 0 {
		return h.detail(req, req.Args[0])
	}
	for _, embed := range h.pages() {
		if err := h.replier.ReplyEmbed(req.ChannelID, embed); err != nil {
			return err
		}
	}
	return nil
}

func (h *helpHandler) detail(req *Request, name string) error {
	cmd, ok := h.router.Lookup(name)
	if !ok {
		return h.replier.Reply(req.ChannelID,
			fmt.Sprintf("I don't know the command `%s`.", name))
	}
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s%s", h.router.Prefix(), cmd.Usage),
		Description: cmd.Detail,
		Color:       helpEmbedColor,
	}
	if len(cmd.Aliases) > 0 {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Aliases: %s", strings.Join(cmd.Aliases, ", ")),
		}
	}
	if cmd.ModOnly {
		embed.Description += "\n\nRequires a mod role."
	}
	return h.replier.ReplyEmbed(req.ChannelID, embed)
}

// pages splits the command summaries into embeds of pageSize entries.
func (h *helpHandler) pages() []*discordgo.MessageEmbed {
	commands := h.router.Commands()
	total := (len(commands) + h.pageSize - 1) / h.pageSize

	var embeds []*discordgo.MessageEmbed
	for page := 0; page < total; page++ {
		var b strings.Builder
		for i := page * h.pageSize; i < len(commands) && i < (page+1)*h.pageSize; i++ {
			cmd := commands[i]
			fmt.Fprintf(&b, "`%s%s`: %s\n", h.router.Prefix(), cmd.Usage, cmd.Summary)
		}
		title := "Commands"
		if total > 1 {
			title = fmt.Sprintf("Commands (%d/%d)", page+1, total)
		}
		embeds = append(embeds, &discordgo.MessageEmbed{
			Title:       title,
			Description: b.String(),
			Color:       helpEmbedColor,
		})
	}
	return embeds
}
