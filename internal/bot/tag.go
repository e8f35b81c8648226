package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/louisbranch/manageable/internal/services/tags"
)

const tagEmbedColor = 0x3498db

// tagHandler answers tag lookups from the loaded tag book.
type tagHandler struct {
	replier Replier
	book    *tags.Book
}

func newTagCommand(replier Replier, book *tags.Book) *Command {
	h := &tagHandler{replier: replier, book: book}
	return &Command{
		Name:    "tag",
		Usage:   "tag [name]",
		Summary: "Shows a saved snippet.",
		Detail:  "Shows the snippet saved under the given name, or lists every tag when called without one.",
		Handler: h.handle,
	}
}

func (h *tagHandler) handle(ctx context.Context, req *Request) error {
	if len(req.Args) == 0 {
		return h.list(req)
	}

	tag, err := h.book.Lookup(strings.Join(req.Args, " "))
	if err != nil {
		return err
	}
	embed := &discordgo.MessageEmbed{
		Title:       tag.Title,
		Description: tag.Description,
		URL:         tag.URL,
		Color:       tag.Color,
	}
	if embed.Color == 0 {
		embed.Color = tagEmbedColor
	}
	return h.replier.ReplyEmbed(req.ChannelID, embed)
}

func (h *tagHandler) list(req *Request) error {
	entries := h.book.List()
	if len(entries) == 0 {
		return h.replier.Reply(req.ChannelID, "No tags are set up yet.")
	}
	var b strings.Builder
	for _, entry := range entries {
		fmt.Fprintf(&b, "`%s`: %s\n", entry.Name, entry.Title)
	}
	return h.replier.ReplyEmbed(req.ChannelID, &discordgo.MessageEmbed{
		Title:       "Available tags",
		Description: b.String(),
		Color:       tagEmbedColor,
	})
}
