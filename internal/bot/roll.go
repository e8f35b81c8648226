package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/louisbranch/manageable/internal/core/dice"
	"github.com/louisbranch/manageable/internal/platform/errors"
)

const rollEmbedColor = 0x992d22

// rollHandler evaluates dice expressions through the core evaluator.
type rollHandler struct {
	replier Replier
	src     dice.Source
}

func newRollCommand(replier Replier, src dice.Source) *Command {
	h := &rollHandler{replier: replier, src: src}
	return &Command{
		Name:    "roll",
		Aliases: []string{"r"},
		Usage:   "roll <expression>",
		Summary: "Rolls dice.",
		Detail: "Evaluates a dice expression such as `2d6+3`. Supports " +
			"`+ - * /`, parentheses, and the `d` roll operator, with `d` " +
			"binding tightest. `d6` on its own rolls one die.",
		Handler: h.handle,
	}
}

func (h *rollHandler) handle(ctx context.Context, req *Request) error {
	if len(req.Args) == 0 {
		return errors.WithMetadata(errors.CodeCommandMissingArgument,
			"roll needs an expression",
			map[string]string{"usage": "roll <expression>"})
	}
	expression := strings.Join(req.Args, " ")

	result, err := dice.Evaluate(expression, h.src)
	if err != nil {
		switch err.(type) {
		case *dice.ParseError:
			return h.replier.Reply(req.ChannelID,
				fmt.Sprintf("I couldn't read that expression: %v. Try something like `2d6+3`.", err))
		case *dice.EvalError:
			return h.replier.Reply(req.ChannelID,
				fmt.Sprintf("That expression doesn't work out: %v.", err))
		}
		return err
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🎲 %s", result.DisplayValue()),
		Color: rollEmbedColor,
	}
	if len(result.Steps) > 0 {
		embed.Description = strings.Join(result.Steps, "\n")
	}
	return h.replier.ReplyEmbed(req.ChannelID, embed)
}
