package bot

import (
	"context"
	"time"

	"github.com/louisbranch/manageable/internal/platform/errors"
)

// airlockHandler releases newcomers from the entry channel. Only the accept
// command is allowed there; everything else is swept after a short delay.
type airlockHandler struct {
	replier   Replier
	roles     RoleManager
	deleter   MessageDeleter
	channelID string
	roleID    string
	// sweepDelay is how long a stray airlock message survives.
	sweepDelay time.Duration
}

func newAirlockHandler(replier Replier, roles RoleManager, deleter MessageDeleter, channelID, roleID string, sweepDelay time.Duration) *airlockHandler {
	return &airlockHandler{
		replier:    replier,
		roles:      roles,
		deleter:    deleter,
		channelID:  channelID,
		roleID:     roleID,
		sweepDelay: sweepDelay,
	}
}

func (h *airlockHandler) command() *Command {
	return &Command{
		Name:    "accept",
		Usage:   "accept",
		Summary: "Accepts the rules and opens the server.",
		Detail:  "Run this in the entry channel after reading the rules to get access to the rest of the server.",
		Handler: h.handle,
	}
}

func (h *airlockHandler) handle(ctx context.Context, req *Request) error {
	if req.ChannelID != h.channelID {
		return errors.New(errors.CodeAirlockWrongChannel, "accept outside the airlock channel")
	}
	if hasRole(req.AuthorRoleIDs, h.roleID) {
		return errors.New(errors.CodeAirlockAlreadyReleased, "member already released")
	}
	if err := h.roles.AddRole(req.GuildID, req.AuthorID, h.roleID); err != nil {
		return errors.Wrap(errors.CodeUnknown, "grant release role", err)
	}
	return h.replier.Reply(req.ChannelID, "Welcome aboard! You now have access to the server.")
}

// sweep schedules deletion of a non-command message posted in the airlock
// channel. It reports whether the message was scheduled.
func (h *airlockHandler) sweep(channelID, messageID string) bool {
	if channelID != h.channelID {
		return false
	}
	time.AfterFunc(h.sweepDelay, func() {
		_ = h.deleter.DeleteMessage(channelID, messageID)
	})
	return true
}
