package bot

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/louisbranch/manageable/internal/platform/errors"
)

// Replier sends messages back to a channel.
type Replier interface {
	Reply(channelID, content string) error
	ReplyEmbed(channelID string, embed *discordgo.MessageEmbed) error
}

// Member is the slice of guild member state handlers care about.
type Member struct {
	ID          string
	Username    string
	DisplayName string
	RoleIDs     []string
}

// MemberFinder resolves guild members by ID or display name.
type MemberFinder interface {
	Member(guildID, userID string) (Member, error)
	SearchMembers(guildID, query string) ([]Member, error)
}

// Role is a guild role as handlers see it.
type Role struct {
	ID   string
	Name string
}

// RoleManager reads and mutates guild role membership.
type RoleManager interface {
	GuildRoles(guildID string) ([]Role, error)
	AddRole(guildID, userID, roleID string) error
	RemoveRole(guildID, userID, roleID string) error
}

// MessageDeleter removes messages from a channel.
type MessageDeleter interface {
	DeleteMessage(channelID, messageID string) error
}

// Request carries one inbound command invocation.
type Request struct {
	GuildID   string
	ChannelID string
	MessageID string
	AuthorID  string
	// AuthorRoleIDs are the invoking member's role IDs.
	AuthorRoleIDs []string
	// Args are the whitespace-split tokens after the command name.
	Args []string
}

// HandlerFunc handles one command invocation.
type HandlerFunc func(ctx context.Context, req *Request) error

// Command is a registered prefix command with its help metadata.
type Command struct {
	Name    string
	Aliases []string
	Usage   string
	Summary string
	Detail  string
	// ModOnly restricts the command to members holding a mod role.
	ModOnly bool
	Handler HandlerFunc
}

// Router parses prefix commands, dispatches to handlers, and turns handler
// errors into user-facing replies.
type Router struct {
	prefix   string
	replier  Replier
	modRoles map[string]bool
	commands []*Command
	byName   map[string]*Command
}

// NewRouter creates a router for the given command prefix. modRoleIDs gate
// ModOnly commands.
func NewRouter(prefix string, replier Replier, modRoleIDs []string) *Router {
	modRoles := make(map[string]bool, len(modRoleIDs))
	for _, id := range modRoleIDs {
		modRoles[id] = true
	}
	return &Router{
		prefix:   prefix,
		replier:  replier,
		modRoles: modRoles,
		byName:   make(map[string]*Command),
	}
}

// Register adds a command and its aliases to the routing table.
func (r *Router) Register(cmd *Command) {
	r.commands = append(r.commands, cmd)
	r.byName[strings.ToLower(cmd.Name)] = cmd
	for _, alias := range cmd.Aliases {
		r.byName[strings.ToLower(alias)] = cmd
	}
}

// Commands returns the registered commands sorted by name.
func (r *Router) Commands() []*Command {
	cmds := make([]*Command, len(r.commands))
	copy(cmds, r.commands)
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	return cmds
}

// Lookup finds a command by name or alias.
func (r *Router) Lookup(name string) (*Command, bool) {
	cmd, ok := r.byName[strings.ToLower(name)]
	return cmd, ok
}

// Prefix returns the configured command prefix.
func (r *Router) Prefix() string {
	return r.prefix
}

// HandleMessage routes one message. Messages without the prefix are
// ignored. It reports whether the message was treated as a command.
func (r *Router) HandleMessage(ctx context.Context, req *Request, content string) bool {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, r.prefix) {
		return false
	}
	fields := strings.Fields(content[len(r.prefix):])
	if len(fields) == 0 {
		return false
	}
	name := strings.ToLower(fields[0])
	req.Args = fields[1:]

	cmd, ok := r.byName[name]
	if !ok {
		r.replyError(req, errors.WithMetadata(errors.CodeCommandUnknown,
			fmt.Sprintf("unknown command %q", name),
			map[string]string{"command": name}))
		return true
	}
	if req.GuildID == "" {
		r.replyError(req, errors.New(errors.CodeCommandGuildOnly, "command outside a guild"))
		return true
	}
	if cmd.ModOnly && !r.isMod(req) {
		r.replyError(req, errors.New(errors.CodeCommandMissingRole,
			fmt.Sprintf("%s requires a mod role", cmd.Name)))
		return true
	}
	if err := cmd.Handler(ctx, req); err != nil {
		r.replyError(req, err)
	}
	return true
}

func (r *Router) isMod(req *Request) bool {
	for _, id := range req.AuthorRoleIDs {
		if r.modRoles[id] {
			return true
		}
	}
	return false
}

// replyError maps a handler error to a user-facing reply. Unrecognized
// errors are logged and answered with a generic apology.
func (r *Router) replyError(req *Request, err error) {
	var msg string
	e, ok := errAs(err)
	meta := func(key string) string {
		if ok {
			return e.Metadata[key]
		}
		return ""
	}

	switch errors.CodeOf(err) {
	case errors.CodeCommandUnknown:
		msg = fmt.Sprintf("I don't know the command `%s`. Try `%shelp`.", meta("command"), r.prefix)
	case errors.CodeCommandMissingArgument:
		msg = fmt.Sprintf("Missing argument. Usage: `%s%s`", r.prefix, meta("usage"))
	case errors.CodeCommandMissingRole:
		msg = "You don't have permission to use that command."
	case errors.CodeCommandGuildOnly:
		msg = "That command only works inside a server."
	case errors.CodeMemberNotFound:
		msg = fmt.Sprintf("I couldn't find anyone matching `%s`.", meta("query"))
	case errors.CodeMemberAmbiguous:
		msg = fmt.Sprintf("More than one member matches `%s`: %s. Try an exact ID.",
			meta("query"), meta("candidates"))
	case errors.CodeWarnUnknownAction, errors.CodeRoleUnknownAction:
		msg = fmt.Sprintf("I don't know the action `%s`.", meta("action"))
	case errors.CodeRoleNotFound:
		msg = fmt.Sprintf("There's no role named `%s` here.", meta("role"))
	case errors.CodeRoleNotAllowed:
		msg = fmt.Sprintf("The role `%s` isn't self-serviceable.", meta("role"))
	case errors.CodeRoleAlreadyHeld:
		msg = fmt.Sprintf("You already have the `%s` role.", meta("role"))
	case errors.CodeRoleNotHeld:
		msg = fmt.Sprintf("You don't have the `%s` role.", meta("role"))
	case errors.CodeAirlockWrongChannel:
		// Accept attempts outside the airlock are ignored.
		return
	case errors.CodeAirlockAlreadyReleased:
		msg = "You've already been let in."
	case errors.CodeCookieNoneAvailable:
		msg = "There's no cookie to take right now. Keep watching!"
	case errors.CodeCookieUnknownOption:
		msg = fmt.Sprintf("I don't know the option `%s`.", meta("option"))
	case errors.CodeTagNotFound:
		// Unknown tags fail silently.
		return
	default:
		log.Printf("command failed: %v", err)
		msg = "Something went wrong. Please try again later."
	}

	if err := r.replier.Reply(req.ChannelID, msg); err != nil {
		log.Printf("reply failed: %v", err)
	}
}

func errAs(err error) (*errors.Error, bool) {
	for err != nil {
		if e, ok := err.(*errors.Error); ok {
			return e, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	return nil, false
}
