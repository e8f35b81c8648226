package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/manageable/internal/platform/errors"
)

// roleHandler lets members self-serve whitelisted roles.
type roleHandler struct {
	replier Replier
	roles   RoleManager
	// whitelist holds lowercased names of roles members may give
	// themselves.
	whitelist map[string]bool
}

func newRoleCommand(replier Replier, roles RoleManager, whitelist []string) *Command {
	allowed := make(map[string]bool, len(whitelist))
	for _, name := range whitelist {
		allowed[strings.ToLower(name)] = true
	}
	h := &roleHandler{replier: replier, roles: roles, whitelist: allowed}
	return &Command{
		Name:    "role",
		Usage:   "role <add|remove|list> [name]",
		Summary: "Adds or removes self-service roles.",
		Detail: "`add` grants you a whitelisted role, `remove` takes it " +
			"away, `list` shows which roles are available.",
		Handler: h.handle,
	}
}

func (h *roleHandler) handle(ctx context.Context, req *Request) error {
	if len(req.Args) == 0 {
		return errors.WithMetadata(errors.CodeCommandMissingArgument,
			"role needs an action",
			map[string]string{"usage": "role <add|remove|list> [name]"})
	}
	action := strings.ToLower(req.Args[0])
	if action == "list" {
		return h.list(req)
	}

	if len(req.Args) < 2 {
		return errors.WithMetadata(errors.CodeCommandMissingArgument,
			"role add/remove needs a role name",
			map[string]string{"usage": "role <add|remove> <name>"})
	}
	name := strings.Join(req.Args[1:], " ")
	if !h.whitelist[strings.ToLower(name)] {
		return errors.WithMetadata(errors.CodeRoleNotAllowed,
			fmt.Sprintf("role %q is not self-serviceable", name),
			map[string]string{"role": name})
	}
	role, err := h.findRole(req.GuildID, name)
	if err != nil {
		return err
	}
	held := hasRole(req.AuthorRoleIDs, role.ID)

	switch action {
	case "add":
		if held {
			return errors.WithMetadata(errors.CodeRoleAlreadyHeld,
				fmt.Sprintf("member already holds %q", role.Name),
				map[string]string{"role": role.Name})
		}
		if err := h.roles.AddRole(req.GuildID, req.AuthorID, role.ID); err != nil {
			return errors.Wrap(errors.CodeUnknown, "grant role", err)
		}
		return h.replier.Reply(req.ChannelID,
			fmt.Sprintf("You now have the **%s** role.", role.Name))
	case "remove":
		if !held {
			return errors.WithMetadata(errors.CodeRoleNotHeld,
				fmt.Sprintf("member does not hold %q", role.Name),
				map[string]string{"role": role.Name})
		}
		if err := h.roles.RemoveRole(req.GuildID, req.AuthorID, role.ID); err != nil {
			return errors.Wrap(errors.CodeUnknown, "revoke role", err)
		}
		return h.replier.Reply(req.ChannelID,
			fmt.Sprintf("The **%s** role has been removed.", role.Name))
	}
	return errors.WithMetadata(errors.CodeRoleUnknownAction,
		fmt.Sprintf("unknown role action %q", action),
		map[string]string{"action": action})
}

func (h *roleHandler) list(req *Request) error {
	if len(h.whitelist) == 0 {
		return h.replier.Reply(req.ChannelID, "No self-service roles are set up.")
	}
	guildRoles, err := h.roles.GuildRoles(req.GuildID)
	if err != nil {
		return errors.Wrap(errors.CodeUnknown, "list guild roles", err)
	}
	var names []string
	for _, role := range guildRoles {
		if h.whitelist[strings.ToLower(role.Name)] {
			names = append(names, role.Name)
		}
	}
	if len(names) == 0 {
		return h.replier.Reply(req.ChannelID, "No self-service roles are set up.")
	}
	return h.replier.Reply(req.ChannelID,
		fmt.Sprintf("Self-service roles: %s", strings.Join(names, ", ")))
}

func (h *roleHandler) findRole(guildID, name string) (Role, error) {
	guildRoles, err := h.roles.GuildRoles(guildID)
	if err != nil {
		return Role{}, errors.Wrap(errors.CodeUnknown, "list guild roles", err)
	}
	for _, role := range guildRoles {
		if strings.EqualFold(role.Name, name) {
			return role, nil
		}
	}
	return Role{}, errors.WithMetadata(errors.CodeRoleNotFound,
		fmt.Sprintf("no guild role named %q", name),
		map[string]string{"role": name})
}

func hasRole(roleIDs []string, id string) bool {
	for _, held := range roleIDs {
		if held == id {
			return true
		}
	}
	return false
}
