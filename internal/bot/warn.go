package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/manageable/internal/platform/errors"
	"github.com/louisbranch/manageable/internal/services/moderation"
)

// warnHandler applies and reviews member warnings.
type warnHandler struct {
	replier Replier
	finder  MemberFinder
	svc     *moderation.Service
}

func newWarnCommand(replier Replier, finder MemberFinder, svc *moderation.Service) *Command {
	h := &warnHandler{replier: replier, finder: finder, svc: svc}
	return &Command{
		Name:    "warn",
		Usage:   "warn <apply|resolve|undo|view> <member>",
		Summary: "Tracks member warnings.",
		Detail: "`apply` records a warning, `resolve` clears the oldest, " +
			"`undo` removes the newest, `view` shows the count. The member " +
			"can be given by ID, mention, or display name.",
		ModOnly: true,
		Handler: h.handle,
	}
}

func (h *warnHandler) handle(ctx context.Context, req *Request) error {
	if len(req.Args) < 2 {
		return errors.WithMetadata(errors.CodeCommandMissingArgument,
			"warn needs an action and a member",
			map[string]string{"usage": "warn <apply|resolve|undo|view> <member>"})
	}
	action := strings.ToLower(req.Args[0])
	member, err := h.resolveMember(req.GuildID, strings.Join(req.Args[1:], " "))
	if err != nil {
		return err
	}

	var count int
	var verb string
	switch action {
	case "apply":
		count, err = h.svc.Apply(ctx, member.ID)
		verb = "Warning recorded."
	case "resolve":
		count, err = h.svc.Resolve(ctx, member.ID)
		verb = "Oldest warning resolved."
	case "undo":
		count, err = h.svc.Undo(ctx, member.ID)
		verb = "Newest warning removed."
	case "view":
		count, err = h.svc.Count(ctx, member.ID)
		verb = "Current standing:"
	default:
		return errors.WithMetadata(errors.CodeWarnUnknownAction,
			fmt.Sprintf("unknown warn action %q", action),
			map[string]string{"action": action})
	}
	if err != nil {
		return errors.Wrap(errors.CodeUnknown, "warning bookkeeping failed", err)
	}

	return h.replier.Reply(req.ChannelID,
		fmt.Sprintf("%s **%s** has %s.", verb, member.DisplayName, pluralWarnings(count)))
}

// resolveMember finds a guild member by ID, mention, or display name.
// Multiple display-name matches are refused so a warning never lands on the
// wrong person.
func (h *warnHandler) resolveMember(guildID, query string) (Member, error) {
	if id, ok := parseUserID(query); ok {
		member, err := h.finder.Member(guildID, id)
		if err == nil {
			return member, nil
		}
	}

	matches, err := h.finder.SearchMembers(guildID, query)
	if err != nil {
		return Member{}, errors.Wrap(errors.CodeUnknown, "member search failed", err)
	}
	switch len(matches) {
	case 0:
		return Member{}, errors.WithMetadata(errors.CodeMemberNotFound,
			fmt.Sprintf("no member matches %q", query),
			map[string]string{"query": query})
	case 1:
		return matches[0], nil
	}

	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = fmt.Sprintf("%s (%s)", m.DisplayName, m.ID)
	}
	return Member{}, errors.WithMetadata(errors.CodeMemberAmbiguous,
		fmt.Sprintf("%d members match %q", len(matches), query),
		map[string]string{"query": query, "candidates": strings.Join(names, ", ")})
}

// parseUserID extracts a numeric user ID from a raw ID or a <@...> mention.
func parseUserID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "<@") && strings.HasSuffix(s, ">") {
		s = strings.TrimSuffix(strings.TrimPrefix(s, "<@"), ">")
		s = strings.TrimPrefix(s, "!")
	}
	if s == "" {
		return "", false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return s, true
}

func pluralWarnings(count int) string {
	if count == 1 {
		return "1 warning"
	}
	return fmt.Sprintf("%d warnings", count)
}
