package bot

import (
	"slices"
	"strings"

	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/arbiter/pkg/utils"
)

// Route is the flow an inbound message is handled by.
type Route int

const (
	// RouteNone drops the message.
	RouteNone Route = iota
	// RouteTicket runs the accounting flow for a ticket channel.
	RouteTicket
	// RouteChat answers a mention outside tickets.
	RouteChat
)

// String returns the flow label of the route.
func (r Route) String() string {
	switch r {
	case RouteTicket:
		return "ticket"
	case RouteChat:
		return "chat"
	case RouteNone:
		return "none"
	default:
		return "unknown"
	}
}

// Inbound is the part of a gateway message the router looks at.
type Inbound struct {
	AuthorID snowflake.ID
	// ParentID is the category of the channel, zero when it has none.
	ParentID   snowflake.ID
	MentionIDs []snowflake.ID
	Content    string
}

// Router decides which flow handles a message.
type Router struct {
	selfID           snowflake.ID
	ticketCategoryID snowflake.ID
}

// NewRouter creates a router for the bot user selfID.
func NewRouter(selfID, ticketCategoryID snowflake.ID) Router {
	return Router{selfID: selfID, ticketCategoryID: ticketCategoryID}
}

// Route classifies the message. For RouteChat the returned text is the content
// with the bot mention removed and spacing normalized.
func (r Router) Route(in Inbound) (Route, string) {
	switch {
	case in.AuthorID == r.selfID:
		return RouteNone, ""
	case r.ticketCategoryID != 0 && in.ParentID == r.ticketCategoryID:
		return RouteTicket, ""
	case slices.Contains(in.MentionIDs, r.selfID):
		return RouteChat, r.stripMention(in.Content)
	default:
		return RouteNone, ""
	}
}

func (r Router) stripMention(content string) string {
	id := r.selfID.String()
	content = strings.ReplaceAll(content, "<@"+id+">", "")
	content = strings.ReplaceAll(content, "<@!"+id+">", "")
	return utils.NormalizeSpacing(content)
}
