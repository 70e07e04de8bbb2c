package bot_test

import (
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/arbiter/internal/bot"
	"github.com/stretchr/testify/assert"
)

const (
	selfID     snowflake.ID = 900
	categoryID snowflake.ID = 500
	userID     snowflake.ID = 42
)

func TestRoute(t *testing.T) {
	t.Parallel()

	router := bot.NewRouter(selfID, categoryID)

	tests := []struct {
		name      string
		in        bot.Inbound
		wantRoute bot.Route
		wantText  string
	}{
		{
			name:      "own message in ticket",
			in:        bot.Inbound{AuthorID: selfID, ParentID: categoryID, Content: "**🤖 AI Support Reply:**"},
			wantRoute: bot.RouteNone,
		},
		{
			name:      "own message mentioning itself",
			in:        bot.Inbound{AuthorID: selfID, MentionIDs: []snowflake.ID{selfID}, Content: "<@900>"},
			wantRoute: bot.RouteNone,
		},
		{
			name:      "ticket message",
			in:        bot.Inbound{AuthorID: userID, ParentID: categoryID, Content: "complaint"},
			wantRoute: bot.RouteTicket,
		},
		{
			name: "mention inside ticket runs the ticket flow",
			in: bot.Inbound{
				AuthorID: userID, ParentID: categoryID,
				MentionIDs: []snowflake.ID{selfID}, Content: "<@900> help",
			},
			wantRoute: bot.RouteTicket,
		},
		{
			name:      "mention outside ticket",
			in:        bot.Inbound{AuthorID: userID, ParentID: 7, MentionIDs: []snowflake.ID{selfID}, Content: "<@900> مرحبا  "},
			wantRoute: bot.RouteChat,
			wantText:  "مرحبا",
		},
		{
			name:      "nickname mention",
			in:        bot.Inbound{AuthorID: userID, MentionIDs: []snowflake.ID{selfID}, Content: "hey <@!900> there"},
			wantRoute: bot.RouteChat,
			wantText:  "hey there",
		},
		{
			name: "multi-line question keeps its lines",
			in: bot.Inbound{
				AuthorID: userID, MentionIDs: []snowflake.ID{selfID},
				Content: "<@900>   سؤال أول\n\n\n   سؤال  ثان",
			},
			wantRoute: bot.RouteChat,
			wantText:  "سؤال أول\n\nسؤال ثان",
		},
		{
			name:      "other user mentioned",
			in:        bot.Inbound{AuthorID: userID, MentionIDs: []snowflake.ID{77}, Content: "<@77> hi"},
			wantRoute: bot.RouteNone,
		},
		{
			name:      "uncategorized channel",
			in:        bot.Inbound{AuthorID: userID, Content: "hello"},
			wantRoute: bot.RouteNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			route, text := router.Route(tt.in)
			assert.Equal(t, tt.wantRoute, route)
			assert.Equal(t, tt.wantText, text)
		})
	}
}

func TestRouteWithoutCategory(t *testing.T) {
	t.Parallel()

	router := bot.NewRouter(selfID, 0)

	route, _ := router.Route(bot.Inbound{AuthorID: userID, Content: "hello"})
	assert.Equal(t, bot.RouteNone, route, "channels without a parent never match an unset category")
}

func TestRouteString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ticket", bot.RouteTicket.String())
	assert.Equal(t, "chat", bot.RouteChat.String())
	assert.Equal(t, "none", bot.RouteNone.String())
}
