// Package chat describes the slice of the chat service the moderation pipeline
// depends on. The Discord adapter in internal/discord/client implements it and
// tests substitute in-memory fakes.
package chat

import (
	"context"
	"errors"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

var (
	// ErrPermissionDenied is returned when the chat service refuses a mutation
	// because the bot's role does not outrank the target role.
	ErrPermissionDenied = errors.New("permission denied by chat service")
	// ErrNotFound is returned when a channel, member or role does not exist.
	ErrNotFound = errors.New("resource not found")
)

// Message is one channel message as the transcript needs it.
type Message struct {
	Author  string
	Content string
}

// Role is a guild role.
type Role struct {
	ID       snowflake.ID
	Name     string
	Position int
}

// Member is a guild member with the role set held at fetch time.
type Member struct {
	ID      snowflake.ID
	GuildID snowflake.ID
	RoleIDs []snowflake.ID
}

// Mention returns the Discord mention string for the member.
func (m Member) Mention() string {
	return discord.UserMention(m.ID)
}

// MessageFetcher reads channel history.
type MessageFetcher interface {
	// RecentMessages returns at most limit messages, newest first.
	RecentMessages(ctx context.Context, channelID snowflake.ID, limit int) ([]Message, error)
}

// Messenger posts to channels.
type Messenger interface {
	SendText(ctx context.Context, channelID snowflake.ID, content string) error
	SendEmbed(ctx context.Context, channelID snowflake.ID, content string, embed discord.Embed) error
}

// RoleManager reads and mutates guild roles.
type RoleManager interface {
	// Role resolves a role by ID, returning ErrNotFound when it does not exist.
	Role(ctx context.Context, guildID, roleID snowflake.ID) (Role, error)
	// Member fetches the live role set of a member.
	Member(ctx context.Context, guildID, userID snowflake.ID) (Member, error)
	// BotTopRole returns the highest role the bot itself holds, or zero if none.
	BotTopRole(ctx context.Context, guildID snowflake.ID) (snowflake.ID, error)
	// RemoveRoles revokes all roleIDs in one call. ErrPermissionDenied signals a
	// hierarchy problem.
	RemoveRoles(ctx context.Context, member Member, roleIDs []snowflake.ID, reason string) error
	// AddRole grants a role. Granting a held role is not an error.
	AddRole(ctx context.Context, member Member, roleID snowflake.ID, reason string) error
}
