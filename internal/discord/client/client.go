// Package client adapts the disgo REST API to the moderation chat interfaces.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/arbiter/internal/moderation/chat"
	"go.uber.org/zap"
)

// Client implements chat.MessageFetcher, chat.Messenger and chat.RoleManager.
type Client struct {
	rest   rest.Rest
	selfID snowflake.ID
	logger *zap.Logger
}

// New creates an adapter acting as the bot user selfID.
func New(restClient rest.Rest, selfID snowflake.ID, logger *zap.Logger) *Client {
	return &Client{
		rest:   restClient,
		selfID: selfID,
		logger: logger.Named("discord_client"),
	}
}

// RecentMessages implements chat.MessageFetcher.
func (c *Client) RecentMessages(ctx context.Context, channelID snowflake.ID, limit int) ([]chat.Message, error) {
	messages, err := c.rest.GetMessages(channelID, 0, 0, 0, limit, rest.WithCtx(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", classify(err))
	}

	out := make([]chat.Message, 0, len(messages))
	for _, msg := range messages {
		out = append(out, chat.Message{Author: msg.Author.Username, Content: msg.Content})
	}
	return out, nil
}

// SendText implements chat.Messenger.
func (c *Client) SendText(ctx context.Context, channelID snowflake.ID, content string) error {
	message := discord.NewMessageCreateBuilder().
		SetContent(content).
		Build()

	if _, err := c.rest.CreateMessage(channelID, message, rest.WithCtx(ctx)); err != nil {
		return fmt.Errorf("failed to send message: %w", classify(err))
	}
	return nil
}

// SendEmbed implements chat.Messenger.
func (c *Client) SendEmbed(ctx context.Context, channelID snowflake.ID, content string, embed discord.Embed) error {
	message := discord.NewMessageCreateBuilder().
		SetContent(content).
		SetEmbeds(embed).
		Build()

	if _, err := c.rest.CreateMessage(channelID, message, rest.WithCtx(ctx)); err != nil {
		return fmt.Errorf("failed to send embed: %w", classify(err))
	}
	return nil
}

// ChannelInfo is the placement of a channel inside its guild.
type ChannelInfo struct {
	// ParentID is the category of a channel, or the parent channel of a thread.
	ParentID snowflake.ID
	Thread   bool
}

// Channel fetches the placement of a channel.
func (c *Client) Channel(ctx context.Context, channelID snowflake.ID) (ChannelInfo, error) {
	channel, err := c.rest.GetChannel(channelID, rest.WithCtx(ctx))
	if err != nil {
		return ChannelInfo{}, fmt.Errorf("failed to fetch channel: %w", classify(err))
	}
	return Describe(channel), nil
}

// Describe reads the placement of a channel. Non-guild channels have none.
func Describe(channel discord.Channel) ChannelInfo {
	guildChannel, ok := channel.(discord.GuildChannel)
	if !ok {
		return ChannelInfo{}
	}

	var info ChannelInfo
	if parentID := guildChannel.ParentID(); parentID != nil {
		info.ParentID = *parentID
	}

	switch channel.Type() {
	case discord.ChannelTypeGuildNewsThread, discord.ChannelTypeGuildPublicThread, discord.ChannelTypeGuildPrivateThread:
		info.Thread = true
	}
	return info
}

// Role implements chat.RoleManager.
func (c *Client) Role(ctx context.Context, guildID, roleID snowflake.ID) (chat.Role, error) {
	roles, err := c.rest.GetRoles(guildID, rest.WithCtx(ctx))
	if err != nil {
		return chat.Role{}, fmt.Errorf("failed to fetch guild roles: %w", classify(err))
	}

	idx := slices.IndexFunc(roles, func(r discord.Role) bool { return r.ID == roleID })
	if idx < 0 {
		return chat.Role{}, fmt.Errorf("role %d: %w", roleID, chat.ErrNotFound)
	}

	return chat.Role{ID: roles[idx].ID, Name: roles[idx].Name, Position: roles[idx].Position}, nil
}

// Member implements chat.RoleManager.
func (c *Client) Member(ctx context.Context, guildID, userID snowflake.ID) (chat.Member, error) {
	member, err := c.rest.GetMember(guildID, userID, rest.WithCtx(ctx))
	if err != nil {
		return chat.Member{}, fmt.Errorf("failed to fetch member: %w", classify(err))
	}

	return chat.Member{ID: userID, GuildID: guildID, RoleIDs: slices.Clone(member.RoleIDs)}, nil
}

// BotTopRole implements chat.RoleManager.
func (c *Client) BotTopRole(ctx context.Context, guildID snowflake.ID) (snowflake.ID, error) {
	self, err := c.rest.GetMember(guildID, c.selfID, rest.WithCtx(ctx))
	if err != nil {
		return 0, fmt.Errorf("failed to fetch bot member: %w", classify(err))
	}

	if len(self.RoleIDs) == 0 {
		return 0, nil
	}

	roles, err := c.rest.GetRoles(guildID, rest.WithCtx(ctx))
	if err != nil {
		return 0, fmt.Errorf("failed to fetch guild roles: %w", classify(err))
	}

	var (
		top      snowflake.ID
		position = -1
	)
	for _, role := range roles {
		if slices.Contains(self.RoleIDs, role.ID) && role.Position > position {
			top, position = role.ID, role.Position
		}
	}

	return top, nil
}

// RemoveRoles implements chat.RoleManager in a single request. The role list is
// re-read right before the update so roles changed since member was fetched are
// kept as they are now.
func (c *Client) RemoveRoles(ctx context.Context, member chat.Member, roleIDs []snowflake.ID, reason string) error {
	current, err := c.rest.GetMember(member.GuildID, member.ID, rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to refresh member roles: %w", classify(err))
	}

	remaining := slices.DeleteFunc(slices.Clone(current.RoleIDs), func(id snowflake.ID) bool {
		return slices.Contains(roleIDs, id)
	})
	if len(remaining) == len(current.RoleIDs) {
		return nil
	}

	_, err = c.rest.UpdateMember(member.GuildID, member.ID,
		discord.MemberUpdate{Roles: &remaining},
		rest.WithCtx(ctx), rest.WithReason(reason))
	if err != nil {
		return fmt.Errorf("failed to revoke roles: %w", classify(err))
	}

	c.logger.Debug("Revoked roles",
		zap.Uint64("member_id", uint64(member.ID)),
		zap.Int("count", len(current.RoleIDs)-len(remaining)))

	return nil
}

// AddRole implements chat.RoleManager.
func (c *Client) AddRole(ctx context.Context, member chat.Member, roleID snowflake.ID, reason string) error {
	err := c.rest.AddMemberRole(member.GuildID, member.ID, roleID, rest.WithCtx(ctx), rest.WithReason(reason))
	if err != nil {
		return fmt.Errorf("failed to grant role: %w", classify(err))
	}
	return nil
}

// classify maps REST status codes onto the chat sentinel errors.
func classify(err error) error {
	var restErr *rest.Error
	if !errors.As(err, &restErr) || restErr.Response == nil {
		return err
	}

	switch restErr.Response.StatusCode {
	case http.StatusForbidden:
		return fmt.Errorf("%w: %w", chat.ErrPermissionDenied, err)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", chat.ErrNotFound, err)
	default:
		return err
	}
}

var (
	_ chat.MessageFetcher = (*Client)(nil)
	_ chat.Messenger      = (*Client)(nil)
	_ chat.RoleManager    = (*Client)(nil)
)
