// Package chattest provides an in-memory chat service for tests.
package chattest

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/arbiter/internal/moderation/chat"
)

// Sent is a message captured by the fake.
type Sent struct {
	ChannelID snowflake.ID
	Content   string
	Embed     *discord.Embed
}

// Service is an in-memory guild with channels, roles and members.
type Service struct {
	mu sync.Mutex

	// History holds channel messages, newest first.
	History map[snowflake.ID][]chat.Message
	// Roles holds the guild's existing roles.
	Roles map[snowflake.ID]chat.Role
	// Members holds each member's role set.
	Members map[snowflake.ID][]snowflake.ID
	// BotTop is the bot's highest role.
	BotTop snowflake.ID

	// DenyRemove makes RemoveRoles fail with chat.ErrPermissionDenied.
	DenyRemove bool
	// DenyAdd makes AddRole fail with chat.ErrPermissionDenied.
	DenyAdd bool
	// FailRemove makes RemoveRoles fail with the given error.
	FailRemove error
	// FailAdd makes AddRole fail with the given error.
	FailAdd error
	// FailSend makes every send fail.
	FailSend error
	// FailHistory makes RecentMessages fail.
	FailHistory error

	Sent        []Sent
	RemoveCalls [][]snowflake.ID
	AddCalls    []snowflake.ID
	Reasons     []string
}

// New creates an empty service.
func New() *Service {
	return &Service{
		History: make(map[snowflake.ID][]chat.Message),
		Roles:   make(map[snowflake.ID]chat.Role),
		Members: make(map[snowflake.ID][]snowflake.ID),
	}
}

// AddRoles registers guild roles by ID.
func (s *Service) AddRoles(ids ...snowflake.ID) *Service {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, id := range ids {
		s.Roles[id] = chat.Role{ID: id, Name: fmt.Sprintf("role-%d", id), Position: i + 1}
	}
	return s
}

// MemberRoles returns a copy of a member's current roles.
func (s *Service) MemberRoles(userID snowflake.ID) []snowflake.ID {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.Members[userID])
}

// Messages returns a copy of everything sent so far.
func (s *Service) Messages() []Sent {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.Sent)
}

// SentTo returns the messages sent to one channel.
func (s *Service) SentTo(channelID snowflake.ID) []Sent {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Sent
	for _, m := range s.Sent {
		if m.ChannelID == channelID {
			out = append(out, m)
		}
	}
	return out
}

// RecentMessages implements chat.MessageFetcher.
func (s *Service) RecentMessages(_ context.Context, channelID snowflake.ID, limit int) ([]chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailHistory != nil {
		return nil, s.FailHistory
	}

	history := s.History[channelID]
	if len(history) > limit {
		history = history[:limit]
	}
	return slices.Clone(history), nil
}

// SendText implements chat.Messenger.
func (s *Service) SendText(_ context.Context, channelID snowflake.ID, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailSend != nil {
		return s.FailSend
	}
	s.Sent = append(s.Sent, Sent{ChannelID: channelID, Content: content})
	return nil
}

// SendEmbed implements chat.Messenger.
func (s *Service) SendEmbed(_ context.Context, channelID snowflake.ID, content string, embed discord.Embed) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailSend != nil {
		return s.FailSend
	}
	s.Sent = append(s.Sent, Sent{ChannelID: channelID, Content: content, Embed: &embed})
	return nil
}

// Role implements chat.RoleManager.
func (s *Service) Role(_ context.Context, _ snowflake.ID, roleID snowflake.ID) (chat.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	role, ok := s.Roles[roleID]
	if !ok {
		return chat.Role{}, fmt.Errorf("role %d: %w", roleID, chat.ErrNotFound)
	}
	return role, nil
}

// Member implements chat.RoleManager.
func (s *Service) Member(_ context.Context, guildID, userID snowflake.ID) (chat.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	roles, ok := s.Members[userID]
	if !ok {
		return chat.Member{}, fmt.Errorf("member %d: %w", userID, chat.ErrNotFound)
	}
	return chat.Member{ID: userID, GuildID: guildID, RoleIDs: slices.Clone(roles)}, nil
}

// BotTopRole implements chat.RoleManager.
func (s *Service) BotTopRole(_ context.Context, _ snowflake.ID) (snowflake.ID, error) {
	return s.BotTop, nil
}

// RemoveRoles implements chat.RoleManager.
func (s *Service) RemoveRoles(_ context.Context, member chat.Member, roleIDs []snowflake.ID, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.RemoveCalls = append(s.RemoveCalls, slices.Clone(roleIDs))
	s.Reasons = append(s.Reasons, reason)

	if s.DenyRemove {
		return chat.ErrPermissionDenied
	}
	if s.FailRemove != nil {
		return s.FailRemove
	}

	s.Members[member.ID] = slices.DeleteFunc(s.Members[member.ID], func(id snowflake.ID) bool {
		return slices.Contains(roleIDs, id)
	})
	return nil
}

// AddRole implements chat.RoleManager.
func (s *Service) AddRole(_ context.Context, member chat.Member, roleID snowflake.ID, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.AddCalls = append(s.AddCalls, roleID)
	s.Reasons = append(s.Reasons, reason)

	if s.DenyAdd {
		return chat.ErrPermissionDenied
	}
	if s.FailAdd != nil {
		return s.FailAdd
	}

	if !slices.Contains(s.Members[member.ID], roleID) {
		s.Members[member.ID] = append(s.Members[member.ID], roleID)
	}
	return nil
}

var (
	_ chat.MessageFetcher = (*Service)(nil)
	_ chat.Messenger      = (*Service)(nil)
	_ chat.RoleManager    = (*Service)(nil)
)
