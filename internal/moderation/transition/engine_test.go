package transition_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/arbiter/internal/moderation/audit"
	"github.com/robalyx/arbiter/internal/moderation/chat"
	"github.com/robalyx/arbiter/internal/moderation/chat/chattest"
	"github.com/robalyx/arbiter/internal/moderation/sanction"
	"github.com/robalyx/arbiter/internal/moderation/transition"
	"github.com/robalyx/arbiter/internal/moderation/verdict"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const (
	guildID   snowflake.ID = 1
	channelID snowflake.ID = 10
	auditID   snowflake.ID = 20
	userID    snowflake.ID = 42

	warn1Role     snowflake.ID = 101
	warn2Role     snowflake.ID = 102
	warn3Role     snowflake.ID = 103
	blacklistRole snowflake.ID = 104
	memberRole    snowflake.ID = 900
	botRole       snowflake.ID = 999
)

var roleSet = sanction.RoleSet{
	Warn1:     warn1Role,
	Warn2:     warn2Role,
	Warn3:     warn3Role,
	Blacklist: blacklistRole,
}

var fixedNow = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func setup(t *testing.T, held ...snowflake.ID) (*chattest.Service, *transition.Engine) {
	t.Helper()

	svc := chattest.New().AddRoles(memberRole, warn1Role, warn2Role, warn3Role, blacklistRole, botRole)
	svc.BotTop = botRole
	svc.Members[userID] = append([]snowflake.ID{memberRole}, held...)

	logger := zaptest.NewLogger(t)
	emitter := audit.NewEmitter(svc, auditID, logger)
	engine := transition.NewEngine(svc, svc, emitter, roleSet, func() time.Time { return fixedNow }, logger)

	return svc, engine
}

func request(tag verdict.DecisionTag, rationale string) transition.Request {
	return transition.Request{
		GuildID:   guildID,
		ChannelID: channelID,
		UserID:    userID,
		Verdict:   verdict.Verdict{Tag: tag, Rationale: rationale},
	}
}

func sanctionCount(roles []snowflake.ID) int {
	count := 0
	for _, id := range roles {
		if roleSet.Contains(id) {
			count++
		}
	}
	return count
}

func TestApplyNoopDecisions(t *testing.T) {
	t.Parallel()

	for _, tag := range []verdict.DecisionTag{verdict.DecisionNone, verdict.DecisionWait, verdict.DecisionUnknown} {
		t.Run(tag.String(), func(t *testing.T) {
			t.Parallel()

			svc, engine := setup(t, warn1Role)

			result := engine.Apply(t.Context(), request(tag, "nothing to do"))
			assert.Equal(t, transition.OutcomeNoop, result.Outcome)
			assert.Empty(t, svc.AddCalls)
			assert.Empty(t, svc.RemoveCalls)
			assert.Empty(t, svc.Messages())
			assert.ElementsMatch(t, []snowflake.ID{memberRole, warn1Role}, svc.MemberRoles(userID))
		})
	}
}

func TestApplyBlacklistOverWarnings(t *testing.T) {
	t.Parallel()

	svc, engine := setup(t, warn1Role, warn2Role)

	rationale := "تم تطبيق البلاك ليست لمخالفة قوانين الحوادث"
	result := engine.Apply(t.Context(), request(verdict.DecisionBlacklist, rationale))

	require.Equal(t, transition.OutcomeApplied, result.Outcome)
	require.NoError(t, result.Err)
	assert.Equal(t, sanction.StateWarn2, result.Plan.From)
	assert.Equal(t, sanction.StateBlacklisted, result.Plan.To)

	// One batched revoke, then the grant
	require.Len(t, svc.RemoveCalls, 1)
	assert.ElementsMatch(t, []snowflake.ID{warn1Role, warn2Role}, svc.RemoveCalls[0])
	assert.Equal(t, []snowflake.ID{blacklistRole}, svc.AddCalls)
	assert.Equal(t, []string{
		transition.RemoveReason,
		"Auto decision: BLACKLIST - " + rationale,
	}, svc.Reasons)

	assert.ElementsMatch(t, []snowflake.ID{memberRole, blacklistRole}, svc.MemberRoles(userID))

	notices := svc.SentTo(channelID)
	require.Len(t, notices, 1)
	assert.Equal(t, "✅ Role granted to <@42>: **role-104**.", notices[0].Content)

	records := svc.SentTo(auditID)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].Embed)
	assert.Equal(t, "🚨 Automated BLACKLIST 🚨", records[0].Embed.Title)
	assert.Equal(t, audit.ColorBlacklist, records[0].Embed.Color)
	require.NotNil(t, records[0].Embed.Footer)
	assert.Equal(t, "Time: 2025-01-02 03:04:05", records[0].Embed.Footer.Text)
}

func TestApplyIsIdempotent(t *testing.T) {
	t.Parallel()

	svc, engine := setup(t)

	first := engine.Apply(t.Context(), request(verdict.DecisionBlacklist, "first"))
	second := engine.Apply(t.Context(), request(verdict.DecisionBlacklist, "second"))

	assert.Equal(t, transition.OutcomeApplied, first.Outcome)
	assert.Equal(t, transition.OutcomeApplied, second.Outcome)
	assert.Equal(t, sanction.StateBlacklisted, second.Plan.From)
	assert.Empty(t, second.Plan.Remove)

	// The held target is never revoked
	assert.Empty(t, svc.RemoveCalls)
	assert.ElementsMatch(t, []snowflake.ID{memberRole, blacklistRole}, svc.MemberRoles(userID))
}

func TestApplyKeepsSingleSanctionRole(t *testing.T) {
	t.Parallel()

	svc, engine := setup(t)

	for _, tag := range []verdict.DecisionTag{
		verdict.DecisionWarn1,
		verdict.DecisionWarn2,
		verdict.DecisionWarn3,
		verdict.DecisionWarn1,
		verdict.DecisionBlacklist,
		verdict.DecisionWarn2,
	} {
		result := engine.Apply(t.Context(), request(tag, "reason"))
		require.Equal(t, transition.OutcomeApplied, result.Outcome, "decision %s", tag)

		held := svc.MemberRoles(userID)
		assert.Equal(t, 1, sanctionCount(held), "after %s", tag)
		assert.Equal(t, result.Plan.To, roleSet.StateOf(held))
		assert.Contains(t, held, memberRole)
	}
}

func TestApplyPermissionDeniedOnRevoke(t *testing.T) {
	t.Parallel()

	svc, engine := setup(t, warn1Role)
	svc.DenyRemove = true

	result := engine.Apply(t.Context(), request(verdict.DecisionWarn2, "second offence"))

	assert.Equal(t, transition.OutcomeDenied, result.Outcome)
	require.ErrorIs(t, result.Err, chat.ErrPermissionDenied)
	assert.Empty(t, svc.AddCalls)
	assert.ElementsMatch(t, []snowflake.ID{memberRole, warn1Role}, svc.MemberRoles(userID))

	notices := svc.SentTo(channelID)
	require.Len(t, notices, 1)
	assert.Equal(t, transition.PermissionDeniedNotice, notices[0].Content)
	assert.Empty(t, svc.SentTo(auditID))
}

func TestApplyPermissionDeniedOnGrant(t *testing.T) {
	t.Parallel()

	svc, engine := setup(t)
	svc.DenyAdd = true

	result := engine.Apply(t.Context(), request(verdict.DecisionWarn1, "first offence"))

	assert.Equal(t, transition.OutcomeDenied, result.Outcome)
	assert.Equal(t, []snowflake.ID{memberRole}, svc.MemberRoles(userID))

	notices := svc.SentTo(channelID)
	require.Len(t, notices, 1)
	assert.Equal(t, transition.PermissionDeniedNotice, notices[0].Content)
	assert.Empty(t, svc.SentTo(auditID))
}

func TestApplyGrantFailureAfterRevokeIsReported(t *testing.T) {
	t.Parallel()

	svc, engine := setup(t, warn1Role)
	svc.FailAdd = context.DeadlineExceeded

	result := engine.Apply(t.Context(), request(verdict.DecisionWarn2, "second offence"))

	assert.Equal(t, transition.OutcomeFailed, result.Outcome)
	require.ErrorIs(t, result.Err, context.DeadlineExceeded)
	assert.Equal(t, []snowflake.ID{memberRole}, svc.MemberRoles(userID), "warning already revoked")

	notices := svc.SentTo(channelID)
	require.Len(t, notices, 1)
	assert.Equal(t, transition.GrantFailedNotice, notices[0].Content)
	assert.Empty(t, svc.SentTo(auditID))
}

func TestApplyMutationFailureWithoutRevoke(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		held   []snowflake.ID
		failOn func(*chattest.Service, error)
	}{
		{
			name:   "revoke fails",
			held:   []snowflake.ID{warn1Role},
			failOn: func(svc *chattest.Service, err error) { svc.FailRemove = err },
		},
		{
			name:   "grant fails with nothing to revoke",
			failOn: func(svc *chattest.Service, err error) { svc.FailAdd = err },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, engine := setup(t, tt.held...)
			tt.failOn(svc, errors.New("internal server error"))

			result := engine.Apply(t.Context(), request(verdict.DecisionWarn2, "offence"))

			assert.Equal(t, transition.OutcomeFailed, result.Outcome)
			assert.ElementsMatch(t, append([]snowflake.ID{memberRole}, tt.held...), svc.MemberRoles(userID))

			notices := svc.SentTo(channelID)
			require.Len(t, notices, 1)
			assert.Equal(t, transition.RoleFailureNotice, notices[0].Content)
		})
	}
}

func TestApplyMissingRole(t *testing.T) {
	t.Parallel()

	svc, engine := setup(t, warn1Role)
	delete(svc.Roles, warn3Role)

	result := engine.Apply(t.Context(), request(verdict.DecisionWarn3, "third offence"))

	assert.Equal(t, transition.OutcomeConfigError, result.Outcome)
	require.ErrorIs(t, result.Err, chat.ErrNotFound)
	assert.Empty(t, svc.RemoveCalls)
	assert.Empty(t, svc.AddCalls)
	assert.ElementsMatch(t, []snowflake.ID{memberRole, warn1Role}, svc.MemberRoles(userID))

	notices := svc.SentTo(channelID)
	require.Len(t, notices, 1)
	assert.Equal(t, transition.ConfigErrorNotice, notices[0].Content)
}

func TestApplyUnconfiguredRole(t *testing.T) {
	t.Parallel()

	svc := chattest.New().AddRoles(warn1Role)
	svc.Members[userID] = []snowflake.ID{memberRole}
	logger := zaptest.NewLogger(t)
	engine := transition.NewEngine(svc, svc, audit.NewEmitter(svc, 0, logger),
		sanction.RoleSet{Warn1: warn1Role}, nil, logger)

	result := engine.Apply(t.Context(), request(verdict.DecisionBlacklist, "reason"))

	assert.Equal(t, transition.OutcomeConfigError, result.Outcome)
	require.ErrorIs(t, result.Err, sanction.ErrMissingRole)
	assert.Empty(t, svc.AddCalls)
}

func TestApplyUnknownMember(t *testing.T) {
	t.Parallel()

	svc, engine := setup(t)
	delete(svc.Members, userID)

	result := engine.Apply(t.Context(), request(verdict.DecisionWarn1, "reason"))

	assert.Equal(t, transition.OutcomeFailed, result.Outcome)
	require.ErrorIs(t, result.Err, chat.ErrNotFound)
	assert.Empty(t, svc.AddCalls)
}

func TestApplyTruncatesGrantReason(t *testing.T) {
	t.Parallel()

	svc, engine := setup(t)

	result := engine.Apply(t.Context(), request(verdict.DecisionWarn1, strings.Repeat("x", 2000)))
	require.Equal(t, transition.OutcomeApplied, result.Outcome)

	require.Len(t, svc.Reasons, 1)
	assert.Equal(t, 512, len([]rune(svc.Reasons[0])))
}

func TestOutcomeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "noop", transition.OutcomeNoop.String())
	assert.Equal(t, "applied", transition.OutcomeApplied.String())
	assert.Equal(t, "denied", transition.OutcomeDenied.String())
	assert.Equal(t, "config_error", transition.OutcomeConfigError.String())
	assert.Equal(t, "failed", transition.OutcomeFailed.String())
}
