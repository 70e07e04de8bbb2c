package transition

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/arbiter/internal/moderation/audit"
	"github.com/robalyx/arbiter/internal/moderation/chat"
	"github.com/robalyx/arbiter/internal/moderation/sanction"
	"github.com/robalyx/arbiter/internal/moderation/verdict"
	"github.com/robalyx/arbiter/pkg/utils"
	"go.uber.org/zap"
)

// Notices posted to the triggering channel.
const (
	PermissionDeniedNotice = "❌ BOT Permission Error: Cannot manage roles. Check BOT hierarchy."
	ConfigErrorNotice      = "❌ Role Application Failed: Check configured role IDs."
	GrantedNoticeFormat    = "✅ Role granted to %s: **%s**."
	RoleFailureNotice      = "❌ Role Application Failed: The role change was rejected, no roles were modified."
	GrantFailedNotice      = "❌ Role Application Failed: Previous sanction roles were removed but the new role " +
		"could not be granted. Please apply it manually."
)

// Audit-log reasons attached to role mutations.
const (
	RemoveReason      = "Automated role removal before applying new action."
	GrantReasonFormat = "Auto decision: %s - %s"
)

// maxReasonLength is Discord's audit-log reason limit.
const maxReasonLength = 512

// Mutation steps, in order.
const (
	stepRevoke = "revoke"
	stepGrant  = "grant"
)

// Outcome classifies how a transition ended.
type Outcome int

const (
	// OutcomeNoop means the decision does not change roles.
	OutcomeNoop Outcome = iota
	// OutcomeApplied means the target role was granted.
	OutcomeApplied
	// OutcomeDenied means the chat service refused a mutation.
	OutcomeDenied
	// OutcomeConfigError means a configured role does not resolve.
	OutcomeConfigError
	// OutcomeFailed means an unexpected collaborator failure.
	OutcomeFailed
)

// String returns the outcome label used in logs and metrics.
func (o Outcome) String() string {
	switch o {
	case OutcomeNoop:
		return "noop"
	case OutcomeApplied:
		return "applied"
	case OutcomeDenied:
		return "denied"
	case OutcomeConfigError:
		return "config_error"
	case OutcomeFailed:
		return "failed"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Request is one transition to apply.
type Request struct {
	GuildID   snowflake.ID
	ChannelID snowflake.ID
	UserID    snowflake.ID
	Verdict   verdict.Verdict
}

// Result describes what the engine did.
type Result struct {
	Outcome Outcome
	Plan    sanction.Plan
	Err     error
}

// Auditor receives a record for every successful grant.
type Auditor interface {
	Emit(ctx context.Context, rec audit.Record)
}

// Engine applies sanction transitions to guild members.
type Engine struct {
	roles     chat.RoleManager
	messenger chat.Messenger
	auditor   Auditor
	roleSet   sanction.RoleSet
	now       func() time.Time
	logger    *zap.Logger
}

// NewEngine creates a transition engine. A nil clock uses time.Now.
func NewEngine(
	roles chat.RoleManager, messenger chat.Messenger, auditor Auditor,
	roleSet sanction.RoleSet, now func() time.Time, logger *zap.Logger,
) *Engine {
	if now == nil {
		now = time.Now
	}

	return &Engine{
		roles:     roles,
		messenger: messenger,
		auditor:   auditor,
		roleSet:   roleSet,
		now:       now,
		logger:    logger.Named("transition"),
	}
}

// Apply runs one transition. Either the member ends holding exactly the target
// sanction role, or no grant happens. Errors are reported through the result and
// the channel notices; Apply itself never fails.
func (e *Engine) Apply(ctx context.Context, req Request) Result {
	logger := e.logger.With(
		zap.Uint64("guild_id", uint64(req.GuildID)),
		zap.Uint64("user_id", uint64(req.UserID)),
		zap.String("decision", req.Verdict.Tag.String()))

	target, ok := sanction.Next(req.Verdict.Tag)
	if !ok {
		logger.Debug("Decision does not change roles")
		return Result{Outcome: OutcomeNoop}
	}

	// Resolve the target role before touching the member
	roleID, err := e.roleSet.RoleFor(target)
	if err != nil {
		logger.Error("Sanction role is not configured", zap.Error(err))
		e.notify(ctx, req.ChannelID, ConfigErrorNotice)
		return Result{Outcome: OutcomeConfigError, Err: err}
	}

	role, err := e.roles.Role(ctx, req.GuildID, roleID)
	if err != nil {
		if errors.Is(err, chat.ErrNotFound) {
			logger.Error("Configured sanction role does not exist",
				zap.Uint64("role_id", uint64(roleID)),
				zap.Error(err))
			e.notify(ctx, req.ChannelID, ConfigErrorNotice)
			return Result{Outcome: OutcomeConfigError, Err: err}
		}

		logger.Error("Failed to resolve sanction role", zap.Error(err))
		return Result{Outcome: OutcomeFailed, Err: err}
	}

	member, err := e.roles.Member(ctx, req.GuildID, req.UserID)
	if err != nil {
		logger.Error("Failed to fetch member roles", zap.Error(err))
		return Result{Outcome: OutcomeFailed, Err: err}
	}

	botTop, err := e.roles.BotTopRole(ctx, req.GuildID)
	if err != nil {
		logger.Warn("Failed to resolve bot top role, continuing without exclusion", zap.Error(err))
		botTop = 0
	}

	plan, err := e.roleSet.PlanFor(target, member.RoleIDs, botTop)
	if err != nil {
		logger.Error("Failed to plan transition", zap.Error(err))
		e.notify(ctx, req.ChannelID, ConfigErrorNotice)
		return Result{Outcome: OutcomeConfigError, Err: err}
	}

	// Revoke previous sanctions in one batch; a refusal leaves the member untouched
	if len(plan.Remove) > 0 {
		if err := e.roles.RemoveRoles(ctx, member, plan.Remove, RemoveReason); err != nil {
			return e.mutationFailed(ctx, logger, req, plan, stepRevoke, err)
		}
	}

	grantReason := utils.TruncateRunes(
		fmt.Sprintf(GrantReasonFormat, req.Verdict.Tag, req.Verdict.Rationale), maxReasonLength)
	if err := e.roles.AddRole(ctx, member, plan.Grant, grantReason); err != nil {
		return e.mutationFailed(ctx, logger, req, plan, stepGrant, err)
	}

	logger.Info("Sanction applied",
		zap.String("from", plan.From.String()),
		zap.String("to", plan.To.String()),
		zap.Int("revoked", len(plan.Remove)))

	e.notify(ctx, req.ChannelID, fmt.Sprintf(GrantedNoticeFormat, member.Mention(), role.Name))

	e.auditor.Emit(ctx, audit.Record{
		Member:    member,
		Tag:       req.Verdict.Tag,
		Rationale: req.Verdict.Rationale,
		Timestamp: e.now(),
	})

	return Result{Outcome: OutcomeApplied, Plan: plan}
}

// mutationFailed maps a failed role call to a result and channel notice.
func (e *Engine) mutationFailed(
	ctx context.Context, logger *zap.Logger, req Request, plan sanction.Plan, step string, err error,
) Result {
	if errors.Is(err, chat.ErrPermissionDenied) {
		logger.Warn("Chat service denied role mutation",
			zap.String("step", step),
			zap.Error(err))
		e.notify(ctx, req.ChannelID, PermissionDeniedNotice)
		return Result{Outcome: OutcomeDenied, Plan: plan, Err: err}
	}

	// A grant failing after a successful revoke leaves the member with no sanction role
	revoked := step == stepGrant && len(plan.Remove) > 0
	logger.Error("Role mutation failed",
		zap.String("step", step),
		zap.Bool("revoked", revoked),
		zap.Error(err))

	if revoked {
		e.notify(ctx, req.ChannelID, GrantFailedNotice)
	} else {
		e.notify(ctx, req.ChannelID, RoleFailureNotice)
	}
	return Result{Outcome: OutcomeFailed, Plan: plan, Err: err}
}

// notify posts a notice, logging send failures.
func (e *Engine) notify(ctx context.Context, channelID snowflake.ID, content string) {
	if err := e.messenger.SendText(ctx, channelID, content); err != nil {
		e.logger.Warn("Failed to send channel notice",
			zap.Uint64("channel_id", uint64(channelID)),
			zap.Error(err))
	}
}
