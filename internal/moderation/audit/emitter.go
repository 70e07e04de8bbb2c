package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/arbiter/internal/moderation/chat"
	"github.com/robalyx/arbiter/internal/moderation/verdict"
	"github.com/robalyx/arbiter/pkg/utils"
	"go.uber.org/zap"
)

// TimestampLayout renders the footer time as YYYY-MM-DD HH:MM:SS.
const TimestampLayout = "2006-01-02 15:04:05"

// Severity colours keyed to the action.
const (
	ColorWarn1     = 0x2ECC71
	ColorWarn2     = 0xF1C40F
	ColorWarn3     = 0xE67E22
	ColorBlacklist = 0xE74C3C
	ColorDefault   = 0x312D2B
)

// maxDescriptionLength is Discord's embed description limit.
const maxDescriptionLength = 4096

// Record is the write-once audit entry for one applied sanction.
type Record struct {
	Member    chat.Member
	Tag       verdict.DecisionTag
	Rationale string
	Timestamp time.Time
}

// SeverityColor returns the embed colour for a decision.
func SeverityColor(tag verdict.DecisionTag) int {
	switch tag {
	case verdict.DecisionWarn1:
		return ColorWarn1
	case verdict.DecisionWarn2:
		return ColorWarn2
	case verdict.DecisionWarn3:
		return ColorWarn3
	case verdict.DecisionBlacklist:
		return ColorBlacklist
	case verdict.DecisionUnknown, verdict.DecisionNone, verdict.DecisionWait:
		return ColorDefault
	}
	return ColorDefault
}

// BuildEmbed renders a record as the audit embed.
func BuildEmbed(rec Record) discord.Embed {
	description := fmt.Sprintf("**👤 Member:** %s\n**⚖️ Decision:** %s", rec.Member.Mention(), rec.Rationale)

	return discord.NewEmbedBuilder().
		SetTitle(fmt.Sprintf("🚨 Automated %s 🚨", rec.Tag)).
		SetDescription(utils.TruncateRunes(description, maxDescriptionLength)).
		SetColor(SeverityColor(rec.Tag)).
		SetFooterText("Time: " + rec.Timestamp.Format(TimestampLayout)).
		Build()
}

// Emitter delivers audit records to the reporting channel.
type Emitter struct {
	messenger chat.Messenger
	channelID snowflake.ID
	logger    *zap.Logger
}

// NewEmitter creates an emitter. A zero channelID disables delivery.
func NewEmitter(messenger chat.Messenger, channelID snowflake.ID, logger *zap.Logger) *Emitter {
	return &Emitter{
		messenger: messenger,
		channelID: channelID,
		logger:    logger.Named("audit"),
	}
}

// Emit sends the record. Delivery is best effort: an unresolvable channel or a
// failed send is logged and otherwise ignored.
func (e *Emitter) Emit(ctx context.Context, rec Record) {
	if e.channelID == 0 {
		e.logger.Debug("Audit channel not configured, skipping record",
			zap.Uint64("member_id", uint64(rec.Member.ID)),
			zap.String("decision", rec.Tag.String()))
		return
	}

	content := "⚠️ New Action! " + rec.Member.Mention()
	if err := e.messenger.SendEmbed(ctx, e.channelID, content, BuildEmbed(rec)); err != nil {
		e.logger.Warn("Failed to deliver audit record",
			zap.Error(err),
			zap.Uint64("channel_id", uint64(e.channelID)),
			zap.Uint64("member_id", uint64(rec.Member.ID)),
			zap.String("decision", rec.Tag.String()))
		return
	}

	e.logger.Info("Audit record delivered",
		zap.Uint64("member_id", uint64(rec.Member.ID)),
		zap.String("decision", rec.Tag.String()))
}
