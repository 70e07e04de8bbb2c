// Package moderation runs the ticket and chat flows for a single message.
package moderation

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"github.com/robalyx/arbiter/internal/ai"
	"github.com/robalyx/arbiter/internal/moderation/chat"
	"github.com/robalyx/arbiter/internal/moderation/transcript"
	"github.com/robalyx/arbiter/internal/moderation/transition"
	"github.com/robalyx/arbiter/internal/moderation/verdict"
	"github.com/robalyx/arbiter/internal/setup/telemetry"
	"github.com/robalyx/arbiter/pkg/utils"
	"go.uber.org/zap"
)

const (
	// ReplyHeader prefixes the model's reply in ticket channels.
	ReplyHeader = "**🤖 AI Support Reply:**\n"
	// WaitNotice asks the ticket for more evidence.
	WaitNotice = "⏳ يرجى تزويدنا بأدلة أو معلومات إضافية لاستكمال عملية المحاسبة."
	// MaxMessageLength is Discord's message content limit in characters.
	MaxMessageLength = 2000
)

// Flow labels used in logs and metrics.
const (
	FlowTicket = "ticket"
	FlowChat   = "chat"
)

// Ticket identifies a message posted in a ticket channel.
type Ticket struct {
	GuildID   snowflake.ID
	ChannelID snowflake.ID
	AuthorID  snowflake.ID
}

// Question is a message that mentioned the bot outside tickets.
type Question struct {
	ChannelID snowflake.ID
	AuthorID  snowflake.ID
	Text      string
}

// TicketResult describes what the ticket flow did.
type TicketResult struct {
	Verdict    verdict.Verdict
	Reply      ai.Reply
	Transition transition.Result
}

// Pipeline wires the moderation components together.
type Pipeline struct {
	transcripts *transcript.Builder
	requester   *ai.Requester
	engine      *transition.Engine
	messenger   chat.Messenger
	metrics     *telemetry.Metrics
	logger      *zap.Logger
}

// NewPipeline creates a pipeline.
func NewPipeline(
	transcripts *transcript.Builder, requester *ai.Requester, engine *transition.Engine,
	messenger chat.Messenger, metrics *telemetry.Metrics, logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		transcripts: transcripts,
		requester:   requester,
		engine:      engine,
		messenger:   messenger,
		metrics:     metrics,
		logger:      logger.Named("pipeline"),
	}
}

// HandleTicket runs the ticket flow: transcript, request, parse, reply, then the
// role transition for the message author. Only a transcript failure is returned;
// every later failure is contained and logged.
func (p *Pipeline) HandleTicket(ctx context.Context, ticket Ticket) (TicketResult, error) {
	logger := p.logger.With(
		zap.String("handling_id", uuid.NewString()),
		zap.String("flow", FlowTicket),
		zap.Uint64("channel_id", uint64(ticket.ChannelID)),
		zap.Uint64("author_id", uint64(ticket.AuthorID)))

	p.metrics.MessagesHandled.WithLabelValues(FlowTicket).Inc()

	tr, err := p.transcripts.Build(ctx, ticket.ChannelID)
	if err != nil {
		return TicketResult{}, fmt.Errorf("failed to build ticket transcript: %w", err)
	}

	reply := p.request(ctx, func(ctx context.Context) ai.Reply {
		return p.requester.Decide(ctx, tr.Prompt())
	})

	v := verdict.Parse(reply.Text)
	p.metrics.Decisions.WithLabelValues(v.Tag.String()).Inc()

	logger.Info("Ticket decision parsed",
		zap.String("decision", v.Tag.String()),
		zap.Bool("sanction", v.HasSanction()),
		zap.Int("transcript_lines", len(tr.Lines)),
		zap.Bool("generation_failed", reply.Failed))

	p.send(ctx, logger, ticket.ChannelID, ReplyHeader+v.Rationale)

	if v.Tag == verdict.DecisionWait {
		p.send(ctx, logger, ticket.ChannelID, WaitNotice)
	}

	result := p.engine.Apply(ctx, transition.Request{
		GuildID:   ticket.GuildID,
		ChannelID: ticket.ChannelID,
		UserID:    ticket.AuthorID,
		Verdict:   v,
	})
	p.metrics.Transitions.WithLabelValues(result.Outcome.String()).Inc()

	return TicketResult{Verdict: v, Reply: reply, Transition: result}, nil
}

// HandleQuestion runs the chat flow and answers with the raw reply.
func (p *Pipeline) HandleQuestion(ctx context.Context, question Question) ai.Reply {
	logger := p.logger.With(
		zap.String("handling_id", uuid.NewString()),
		zap.String("flow", FlowChat),
		zap.Uint64("channel_id", uint64(question.ChannelID)),
		zap.Uint64("author_id", uint64(question.AuthorID)))

	p.metrics.MessagesHandled.WithLabelValues(FlowChat).Inc()

	reply := p.request(ctx, func(ctx context.Context) ai.Reply {
		return p.requester.Chat(ctx, question.Text)
	})

	logger.Debug("Answering mention", zap.Bool("generation_failed", reply.Failed))

	p.send(ctx, logger, question.ChannelID, chat.Member{ID: question.AuthorID}.Mention()+" "+reply.Text)

	return reply
}

// request times one generation call.
func (p *Pipeline) request(ctx context.Context, fn func(context.Context) ai.Reply) ai.Reply {
	start := time.Now()
	reply := fn(ctx)
	p.metrics.ObserveGeneration(time.Since(start), reply.Failed)
	return reply
}

// send posts content, split into Discord-sized chunks.
func (p *Pipeline) send(ctx context.Context, logger *zap.Logger, channelID snowflake.ID, content string) {
	for _, chunk := range utils.SplitMessage(content, MaxMessageLength) {
		if err := p.messenger.SendText(ctx, channelID, chunk); err != nil {
			logger.Warn("Failed to send message", zap.Error(err))
			return
		}
	}
}
