package bot

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/arbiter/internal/ai"
	"github.com/robalyx/arbiter/internal/moderation"
	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// Handler runs the moderation flows.
type Handler interface {
	HandleTicket(ctx context.Context, ticket moderation.Ticket) (moderation.TicketResult, error)
	HandleQuestion(ctx context.Context, question moderation.Question) ai.Reply
}

// ChannelResolver looks up the category of a channel.
type ChannelResolver interface {
	ParentID(ctx context.Context, channelID snowflake.ID) (snowflake.ID, error)
}

// Message is an inbound guild message.
type Message struct {
	GuildID   snowflake.ID
	ChannelID snowflake.ID
	Inbound
}

// Dispatcher routes messages and runs each one in its own pooled goroutine.
type Dispatcher struct {
	ctx      context.Context
	router   Router
	channels ChannelResolver
	handler  Handler
	tasks    *pool.Pool
	logger   *zap.Logger
}

// NewDispatcher creates a dispatcher. Handlers run under ctx itself with no
// deadline; cancelling ctx is the only way to stop them.
func NewDispatcher(
	ctx context.Context, router Router, channels ChannelResolver, handler Handler, logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		ctx:      ctx,
		router:   router,
		channels: channels,
		handler:  handler,
		tasks:    pool.New(),
		logger:   logger.Named("dispatcher"),
	}
}

// Dispatch queues the message for handling. The bot's own messages are dropped
// before any lookup.
func (d *Dispatcher) Dispatch(msg Message) {
	if msg.AuthorID == d.router.selfID {
		return
	}

	d.tasks.Go(func() {
		var catcher panics.Catcher
		catcher.Try(func() { d.handle(msg) })

		if recovered := catcher.Recovered(); recovered != nil {
			d.logger.Error("Panic while handling message",
				zap.Uint64("channel_id", uint64(msg.ChannelID)),
				zap.Any("panic", recovered.Value),
				zap.String("stack", string(recovered.Stack)))
		}
	})
}

// Wait blocks until every queued message has been handled.
func (d *Dispatcher) Wait() {
	d.tasks.Wait()
}

func (d *Dispatcher) handle(msg Message) {
	ctx := d.ctx

	parentID, err := d.channels.ParentID(ctx, msg.ChannelID)
	if err != nil {
		d.logger.Warn("Failed to resolve channel category",
			zap.Uint64("channel_id", uint64(msg.ChannelID)),
			zap.Error(err))
	}
	msg.ParentID = parentID

	route, text := d.router.Route(msg.Inbound)
	switch route {
	case RouteTicket:
		_, err := d.handler.HandleTicket(ctx, moderation.Ticket{
			GuildID:   msg.GuildID,
			ChannelID: msg.ChannelID,
			AuthorID:  msg.AuthorID,
		})
		if err != nil {
			d.logger.Error("Failed to handle ticket message",
				zap.Uint64("channel_id", uint64(msg.ChannelID)),
				zap.Error(err))
		}
	case RouteChat:
		d.handler.HandleQuestion(ctx, moderation.Question{
			ChannelID: msg.ChannelID,
			AuthorID:  msg.AuthorID,
			Text:      text,
		})
	case RouteNone:
	}
}
