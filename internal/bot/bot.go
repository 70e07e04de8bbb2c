// Package bot connects the moderation pipeline to the Discord gateway.
package bot

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo"
	disgobot "github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/arbiter/internal/ai"
	botEvents "github.com/robalyx/arbiter/internal/bot/events"
	discordclient "github.com/robalyx/arbiter/internal/discord/client"
	"github.com/robalyx/arbiter/internal/moderation"
	"github.com/robalyx/arbiter/internal/moderation/audit"
	"github.com/robalyx/arbiter/internal/moderation/sanction"
	"github.com/robalyx/arbiter/internal/moderation/transcript"
	"github.com/robalyx/arbiter/internal/moderation/transition"
	"github.com/robalyx/arbiter/internal/setup/config"
	"github.com/robalyx/arbiter/internal/setup/telemetry"
	"go.uber.org/zap"
)

// Bot owns the gateway connection and hands every guild message to the dispatcher.
type Bot struct {
	client      disgobot.Client
	discord     *discordclient.Client
	dispatcher  *Dispatcher
	guildEvents *botEvents.GuildEventHandler
	cancel      context.CancelFunc
	logger      *zap.Logger
}

// New builds the moderation pipeline on top of a disgo client. The gateway is
// not opened until Start.
func New(
	cfg *config.Config, requester *ai.Requester, metrics *telemetry.Metrics, logger *zap.Logger,
) (*Bot, error) {
	b := &Bot{
		guildEvents: botEvents.NewGuildEventHandler(logger),
		logger:      logger.Named("bot"),
	}

	// Message content and member intents are privileged and must be enabled
	// for the application in the developer portal
	client, err := disgo.New(cfg.Bot.Discord.Token,
		disgobot.WithGatewayConfigOpts(
			gateway.WithIntents(
				gateway.IntentGuilds,
				gateway.IntentGuildMessages,
				gateway.IntentMessageContent,
				gateway.IntentGuildMembers,
			),
		),
		disgobot.WithEventListeners(&events.ListenerAdapter{
			OnReady:              b.guildEvents.OnReady,
			OnGuildJoin:          b.guildEvents.OnGuildJoin,
			OnGuildLeave:         b.guildEvents.OnGuildLeave,
			OnGuildMessageCreate: b.handleGuildMessageCreate,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord client: %w", err)
	}
	b.client = client
	b.discord = discordclient.New(client.Rest(), client.ID(), logger)

	roles := cfg.Bot.Roles
	roleSet := sanction.RoleSet{
		Warn1:     snowflake.ID(roles.Warn1),
		Warn2:     snowflake.ID(roles.Warn2),
		Warn3:     snowflake.ID(roles.Warn3),
		Blacklist: snowflake.ID(roles.Blacklist),
	}

	emitter := audit.NewEmitter(b.discord, snowflake.ID(cfg.Bot.Discord.AuditChannelID), logger)
	engine := transition.NewEngine(b.discord, b.discord, emitter, roleSet, nil, logger)
	pipeline := moderation.NewPipeline(
		transcript.NewBuilder(b.discord, cfg.Bot.Transcript.Window, logger),
		requester, engine, b.discord, metrics, logger)

	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	b.dispatcher = NewDispatcher(ctx,
		NewRouter(client.ID(), snowflake.ID(cfg.Bot.Discord.TicketCategoryID)),
		b, pipeline, logger)

	return b, nil
}

// Start opens the gateway connection.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Starting bot", zap.String("botID", b.client.ID().String()))

	if err := b.client.OpenGateway(ctx); err != nil {
		return fmt.Errorf("failed to open gateway: %w", err)
	}
	return nil
}

// Close shuts down the gateway and waits for in-flight handlers. Handlers are
// cancelled only once ctx expires.
func (b *Bot) Close(ctx context.Context) {
	b.logger.Info("Closing bot")
	b.client.Close(ctx)

	done := make(chan struct{})
	go func() {
		b.dispatcher.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		b.logger.Warn("Shutdown deadline reached, cancelling in-flight handlers")
		b.cancel()
		<-done
	}
	b.cancel()
}

// ParentID implements ChannelResolver, preferring the gateway cache.
func (b *Bot) ParentID(ctx context.Context, channelID snowflake.ID) (snowflake.ID, error) {
	return ResolveCategory(ctx, b.channel, channelID)
}

func (b *Bot) channel(ctx context.Context, channelID snowflake.ID) (discordclient.ChannelInfo, error) {
	if channel, ok := b.client.Caches().Channel(channelID); ok {
		return discordclient.Describe(channel), nil
	}
	return b.discord.Channel(ctx, channelID)
}

func (b *Bot) handleGuildMessageCreate(event *events.GuildMessageCreate) {
	msg := event.Message

	mentionIDs := make([]snowflake.ID, 0, len(msg.Mentions))
	for _, user := range msg.Mentions {
		mentionIDs = append(mentionIDs, user.ID)
	}

	b.dispatcher.Dispatch(Message{
		GuildID:   event.GuildID,
		ChannelID: event.ChannelID,
		Inbound: Inbound{
			AuthorID:   msg.Author.ID,
			MentionIDs: mentionIDs,
			Content:    msg.Content,
		},
	})
}
