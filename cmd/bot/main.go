package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/robalyx/arbiter/internal/bot"
	"github.com/robalyx/arbiter/internal/moderation/transcript"
	"github.com/robalyx/arbiter/internal/moderation/verdict"
	"github.com/robalyx/arbiter/internal/setup"
	"github.com/robalyx/arbiter/internal/setup/config"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// BotLogDir specifies where bot log files are stored.
	BotLogDir = "logs/bot_logs"

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout = 30 * time.Second
)

var errEmptyPrompt = errors.New("no prompt given")

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.Command{
		Name:   "arbiter",
		Usage:  "AI-assisted ticket moderation bot",
		Action: runBot,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Connect to Discord and moderate ticket channels",
				Action: runBot,
			},
			{
				Name:      "ask",
				Usage:     "Send transcript lines to the model and print the parsed decision",
				ArgsUsage: "<line>...",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "chat",
						Usage: "Use the general chat instruction instead of the rulebook",
					},
				},
				Action: askModel,
			},
			{
				Name:   "check-config",
				Usage:  "Load and validate the configuration",
				Action: checkConfig,
			},
		},
	}

	return app.Run(context.Background(), os.Args)
}

// runBot starts the keep-alive server and the gateway, then waits for a signal.
func runBot(ctx context.Context, _ *cli.Command) error {
	log.Println("⚠️ Bot is starting...")

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := setup.InitializeApp(ctx, "bot", BotLogDir, true)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		app.Cleanup(shutdownCtx)
	}()

	if err := app.Config.Validate(); err != nil {
		app.Logger.Error("Invalid configuration", zap.Error(err))
		return err
	}

	discordBot, err := bot.New(app.Config, app.Requester, app.Metrics, app.Logger)
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	if app.KeepAlive != nil {
		g.Go(app.KeepAlive.Start)
	}

	g.Go(func() error {
		// Stop the keep-alive server on every exit path so the group can finish
		defer func() {
			if app.KeepAlive == nil {
				return
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
			defer cancel()
			if err := app.KeepAlive.Shutdown(shutdownCtx); err != nil {
				app.Logger.Warn("Failed to shutdown keep-alive server", zap.Error(err))
			}
		}()

		if err := discordBot.Start(gctx); err != nil {
			return err
		}

		app.Logger.Info("Bot has been started. Waiting for interrupt signal to gracefully shutdown...")
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		discordBot.Close(shutdownCtx)
		return nil
	})

	return g.Wait()
}

// askModel runs one request through the requester and parser from the terminal.
func askModel(ctx context.Context, c *cli.Command) error {
	lines := c.Args().Slice()
	if len(lines) == 0 {
		return errEmptyPrompt
	}

	app, err := setup.InitializeApp(ctx, "ask", BotLogDir, false)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Cleanup(ctx)

	if c.Bool("chat") {
		reply := app.Requester.Chat(ctx, strings.Join(lines, " "))
		fmt.Println(reply.Text)
		return nil
	}

	reply := app.Requester.Decide(ctx, transcript.Transcript{Lines: lines}.Prompt())
	v := verdict.Parse(reply.Text)

	fmt.Printf("Decision: %s\n\n%s\n", v.Tag, v.Rationale)
	return nil
}

// checkConfig loads and validates the configuration without connecting anywhere.
func checkConfig(_ context.Context, _ *cli.Command) error {
	cfg, configDir, err := config.LoadConfig()
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	fmt.Printf("Configuration at %s is valid\n", configDir)
	if cfg.Common.Gemini.APIKey == "" {
		fmt.Println("Warning: no Gemini API key set, AI replies will be disabled")
	}
	return nil
}
