// Package setup bootstraps configuration, logging and the shared clients.
package setup

import (
	"context"
	"log"

	"github.com/robalyx/arbiter/internal/ai"
	aiClient "github.com/robalyx/arbiter/internal/ai/client"
	"github.com/robalyx/arbiter/internal/setup/config"
	"github.com/robalyx/arbiter/internal/setup/telemetry"
	"go.uber.org/zap"
)

// App bundles all core dependencies and services needed by the application.
type App struct {
	Config     *config.Config     // Application configuration
	ConfigDir  string             // Directory the configuration was loaded from
	Logger     *zap.Logger        // Main application logger
	LogManager *telemetry.Manager // Log session management
	Metrics    *telemetry.Metrics // Prometheus collectors
	Requester  *ai.Requester      // Text generation requester, possibly disconnected
	KeepAlive  *KeepAlive         // Keep-alive HTTP server, nil when disabled
	gemini     *aiClient.GeminiClient
}

// InitializeApp loads configuration and builds the logger, metrics and AI
// requester. A missing or unusable Gemini key degrades the requester instead of
// failing startup.
func InitializeApp(ctx context.Context, component, logDir string, console bool) (*App, error) {
	cfg, configDir, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	// Logging system is initialized next to capture setup issues
	logManager := telemetry.NewManager(component, logDir, &cfg.Common.Debug, console)

	logger, err := logManager.GetLogger()
	if err != nil {
		return nil, err
	}

	logger.Info("Configuration loaded",
		zap.String("config_dir", configDir),
		zap.String("version", config.RepositoryVersion))

	// Only a working client is handed to the requester so it never sees a typed nil
	var (
		generator aiClient.TextGenerator
		gemini    *aiClient.GeminiClient
	)

	gemini, err = aiClient.NewClient(ctx, &cfg.Common.Gemini, logger)
	if err != nil {
		logger.Error("Gemini client unavailable, AI replies are disabled", zap.Error(err))
	} else {
		generator = gemini
		logger.Info("Gemini client ready", zap.String("model", gemini.Model()))
	}

	metrics := telemetry.NewMetrics()
	requester := ai.NewRequester(generator, logger)

	var keepAlive *KeepAlive
	if cfg.Common.KeepAlive.Enabled {
		keepAlive = NewKeepAlive(&cfg.Common.KeepAlive, metrics, requester.Connected(), logger)
	}

	return &App{
		Config:     cfg,
		ConfigDir:  configDir,
		Logger:     logger,
		LogManager: logManager,
		Metrics:    metrics,
		Requester:  requester,
		KeepAlive:  keepAlive,
		gemini:     gemini,
	}, nil
}

// Cleanup ensures graceful shutdown of all components in reverse initialization order.
// Logs but does not fail on cleanup errors to ensure all components get cleanup attempts.
func (s *App) Cleanup(ctx context.Context) {
	if s.KeepAlive != nil {
		if err := s.KeepAlive.Shutdown(ctx); err != nil {
			s.Logger.Error("Failed to shutdown keep-alive server", zap.Error(err))
		}
	}

	if s.gemini != nil {
		if err := s.gemini.Close(); err != nil {
			s.Logger.Error("Failed to close Gemini client", zap.Error(err))
		}
	}

	// Sync buffered logs before shutdown
	if err := s.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	if err := s.LogManager.Close(); err != nil {
		log.Printf("Failed to close log manager: %v", err)
	}
}
