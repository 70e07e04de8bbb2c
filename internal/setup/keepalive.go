package setup

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/robalyx/arbiter/internal/setup/config"
	"github.com/robalyx/arbiter/internal/setup/telemetry"
	"go.uber.org/zap"
)

// KeepAliveReply is the body served on the root path.
const KeepAliveReply = "Bot is running!"

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status      string `json:"status"`
	Uptime      string `json:"uptime"`
	AIConnected bool   `json:"ai_connected"`
}

// KeepAlive serves the uptime probe, health and metrics endpoints.
type KeepAlive struct {
	echo        *echo.Echo
	addr        string
	started     time.Time
	aiConnected bool
	logger      *zap.Logger
}

// NewKeepAlive creates the keep-alive server without starting it.
func NewKeepAlive(
	cfg *config.KeepAlive, metrics *telemetry.Metrics, aiConnected bool, logger *zap.Logger,
) *KeepAlive {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = sonicSerializer{}

	e.Use(middleware.Recover())

	k := &KeepAlive{
		echo:        e,
		addr:        net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		started:     time.Now(),
		aiConnected: aiConnected,
		logger:      logger.Named("keepalive"),
	}

	e.GET("/", k.handleRoot)
	e.GET("/health", k.handleHealth)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	return k
}

// Handler exposes the router for in-process requests.
func (k *KeepAlive) Handler() http.Handler {
	return k.echo
}

// Start serves until Shutdown is called.
func (k *KeepAlive) Start() error {
	k.logger.Info("Starting keep-alive server", zap.String("addr", k.addr))

	if err := k.echo.Start(k.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("keep-alive server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (k *KeepAlive) Shutdown(ctx context.Context) error {
	k.logger.Info("Shutting down keep-alive server")
	return k.echo.Shutdown(ctx)
}

func (k *KeepAlive) handleRoot(c echo.Context) error {
	return c.String(http.StatusOK, KeepAliveReply)
}

func (k *KeepAlive) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:      "ok",
		Uptime:      time.Since(k.started).Round(time.Second).String(),
		AIConnected: k.aiConnected,
	})
}

// sonicSerializer implements echo.JSONSerializer with sonic.
type sonicSerializer struct{}

func (sonicSerializer) Serialize(c echo.Context, i any, indent string) error {
	enc := sonic.ConfigStd.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (sonicSerializer) Deserialize(c echo.Context, i any) error {
	if err := sonic.ConfigStd.NewDecoder(c.Request().Body).Decode(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}
	return nil
}
