package server

import (
	"fmt"

	"storefront-gateway/internal/core/config"
	"storefront-gateway/internal/core/httpclient"
	"storefront-gateway/internal/core/logger"
	"storefront-gateway/internal/core/respond"

	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"

	_ "storefront-gateway/docs/swagger"
)

// Server holds the Fiber application and configuration.
type Server struct {
	// App is the main Fiber application instance.
	App *fiber.App
	// cfg holds the application configuration.
	cfg *config.AppConfig
}

// New creates a new Server instance with configured middleware.
func New(cfg *config.AppConfig) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               "storefront-gateway",
		ErrorHandler:          respond.FiberErrorHandler,
		BodyLimit:             bodyLimit(cfg.Uploads.MaxBytes),
	})

	app.Use(requestid.New(requestid.Config{
		Header: httpclient.RayIDHeader,
	}))

	// Backend calls made with c.UserContext() carry the same ray id.
	app.Use(func(c *fiber.Ctx) error {
		c.SetUserContext(logger.WithRayID(c.UserContext(), respond.RayID(c)))
		return c.Next()
	})

	app.Use(fiberzap.New(fiberzap.Config{
		Logger: logger.Get(),
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)

	return &Server{
		App: app,
		cfg: cfg,
	}
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.cfg.ServerPort)
	logger.Get().Info("Starting server", zap.String("address", addr))
	return s.App.Listen(addr)
}

// bodyLimit leaves room for multipart framing around the largest accepted upload.
func bodyLimit(maxUpload int64) int {
	const defaultLimit = 4 * 1024 * 1024
	if maxUpload <= 0 {
		return defaultLimit
	}
	return int(maxUpload) + 1024*1024
}
