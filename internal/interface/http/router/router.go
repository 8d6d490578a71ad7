package router

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/wichananm65/registration-service/internal/user"
)

// LivenessMessage is returned by GET / regardless of stored data.
const LivenessMessage = "Backend server is running"

const healthTimeout = 2 * time.Second

// Pinger reports whether the storage backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Config struct {
	CORSOrigin string
	// LogOutput receives one access log line per request; nil keeps
	// fiber's default of stdout.
	LogOutput io.Writer
}

// New builds the fiber app with middleware, health endpoints and the
// registration routes.
func New(cfg Config, store Pinger, userHandler *user.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	setupCORS(app, cfg.CORSOrigin)
	app.Use(requestLogger(cfg.LogOutput))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(LivenessMessage)
	})
	app.Get("/healthz", healthz(store))

	userHandler.RegisterPublicRoutes(app)

	return app
}

func setupCORS(app *fiber.App, origin string) {
	if origin == "" {
		origin = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origin,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
}

func requestLogger(out io.Writer) fiber.Handler {
	cfg := logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}
	if out != nil {
		cfg.Output = out
	}
	return logger.New(cfg)
}

func healthz(store Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"ok": false})
		}
		return c.JSON(fiber.Map{"ok": true})
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := user.MsgInternal

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	return c.Status(code).JSON(fiber.Map{"message": message})
}
