package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/Abraxas-365/asynckit/pkg/config"
	"github.com/Abraxas-365/asynckit/pkg/errx"
	"github.com/Abraxas-365/asynckit/pkg/logx"
)

func main() {
	// 1. Initialize Logger
	log := logx.NewLogger(logx.LoadFromEnv())
	logx.SetDefaultLogger(log)

	logx.Info("🚀 Starting asynckit admin server...")

	// 2. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		logx.Fatalf("Invalid configuration: %v", err)
	}

	// 3. Initialize Dependency Container
	container := NewContainer(cfg, log)

	// 4. Create Fiber App
	app := newApp(container)

	// 5. Start Server with Graceful Shutdown
	startServer(app, container)
}

// newApp builds the Fiber app with middleware and routes.
func newApp(container *Container) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "asynckit admin",
		DisableStartupMessage: true,
		ErrorHandler:          globalErrorHandler,
		BodyLimit:             1 * 1024 * 1024,
		IdleTimeout:           120 * time.Second,
	})

	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return "req-" + uuid.NewString()
		},
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins:  getCORSOrigins(container.Config),
		AllowHeaders:  "Origin, Content-Type, Accept, X-Request-ID",
		AllowMethods:  "GET, POST, OPTIONS",
		ExposeHeaders: "X-Request-ID",
	}))

	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path} | ${ip} | ${reqHeader:X-Request-ID}\n",
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Local",
	}))

	app.Get("/health", healthCheckHandler(container))
	app.Get("/", infoHandler)
	app.Get("/metrics", metricsHandler(container))

	registerQueueRoutes(app, container)

	app.Use(notFoundHandler)
	return app
}

// ============================================================================
// Handler Functions
// ============================================================================

// healthCheckHandler reports service health and queue totals.
func healthCheckHandler(container *Container) fiber.Handler {
	return func(c *fiber.Ctx) error {
		running, queued := 0, 0
		for _, name := range container.Names() {
			q, _ := container.Lookup(name)
			s := q.Stats()
			running += s.Running
			queued += s.Queued
		}

		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "asynckit-admin",
			"version": getEnv("APP_VERSION", "1.0.0"),
			"queues":  len(container.Names()),
			"running": running,
			"queued":  queued,
		})
	}
}

// infoHandler returns basic API information
func infoHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service":     "asynckit admin",
		"version":     getEnv("APP_VERSION", "1.0.0"),
		"description": "Inspect and control in-process task queues",
		"endpoints": fiber.Map{
			"health":  "GET /health",
			"metrics": "GET /metrics",
			"queues":  "GET /queues",
			"queue":   "GET /queues/:name",
			"enqueue": "POST /queues/:name/jobs",
			"pause":   "POST /queues/:name/pause",
			"resume":  "POST /queues/:name/resume",
			"clear":   "POST /queues/:name/clear",
			"memo":    "GET /memo",
		},
	})
}

// metricsHandler exposes queue metrics in Prometheus text format.
func metricsHandler(container *Container) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, "text/plain; version=0.0.4")
		container.Metrics.WritePrometheus(c.Response().BodyWriter())
		return nil
	}
}

// notFoundHandler handles 404 errors
func notFoundHandler(c *fiber.Ctx) error {
	return errx.NotFound("Route not found").WithDetails(map[string]any{
		"path":   c.Path(),
		"method": c.Method(),
	})
}

// ============================================================================
// Error Handler
// ============================================================================

// globalErrorHandler converts internal errors to standard HTTP responses
func globalErrorHandler(c *fiber.Ctx, err error) error {
	logx.WithFields(logx.Fields{
		"path":       c.Path(),
		"method":     c.Method(),
		"ip":         c.IP(),
		"request_id": c.Get("X-Request-ID"),
	}).Errorf("Request error: %v", err)

	// If it's a Fiber error
	if e, ok := err.(*fiber.Error); ok {
		return c.Status(e.Code).JSON(fiber.Map{
			"error":      e.Message,
			"code":       "FIBER_ERROR",
			"status":     e.Code,
			"request_id": c.Get("X-Request-ID"),
		})
	}

	// Anything that is not already an errx.Error becomes an internal one
	e, ok := err.(*errx.Error)
	if !ok {
		e = errx.Wrapf(err, errx.TypeInternal, "Unexpected error handling %s %s", c.Method(), c.Path())
	}

	response := e.ToHTTPResponse()
	body := fiber.Map{
		"error":      response.Message,
		"code":       response.Code,
		"type":       response.Type,
		"status":     e.HTTPStatus,
		"request_id": c.Get("X-Request-ID"),
	}
	if len(response.Details) > 0 {
		body["details"] = response.Details
	}
	if getEnv("DEBUG", "false") == "true" && e.Err != nil {
		body["underlying_error"] = e.Err.Error()
	}
	return c.Status(e.HTTPStatus).JSON(body)
}

// ============================================================================
// Utility Functions
// ============================================================================

// getCORSOrigins returns allowed CORS origins
func getCORSOrigins(cfg *config.Config) string {
	origins := strings.Join(cfg.Server.CORSOrigins, ",")
	if origins == "" {
		return "*"
	}
	return origins
}

// startServer starts the server with graceful shutdown
func startServer(app *fiber.App, container *Container) {
	port := container.Config.Server.Port

	go func() {
		logx.Infof("🚀 Server listening on port %s", port)
		logx.Infof("💚 Health Check: http://localhost:%s/health", port)

		if err := app.Listen(":" + port); err != nil {
			logx.Fatalf("Server error: %v", err)
		}
	}()

	gracefulShutdown(app, container)
}

// gracefulShutdown stops accepting requests, then drains the queues.
func gracefulShutdown(app *fiber.App, container *Container) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logx.Infof("🛑 Received signal: %v", sig)
	logx.Info("Shutting down gracefully...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logx.Errorf("Server forced to shutdown: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	container.Shutdown(ctx)

	logx.Info("✅ Server exited successfully")
}
