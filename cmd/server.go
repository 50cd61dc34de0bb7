package main

import (
	"context"
	"time"

	"github.com/Abraxas-365/jobboard/pkg/errx"
	"github.com/Abraxas-365/jobboard/pkg/logx"
	"github.com/Abraxas-365/jobboard/recruitment/application/applicationapi"
	"github.com/Abraxas-365/jobboard/recruitment/job/jobapi"
	"github.com/Abraxas-365/jobboard/recruitment/ranking/rankingapi"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// newServer builds the Fiber app with middleware and all routes
func newServer(container *Container) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Job Board API",
		DisableStartupMessage: true,
		BodyLimit:             container.Config.HTTP.BodyLimit,
		ErrorHandler:          globalErrorHandler,
	})

	// Global Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, PATCH, HEAD",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))

	// Health Check
	app.Get("/health", healthHandler(container))

	// Locally stored resumes
	if container.LocalFiles != nil {
		app.Static("/files", container.LocalFiles.Root(), fiber.Static{Browse: false})
	}

	// Jobs: /api/jobs
	jobapi.RegisterRoutes(app, container.JobHandlers, container.AuthMiddleware)

	// Applications: /api/applications
	applicationapi.RegisterRoutes(app, container.ApplicationHandlers, container.AuthMiddleware)

	// Ranking: /api/ranking
	rankingapi.RegisterRoutes(app, container.RankingHandlers, container.AuthMiddleware)

	return app
}

func healthHandler(container *Container) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
		defer cancel()

		dbOK := container.DB.PingContext(ctx) == nil
		redisOK := container.Redis.Ping(ctx).Err() == nil
		rankingOK := container.Ranker.Health(ctx) == nil

		status := "ok"
		if !dbOK {
			status = "down"
		} else if !redisOK || !rankingOK {
			status = "degraded"
		}

		code := fiber.StatusOK
		if !dbOK {
			code = fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status":  status,
			"db":      dbOK,
			"redis":   redisOK,
			"ranking": rankingOK,
		})
	}
}

// globalErrorHandler converts internal errors to standard HTTP responses
func globalErrorHandler(c *fiber.Ctx, err error) error {
	// Fiber errors (e.g. route not found, body too large)
	if e, ok := err.(*fiber.Error); ok {
		return c.Status(e.Code).JSON(fiber.Map{
			"error":   e.Message,
			"code":    e.Code,
			"success": false,
		})
	}

	if e, ok := errx.As(err); ok {
		if e.HTTPStatus >= fiber.StatusInternalServerError {
			logx.With("code", e.Code, "path", c.Path()).Errorf("%v", e)
		}
		body := e.ToHTTPResponse()
		resp := fiber.Map{
			"type":    body.Type,
			"code":    body.Code,
			"message": body.Message,
			"success": false,
		}
		if len(body.Details) > 0 {
			resp["details"] = body.Details
		}
		return c.Status(e.HTTPStatus).JSON(resp)
	}

	logx.Errorf("Internal Server Error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "Internal Server Error",
		"type":    "INTERNAL",
		"code":    "INTERNAL_ERROR",
		"message": "An unexpected error occurred",
		"success": false,
	})
}
