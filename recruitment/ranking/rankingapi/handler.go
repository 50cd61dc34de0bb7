package rankingapi

import (
	"github.com/Abraxas-365/jobboard/pkg/iam/auth"
	"github.com/Abraxas-365/jobboard/pkg/kernel"
	"github.com/Abraxas-365/jobboard/recruitment/application"
	"github.com/Abraxas-365/jobboard/recruitment/ranking/rankingsrv"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for ranking operations
type Handlers struct {
	orchestrator *rankingsrv.Orchestrator
}

// NewHandlers creates a new ranking handlers instance
func NewHandlers(orchestrator *rankingsrv.Orchestrator) *Handlers {
	return &Handlers{
		orchestrator: orchestrator,
	}
}

// RankApplications ranks a job's applications
// POST /api/ranking/jobs/:jobId
func (h *Handlers) RankApplications(c *fiber.Ctx) error {
	jobID := kernel.JobID(c.Params("jobId"))
	if jobID.IsEmpty() {
		return application.ErrInvalidRequest().WithDetail("job_id", "missing or empty")
	}

	result, err := h.orchestrator.Rank(c.UserContext(), jobID)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// GetRankedApplications returns the cached ranking or ranks on a miss
// GET /api/ranking/jobs/:jobId
func (h *Handlers) GetRankedApplications(c *fiber.Ctx) error {
	jobID := kernel.JobID(c.Params("jobId"))
	if jobID.IsEmpty() {
		return application.ErrInvalidRequest().WithDetail("job_id", "missing or empty")
	}

	result, err := h.orchestrator.RankedApplications(c.UserContext(), jobID)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// RegisterRoutes registers all ranking routes
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.TokenMiddleware) {
	api := app.Group("/api/ranking")

	api.Get("/jobs/:jobId",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeApplicationsRank),
		handlers.GetRankedApplications,
	)

	api.Post("/jobs/:jobId",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeApplicationsRank),
		handlers.RankApplications,
	)
}
