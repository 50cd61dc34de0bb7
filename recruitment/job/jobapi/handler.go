package jobapi

import (
	"github.com/Abraxas-365/jobboard/pkg/iam/auth"
	"github.com/Abraxas-365/jobboard/pkg/kernel"
	"github.com/Abraxas-365/jobboard/recruitment/job"
	"github.com/Abraxas-365/jobboard/recruitment/job/jobsrv"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for job operations
type Handlers struct {
	service *jobsrv.JobService
}

// NewHandlers creates a new job handlers instance
func NewHandlers(service *jobsrv.JobService) *Handlers {
	return &Handlers{
		service: service,
	}
}

// CreateJob creates a new job posting
// POST /api/jobs
func (h *Handlers) CreateJob(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return job.ErrInsufficientPermissions()
	}

	var req job.CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return job.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}

	newJob, err := h.service.CreateJob(c.Context(), req, authContext.UserID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "New job created successfully.",
		"job":     newJob,
		"success": true,
	})
}

// GetJobByID retrieves a job by ID
// GET /api/jobs/:id
func (h *Handlers) GetJobByID(c *fiber.Ctx) error {
	jobID := kernel.JobID(c.Params("id"))
	if jobID.IsEmpty() {
		return job.ErrInvalidRequest().WithDetail("id", "missing or empty")
	}

	jobEntity, err := h.service.GetJobByID(c.Context(), jobID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"job":     jobEntity,
		"success": true,
	})
}

// ListJobs lists jobs matching an optional keyword
// GET /api/jobs?keyword=
func (h *Handlers) ListJobs(c *fiber.Ctx) error {
	jobs, err := h.service.ListJobs(c.Context(), c.Query("keyword"), parsePaginationOptions(c))
	if err != nil {
		return err
	}
	return c.JSON(jobs)
}

// ListMyJobs lists the jobs posted by the caller
// GET /api/jobs/admin
func (h *Handlers) ListMyJobs(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return job.ErrInsufficientPermissions()
	}

	jobs, err := h.service.ListJobsByCreator(c.Context(), authContext.UserID, parsePaginationOptions(c))
	if err != nil {
		return err
	}
	return c.JSON(jobs)
}

// DeleteJob deletes a job without applications
// DELETE /api/jobs/:id
func (h *Handlers) DeleteJob(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return job.ErrInsufficientPermissions()
	}

	jobID := kernel.JobID(c.Params("id"))
	if jobID.IsEmpty() {
		return job.ErrInvalidRequest().WithDetail("id", "missing or empty")
	}

	if err := h.service.DeleteJob(c.Context(), jobID, authContext.UserID); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func parsePaginationOptions(c *fiber.Ctx) kernel.PaginationOptions {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 20)

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	return kernel.PaginationOptions{
		Page:     page,
		PageSize: pageSize,
	}
}

// RegisterRoutes registers all job routes
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.TokenMiddleware) {
	api := app.Group("/api/jobs")

	api.Get("/",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeJobsRead),
		handlers.ListJobs,
	)

	// registered before /:id so "admin" is not taken as an id
	api.Get("/admin",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeJobsWrite),
		handlers.ListMyJobs,
	)

	api.Get("/:id",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeJobsRead),
		handlers.GetJobByID,
	)

	api.Post("/",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeJobsWrite),
		handlers.CreateJob,
	)

	api.Delete("/:id",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeJobsDelete),
		handlers.DeleteJob,
	)
}
