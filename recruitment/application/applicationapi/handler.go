package applicationapi

import (
	"errors"
	"io"

	"github.com/Abraxas-365/jobboard/pkg/iam/auth"
	"github.com/Abraxas-365/jobboard/pkg/kernel"
	"github.com/Abraxas-365/jobboard/recruitment/application"
	"github.com/Abraxas-365/jobboard/recruitment/application/applicationsrv"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// Handlers provides HTTP handlers for application operations
type Handlers struct {
	service *applicationsrv.ApplicationService
}

// NewHandlers creates a new application handlers instance
func NewHandlers(service *applicationsrv.ApplicationService) *Handlers {
	return &Handlers{
		service: service,
	}
}

// SubmitApplication applies the caller to a job
// POST /api/applications/jobs/:jobId (multipart/form-data)
func (h *Handlers) SubmitApplication(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return application.ErrInsufficientPermissions()
	}

	req := application.SubmitApplicationRequest{
		JobID:       kernel.JobID(c.Params("jobId")),
		ApplicantID: authContext.UserID,
		FullName:    c.FormValue("fullname"),
		Email:       c.FormValue("email"),
		PhoneNumber: c.FormValue("phoneNumber"),
		CoverLetter: c.FormValue("coverLetter"),
	}

	resume, err := readResume(c)
	if err != nil {
		return err
	}
	req.Resume = resume

	app, err := h.service.SubmitApplication(c.Context(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "Job applied successfully.",
		"application": app,
		"success":     true,
	})
}

// readResume loads the "resume" part. A missing part yields a nil file so
// the service reports it in its own validation order.
func readResume(c *fiber.Ctx) (*application.ResumeFile, error) {
	header, err := c.FormFile("resume")
	if err != nil {
		if errors.Is(err, fasthttp.ErrMissingFile) || errors.Is(err, fasthttp.ErrNoMultipartForm) {
			return nil, nil
		}
		return nil, application.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}

	file, err := header.Open()
	if err != nil {
		return nil, application.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, application.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}

	return &application.ResumeFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// ListAppliedJobs lists the caller's applications, newest first
// GET /api/applications/me
func (h *Handlers) ListAppliedJobs(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return application.ErrInsufficientPermissions()
	}

	applied, err := h.service.ListAppliedJobs(c.Context(), authContext.UserID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"application": applied,
		"success":     true,
	})
}

// ListApplicants lists a job's applications with applicant details
// GET /api/applications/jobs/:jobId/applicants
func (h *Handlers) ListApplicants(c *fiber.Ctx) error {
	jobID := kernel.JobID(c.Params("jobId"))
	if jobID.IsEmpty() {
		return application.ErrInvalidRequest().WithDetail("job_id", "missing or empty")
	}

	result, err := h.service.ListApplicants(c.Context(), jobID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"job":          result.Job,
		"applications": result.Applications,
		"success":      true,
	})
}

// UpdateStatus records a recruiter decision
// PATCH /api/applications/:id/status
func (h *Handlers) UpdateStatus(c *fiber.Ctx) error {
	applicationID := kernel.ApplicationID(c.Params("id"))
	if applicationID.IsEmpty() {
		return application.ErrInvalidRequest().WithDetail("id", "missing or empty")
	}

	var req application.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return application.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}

	app, err := h.service.UpdateStatus(c.Context(), applicationID, req.Status)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":     "Status updated successfully.",
		"application": app,
		"success":     true,
	})
}

// ============================================================================
// Route Registration
// ============================================================================

// RegisterRoutes registers all application routes
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.TokenMiddleware) {
	api := app.Group("/api/applications")

	api.Post("/jobs/:jobId",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeApplicationsSubmit),
		handlers.SubmitApplication,
	)

	api.Get("/me",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeApplicationsOwn),
		handlers.ListAppliedJobs,
	)

	api.Get("/jobs/:jobId/applicants",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeApplicationsRead),
		handlers.ListApplicants,
	)

	api.Patch("/:id/status",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeApplicationsReview),
		handlers.UpdateStatus,
	)
}
