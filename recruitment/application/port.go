package application

import (
	"context"
	"time"

	"github.com/Abraxas-365/jobboard/pkg/kernel"
)

// Repository is the application store. It owns the (job, applicant)
// uniqueness guarantee and the append to the job's application list.
type Repository interface {
	// CreateAndLink stores app and appends its id to the job's application
	// list atomically. Returns ErrDuplicateApplication when the applicant
	// already applied and job.ErrJobNotFound when the job does not exist.
	CreateAndLink(ctx context.Context, app *Application) error

	// GetByID retrieves an application by ID
	GetByID(ctx context.Context, id kernel.ApplicationID) (*Application, error)

	// GetByIDs retrieves the existing applications among ids
	GetByIDs(ctx context.Context, ids []kernel.ApplicationID) ([]*Application, error)

	// ListByApplicant lists an applicant's applications, newest first
	ListByApplicant(ctx context.Context, applicantID kernel.UserID) ([]*Application, error)

	// ExistsByJobAndApplicant checks for a prior application to the job
	ExistsByJobAndApplicant(ctx context.Context, jobID kernel.JobID, applicantID kernel.UserID) (bool, error)

	// UpdateStatus sets the status when it still equals from. Returns
	// ErrApplicationNotFound for unknown ids and ErrStatusConflict when the
	// stored status is no longer from.
	UpdateStatus(ctx context.Context, id kernel.ApplicationID, from, to Status, at time.Time) error

	// ListUnlinked returns applications missing from their job's list
	ListUnlinked(ctx context.Context, limit int) ([]*Application, error)

	// LinkToJob appends id to the job's list unless already present
	LinkToJob(ctx context.Context, id kernel.ApplicationID, jobID kernel.JobID) error
}
