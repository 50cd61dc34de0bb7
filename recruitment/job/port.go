package job

import (
	"context"

	"github.com/Abraxas-365/jobboard/pkg/kernel"
)

// Repository persists jobs. A job's application list is appended by the
// application store, never through this interface.
type Repository interface {
	// Create creates a new job
	Create(ctx context.Context, job *Job) error

	// GetByID retrieves a job by ID
	GetByID(ctx context.Context, id kernel.JobID) (*Job, error)

	// GetByIDs retrieves the jobs that exist among ids, keyed by ID
	GetByIDs(ctx context.Context, ids []kernel.JobID) (map[kernel.JobID]*Job, error)

	// Exists checks if a job exists by ID
	Exists(ctx context.Context, id kernel.JobID) (bool, error)

	// List retrieves jobs newest first, filtered by keyword and creator
	List(ctx context.Context, req ListJobsRequest) (*kernel.Paginated[Job], error)

	// CountApplications counts applications referencing a job
	CountApplications(ctx context.Context, jobID kernel.JobID) (int64, error)

	// Delete deletes a job by ID
	Delete(ctx context.Context, id kernel.JobID) error
}
