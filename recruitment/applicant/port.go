package applicant

import (
	"context"

	"github.com/Abraxas-365/jobboard/pkg/kernel"
)

type Repository interface {
	// GetByID retrieves an applicant by ID
	GetByID(ctx context.Context, id kernel.UserID) (*Applicant, error)

	// GetByIDs retrieves the applicants that exist among ids, keyed by ID
	GetByIDs(ctx context.Context, ids []kernel.UserID) (map[kernel.UserID]*Applicant, error)
}
