package company

import (
	"context"

	"github.com/Abraxas-365/jobboard/pkg/kernel"
)

type Repository interface {
	// GetByID retrieves a company by ID
	GetByID(ctx context.Context, id kernel.CompanyID) (*Company, error)

	// GetByIDs retrieves the companies that exist among ids, keyed by ID
	GetByIDs(ctx context.Context, ids []kernel.CompanyID) (map[kernel.CompanyID]*Company, error)

	// Exists checks if a company exists by ID
	Exists(ctx context.Context, id kernel.CompanyID) (bool, error)
}
