package ranking

import (
	"context"

	"github.com/Abraxas-365/jobboard/pkg/kernel"
	"github.com/Abraxas-365/jobboard/recruitment/application"
)

// Ranker calls the external Ranking Service
type Ranker interface {
	Rank(ctx context.Context, req Request) (*Response, error)
}

// HealthChecker reports whether a dependency is reachable
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Cache stores results keyed by job and application-set fingerprint
type Cache interface {
	// Get returns (nil, false, nil) on a miss
	Get(ctx context.Context, jobID kernel.JobID, fingerprint string) (*Result, bool, error)
	Set(ctx context.Context, jobID kernel.JobID, fingerprint string, result *Result) error
}

// ApplicantsLoader loads a job with its applications expanded
type ApplicantsLoader interface {
	ListApplicants(ctx context.Context, jobID kernel.JobID) (*application.JobApplicants, error)
}
