package job

import (
	"slices"
	"time"

	"github.com/Abraxas-365/jobboard/pkg/kernel"
)

type Job struct {
	ID              kernel.JobID            `json:"id"`
	Title           kernel.JobTitle         `json:"title"`
	Description     kernel.JobDescription   `json:"description"`
	Requirements    []kernel.JobRequirement `json:"requirements"`
	Salary          float64                 `json:"salary"`
	Location        kernel.JobLocation      `json:"location"`
	JobType         string                  `json:"job_type"`
	ExperienceLevel int                     `json:"experience_level"`
	PositionCount   int                     `json:"position_count"`
	CompanyID       kernel.CompanyID        `json:"company_id"`
	CreatedBy       kernel.UserID           `json:"created_by"`
	// ApplicationIDs is append-only and ordered by submission
	ApplicationIDs []kernel.ApplicationID `json:"application_ids"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// ============================================================================
// Domain Methods
// ============================================================================

// ApplicationCount returns the number of linked applications
func (j *Job) ApplicationCount() int {
	return len(j.ApplicationIDs)
}

// HasApplication checks whether id is linked to this job
func (j *Job) HasApplication(id kernel.ApplicationID) bool {
	return slices.Contains(j.ApplicationIDs, id)
}

// IsOwnedBy checks if the job was posted by userID
func (j *Job) IsOwnedBy(userID kernel.UserID) bool {
	return j.CreatedBy == userID
}

// CanBeDeleted reports whether no application references this job
func (j *Job) CanBeDeleted() bool {
	return len(j.ApplicationIDs) == 0
}

// RequirementStrings returns requirements as plain strings
func (j *Job) RequirementStrings() []string {
	out := make([]string, len(j.Requirements))
	for i, r := range j.Requirements {
		out[i] = string(r)
	}
	return out
}
