package job

import (
	"encoding/json"
	"strings"

	"github.com/Abraxas-365/jobboard/pkg/kernel"
	"github.com/Abraxas-365/jobboard/pkg/validatex"
)

// RequirementList accepts either a JSON array or a comma separated string
type RequirementList []kernel.JobRequirement

func (r *RequirementList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		var joined string
		if err2 := json.Unmarshal(data, &joined); err2 != nil {
			return err
		}
		list = strings.Split(joined, ",")
	}

	out := make(RequirementList, 0, len(list))
	for _, item := range list {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, kernel.JobRequirement(item))
		}
	}
	*r = out
	return nil
}

// CreateJobRequest - DTO for creating a new job
type CreateJobRequest struct {
	Title           kernel.JobTitle       `json:"title" validate:"required"`
	Description     kernel.JobDescription `json:"description" validate:"required"`
	Requirements    RequirementList       `json:"requirements"`
	Salary          float64               `json:"salary" validate:"gte=0"`
	Location        kernel.JobLocation    `json:"location"`
	JobType         string                `json:"job_type"`
	ExperienceLevel int                   `json:"experience_level" validate:"gte=0"`
	PositionCount   int                   `json:"position_count" validate:"gte=0"`
	CompanyID       kernel.CompanyID      `json:"company_id" validate:"required"`
}

// Validate trims text fields and checks the request
func (r *CreateJobRequest) Validate() error {
	r.Title = kernel.JobTitle(strings.TrimSpace(string(r.Title)))
	r.Description = kernel.JobDescription(strings.TrimSpace(string(r.Description)))
	r.CompanyID = kernel.CompanyID(strings.TrimSpace(string(r.CompanyID)))

	if fields := validatex.Struct(r); fields != nil {
		return ErrInvalidRequest().WithDetails(validatex.Details(fields))
	}
	return nil
}

// ListJobsRequest - DTO for listing and searching jobs
type ListJobsRequest struct {
	Keyword    string                   `json:"keyword,omitempty"`
	CreatedBy  kernel.UserID            `json:"created_by,omitempty"`
	Pagination kernel.PaginationOptions `json:"pagination"`
}

// Response type alias for paginated jobs
type PaginatedJobsResponse = kernel.Paginated[Job]
