package jobsrv

import (
	"context"
	"strings"
	"time"

	"github.com/Abraxas-365/jobboard/pkg/errx"
	"github.com/Abraxas-365/jobboard/pkg/kernel"
	"github.com/Abraxas-365/jobboard/recruitment/company"
	"github.com/Abraxas-365/jobboard/recruitment/job"
	"github.com/google/uuid"
)

// JobService provides business operations for jobs
type JobService struct {
	jobRepo     job.Repository
	companyRepo company.Repository
}

// NewJobService creates a new instance of the job service
func NewJobService(jobRepo job.Repository, companyRepo company.Repository) *JobService {
	return &JobService{
		jobRepo:     jobRepo,
		companyRepo: companyRepo,
	}
}

// CreateJob creates a new job posting owned by creatorID
func (s *JobService) CreateJob(ctx context.Context, req job.CreateJobRequest, creatorID kernel.UserID) (*job.Job, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.companyRepo.Exists(ctx, req.CompanyID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to check company", errx.TypeInternal)
	}
	if !exists {
		return nil, company.ErrCompanyNotFound().WithDetail("company_id", req.CompanyID.String())
	}

	positions := req.PositionCount
	if positions == 0 {
		positions = 1
	}

	requirements := []kernel.JobRequirement(req.Requirements)
	if requirements == nil {
		requirements = []kernel.JobRequirement{}
	}

	now := time.Now()
	newJob := &job.Job{
		ID:              kernel.NewJobID(uuid.NewString()),
		Title:           req.Title,
		Description:     req.Description,
		Requirements:    requirements,
		Salary:          req.Salary,
		Location:        req.Location,
		JobType:         req.JobType,
		ExperienceLevel: req.ExperienceLevel,
		PositionCount:   positions,
		CompanyID:       req.CompanyID,
		CreatedBy:       creatorID,
		ApplicationIDs:  []kernel.ApplicationID{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.jobRepo.Create(ctx, newJob); err != nil {
		return nil, errx.Wrap(err, "failed to create job", errx.TypeInternal)
	}

	return newJob, nil
}

// GetJobByID retrieves a job by ID
func (s *JobService) GetJobByID(ctx context.Context, jobID kernel.JobID) (*job.Job, error) {
	jobEntity, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if errx.IsCode(err, job.CodeJobNotFound) {
			return nil, err
		}
		return nil, errx.Wrap(err, "failed to get job", errx.TypeInternal)
	}
	return jobEntity, nil
}

// ListJobs lists jobs newest first, optionally filtered by keyword
func (s *JobService) ListJobs(ctx context.Context, keyword string, pagination kernel.PaginationOptions) (*job.PaginatedJobsResponse, error) {
	jobs, err := s.jobRepo.List(ctx, job.ListJobsRequest{
		Keyword:    strings.TrimSpace(keyword),
		Pagination: pagination,
	})
	if err != nil {
		return nil, errx.Wrap(err, "failed to list jobs", errx.TypeInternal)
	}
	return jobs, nil
}

// ListJobsByCreator lists the jobs a recruiter posted
func (s *JobService) ListJobsByCreator(ctx context.Context, creatorID kernel.UserID, pagination kernel.PaginationOptions) (*job.PaginatedJobsResponse, error) {
	jobs, err := s.jobRepo.List(ctx, job.ListJobsRequest{
		CreatedBy:  creatorID,
		Pagination: pagination,
	})
	if err != nil {
		return nil, errx.Wrap(err, "failed to list jobs by creator", errx.TypeInternal)
	}
	return jobs, nil
}

// DeleteJob removes a job. Jobs that have received applications are kept;
// applications are never cascaded away.
func (s *JobService) DeleteJob(ctx context.Context, jobID kernel.JobID, requesterID kernel.UserID) error {
	jobEntity, err := s.GetJobByID(ctx, jobID)
	if err != nil {
		return err
	}

	if !jobEntity.IsOwnedBy(requesterID) {
		return job.ErrInsufficientPermissions().
			WithDetail("job_id", jobID.String()).
			WithDetail("user_id", requesterID.String())
	}

	count, err := s.jobRepo.CountApplications(ctx, jobID)
	if err != nil {
		return errx.Wrap(err, "failed to count applications", errx.TypeInternal)
	}
	if count > 0 || !jobEntity.CanBeDeleted() {
		return job.ErrJobHasApplications().
			WithDetail("job_id", jobID.String()).
			WithDetail("application_count", max(count, int64(jobEntity.ApplicationCount())))
	}

	if err := s.jobRepo.Delete(ctx, jobID); err != nil {
		return errx.Wrap(err, "failed to delete job", errx.TypeInternal)
	}
	return nil
}
