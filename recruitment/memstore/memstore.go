// Package memstore holds in-memory implementations of the recruitment
// repositories. All repositories created from one Store share state, so an
// application created through Applications() is visible on the job returned
// by Jobs().
package memstore

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Abraxas-365/jobboard/pkg/kernel"
	"github.com/Abraxas-365/jobboard/recruitment/applicant"
	"github.com/Abraxas-365/jobboard/recruitment/application"
	"github.com/Abraxas-365/jobboard/recruitment/company"
	"github.com/Abraxas-365/jobboard/recruitment/job"
)

type Store struct {
	mu           sync.RWMutex
	jobs         map[kernel.JobID]*job.Job
	companies    map[kernel.CompanyID]*company.Company
	users        map[kernel.UserID]*applicant.Applicant
	applications map[kernel.ApplicationID]*application.Application

	// FailNextCreate makes the next CreateAndLink return this error
	FailNextCreate error
}

func New() *Store {
	return &Store{
		jobs:         make(map[kernel.JobID]*job.Job),
		companies:    make(map[kernel.CompanyID]*company.Company),
		users:        make(map[kernel.UserID]*applicant.Applicant),
		applications: make(map[kernel.ApplicationID]*application.Application),
	}
}

// Seeding helpers

func (s *Store) PutCompany(c *company.Company) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.companies[c.ID] = &cp
}

func (s *Store) PutApplicant(a *applicant.Applicant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *a
	s.users[a.ID] = &cp
}

func (s *Store) PutJob(j *job.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[j.ID] = copyJob(j)
}

// PutApplication stores an application without linking it to its job
func (s *Store) PutApplication(a *application.Application) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *a
	s.applications[a.ID] = &cp
}

func (s *Store) Jobs() *JobRepository                 { return &JobRepository{s} }
func (s *Store) Companies() *CompanyRepository        { return &CompanyRepository{s} }
func (s *Store) Applicants() *ApplicantRepository     { return &ApplicantRepository{s} }
func (s *Store) Applications() *ApplicationRepository { return &ApplicationRepository{s} }

func copyJob(j *job.Job) *job.Job {
	cp := *j
	cp.Requirements = slices.Clone(j.Requirements)
	cp.ApplicationIDs = slices.Clone(j.ApplicationIDs)
	if cp.ApplicationIDs == nil {
		cp.ApplicationIDs = []kernel.ApplicationID{}
	}
	return &cp
}

// ============================================================================
// Jobs
// ============================================================================

type JobRepository struct{ s *Store }

var _ job.Repository = (*JobRepository)(nil)

func (r *JobRepository) Create(ctx context.Context, j *job.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.jobs[j.ID]; ok {
		return job.ErrJobAlreadyExists().WithDetail("job_id", j.ID.String())
	}
	r.s.jobs[j.ID] = copyJob(j)
	return nil
}

func (r *JobRepository) GetByID(ctx context.Context, id kernel.JobID) (*job.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	j, ok := r.s.jobs[id]
	if !ok {
		return nil, job.ErrJobNotFound().WithDetail("job_id", id.String())
	}
	return copyJob(j), nil
}

func (r *JobRepository) GetByIDs(ctx context.Context, ids []kernel.JobID) (map[kernel.JobID]*job.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make(map[kernel.JobID]*job.Job, len(ids))
	for _, id := range ids {
		if j, ok := r.s.jobs[id]; ok {
			out[id] = copyJob(j)
		}
	}
	return out, nil
}

func (r *JobRepository) Exists(ctx context.Context, id kernel.JobID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.jobs[id]
	return ok, nil
}

func (r *JobRepository) List(ctx context.Context, req job.ListJobsRequest) (*kernel.Paginated[job.Job], error) {
	r.s.mu.RLock()
	keyword := strings.ToLower(strings.TrimSpace(req.Keyword))
	var matched []job.Job
	for _, j := range r.s.jobs {
		if !req.CreatedBy.IsEmpty() && j.CreatedBy != req.CreatedBy {
			continue
		}
		if keyword != "" &&
			!strings.Contains(strings.ToLower(string(j.Title)), keyword) &&
			!strings.Contains(strings.ToLower(string(j.Description)), keyword) {
			continue
		}
		matched = append(matched, *copyJob(j))
	}
	r.s.mu.RUnlock()

	sort.SliceStable(matched, func(a, b int) bool {
		return matched[a].CreatedAt.After(matched[b].CreatedAt)
	})

	total := len(matched)
	start := min(req.Pagination.Offset(), total)
	end := min(start+req.Pagination.Limit(), total)

	page := kernel.NewPaginated(matched[start:end], req.Pagination, total)
	return &page, nil
}

func (r *JobRepository) CountApplications(ctx context.Context, jobID kernel.JobID) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, a := range r.s.applications {
		if a.JobID == jobID {
			n++
		}
	}
	return n, nil
}

func (r *JobRepository) Delete(ctx context.Context, id kernel.JobID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.jobs[id]; !ok {
		return job.ErrJobNotFound().WithDetail("job_id", id.String())
	}
	for _, a := range r.s.applications {
		if a.JobID == id {
			return job.ErrJobHasApplications().WithDetail("job_id", id.String())
		}
	}
	delete(r.s.jobs, id)
	return nil
}

// ============================================================================
// Companies and applicants
// ============================================================================

type CompanyRepository struct{ s *Store }

var _ company.Repository = (*CompanyRepository)(nil)

func (r *CompanyRepository) GetByID(ctx context.Context, id kernel.CompanyID) (*company.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.companies[id]
	if !ok {
		return nil, company.ErrCompanyNotFound().WithDetail("company_id", id.String())
	}
	cp := *c
	return &cp, nil
}

func (r *CompanyRepository) GetByIDs(ctx context.Context, ids []kernel.CompanyID) (map[kernel.CompanyID]*company.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make(map[kernel.CompanyID]*company.Company, len(ids))
	for _, id := range ids {
		if c, ok := r.s.companies[id]; ok {
			cp := *c
			out[id] = &cp
		}
	}
	return out, nil
}

func (r *CompanyRepository) Exists(ctx context.Context, id kernel.CompanyID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.companies[id]
	return ok, nil
}

type ApplicantRepository struct{ s *Store }

var _ applicant.Repository = (*ApplicantRepository)(nil)

func (r *ApplicantRepository) GetByID(ctx context.Context, id kernel.UserID) (*applicant.Applicant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.users[id]
	if !ok {
		return nil, applicant.ErrApplicantNotFound().WithDetail("applicant_id", id.String())
	}
	cp := *a
	return &cp, nil
}

func (r *ApplicantRepository) GetByIDs(ctx context.Context, ids []kernel.UserID) (map[kernel.UserID]*applicant.Applicant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make(map[kernel.UserID]*applicant.Applicant, len(ids))
	for _, id := range ids {
		if a, ok := r.s.users[id]; ok {
			cp := *a
			out[id] = &cp
		}
	}
	return out, nil
}

// ============================================================================
// Applications
// ============================================================================

type ApplicationRepository struct{ s *Store }

var _ application.Repository = (*ApplicationRepository)(nil)

func (r *ApplicationRepository) CreateAndLink(ctx context.Context, app *application.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.FailNextCreate; err != nil {
		r.s.FailNextCreate = nil
		return err
	}

	for _, existing := range r.s.applications {
		if existing.JobID == app.JobID && existing.ApplicantID == app.ApplicantID {
			return application.ErrDuplicateApplication().
				WithDetail("job_id", app.JobID.String()).
				WithDetail("applicant_id", app.ApplicantID.String())
		}
	}

	j, ok := r.s.jobs[app.JobID]
	if !ok {
		return job.ErrJobNotFound().WithDetail("job_id", app.JobID.String())
	}
	if app.CoverLetter.Length() > application.MaxCoverLetterLength {
		return application.ErrInvalidRequest().WithDetail("coverLetter", "max")
	}

	cp := *app
	r.s.applications[app.ID] = &cp
	j.ApplicationIDs = append(j.ApplicationIDs, app.ID)
	return nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id kernel.ApplicationID) (*application.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.applications[id]
	if !ok {
		return nil, application.ErrApplicationNotFound().WithDetail("application_id", id.String())
	}
	cp := *a
	return &cp, nil
}

func (r *ApplicationRepository) GetByIDs(ctx context.Context, ids []kernel.ApplicationID) ([]*application.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*application.Application, 0, len(ids))
	for _, id := range ids {
		if a, ok := r.s.applications[id]; ok {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *ApplicationRepository) ListByApplicant(ctx context.Context, applicantID kernel.UserID) ([]*application.Application, error) {
	r.s.mu.RLock()
	out := make([]*application.Application, 0)
	for _, a := range r.s.applications {
		if a.ApplicantID == applicantID {
			cp := *a
			out = append(out, &cp)
		}
	}
	r.s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *ApplicationRepository) ExistsByJobAndApplicant(ctx context.Context, jobID kernel.JobID, applicantID kernel.UserID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, a := range r.s.applications {
		if a.JobID == jobID && a.ApplicantID == applicantID {
			return true, nil
		}
	}
	return false, nil
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id kernel.ApplicationID, from, to application.Status, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.applications[id]
	if !ok {
		return application.ErrApplicationNotFound().WithDetail("application_id", id.String())
	}
	if a.Status != from {
		return application.ErrStatusConflict().
			WithDetail("application_id", id.String()).
			WithDetail("current_status", a.Status)
	}
	a.Status = to
	a.StatusChangedAt = &at
	a.UpdatedAt = at
	return nil
}

func (r *ApplicationRepository) ListUnlinked(ctx context.Context, limit int) ([]*application.Application, error) {
	r.s.mu.RLock()
	out := make([]*application.Application, 0)
	for _, a := range r.s.applications {
		j, ok := r.s.jobs[a.JobID]
		if ok && !j.HasApplication(a.ID) {
			cp := *a
			out = append(out, &cp)
		}
	}
	r.s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *ApplicationRepository) LinkToJob(ctx context.Context, id kernel.ApplicationID, jobID kernel.JobID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	j, ok := r.s.jobs[jobID]
	if !ok {
		return job.ErrJobNotFound().WithDetail("job_id", jobID.String())
	}
	if !j.HasApplication(id) {
		j.ApplicationIDs = append(j.ApplicationIDs, id)
	}
	return nil
}
