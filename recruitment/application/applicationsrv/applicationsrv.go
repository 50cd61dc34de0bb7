package applicationsrv

import (
	"context"
	"sort"
	"time"

	"github.com/Abraxas-365/jobboard/pkg/errx"
	"github.com/Abraxas-365/jobboard/pkg/fsx"
	"github.com/Abraxas-365/jobboard/pkg/kernel"
	"github.com/Abraxas-365/jobboard/pkg/logx"
	"github.com/Abraxas-365/jobboard/recruitment/applicant"
	"github.com/Abraxas-365/jobboard/recruitment/application"
	"github.com/Abraxas-365/jobboard/recruitment/company"
	"github.com/Abraxas-365/jobboard/recruitment/job"
	"github.com/google/uuid"
)

// resumeRoot is the storage prefix for application resumes
const resumeRoot = "application_resumes"

// ApplicationService provides business operations for applications
type ApplicationService struct {
	applicationRepo application.Repository
	jobRepo         job.Repository
	companyRepo     company.Repository
	applicantRepo   applicant.Repository
	fileSystem      fsx.FileSystem

	policy         application.TransitionPolicy
	maxResumeBytes int
	now            func() time.Time
}

type Option func(*ApplicationService)

// WithTransitionPolicy replaces the permissive default policy
func WithTransitionPolicy(p application.TransitionPolicy) Option {
	return func(s *ApplicationService) { s.policy = p }
}

// WithMaxResumeBytes sets the resume upload limit
func WithMaxResumeBytes(n int) Option {
	return func(s *ApplicationService) {
		if n > 0 {
			s.maxResumeBytes = n
		}
	}
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *ApplicationService) { s.now = now }
}

// NewApplicationService creates a new instance of the application service
func NewApplicationService(
	applicationRepo application.Repository,
	jobRepo job.Repository,
	companyRepo company.Repository,
	applicantRepo applicant.Repository,
	fileSystem fsx.FileSystem,
	opts ...Option,
) *ApplicationService {
	s := &ApplicationService{
		applicationRepo: applicationRepo,
		jobRepo:         jobRepo,
		companyRepo:     companyRepo,
		applicantRepo:   applicantRepo,
		fileSystem:      fileSystem,
		policy:          application.PermissiveTransitions,
		maxResumeBytes:  DefaultMaxResumeBytes,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitApplication validates the request, stores the resume and records the
// application against the job. At most one application per (job, applicant)
// pair ever succeeds; the store enforces it even under concurrent submits.
func (s *ApplicationService) SubmitApplication(ctx context.Context, req application.SubmitApplicationRequest) (*application.Application, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.applicationRepo.ExistsByJobAndApplicant(ctx, req.JobID, req.ApplicantID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to check duplicate application", errx.TypeInternal)
	}
	if exists {
		return nil, application.ErrDuplicateApplication().
			WithDetail("job_id", req.JobID.String()).
			WithDetail("applicant_id", req.ApplicantID.String())
	}

	jobExists, err := s.jobRepo.Exists(ctx, req.JobID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to check job", errx.TypeInternal)
	}
	if !jobExists {
		return nil, job.ErrJobNotFound().WithDetail("job_id", req.JobID.String())
	}

	resume, err := inspectResume(req.Resume, s.maxResumeBytes)
	if err != nil {
		return nil, err
	}

	appID := kernel.NewApplicationID(uuid.NewString())
	storagePath := s.fileSystem.Join(resumeRoot, req.JobID.String(), appID.String(), resume.FileName)

	if err := s.fileSystem.WriteFile(ctx, storagePath, resume.Data,
		fsx.WithContentType(resume.ContentType),
		fsx.WithInline(),
	); err != nil {
		return nil, application.ErrUpstreamStorageFailure().
			WithDetail("path", storagePath).
			WithCause(err)
	}

	now := s.now()
	newApplication := &application.Application{
		ID:                 appID,
		JobID:              req.JobID,
		ApplicantID:        req.ApplicantID,
		FullName:           kernel.FullName(req.FullName),
		Email:              kernel.Email(req.Email).Normalized(),
		PhoneNumber:        kernel.Phone(req.PhoneNumber),
		CoverLetter:        kernel.CoverLetter(req.CoverLetter),
		ResumeURL:          kernel.ResumeURL(s.fileSystem.URL(storagePath)).Viewable(),
		ResumeOriginalName: resume.OriginalName,
		Status:             application.StatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.applicationRepo.CreateAndLink(ctx, newApplication); err != nil {
		s.discardResume(ctx, storagePath)
		if errx.IsCode(err, application.CodeDuplicateApplication) ||
			errx.IsCode(err, application.CodeInvalidRequest) ||
			errx.IsCode(err, job.CodeJobNotFound) {
			return nil, err
		}
		return nil, errx.Wrap(err, "failed to create application", errx.TypeInternal)
	}

	logx.With("application_id", appID, "job_id", req.JobID, "applicant_id", req.ApplicantID).
		Info("application submitted")

	return newApplication, nil
}

// discardResume removes an uploaded resume whose application was not stored
func (s *ApplicationService) discardResume(ctx context.Context, storagePath string) {
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := s.fileSystem.DeleteFile(cleanupCtx, storagePath); err != nil {
		logx.Warnf("failed to remove orphaned resume %s: %v", storagePath, err)
	}
}

// GetApplicationByID retrieves an application by ID
func (s *ApplicationService) GetApplicationByID(ctx context.Context, applicationID kernel.ApplicationID) (*application.Application, error) {
	app, err := s.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		if errx.IsCode(err, application.CodeApplicationNotFound) {
			return nil, err
		}
		return nil, errx.Wrap(err, "failed to get application", errx.TypeInternal)
	}
	return app, nil
}

// ListAppliedJobs returns an applicant's applications, newest first, each
// with its job and the job's company. An applicant with no applications gets
// an empty list.
func (s *ApplicationService) ListAppliedJobs(ctx context.Context, applicantID kernel.UserID) ([]application.AppliedJob, error) {
	apps, err := s.applicationRepo.ListByApplicant(ctx, applicantID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list applications by applicant", errx.TypeInternal)
	}
	if len(apps) == 0 {
		return []application.AppliedJob{}, nil
	}

	jobIDs := make([]kernel.JobID, 0, len(apps))
	for _, app := range apps {
		jobIDs = append(jobIDs, app.JobID)
	}
	jobs, err := s.jobRepo.GetByIDs(ctx, jobIDs)
	if err != nil {
		return nil, errx.Wrap(err, "failed to load jobs", errx.TypeInternal)
	}

	companyIDs := make([]kernel.CompanyID, 0, len(jobs))
	for _, j := range jobs {
		companyIDs = append(companyIDs, j.CompanyID)
	}
	companies, err := s.companyRepo.GetByIDs(ctx, companyIDs)
	if err != nil {
		return nil, errx.Wrap(err, "failed to load companies", errx.TypeInternal)
	}

	sortNewestFirst(apps)

	result := make([]application.AppliedJob, 0, len(apps))
	for _, app := range apps {
		entry := application.AppliedJob{Application: *app}
		if j, ok := jobs[app.JobID]; ok {
			entry.Job = &application.JobWithCompany{Job: j, Company: companies[j.CompanyID]}
		}
		result = append(result, entry)
	}
	return result, nil
}

// ListApplicants returns the job with its applications expanded, newest
// first, each with the applicant account.
func (s *ApplicationService) ListApplicants(ctx context.Context, jobID kernel.JobID) (*application.JobApplicants, error) {
	jobEntity, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if errx.IsCode(err, job.CodeJobNotFound) {
			return nil, err
		}
		return nil, errx.Wrap(err, "failed to get job", errx.TypeInternal)
	}

	apps, err := s.applicationRepo.GetByIDs(ctx, jobEntity.ApplicationIDs)
	if err != nil {
		return nil, errx.Wrap(err, "failed to load applications", errx.TypeInternal)
	}
	sortNewestFirst(apps)

	applicantIDs := make([]kernel.UserID, 0, len(apps))
	for _, app := range apps {
		applicantIDs = append(applicantIDs, app.ApplicantID)
	}
	applicants, err := s.applicantRepo.GetByIDs(ctx, applicantIDs)
	if err != nil {
		return nil, errx.Wrap(err, "failed to load applicants", errx.TypeInternal)
	}

	result := &application.JobApplicants{
		Job:          jobEntity,
		Applications: make([]application.ApplicationWithApplicant, 0, len(apps)),
	}
	for _, app := range apps {
		result.Applications = append(result.Applications, application.ApplicationWithApplicant{
			Application: *app,
			Applicant:   applicants[app.ApplicantID],
		})
	}
	return result, nil
}

// UpdateStatus records a recruiter decision. The status is matched case
// insensitively; setting the current status again is a successful no-op.
func (s *ApplicationService) UpdateStatus(ctx context.Context, applicationID kernel.ApplicationID, rawStatus string) (*application.Application, error) {
	status, err := application.ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	app, err := s.GetApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	previous := app.Status
	changed, err := app.UpdateStatus(status, s.policy, s.now())
	if err != nil {
		return nil, err
	}
	if !changed {
		return app, nil
	}

	if err := s.applicationRepo.UpdateStatus(ctx, app.ID, previous, status, app.UpdatedAt); err != nil {
		if errx.IsCode(err, application.CodeApplicationNotFound) ||
			errx.IsCode(err, application.CodeStatusConflict) {
			return nil, err
		}
		return nil, errx.Wrap(err, "failed to update application status", errx.TypeInternal)
	}

	logx.With("application_id", app.ID, "from", previous, "to", status).
		Info("application status updated")

	return app, nil
}

// Reconcile appends applications missing from their job's list. Such
// applications can only exist in stores without transactional linking.
func (s *ApplicationService) Reconcile(ctx context.Context, limit int) (*application.ReconcileReport, error) {
	unlinked, err := s.applicationRepo.ListUnlinked(ctx, limit)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list unlinked applications", errx.TypeInternal)
	}

	report := &application.ReconcileReport{
		Scanned:  len(unlinked),
		Relinked: []kernel.ApplicationID{},
	}
	for _, app := range unlinked {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := s.applicationRepo.LinkToJob(ctx, app.ID, app.JobID); err != nil {
			if report.Failed == nil {
				report.Failed = make(map[string]string)
			}
			report.Failed[app.ID.String()] = err.Error()
			logx.Warnf("failed to relink application %s to job %s: %v", app.ID, app.JobID, err)
			continue
		}
		report.Relinked = append(report.Relinked, app.ID)
	}

	if len(report.Relinked) > 0 {
		logx.Infof("relinked %d applications", len(report.Relinked))
	}
	return report, nil
}

func sortNewestFirst(apps []*application.Application) {
	sort.SliceStable(apps, func(i, j int) bool {
		return apps[i].CreatedAt.After(apps[j].CreatedAt)
	})
}
