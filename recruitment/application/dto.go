package application

import (
	"strings"

	"github.com/Abraxas-365/jobboard/pkg/kernel"
	"github.com/Abraxas-365/jobboard/pkg/validatex"
	"github.com/Abraxas-365/jobboard/recruitment/applicant"
	"github.com/Abraxas-365/jobboard/recruitment/company"
	"github.com/Abraxas-365/jobboard/recruitment/job"
)

// ResumeFile is an uploaded resume as received from the client
type ResumeFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// IsEmpty reports whether no usable file was sent
func (f *ResumeFile) IsEmpty() bool {
	return f == nil || len(f.Data) == 0
}

// SubmitApplicationRequest - DTO for applying to a job
type SubmitApplicationRequest struct {
	JobID       kernel.JobID  `json:"job_id"`
	ApplicantID kernel.UserID `json:"-"`
	FullName    string        `json:"fullname" validate:"required"`
	Email       string        `json:"email" validate:"required,email"`
	PhoneNumber string        `json:"phoneNumber" validate:"required"`
	CoverLetter string        `json:"coverLetter" validate:"required,max=2000"`
	Resume      *ResumeFile   `json:"-"`
}

// Normalize trims surrounding whitespace from the identifying fields. The
// cover letter is kept exactly as submitted.
func (r *SubmitApplicationRequest) Normalize() {
	r.JobID = kernel.JobID(strings.TrimSpace(string(r.JobID)))
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.TrimSpace(r.Email)
	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)
}

// Validate runs the admissibility checks that need no I/O, in order: job id,
// then the text fields, then the resume.
func (r *SubmitApplicationRequest) Validate() error {
	if r.JobID.IsEmpty() {
		return ErrInvalidRequest().WithDetail("job_id", "required")
	}
	if r.ApplicantID.IsEmpty() {
		return ErrInvalidRequest().WithDetail("applicant_id", "required")
	}
	fields := validatex.Struct(r)
	if strings.TrimSpace(r.CoverLetter) == "" {
		if fields == nil {
			fields = map[string]string{}
		}
		fields["coverLetter"] = "required"
	}
	if fields != nil {
		return ErrInvalidRequest().
			WithDetail("message", "All fields are required.").
			WithDetails(validatex.Details(fields))
	}
	if r.Resume.IsEmpty() {
		return ErrMissingResume()
	}
	return nil
}

// UpdateStatusRequest - DTO for a recruiter decision
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// JobWithCompany is a job expanded with its owning company
type JobWithCompany struct {
	*job.Job
	Company *company.Company `json:"company"`
}

// AppliedJob is one entry of an applicant's application history
type AppliedJob struct {
	Application
	Job *JobWithCompany `json:"job"`
}

// ApplicationWithApplicant is an application expanded with its applicant
type ApplicationWithApplicant struct {
	Application
	Applicant *applicant.Applicant `json:"applicant"`
}

// JobApplicants is a job with its applications expanded, newest first
type JobApplicants struct {
	Job          *job.Job                   `json:"job"`
	Applications []ApplicationWithApplicant `json:"applications"`
}

// ReconcileReport summarizes a relinking pass
type ReconcileReport struct {
	Scanned  int                    `json:"scanned"`
	Relinked []kernel.ApplicationID `json:"relinked"`
	Failed   map[string]string      `json:"failed,omitempty"`
}
