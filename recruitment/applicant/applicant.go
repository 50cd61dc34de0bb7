package applicant

import (
	"time"

	"github.com/Abraxas-365/jobboard/pkg/kernel"
)

type Role string

const (
	RoleJobseeker Role = "jobseeker"
	RoleRecruiter Role = "recruiter"
)

// Profile is the user-maintained part of an account
type Profile struct {
	Bio                string           `json:"bio,omitempty"`
	Skills             []string         `json:"skills"`
	ResumeURL          kernel.ResumeURL `json:"resume_url,omitempty"`
	ResumeOriginalName string           `json:"resume_original_name,omitempty"`
	CompanyID          kernel.CompanyID `json:"company_id,omitempty"`
	ProfilePhoto       string           `json:"profile_photo,omitempty"`
}

// Applicant is a user account as seen by the application workflow. Accounts
// are owned by the identity service and only read here.
type Applicant struct {
	ID        kernel.UserID   `json:"id"`
	FullName  kernel.FullName `json:"fullname"`
	Email     kernel.Email    `json:"email"`
	Phone     kernel.Phone    `json:"phone_number"`
	Role      Role            `json:"role"`
	Profile   Profile         `json:"profile"`
	CreatedAt time.Time       `json:"created_at"`
}

// IsJobseeker checks if the account may apply to jobs
func (a *Applicant) IsJobseeker() bool {
	return a.Role == RoleJobseeker
}
