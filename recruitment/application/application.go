package application

import (
	"slices"
	"strings"
	"time"

	"github.com/Abraxas-365/jobboard/pkg/kernel"
)

// MaxCoverLetterLength is the cover letter bound, in characters
const MaxCoverLetterLength = 2000

// Status represents the review state of an application
type Status string

const (
	StatusPending  Status = "pending"  // Initial submission
	StatusAccepted Status = "accepted" // Accepted by the recruiter
	StatusRejected Status = "rejected" // Rejected by the recruiter
)

// Statuses lists every valid status
var Statuses = []Status{StatusPending, StatusAccepted, StatusRejected}

func (s Status) String() string { return string(s) }

// IsValid checks that s is one of the known statuses
func (s Status) IsValid() bool {
	return slices.Contains(Statuses, s)
}

// ParseStatus normalizes raw to lower case and validates it
func ParseStatus(raw string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return "", ErrInvalidRequest().WithDetail("status", "required")
	}

	status := Status(normalized)
	if !status.IsValid() {
		return "", ErrInvalidStatus().
			WithDetail("status", raw).
			WithDetail("allowed", Statuses)
	}
	return status, nil
}

// TransitionPolicy maps a status to the statuses it may move to. Staying in
// the same status is always allowed.
type TransitionPolicy map[Status][]Status

var (
	// PermissiveTransitions lets a recruiter revise a decision
	PermissiveTransitions = TransitionPolicy{
		StatusPending:  {StatusAccepted, StatusRejected},
		StatusAccepted: {StatusRejected},
		StatusRejected: {StatusAccepted},
	}

	// StrictTransitions makes accepted and rejected terminal
	StrictTransitions = TransitionPolicy{
		StatusPending: {StatusAccepted, StatusRejected},
	}
)

// Allows reports whether from -> to is permitted
func (p TransitionPolicy) Allows(from, to Status) bool {
	if from == to {
		return true
	}
	return slices.Contains(p[from], to)
}

type Application struct {
	ID                 kernel.ApplicationID `json:"id"`
	JobID              kernel.JobID         `json:"job_id"`
	ApplicantID        kernel.UserID        `json:"applicant_id"`
	FullName           kernel.FullName      `json:"fullname"`
	Email              kernel.Email         `json:"email"`
	PhoneNumber        kernel.Phone         `json:"phone_number"`
	CoverLetter        kernel.CoverLetter   `json:"cover_letter"`
	ResumeURL          kernel.ResumeURL     `json:"resume_url"`
	ResumeOriginalName string               `json:"resume_original_name"`
	Status             Status               `json:"status"`
	StatusChangedAt    *time.Time           `json:"status_changed_at,omitempty"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
}

// ============================================================================
// Domain Methods
// ============================================================================

// CanUpdateStatus checks newStatus against policy
func (a *Application) CanUpdateStatus(newStatus Status, policy TransitionPolicy) bool {
	return newStatus.IsValid() && policy.Allows(a.Status, newStatus)
}

// UpdateStatus moves the application to newStatus. It reports whether the
// status actually changed.
func (a *Application) UpdateStatus(newStatus Status, policy TransitionPolicy, now time.Time) (bool, error) {
	if !a.CanUpdateStatus(newStatus, policy) {
		return false, ErrInvalidStatusTransition().
			WithDetail("current_status", a.Status).
			WithDetail("new_status", newStatus)
	}
	if a.Status == newStatus {
		return false, nil
	}

	a.Status = newStatus
	a.StatusChangedAt = &now
	a.UpdatedAt = now
	return true, nil
}
