package ranking

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Abraxas-365/jobboard/pkg/kernel"
	"github.com/Abraxas-365/jobboard/recruitment/applicant"
	"github.com/Abraxas-365/jobboard/recruitment/application"
	"github.com/Abraxas-365/jobboard/recruitment/job"
	"github.com/cespare/xxhash/v2"
)

// ============================================================================
// Ranking Service wire format
// ============================================================================

// ApplicationSummary is one application as sent to the Ranking Service
type ApplicationSummary struct {
	ID               string             `json:"id"`
	FullName         string             `json:"fullname"`
	Email            string             `json:"email"`
	PhoneNumber      string             `json:"phoneNumber"`
	ResumeFileURL    string             `json:"resumeFileUrl"`
	CoverLetter      string             `json:"coverLetter"`
	Status           string             `json:"status"`
	CreatedAt        string             `json:"createdAt"`
	ApplicantProfile *applicant.Profile `json:"applicantProfile"`
}

// Request is the body of POST /rank
type Request struct {
	Applications   []ApplicationSummary `json:"applications"`
	JobDescription string               `json:"job_description"`
}

// RankedEntry is one scored application returned by the Ranking Service
type RankedEntry struct {
	ApplicationSummary
	ResumeText      string  `json:"resume_text,omitempty"`
	Rank            int     `json:"rank"`
	RankScore       float64 `json:"rank_score"`
	MatchCategory   string  `json:"match_category"`
	MatchPercentage float64 `json:"match_percentage"`
}

// Response is the body returned by POST /rank
type Response struct {
	Success            bool           `json:"success"`
	RankedApplications []RankedEntry  `json:"ranked_applications"`
	TotalApplications  int            `json:"total_applications"`
	CategorySummary    map[string]int `json:"category_summary"`
	Message            string         `json:"message,omitempty"`
}

// ============================================================================
// Results
// ============================================================================

type JobSummary struct {
	ID          kernel.JobID          `json:"id"`
	Title       kernel.JobTitle       `json:"title"`
	Description kernel.JobDescription `json:"description"`
}

// RankedApplication is a ranking entry resolved to the stored application
type RankedApplication struct {
	Rank            int                     `json:"rank"`
	Score           float64                 `json:"rank_score"`
	MatchCategory   string                  `json:"match_category"`
	MatchPercentage float64                 `json:"match_percentage"`
	Application     application.Application `json:"application"`
	Applicant       *applicant.Applicant    `json:"applicant,omitempty"`
}

// Result is the ordered ranking of a job's applications
type Result struct {
	Success            bool                `json:"success"`
	Message            string              `json:"message"`
	Job                JobSummary          `json:"job"`
	RankedApplications []RankedApplication `json:"ranked_applications"`
	TotalApplications  int                 `json:"total_applications"`
	CategorySummary    map[string]int      `json:"category_summary"`
	Fingerprint        string              `json:"fingerprint"`
	RankedAt           time.Time           `json:"ranked_at"`
	Cached             bool                `json:"cached"`
}

// EmptyResult is the successful ranking of a job nobody applied to
func EmptyResult(j *job.Job, now time.Time) *Result {
	return &Result{
		Success:            true,
		Message:            "No applications to rank",
		Job:                SummarizeJob(j),
		RankedApplications: []RankedApplication{},
		CategorySummary:    map[string]int{},
		RankedAt:           now,
	}
}

func SummarizeJob(j *job.Job) JobSummary {
	return JobSummary{ID: j.ID, Title: j.Title, Description: j.Description}
}

// ============================================================================
// Request building
// ============================================================================

// JobDescription is the text the Ranking Service matches resumes against:
// title, description and requirements joined with single spaces.
func JobDescription(j *job.Job) string {
	return string(j.Title) + " " + string(j.Description) + " " + strings.Join(j.RequirementStrings(), " ")
}

// BuildRequest builds the ranking payload for a job's applications
func BuildRequest(j *job.Job, apps []application.ApplicationWithApplicant) Request {
	summaries := make([]ApplicationSummary, 0, len(apps))
	for _, a := range apps {
		summary := ApplicationSummary{
			ID:            a.ID.String(),
			FullName:      string(a.FullName),
			Email:         a.Email.String(),
			PhoneNumber:   a.PhoneNumber.String(),
			ResumeFileURL: a.ResumeURL.String(),
			CoverLetter:   string(a.CoverLetter),
			Status:        a.Status.String(),
			CreatedAt:     a.CreatedAt.UTC().Format(time.RFC3339),
		}
		if a.Applicant != nil {
			profile := a.Applicant.Profile
			summary.ApplicantProfile = &profile
		}
		summaries = append(summaries, summary)
	}

	return Request{
		Applications:   summaries,
		JobDescription: JobDescription(j),
	}
}

// Fingerprint identifies an application set by ids, statuses and the
// applicant data embedded in a result. It does not depend on the order of
// apps.
func Fingerprint(apps []application.ApplicationWithApplicant) string {
	lines := make([]string, 0, len(apps))
	for _, a := range apps {
		lines = append(lines, a.ID.String()+":"+a.Status.String()+":"+applicantDigest(a.Applicant))
	}
	sort.Strings(lines)

	h := xxhash.New()
	for _, line := range lines {
		_, _ = h.WriteString(line)
		_, _ = h.WriteString("\n")
	}
	return strconv.FormatUint(h.Sum64(), 16)
}

// applicantDigest changes whenever the applicant's account or profile does
func applicantDigest(a *applicant.Applicant) string {
	if a == nil {
		return "-"
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return "-"
	}
	return strconv.FormatUint(xxhash.Sum64(raw), 16)
}

// ============================================================================
// Response mapping
// ============================================================================

// MapResponse resolves resp onto apps. The response must rank every submitted
// application exactly once and nothing else; entries are ordered by rank.
func MapResponse(resp *Response, j *job.Job, apps []application.ApplicationWithApplicant, now time.Time) (*Result, error) {
	if resp == nil || !resp.Success {
		message := ""
		if resp != nil {
			message = resp.Message
		}
		return nil, ErrServiceUnavailable().
			WithDetail("reason", "ranking service reported failure").
			WithDetail("upstream_message", message)
	}

	byID := make(map[string]application.ApplicationWithApplicant, len(apps))
	for _, a := range apps {
		byID[a.ID.String()] = a
	}

	seen := make(map[string]bool, len(resp.RankedApplications))
	ranked := make([]RankedApplication, 0, len(resp.RankedApplications))
	for _, entry := range resp.RankedApplications {
		a, ok := byID[entry.ID]
		if !ok {
			return nil, ErrServiceUnavailable().
				WithDetail("reason", "ranked an unknown application").
				WithDetail("application_id", entry.ID)
		}
		if seen[entry.ID] {
			return nil, ErrServiceUnavailable().
				WithDetail("reason", "ranked an application twice").
				WithDetail("application_id", entry.ID)
		}
		seen[entry.ID] = true

		ranked = append(ranked, RankedApplication{
			Rank:            entry.Rank,
			Score:           entry.RankScore,
			MatchCategory:   entry.MatchCategory,
			MatchPercentage: entry.MatchPercentage,
			Application:     a.Application,
			Applicant:       a.Applicant,
		})
	}
	if len(seen) != len(apps) {
		return nil, ErrServiceUnavailable().
			WithDetail("reason", "ranking is missing applications").
			WithDetail("submitted", len(apps)).
			WithDetail("ranked", len(seen))
	}

	sort.SliceStable(ranked, func(i, k int) bool {
		return ranked[i].Rank < ranked[k].Rank
	})

	summary := resp.CategorySummary
	if summary == nil {
		summary = map[string]int{}
	}
	message := resp.Message
	if message == "" {
		message = "Applications ranked successfully"
	}

	return &Result{
		Success:            true,
		Message:            message,
		Job:                SummarizeJob(j),
		RankedApplications: ranked,
		TotalApplications:  len(ranked),
		CategorySummary:    summary,
		Fingerprint:        Fingerprint(apps),
		RankedAt:           now,
	}, nil
}
