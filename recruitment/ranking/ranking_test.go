package ranking

import (
	"testing"
	"time"

	"github.com/Abraxas-365/jobboard/pkg/errx"
	"github.com/Abraxas-365/jobboard/pkg/kernel"
	"github.com/Abraxas-365/jobboard/recruitment/applicant"
	"github.com/Abraxas-365/jobboard/recruitment/application"
	"github.com/Abraxas-365/jobboard/recruitment/job"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJob() *job.Job {
	return &job.Job{
		ID:           "job-1",
		Title:        "Backend Engineer",
		Description:  "Build APIs",
		Requirements: []kernel.JobRequirement{"Go", "PostgreSQL"},
	}
}

func testApps(ids ...string) []application.ApplicationWithApplicant {
	out := make([]application.ApplicationWithApplicant, 0, len(ids))
	for _, id := range ids {
		out = append(out, application.ApplicationWithApplicant{
			Application: application.Application{
				ID:          kernel.ApplicationID(id),
				FullName:    kernel.FullName("Name " + id),
				Email:       "a@example.com",
				PhoneNumber: "1",
				CoverLetter: "hi",
				ResumeURL:   "https://cdn.example.com/" + kernel.ResumeURL(id) + ".pdf",
				Status:      application.StatusPending,
				CreatedAt:   time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
			},
			Applicant: &applicant.Applicant{
				ID:      kernel.UserID("user-" + id),
				Profile: applicant.Profile{Skills: []string{"go"}},
			},
		})
	}
	return out
}

func TestJobDescription(t *testing.T) {
	assert.Equal(t, "Backend Engineer Build APIs Go PostgreSQL", JobDescription(testJob()))

	noReqs := testJob()
	noReqs.Requirements = nil
	assert.Equal(t, "Backend Engineer Build APIs ", JobDescription(noReqs))
}

func TestBuildRequest(t *testing.T) {
	req := BuildRequest(testJob(), testApps("a1", "a2"))

	require.Len(t, req.Applications, 2)
	first := req.Applications[0]
	assert.Equal(t, "a1", first.ID)
	assert.Equal(t, "Name a1", first.FullName)
	assert.Equal(t, "https://cdn.example.com/a1.pdf", first.ResumeFileURL)
	assert.Equal(t, "pending", first.Status)
	assert.Equal(t, "2024-05-01T10:00:00Z", first.CreatedAt)
	require.NotNil(t, first.ApplicantProfile)
	assert.Equal(t, []string{"go"}, first.ApplicantProfile.Skills)
	assert.Equal(t, JobDescription(testJob()), req.JobDescription)
}

func TestFingerprint(t *testing.T) {
	apps := testApps("a1", "a2", "a3")
	reversed := []application.ApplicationWithApplicant{apps[2], apps[1], apps[0]}
	assert.Equal(t, Fingerprint(apps), Fingerprint(reversed))

	changed := testApps("a1", "a2", "a3")
	changed[1].Status = application.StatusAccepted
	assert.NotEqual(t, Fingerprint(apps), Fingerprint(changed))

	assert.NotEqual(t, Fingerprint(apps), Fingerprint(testApps("a1", "a2")))
}

func TestFingerprint_ApplicantProfileChange(t *testing.T) {
	apps := testApps("a1", "a2")
	before := Fingerprint(apps)

	updated := testApps("a1", "a2")
	updated[0].Applicant.Profile.Skills = []string{"go", "kubernetes"}
	assert.NotEqual(t, before, Fingerprint(updated))

	withoutAccount := testApps("a1", "a2")
	withoutAccount[1].Applicant = nil
	assert.NotEqual(t, before, Fingerprint(withoutAccount))

	assert.Equal(t, before, Fingerprint(testApps("a1", "a2")))
}

func entry(id string, rank int, score float64) RankedEntry {
	return RankedEntry{
		ApplicationSummary: ApplicationSummary{ID: id},
		Rank:               rank,
		RankScore:          score,
		MatchCategory:      "Best Match",
		MatchPercentage:    score * 100,
	}
}

func TestMapResponse(t *testing.T) {
	now := time.Now()
	apps := testApps("a1", "a2", "a3")

	t.Run("ordered by rank", func(t *testing.T) {
		resp := &Response{
			Success: true,
			RankedApplications: []RankedEntry{
				entry("a2", 2, 0.5), entry("a3", 1, 0.9), entry("a1", 3, 0.1),
			},
			CategorySummary: map[string]int{"Best Match": 3},
		}

		result, err := MapResponse(resp, testJob(), apps, now)
		require.NoError(t, err)
		require.Len(t, result.RankedApplications, 3)
		assert.Equal(t, kernel.ApplicationID("a3"), result.RankedApplications[0].Application.ID)
		assert.Equal(t, kernel.ApplicationID("a2"), result.RankedApplications[1].Application.ID)
		assert.Equal(t, kernel.ApplicationID("a1"), result.RankedApplications[2].Application.ID)
		assert.Equal(t, 3, result.TotalApplications)
		assert.Equal(t, Fingerprint(apps), result.Fingerprint)
		assert.Equal(t, kernel.JobID("job-1"), result.Job.ID)
		assert.Equal(t, application.StatusPending, result.RankedApplications[0].Application.Status)
	})

	tests := []struct {
		name string
		resp *Response
	}{
		{"nil response", nil},
		{"service failure", &Response{Success: false, Message: "model not loaded"}},
		{"unknown id", &Response{Success: true, RankedApplications: []RankedEntry{
			entry("a1", 1, 1), entry("a2", 2, 1), entry("zz", 3, 1),
		}}},
		{"duplicate id", &Response{Success: true, RankedApplications: []RankedEntry{
			entry("a1", 1, 1), entry("a1", 2, 1), entry("a2", 3, 1),
		}}},
		{"missing id", &Response{Success: true, RankedApplications: []RankedEntry{
			entry("a1", 1, 1), entry("a2", 2, 1),
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MapResponse(tt.resp, testJob(), apps, now)
			assert.True(t, errx.IsCode(err, CodeServiceUnavailable), "got %v", err)
		})
	}
}

func TestEmptyResult(t *testing.T) {
	result := EmptyResult(testJob(), time.Now())
	assert.True(t, result.Success)
	assert.NotNil(t, result.RankedApplications)
	assert.Empty(t, result.RankedApplications)
	assert.Zero(t, result.TotalApplications)
}
