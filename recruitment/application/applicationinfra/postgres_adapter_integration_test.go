//go:build integration

package applicationinfra

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Abraxas-365/jobboard/pkg/errx"
	"github.com/Abraxas-365/jobboard/pkg/kernel"
	"github.com/Abraxas-365/jobboard/pkg/migration"
	"github.com/Abraxas-365/jobboard/recruitment/application"
	"github.com/Abraxas-365/jobboard/recruitment/job"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = migration.Run(context.Background(), db, migration.Migrations)
	require.NoError(t, err)
	return db
}

func seedJob(t *testing.T, db *sqlx.DB) (kernel.JobID, kernel.UserID) {
	t.Helper()
	suffix := uuid.NewString()
	owner := "recruiter-" + suffix
	seeker := "seeker-" + suffix
	companyID := "company-" + suffix
	jobID := "job-" + suffix

	db.MustExec(`INSERT INTO users (id, fullname, email, phone_number, role) VALUES ($1, 'R', $2, '1', 'recruiter')`, owner, owner+"@example.com")
	db.MustExec(`INSERT INTO users (id, fullname, email, phone_number, role) VALUES ($1, 'S', $2, '2', 'jobseeker')`, seeker, seeker+"@example.com")
	db.MustExec(`INSERT INTO companies (id, name, owner_id) VALUES ($1, $1, $2)`, companyID, owner)
	db.MustExec(`INSERT INTO jobs (id, title, description, company_id, created_by) VALUES ($1, 'Engineer', 'Build', $2, $3)`, jobID, companyID, owner)
	return kernel.JobID(jobID), kernel.UserID(seeker)
}

func newApplication(jobID kernel.JobID, applicantID kernel.UserID) *application.Application {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &application.Application{
		ID:          kernel.ApplicationID(uuid.NewString()),
		JobID:       jobID,
		ApplicantID: applicantID,
		FullName:    "Seeker",
		Email:       "seeker@example.com",
		PhoneNumber: "2",
		CoverLetter: "Hello",
		ResumeURL:   "https://cdn.example.com/cv.pdf",
		Status:      application.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestPostgresApplicationRepository_CreateAndLink(t *testing.T) {
	db := getTestDB(t)
	repo := NewPostgresApplicationRepository(db)
	ctx := context.Background()
	jobID, seekerID := seedJob(t, db)

	app := newApplication(jobID, seekerID)
	require.NoError(t, repo.CreateAndLink(ctx, app))

	var linked []string
	require.NoError(t, db.QueryRowContext(ctx, `SELECT application_ids FROM jobs WHERE id = $1`, jobID.String()).Scan((*pq.StringArray)(&linked)))
	assert.Equal(t, []string{app.ID.String()}, linked)

	err := repo.CreateAndLink(ctx, newApplication(jobID, seekerID))
	assert.True(t, errx.IsCode(err, application.CodeDuplicateApplication))

	err = repo.CreateAndLink(ctx, newApplication("job-missing", seekerID))
	assert.True(t, errx.IsCode(err, job.CodeJobNotFound))

	otherJob, otherSeeker := seedJob(t, db)
	long := newApplication(otherJob, otherSeeker)
	long.CoverLetter = kernel.CoverLetter(strings.Repeat("x", 2001))
	err = repo.CreateAndLink(ctx, long)
	assert.True(t, errx.IsCode(err, application.CodeInvalidRequest))
}

func TestPostgresApplicationRepository_ConcurrentSubmits(t *testing.T) {
	db := getTestDB(t)
	repo := NewPostgresApplicationRepository(db)
	ctx := context.Background()
	jobID, seekerID := seedJob(t, db)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.CreateAndLink(ctx, newApplication(jobID, seekerID))
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.True(t, errx.IsCode(err, application.CodeDuplicateApplication), "got %v", err)
	}
	assert.Equal(t, 1, ok)
}

func TestPostgresApplicationRepository_UpdateStatus(t *testing.T) {
	db := getTestDB(t)
	repo := NewPostgresApplicationRepository(db)
	ctx := context.Background()
	jobID, seekerID := seedJob(t, db)

	app := newApplication(jobID, seekerID)
	require.NoError(t, repo.CreateAndLink(ctx, app))

	require.NoError(t, repo.UpdateStatus(ctx, app.ID, application.StatusPending, application.StatusAccepted, time.Now()))

	err := repo.UpdateStatus(ctx, app.ID, application.StatusPending, application.StatusRejected, time.Now())
	assert.True(t, errx.IsCode(err, application.CodeStatusConflict))

	err = repo.UpdateStatus(ctx, "missing", application.StatusPending, application.StatusRejected, time.Now())
	assert.True(t, errx.IsCode(err, application.CodeApplicationNotFound))

	stored, err := repo.GetByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, application.StatusAccepted, stored.Status)
	assert.NotNil(t, stored.StatusChangedAt)
}

func TestPostgresApplicationRepository_Reconcile(t *testing.T) {
	db := getTestDB(t)
	repo := NewPostgresApplicationRepository(db)
	ctx := context.Background()
	jobID, seekerID := seedJob(t, db)

	app := newApplication(jobID, seekerID)
	require.NoError(t, repo.CreateAndLink(ctx, app))
	db.MustExec(`UPDATE jobs SET application_ids = '{}' WHERE id = $1`, jobID.String())

	unlinked, err := repo.ListUnlinked(ctx, 0)
	require.NoError(t, err)
	found := false
	for _, u := range unlinked {
		found = found || u.ID == app.ID
	}
	assert.True(t, found)

	require.NoError(t, repo.LinkToJob(ctx, app.ID, jobID))
	require.NoError(t, repo.LinkToJob(ctx, app.ID, jobID))

	var count int
	require.NoError(t, db.GetContext(ctx, &count, `SELECT cardinality(application_ids) FROM jobs WHERE id = $1`, jobID.String()))
	assert.Equal(t, 1, count)

	assert.True(t, errx.IsCode(repo.LinkToJob(ctx, app.ID, "job-missing"), job.CodeJobNotFound))
}
