package applicationinfra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Abraxas-365/jobboard/pkg/kernel"
	"github.com/Abraxas-365/jobboard/recruitment/application"
	"github.com/Abraxas-365/jobboard/recruitment/job"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const jobForeignKey = "applications_job_id_fkey"

// PostgresApplicationRepository implements application.Repository using PostgreSQL
type PostgresApplicationRepository struct {
	db *sqlx.DB
}

// NewPostgresApplicationRepository creates a new PostgreSQL application repository
func NewPostgresApplicationRepository(db *sqlx.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{
		db: db,
	}
}

var _ application.Repository = (*PostgresApplicationRepository)(nil)

// ============================================================================
// Database Model
// ============================================================================

type applicationModel struct {
	ID                 string     `db:"id"`
	JobID              string     `db:"job_id"`
	ApplicantID        string     `db:"applicant_id"`
	FullName           string     `db:"fullname"`
	Email              string     `db:"email"`
	PhoneNumber        string     `db:"phone_number"`
	CoverLetter        string     `db:"cover_letter"`
	ResumeURL          string     `db:"resume_url"`
	ResumeOriginalName string     `db:"resume_original_name"`
	Status             string     `db:"status"`
	StatusChangedAt    *time.Time `db:"status_changed_at"`
	CreatedAt          time.Time  `db:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at"`
}

const selectColumns = `
	a.id, a.job_id, a.applicant_id, a.fullname, a.email, a.phone_number,
	a.cover_letter, a.resume_url, a.resume_original_name, a.status,
	a.status_changed_at, a.created_at, a.updated_at`

// toEntity converts database model to domain entity
func (m *applicationModel) toEntity() *application.Application {
	return &application.Application{
		ID:                 kernel.ApplicationID(m.ID),
		JobID:              kernel.JobID(m.JobID),
		ApplicantID:        kernel.UserID(m.ApplicantID),
		FullName:           kernel.FullName(m.FullName),
		Email:              kernel.Email(m.Email),
		PhoneNumber:        kernel.Phone(m.PhoneNumber),
		CoverLetter:        kernel.CoverLetter(m.CoverLetter),
		ResumeURL:          kernel.ResumeURL(m.ResumeURL),
		ResumeOriginalName: m.ResumeOriginalName,
		Status:             application.Status(m.Status),
		StatusChangedAt:    m.StatusChangedAt,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

// fromEntity converts domain entity to database model
func fromEntity(app *application.Application) *applicationModel {
	return &applicationModel{
		ID:                 app.ID.String(),
		JobID:              app.JobID.String(),
		ApplicantID:        app.ApplicantID.String(),
		FullName:           string(app.FullName),
		Email:              app.Email.String(),
		PhoneNumber:        app.PhoneNumber.String(),
		CoverLetter:        string(app.CoverLetter),
		ResumeURL:          app.ResumeURL.String(),
		ResumeOriginalName: app.ResumeOriginalName,
		Status:             app.Status.String(),
		StatusChangedAt:    app.StatusChangedAt,
		CreatedAt:          app.CreatedAt,
		UpdatedAt:          app.UpdatedAt,
	}
}

func toEntities(models []applicationModel) []*application.Application {
	out := make([]*application.Application, 0, len(models))
	for i := range models {
		out = append(out, models[i].toEntity())
	}
	return out
}

// ============================================================================
// Repository Implementation
// ============================================================================

// CreateAndLink inserts the application and appends it to the job inside one
// transaction. The job row is locked first so appends to the same job are
// serialized.
func (r *PostgresApplicationRepository) CreateAndLink(ctx context.Context, app *application.Application) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var lockedID string
	err = tx.GetContext(ctx, &lockedID, `SELECT id FROM jobs WHERE id = $1 FOR UPDATE`, app.JobID.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return job.ErrJobNotFound().WithDetail("job_id", app.JobID.String())
		}
		return err
	}

	query := `
		INSERT INTO applications (
			id, job_id, applicant_id, fullname, email, phone_number,
			cover_letter, resume_url, resume_original_name, status,
			status_changed_at, created_at, updated_at
		) VALUES (
			:id, :job_id, :applicant_id, :fullname, :email, :phone_number,
			:cover_letter, :resume_url, :resume_original_name, :status,
			:status_changed_at, :created_at, :updated_at
		)`

	if _, err = tx.NamedExecContext(ctx, query, fromEntity(app)); err != nil {
		return mapInsertError(err, app)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE jobs
		SET application_ids = array_append(application_ids, $1), updated_at = $2
		WHERE id = $3`,
		app.ID.String(), app.CreatedAt, app.JobID.String())
	if err != nil {
		return err
	}

	return tx.Commit()
}

func mapInsertError(err error, app *application.Application) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case "23505": // unique_violation
		return application.ErrDuplicateApplication().
			WithDetail("job_id", app.JobID.String()).
			WithDetail("applicant_id", app.ApplicantID.String())
	case "23514": // check_violation
		return application.ErrInvalidRequest().WithDetail("constraint", pqErr.Constraint)
	case "23503": // foreign_key_violation
		if pqErr.Constraint == jobForeignKey {
			return job.ErrJobNotFound().WithDetail("job_id", app.JobID.String())
		}
		return application.ErrInvalidRequest().
			WithDetail("applicant_id", app.ApplicantID.String()).
			WithDetail("constraint", pqErr.Constraint)
	}
	return err
}

// GetByID retrieves an application by ID
func (r *PostgresApplicationRepository) GetByID(ctx context.Context, id kernel.ApplicationID) (*application.Application, error) {
	var model applicationModel
	query := `SELECT ` + selectColumns + ` FROM applications a WHERE a.id = $1`

	if err := r.db.GetContext(ctx, &model, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, application.ErrApplicationNotFound().WithDetail("application_id", id.String())
		}
		return nil, err
	}
	return model.toEntity(), nil
}

// GetByIDs retrieves the existing applications among ids
func (r *PostgresApplicationRepository) GetByIDs(ctx context.Context, ids []kernel.ApplicationID) ([]*application.Application, error) {
	if len(ids) == 0 {
		return []*application.Application{}, nil
	}

	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}

	var models []applicationModel
	query := `SELECT ` + selectColumns + ` FROM applications a WHERE a.id = ANY($1) ORDER BY a.created_at DESC`
	if err := r.db.SelectContext(ctx, &models, query, pq.Array(raw)); err != nil {
		return nil, err
	}
	return toEntities(models), nil
}

// ListByApplicant lists an applicant's applications, newest first
func (r *PostgresApplicationRepository) ListByApplicant(ctx context.Context, applicantID kernel.UserID) ([]*application.Application, error) {
	var models []applicationModel
	query := `SELECT ` + selectColumns + ` FROM applications a WHERE a.applicant_id = $1 ORDER BY a.created_at DESC`
	if err := r.db.SelectContext(ctx, &models, query, applicantID.String()); err != nil {
		return nil, err
	}
	return toEntities(models), nil
}

// ExistsByJobAndApplicant checks for a prior application to the job
func (r *PostgresApplicationRepository) ExistsByJobAndApplicant(ctx context.Context, jobID kernel.JobID, applicantID kernel.UserID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM applications WHERE job_id = $1 AND applicant_id = $2)`
	if err := r.db.GetContext(ctx, &exists, query, jobID.String(), applicantID.String()); err != nil {
		return false, err
	}
	return exists, nil
}

// UpdateStatus performs a compare-and-set on the status column
func (r *PostgresApplicationRepository) UpdateStatus(ctx context.Context, id kernel.ApplicationID, from, to application.Status, at time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE applications
		SET status = $1, status_changed_at = $2, updated_at = $2
		WHERE id = $3 AND status = $4`,
		to.String(), at, id.String(), from.String())
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return application.ErrStatusConflict().
		WithDetail("application_id", id.String()).
		WithDetail("current_status", current.Status)
}

// ListUnlinked returns applications missing from their job's list, oldest first
func (r *PostgresApplicationRepository) ListUnlinked(ctx context.Context, limit int) ([]*application.Application, error) {
	query := `
		SELECT ` + selectColumns + `
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		WHERE NOT (a.id = ANY(j.application_ids))
		ORDER BY a.created_at ASC`

	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	var models []applicationModel
	if err := r.db.SelectContext(ctx, &models, query, args...); err != nil {
		return nil, err
	}
	return toEntities(models), nil
}

// LinkToJob appends id to the job's list unless already present
func (r *PostgresApplicationRepository) LinkToJob(ctx context.Context, id kernel.ApplicationID, jobID kernel.JobID) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE jobs
		SET application_ids = array_append(application_ids, $1), updated_at = now()
		WHERE id = $2 AND NOT ($1 = ANY(application_ids))`,
		id.String(), jobID.String())
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}

	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM jobs WHERE id = $1)`, jobID.String()); err != nil {
		return err
	}
	if !exists {
		return job.ErrJobNotFound().WithDetail("job_id", jobID.String())
	}
	return nil
}
