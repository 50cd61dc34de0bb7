package jobinfra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Abraxas-365/jobboard/pkg/kernel"
	"github.com/Abraxas-365/jobboard/recruitment/job"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresJobRepository implements job.Repository using PostgreSQL
type PostgresJobRepository struct {
	db *sqlx.DB
}

// NewPostgresJobRepository creates a new PostgreSQL job repository
func NewPostgresJobRepository(db *sqlx.DB) *PostgresJobRepository {
	return &PostgresJobRepository{
		db: db,
	}
}

// ============================================================================
// Database Model
// ============================================================================

type jobModel struct {
	ID              string         `db:"id"`
	Title           string         `db:"title"`
	Description     string         `db:"description"`
	Requirements    pq.StringArray `db:"requirements"`
	Salary          float64        `db:"salary"`
	Location        string         `db:"location"`
	JobType         string         `db:"job_type"`
	ExperienceLevel int            `db:"experience_level"`
	PositionCount   int            `db:"position_count"`
	CompanyID       string         `db:"company_id"`
	CreatedBy       string         `db:"created_by"`
	ApplicationIDs  pq.StringArray `db:"application_ids"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

// toEntity converts database model to domain entity
func (m *jobModel) toEntity() *job.Job {
	requirements := make([]kernel.JobRequirement, len(m.Requirements))
	for i, r := range m.Requirements {
		requirements[i] = kernel.JobRequirement(r)
	}

	return &job.Job{
		ID:              kernel.JobID(m.ID),
		Title:           kernel.JobTitle(m.Title),
		Description:     kernel.JobDescription(m.Description),
		Requirements:    requirements,
		Salary:          m.Salary,
		Location:        kernel.JobLocation(m.Location),
		JobType:         m.JobType,
		ExperienceLevel: m.ExperienceLevel,
		PositionCount:   m.PositionCount,
		CompanyID:       kernel.CompanyID(m.CompanyID),
		CreatedBy:       kernel.UserID(m.CreatedBy),
		ApplicationIDs:  kernel.ApplicationIDs(m.ApplicationIDs),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// fromEntity converts domain entity to database model
func fromEntity(j *job.Job) *jobModel {
	requirements := make(pq.StringArray, len(j.Requirements))
	for i, r := range j.Requirements {
		requirements[i] = string(r)
	}
	applicationIDs := make(pq.StringArray, len(j.ApplicationIDs))
	for i, id := range j.ApplicationIDs {
		applicationIDs[i] = id.String()
	}

	return &jobModel{
		ID:              j.ID.String(),
		Title:           string(j.Title),
		Description:     string(j.Description),
		Requirements:    requirements,
		Salary:          j.Salary,
		Location:        string(j.Location),
		JobType:         j.JobType,
		ExperienceLevel: j.ExperienceLevel,
		PositionCount:   j.PositionCount,
		CompanyID:       j.CompanyID.String(),
		CreatedBy:       j.CreatedBy.String(),
		ApplicationIDs:  applicationIDs,
		CreatedAt:       j.CreatedAt,
		UpdatedAt:       j.UpdatedAt,
	}
}

const selectJob = `
	SELECT id, title, description, requirements, salary, location, job_type,
	       experience_level, position_count, company_id, created_by,
	       application_ids, created_at, updated_at
	FROM jobs`

// ============================================================================
// Repository Implementation
// ============================================================================

// Create creates a new job
func (r *PostgresJobRepository) Create(ctx context.Context, jobEntity *job.Job) error {
	query := `
		INSERT INTO jobs (
			id, title, description, requirements, salary, location, job_type,
			experience_level, position_count, company_id, created_by,
			application_ids, created_at, updated_at
		) VALUES (
			:id, :title, :description, :requirements, :salary, :location, :job_type,
			:experience_level, :position_count, :company_id, :created_by,
			:application_ids, :created_at, :updated_at
		)
	`

	_, err := r.db.NamedExecContext(ctx, query, fromEntity(jobEntity))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505": // unique_violation
				return job.ErrJobAlreadyExists()
			case "23503": // foreign_key_violation
				return job.ErrInvalidRequest().
					WithDetail("constraint", pqErr.Constraint).
					WithCause(err)
			}
		}
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

// GetByID retrieves a job by ID
func (r *PostgresJobRepository) GetByID(ctx context.Context, id kernel.JobID) (*job.Job, error) {
	var model jobModel
	err := r.db.GetContext(ctx, &model, selectJob+` WHERE id = $1`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, job.ErrJobNotFound().WithDetail("job_id", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return model.toEntity(), nil
}

// GetByIDs retrieves the existing jobs among ids
func (r *PostgresJobRepository) GetByIDs(ctx context.Context, ids []kernel.JobID) (map[kernel.JobID]*job.Job, error) {
	result := make(map[kernel.JobID]*job.Job, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}

	var models []jobModel
	if err := r.db.SelectContext(ctx, &models, selectJob+` WHERE id = ANY($1)`, pq.Array(raw)); err != nil {
		return nil, fmt.Errorf("failed to get jobs: %w", err)
	}
	for i := range models {
		j := models[i].toEntity()
		result[j.ID] = j
	}
	return result, nil
}

// Exists checks if a job exists by ID
func (r *PostgresJobRepository) Exists(ctx context.Context, id kernel.JobID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM jobs WHERE id = $1)`, id.String())
	if err != nil {
		return false, fmt.Errorf("failed to check job existence: %w", err)
	}
	return exists, nil
}

// List retrieves jobs newest first
func (r *PostgresJobRepository) List(ctx context.Context, req job.ListJobsRequest) (*kernel.Paginated[job.Job], error) {
	where := `
		WHERE ($1 = '' OR title ILIKE $1 ESCAPE '\' OR description ILIKE $1 ESCAPE '\')
		  AND ($2 = '' OR created_by = $2)`

	pattern := ""
	if req.Keyword != "" {
		pattern = "%" + escapeLike(req.Keyword) + "%"
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM jobs`+where, pattern, req.CreatedBy.String()); err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}

	var models []jobModel
	query := selectJob + where + ` ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	err := r.db.SelectContext(ctx, &models, query,
		pattern, req.CreatedBy.String(), req.Pagination.Limit(), req.Pagination.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	jobs := make([]job.Job, len(models))
	for i := range models {
		jobs[i] = *models[i].toEntity()
	}

	page := kernel.NewPaginated(jobs, req.Pagination, total)
	return &page, nil
}

// CountApplications counts applications referencing a job
func (r *PostgresJobRepository) CountApplications(ctx context.Context, jobID kernel.JobID) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM applications WHERE job_id = $1`, jobID.String())
	if err != nil {
		return 0, fmt.Errorf("failed to count applications: %w", err)
	}
	return count, nil
}

// Delete deletes a job by ID. The applications foreign key is RESTRICT, so a
// concurrent submission makes this fail instead of orphaning it.
func (r *PostgresJobRepository) Delete(ctx context.Context, id kernel.JobID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, id.String())
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return job.ErrJobHasApplications().WithDetail("job_id", id.String())
		}
		return fmt.Errorf("failed to delete job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return job.ErrJobNotFound().WithDetail("job_id", id.String())
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
