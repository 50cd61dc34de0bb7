package applicantinfra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Abraxas-365/jobboard/pkg/kernel"
	"github.com/Abraxas-365/jobboard/recruitment/applicant"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresApplicantRepository reads applicants from the users table
type PostgresApplicantRepository struct {
	db *sqlx.DB
}

func NewPostgresApplicantRepository(db *sqlx.DB) *PostgresApplicantRepository {
	return &PostgresApplicantRepository{db: db}
}

// ============================================================================
// Database Model
// ============================================================================

type userModel struct {
	ID                 string         `db:"id"`
	FullName           string         `db:"fullname"`
	Email              string         `db:"email"`
	PhoneNumber        string         `db:"phone_number"`
	Role               string         `db:"role"`
	Bio                string         `db:"bio"`
	Skills             pq.StringArray `db:"skills"`
	ResumeURL          string         `db:"resume_url"`
	ResumeOriginalName string         `db:"resume_original_name"`
	CompanyID          sql.NullString `db:"company_id"`
	ProfilePhoto       string         `db:"profile_photo"`
	CreatedAt          time.Time      `db:"created_at"`
}

func (m *userModel) toEntity() *applicant.Applicant {
	skills := []string(m.Skills)
	if skills == nil {
		skills = []string{}
	}
	return &applicant.Applicant{
		ID:       kernel.UserID(m.ID),
		FullName: kernel.FullName(m.FullName),
		Email:    kernel.Email(m.Email),
		Phone:    kernel.Phone(m.PhoneNumber),
		Role:     applicant.Role(m.Role),
		Profile: applicant.Profile{
			Bio:                m.Bio,
			Skills:             skills,
			ResumeURL:          kernel.ResumeURL(m.ResumeURL),
			ResumeOriginalName: m.ResumeOriginalName,
			CompanyID:          kernel.CompanyID(m.CompanyID.String),
			ProfilePhoto:       m.ProfilePhoto,
		},
		CreatedAt: m.CreatedAt,
	}
}

const selectUser = `
	SELECT id, fullname, email, phone_number, role, bio, skills, resume_url,
	       resume_original_name, company_id, profile_photo, created_at
	FROM users`

// ============================================================================
// Repository Implementation
// ============================================================================

func (r *PostgresApplicantRepository) GetByID(ctx context.Context, id kernel.UserID) (*applicant.Applicant, error) {
	var m userModel
	err := r.db.GetContext(ctx, &m, selectUser+` WHERE id = $1`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, applicant.ErrApplicantNotFound().WithDetail("applicant_id", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get applicant: %w", err)
	}
	return m.toEntity(), nil
}

func (r *PostgresApplicantRepository) GetByIDs(ctx context.Context, ids []kernel.UserID) (map[kernel.UserID]*applicant.Applicant, error) {
	result := make(map[kernel.UserID]*applicant.Applicant, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}

	var models []userModel
	if err := r.db.SelectContext(ctx, &models, selectUser+` WHERE id = ANY($1)`, pq.Array(raw)); err != nil {
		return nil, fmt.Errorf("failed to list applicants: %w", err)
	}
	for i := range models {
		a := models[i].toEntity()
		result[a.ID] = a
	}
	return result, nil
}
