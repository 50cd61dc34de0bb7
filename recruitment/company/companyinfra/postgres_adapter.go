package companyinfra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Abraxas-365/jobboard/pkg/kernel"
	"github.com/Abraxas-365/jobboard/recruitment/company"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresCompanyRepository implements company.Repository using PostgreSQL
type PostgresCompanyRepository struct {
	db *sqlx.DB
}

func NewPostgresCompanyRepository(db *sqlx.DB) *PostgresCompanyRepository {
	return &PostgresCompanyRepository{db: db}
}

const selectCompany = `
	SELECT id, name, description, website, location, logo, owner_id, created_at, updated_at
	FROM companies`

func (r *PostgresCompanyRepository) GetByID(ctx context.Context, id kernel.CompanyID) (*company.Company, error) {
	var c company.Company
	err := r.db.GetContext(ctx, &c, selectCompany+` WHERE id = $1`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, company.ErrCompanyNotFound().WithDetail("company_id", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return &c, nil
}

func (r *PostgresCompanyRepository) GetByIDs(ctx context.Context, ids []kernel.CompanyID) (map[kernel.CompanyID]*company.Company, error) {
	result := make(map[kernel.CompanyID]*company.Company, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}

	var rows []company.Company
	if err := r.db.SelectContext(ctx, &rows, selectCompany+` WHERE id = ANY($1)`, pq.Array(raw)); err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	for i := range rows {
		result[rows[i].ID] = &rows[i]
	}
	return result, nil
}

func (r *PostgresCompanyRepository) Exists(ctx context.Context, id kernel.CompanyID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM companies WHERE id = $1)`, id.String())
	if err != nil {
		return false, fmt.Errorf("failed to check company existence: %w", err)
	}
	return exists, nil
}
