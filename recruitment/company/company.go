package company

import (
	"time"

	"github.com/Abraxas-365/jobboard/pkg/kernel"
)

// Company owns job postings. Managed outside this service; read here to
// expand a job's owner.
type Company struct {
	ID          kernel.CompanyID `db:"id" json:"id"`
	Name        string           `db:"name" json:"name"`
	Description string           `db:"description" json:"description,omitempty"`
	Website     string           `db:"website" json:"website,omitempty"`
	Location    string           `db:"location" json:"location,omitempty"`
	Logo        string           `db:"logo" json:"logo,omitempty"`
	OwnerID     kernel.UserID    `db:"owner_id" json:"owner_id"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updated_at"`
}
