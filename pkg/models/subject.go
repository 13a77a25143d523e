package models

import (
	"time"

	"github.com/google/uuid"
)

// Subject is an entity within a tenant that documents are attached to:
// an employee, a vendor, an asset. ContactEmail is optional; subjects
// without one receive no direct reminder emails.
type Subject struct {
	ID           uuid.UUID `db:"id"            json:"id"`
	TenantID     uuid.UUID `db:"tenant_id"     json:"tenant_id"`
	Name         string    `db:"name"          json:"name"`
	ContactEmail *string   `db:"contact_email" json:"contact_email,omitempty"`
	CreatedAt    time.Time `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"    json:"updated_at"`
}
