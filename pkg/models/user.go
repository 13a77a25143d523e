package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a member of a tenant. The tenant's owner is the user whose
// subscription gates feature access for the whole tenant.
type User struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	TenantID  uuid.UUID `db:"tenant_id"  json:"tenant_id"`
	Name      string    `db:"name"       json:"name"`
	Email     string    `db:"email"      json:"email"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
