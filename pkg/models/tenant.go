package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenant represents a company account. Every other entity belongs to a tenant,
// which is the unit of data isolation.
type Tenant struct {
	ID           uuid.UUID  `db:"id"            json:"id"`
	Name         string     `db:"name"          json:"name"`
	ContactEmail string     `db:"contact_email" json:"contact_email"`
	Timezone     string     `db:"timezone"      json:"timezone"`
	OwnerID      *uuid.UUID `db:"owner_id"      json:"owner_id,omitempty"`
	CreatedAt    time.Time  `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"    json:"updated_at"`
}

// Location resolves the tenant's configured timezone, falling back to UTC when
// the name is empty or unknown. "Today" for expiry matching is always computed
// in the tenant's own location.
func (t *Tenant) Location() *time.Location {
	if t.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
