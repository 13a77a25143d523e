package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	DocumentStatusActive   = "active"
	DocumentStatusArchived = "archived"
)

// Document is a tracked compliance document. Only active documents with a
// non-null expiry date are eligible for reminders.
type Document struct {
	ID         uuid.UUID  `db:"id"          json:"id"`
	TenantID   uuid.UUID  `db:"tenant_id"   json:"tenant_id"`
	SubjectID  *uuid.UUID `db:"subject_id"  json:"subject_id,omitempty"`
	TypeID     uuid.UUID  `db:"type_id"     json:"type_id"`
	Status     string     `db:"status"      json:"status"`
	IssueDate  *time.Time `db:"issue_date"  json:"issue_date,omitempty"`
	ExpiryDate *time.Time `db:"expiry_date" json:"expiry_date,omitempty"`
	CreatedAt  time.Time  `db:"created_at"  json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"  json:"updated_at"`
}

// DocumentType carries the display name used when formatting notifications.
type DocumentType struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	TenantID  uuid.UUID `db:"tenant_id"  json:"tenant_id"`
	Name      string    `db:"name"       json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ExpiringDocument is the read model returned by the expiry query: a document
// enriched with its type name and subject details for message formatting.
type ExpiringDocument struct {
	ID                  uuid.UUID  `db:"id"                    json:"id"`
	TenantID            uuid.UUID  `db:"tenant_id"             json:"tenant_id"`
	TypeName            string     `db:"type_name"             json:"type_name"`
	SubjectID           *uuid.UUID `db:"subject_id"            json:"subject_id,omitempty"`
	SubjectName         *string    `db:"subject_name"          json:"subject_name,omitempty"`
	SubjectContactEmail *string    `db:"subject_contact_email" json:"subject_contact_email,omitempty"`
	IssueDate           *time.Time `db:"issue_date"            json:"issue_date,omitempty"`
	ExpiryDate          time.Time  `db:"expiry_date"           json:"expiry_date"`
}
