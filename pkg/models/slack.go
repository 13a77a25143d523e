package models

import (
	"time"

	"github.com/google/uuid"
)

// SlackIntegration stores a tenant's Slack connection, created by the OAuth
// handshake in the web app. Only active integrations receive messages.
type SlackIntegration struct {
	ID          uuid.UUID `db:"id"          json:"id"`
	TenantID    uuid.UUID `db:"tenant_id"   json:"tenant_id"`
	WebhookURL  string    `db:"webhook_url" json:"webhook_url"`
	AccessToken string    `db:"access_token" json:"-"`
	Active      bool      `db:"active"      json:"active"`
	CreatedAt   time.Time `db:"created_at"  json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"  json:"updated_at"`
}
