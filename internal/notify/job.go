// Package notify owns the outbound notification queue and delivery: job
// payloads, the Redis-backed queue, email providers, the Slack webhook
// client, and the worker that drains the queue.
package notify

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Email template identifiers. Admin emails carry every matching document for
// a threshold; subject emails carry only one subject's documents.
const (
	TemplateAdmin   = "admin"
	TemplateSubject = "subject"
)

// DocumentLine is the rendered view of one expiring document inside a job
// payload. SubjectName is empty for documents with no subject.
type DocumentLine struct {
	ID          uuid.UUID  `json:"id"`
	TypeName    string     `json:"type_name"`
	SubjectName string     `json:"subject_name,omitempty"`
	IssueDate   *time.Time `json:"issue_date,omitempty"`
	ExpiryDate  time.Time  `json:"expiry_date"`
}

// EmailJob is one queued email notification.
type EmailJob struct {
	ID              uuid.UUID      `json:"id"`
	TenantID        uuid.UUID      `json:"tenant_id"`
	TenantName      string         `json:"tenant_name"`
	Template        string         `json:"template"`
	To              string         `json:"to"`
	Subject         string         `json:"subject"`
	DaysUntilExpiry int            `json:"days_until_expiry"`
	Documents       []DocumentLine `json:"documents"`
	EnqueuedAt      time.Time      `json:"enqueued_at"`
}

// SlackJob is one queued Slack message. Slack notifications are one message
// per document, never batched.
type SlackJob struct {
	ID              uuid.UUID    `json:"id"`
	TenantID        uuid.UUID    `json:"tenant_id"`
	WebhookURL      string       `json:"webhook_url"`
	AccessToken     string       `json:"access_token"`
	Document        DocumentLine `json:"document"`
	DaysUntilExpiry int          `json:"days_until_expiry"`
	EnqueuedAt      time.Time    `json:"enqueued_at"`
}

// SubjectLine returns the email subject line for a threshold: "Tomorrow" for
// one day out, "In {N} days" otherwise.
func SubjectLine(daysUntilExpiry int) string {
	if daysUntilExpiry == 1 {
		return "Tomorrow: Document Expiry Notification"
	}
	return fmt.Sprintf("In %d days: Document Expiry Notification", daysUntilExpiry)
}
