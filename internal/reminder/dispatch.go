package reminder

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/complydesk/complydesk/internal/notify"
	"github.com/complydesk/complydesk/internal/store"
	"github.com/complydesk/complydesk/pkg/models"
)

// Dispatcher enqueues notifications for one tenant and one threshold. Every
// enqueue is best-effort and isolated: a failed admin email, a failed Slack
// message for one document, or a failed subject email never blocks the rest.
type Dispatcher struct {
	store store.Store
	queue notify.Queue
	now   func() time.Time
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(st store.Store, queue notify.Queue) *Dispatcher {
	return &Dispatcher{store: st, queue: queue, now: time.Now}
}

// Dispatch enqueues the admin email, the per-document Slack messages when the
// tenant has an active integration, and one email per subject group with a
// contact address. Admin and Slack dispatch precede subject emails. Nothing is
// enqueued for an empty document set.
func (d *Dispatcher) Dispatch(ctx context.Context, tenant *models.Tenant, daysUntilExpiry int, grouped Grouped) {
	if len(grouped.All) == 0 {
		return
	}

	d.dispatchAdminEmail(ctx, tenant, daysUntilExpiry, grouped.All)
	d.dispatchSlack(ctx, tenant, daysUntilExpiry, grouped.All)
	d.dispatchSubjectEmails(ctx, tenant, daysUntilExpiry, grouped.Subjects)
}

func (d *Dispatcher) dispatchAdminEmail(ctx context.Context, tenant *models.Tenant, days int, docs []*models.ExpiringDocument) {
	job := notify.EmailJob{
		ID:              uuid.New(),
		TenantID:        tenant.ID,
		TenantName:      tenant.Name,
		Template:        notify.TemplateAdmin,
		To:              tenant.ContactEmail,
		Subject:         notify.SubjectLine(days),
		DaysUntilExpiry: days,
		Documents:       toDocumentLines(docs),
		EnqueuedAt:      d.now().UTC(),
	}

	if err := d.queue.EnqueueEmail(ctx, job); err != nil {
		slog.Error("enqueue admin email failed",
			"tenant_id", tenant.ID,
			"days_until_expiry", days,
			"error", err)
	}
}

func (d *Dispatcher) dispatchSlack(ctx context.Context, tenant *models.Tenant, days int, docs []*models.ExpiringDocument) {
	integration, err := d.store.GetSlackIntegration(ctx, tenant.ID)
	if errors.Is(err, store.ErrNotFound) {
		return
	}
	if err != nil {
		slog.Error("slack integration lookup failed",
			"tenant_id", tenant.ID,
			"days_until_expiry", days,
			"error", err)
		return
	}

	// One message per document, each failure isolated.
	for _, doc := range docs {
		job := notify.SlackJob{
			ID:              uuid.New(),
			TenantID:        tenant.ID,
			WebhookURL:      integration.WebhookURL,
			AccessToken:     integration.AccessToken,
			Document:        toDocumentLine(doc),
			DaysUntilExpiry: days,
			EnqueuedAt:      d.now().UTC(),
		}
		if err := d.queue.EnqueueSlack(ctx, job); err != nil {
			slog.Error("enqueue slack message failed",
				"tenant_id", tenant.ID,
				"document_id", doc.ID,
				"days_until_expiry", days,
				"error", err)
		}
	}
}

func (d *Dispatcher) dispatchSubjectEmails(ctx context.Context, tenant *models.Tenant, days int, groups []SubjectGroup) {
	for _, group := range groups {
		if group.ContactEmail == "" {
			continue
		}

		job := notify.EmailJob{
			ID:              uuid.New(),
			TenantID:        tenant.ID,
			TenantName:      tenant.Name,
			Template:        notify.TemplateSubject,
			To:              group.ContactEmail,
			Subject:         notify.SubjectLine(days),
			DaysUntilExpiry: days,
			Documents:       toDocumentLines(group.Documents),
			EnqueuedAt:      d.now().UTC(),
		}
		if err := d.queue.EnqueueEmail(ctx, job); err != nil {
			slog.Error("enqueue subject email failed",
				"tenant_id", tenant.ID,
				"subject_id", group.SubjectID,
				"days_until_expiry", days,
				"error", err)
		}
	}
}

func toDocumentLines(docs []*models.ExpiringDocument) []notify.DocumentLine {
	lines := make([]notify.DocumentLine, 0, len(docs))
	for _, doc := range docs {
		lines = append(lines, toDocumentLine(doc))
	}
	return lines
}

func toDocumentLine(doc *models.ExpiringDocument) notify.DocumentLine {
	line := notify.DocumentLine{
		ID:         doc.ID,
		TypeName:   doc.TypeName,
		IssueDate:  doc.IssueDate,
		ExpiryDate: doc.ExpiryDate,
	}
	if doc.SubjectName != nil {
		line.SubjectName = *doc.SubjectName
	}
	return line
}
