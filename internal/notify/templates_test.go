package notify

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func testJob(template string) EmailJob {
	expiry := time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)
	return EmailJob{
		ID:              uuid.New(),
		TenantName:      "Acme <Logistics>",
		Template:        template,
		To:              "admin@acme.test",
		DaysUntilExpiry: 7,
		Documents: []DocumentLine{
			{ID: uuid.New(), TypeName: "Work Visa", SubjectName: "Sam", ExpiryDate: expiry},
			{ID: uuid.New(), TypeName: "Fleet Insurance", ExpiryDate: expiry},
		},
	}
}

func TestRenderEmail_AdminTemplate(t *testing.T) {
	body := RenderEmail(testJob(TemplateAdmin))

	assert.Contains(t, body, "expire in 7 days")
	assert.Contains(t, body, "Work Visa")
	assert.Contains(t, body, "Sam")
	assert.Contains(t, body, "Fleet Insurance")
	assert.Contains(t, body, "Sep 4, 2026")
	// Admin template shows a subject column; documents without one get a dash.
	assert.Contains(t, body, "&mdash;")
	// Tenant name is HTML-escaped.
	assert.Contains(t, body, "Acme &lt;Logistics&gt;")
	assert.NotContains(t, body, "Acme <Logistics>")
}

func TestRenderEmail_SubjectTemplate(t *testing.T) {
	job := testJob(TemplateSubject)
	job.Documents = job.Documents[:1]
	body := RenderEmail(job)

	assert.Contains(t, body, "registered to you")
	assert.Contains(t, body, "Work Visa")
	// Subject template has no subject column.
	assert.NotContains(t, body, "<th>Subject</th>")
}

func TestRenderEmail_TomorrowWording(t *testing.T) {
	job := testJob(TemplateAdmin)
	job.DaysUntilExpiry = 1
	body := RenderEmail(job)

	assert.Contains(t, body, "expire tomorrow")
}

func TestSlackText(t *testing.T) {
	expiry := time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)

	withSubject := SlackJob{
		DaysUntilExpiry: 7,
		Document:        DocumentLine{TypeName: "Work Visa", SubjectName: "Sam", ExpiryDate: expiry},
	}
	assert.Equal(t, ":warning: *Work Visa* for Sam expires in 7 days (Sep 4, 2026).", slackText(withSubject))

	tomorrow := SlackJob{
		DaysUntilExpiry: 1,
		Document:        DocumentLine{TypeName: "Passport", ExpiryDate: expiry},
	}
	assert.Equal(t, ":warning: *Passport* for an unassigned document expires tomorrow (Sep 4, 2026).", slackText(tomorrow))
}
