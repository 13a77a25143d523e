package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SlackSender posts expiry messages to tenant Slack webhooks.
type SlackSender struct {
	client *http.Client
}

// NewSlackSender creates a SlackSender with the given request timeout.
func NewSlackSender(timeout time.Duration) *SlackSender {
	return &SlackSender{client: &http.Client{Timeout: timeout}}
}

type slackMessage struct {
	Text string `json:"text"`
}

// Send posts one document's expiry message to a webhook URL. The access token
// from the integration record is sent as a bearer token.
func (s *SlackSender) Send(ctx context.Context, job SlackJob) error {
	payload, err := json.Marshal(slackMessage{Text: slackText(job)})
	if err != nil {
		return fmt.Errorf("marshal slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, job.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if job.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+job.AccessToken)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post slack message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("slack webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}

func slackText(job SlackJob) string {
	doc := job.Document
	who := doc.SubjectName
	if who == "" {
		who = "an unassigned document"
	}
	when := "tomorrow"
	if job.DaysUntilExpiry != 1 {
		when = fmt.Sprintf("in %d days", job.DaysUntilExpiry)
	}
	return fmt.Sprintf(":warning: *%s* for %s expires %s (%s).",
		doc.TypeName, who, when, doc.ExpiryDate.Format("Jan 2, 2006"))
}
