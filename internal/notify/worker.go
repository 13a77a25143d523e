package notify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"
)

// Worker drains the notification queue and delivers each job through the
// configured email provider or Slack sender. Delivery failures are logged and
// the job is dropped; the enqueue side never waits on delivery.
type Worker struct {
	queue       *RedisQueue
	provider    Provider
	slack       *SlackSender
	pollTimeout time.Duration
}

// NewWorker creates a Worker.
func NewWorker(queue *RedisQueue, provider Provider, slack *SlackSender, pollTimeout time.Duration) *Worker {
	return &Worker{
		queue:       queue,
		provider:    provider,
		slack:       slack,
		pollTimeout: pollTimeout,
	}
}

// Run consumes jobs until ctx is canceled.
func (w *Worker) Run(ctx context.Context) error {
	slog.Info("notification worker started", "provider", w.provider.Name())

	for {
		if err := ctx.Err(); err != nil {
			slog.Info("notification worker stopping")
			return nil
		}

		kind, payload, ok, err := w.queue.Dequeue(ctx, w.pollTimeout)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
				slog.Info("notification worker stopping")
				return nil
			}
			slog.Error("dequeue failed", "error", err)
			// Back off briefly so a broken Redis connection does not spin.
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return nil
			}
			continue
		}
		if !ok {
			continue
		}

		switch kind {
		case KindEmail:
			w.handleEmail(ctx, payload)
		case KindSlack:
			w.handleSlack(ctx, payload)
		}
	}
}

func (w *Worker) handleEmail(ctx context.Context, payload []byte) {
	var job EmailJob
	if err := json.Unmarshal(payload, &job); err != nil {
		slog.Error("malformed email job dropped", "error", err)
		return
	}

	body := RenderEmail(job)
	if err := w.provider.Send(ctx, job.To, job.Subject, body); err != nil {
		slog.Error("email delivery failed",
			"job_id", job.ID,
			"tenant_id", job.TenantID,
			"template", job.Template,
			"to", job.To,
			"error", err)
		return
	}
	slog.Info("email delivered",
		"job_id", job.ID,
		"tenant_id", job.TenantID,
		"template", job.Template,
		"documents", len(job.Documents))
}

func (w *Worker) handleSlack(ctx context.Context, payload []byte) {
	var job SlackJob
	if err := json.Unmarshal(payload, &job); err != nil {
		slog.Error("malformed slack job dropped", "error", err)
		return
	}

	if err := w.slack.Send(ctx, job); err != nil {
		slog.Error("slack delivery failed",
			"job_id", job.ID,
			"tenant_id", job.TenantID,
			"document_id", job.Document.ID,
			"error", err)
		return
	}
	slog.Info("slack message delivered",
		"job_id", job.ID,
		"tenant_id", job.TenantID,
		"document_id", job.Document.ID)
}
