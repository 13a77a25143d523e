package notify

import (
	"context"
	"fmt"

	"github.com/complydesk/complydesk/internal/config"
)

// Provider is the email sending interface the worker delivers through.
type Provider interface {
	// Send sends one email. Implementations may retry internally; the worker
	// treats any returned error as a failed delivery for that job only.
	Send(ctx context.Context, to, subject, htmlBody string) error
	Name() string
}

// NewProvider constructs the configured email provider.
// Called once at worker startup.
func NewProvider(cfg config.MailerConfig) (Provider, error) {
	switch cfg.Provider {
	case "mock":
		return NewMockProvider(), nil
	case "brevo":
		return NewBrevoProvider(cfg.Brevo.APIKey, cfg.FromAddr, cfg.FromName), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q: must be one of mock, brevo", cfg.Provider)
	}
}
