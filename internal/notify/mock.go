package notify

import (
	"context"
	"log/slog"
)

// MockProvider logs emails instead of sending them. Used in development and
// in environments without mail credentials.
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) Send(_ context.Context, to, subject, htmlBody string) error {
	slog.Info("mock email",
		"to", to,
		"subject", subject,
		"body_length", len(htmlBody))
	return nil
}
