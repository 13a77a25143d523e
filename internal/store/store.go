package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/complydesk/complydesk/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// Store is the data access interface. All database operations go through here.
// The reminder pipeline only reads; the write operations exist for the web app,
// seeding, and tests.
type Store interface {
	Ping(ctx context.Context) error

	ListTenants(ctx context.Context) ([]*models.Tenant, error)
	GetTenant(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	CreateTenant(ctx context.Context, tenant *models.Tenant) error
	SetTenantOwner(ctx context.Context, tenantID, userID uuid.UUID) error

	GetTenantSetting(ctx context.Context, tenantID uuid.UUID, key string) (string, bool, error)
	SetTenantSetting(ctx context.Context, tenantID uuid.UUID, key, value string) error

	CreateUser(ctx context.Context, user *models.User) error
	GetTenantOwner(ctx context.Context, tenantID uuid.UUID) (*models.User, error)

	CreatePlan(ctx context.Context, plan *models.Plan) error
	CreatePlanFeature(ctx context.Context, feature *models.PlanFeature) error
	GetPlanFeature(ctx context.Context, planID uuid.UUID, key string) (*models.PlanFeature, error)
	CreateSubscription(ctx context.Context, sub *models.Subscription) error
	GetActiveSubscription(ctx context.Context, userID uuid.UUID) (*models.Subscription, error)

	CreateSubject(ctx context.Context, subject *models.Subject) error
	CountSubjects(ctx context.Context, tenantID uuid.UUID) (int64, error)

	CreateDocumentType(ctx context.Context, docType *models.DocumentType) error
	CreateDocument(ctx context.Context, doc *models.Document) error
	CountActiveDocuments(ctx context.Context, tenantID uuid.UUID) (int64, error)
	ListExpiringDocuments(ctx context.Context, tenantID uuid.UUID, expiresOn time.Time) ([]*models.ExpiringDocument, error)

	UpsertSlackIntegration(ctx context.Context, integration *models.SlackIntegration) error
	GetSlackIntegration(ctx context.Context, tenantID uuid.UUID) (*models.SlackIntegration, error)
}
