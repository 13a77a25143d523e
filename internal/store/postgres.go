package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/complydesk/complydesk/pkg/models"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Tenants ---

func (s *PostgresStore) ListTenants(ctx context.Context) ([]*models.Tenant, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, contact_email, timezone, owner_id, created_at, updated_at
		 FROM tenants ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []*models.Tenant
	for rows.Next() {
		var t models.Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.ContactEmail, &t.Timezone, &t.OwnerID,
			&t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		tenants = append(tenants, &t)
	}
	return tenants, rows.Err()
}

func (s *PostgresStore) GetTenant(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	var t models.Tenant
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, contact_email, timezone, owner_id, created_at, updated_at
		 FROM tenants WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name, &t.ContactEmail, &t.Timezone, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	return &t, nil
}

func (s *PostgresStore) CreateTenant(ctx context.Context, tenant *models.Tenant) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO tenants (id, name, contact_email, timezone, owner_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		tenant.ID, tenant.Name, tenant.ContactEmail, tenant.Timezone, tenant.OwnerID,
		tenant.CreatedAt, tenant.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create tenant: %w", err)
	}
	return nil
}

func (s *PostgresStore) SetTenantOwner(ctx context.Context, tenantID, userID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE tenants SET owner_id = $2, updated_at = NOW() WHERE id = $1`, tenantID, userID)
	if err != nil {
		return fmt.Errorf("set tenant owner: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Tenant settings ---

// GetTenantSetting returns the raw stored value for (tenantID, key). The second
// return value reports whether the setting exists at all; absence is not an error.
func (s *PostgresStore) GetTenantSetting(ctx context.Context, tenantID uuid.UUID, key string) (string, bool, error) {
	var value string
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM tenant_settings WHERE tenant_id = $1 AND key = $2`, tenantID, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get tenant setting: %w", err)
	}
	return value, true, nil
}

func (s *PostgresStore) SetTenantSetting(ctx context.Context, tenantID uuid.UUID, key, value string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO tenant_settings (id, tenant_id, key, value, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, NOW(), NOW())
		 ON CONFLICT (tenant_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		uuid.New(), tenantID, key, value)
	if err != nil {
		return fmt.Errorf("set tenant setting: %w", err)
	}
	return nil
}

// --- Users ---

func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, tenant_id, name, email, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.TenantID, user.Name, user.Email, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetTenantOwner(ctx context.Context, tenantID uuid.UUID) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT u.id, u.tenant_id, u.name, u.email, u.created_at, u.updated_at
		 FROM users u JOIN tenants t ON t.owner_id = u.id
		 WHERE t.id = $1`, tenantID,
	).Scan(&u.ID, &u.TenantID, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get tenant owner: %w", err)
	}
	return &u, nil
}

// --- Billing ---

func (s *PostgresStore) CreatePlan(ctx context.Context, plan *models.Plan) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO plans (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
		plan.ID, plan.Name, plan.CreatedAt, plan.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create plan: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreatePlanFeature(ctx context.Context, feature *models.PlanFeature) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO plan_features (id, plan_id, feature_key, type, enabled, limit_value, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		feature.ID, feature.PlanID, feature.Key, feature.Type, feature.Enabled, feature.Limit,
		feature.CreatedAt, feature.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create plan feature: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetPlanFeature(ctx context.Context, planID uuid.UUID, key string) (*models.PlanFeature, error) {
	var f models.PlanFeature
	err := s.pool.QueryRow(ctx,
		`SELECT id, plan_id, feature_key, type, enabled, limit_value, created_at, updated_at
		 FROM plan_features WHERE plan_id = $1 AND feature_key = $2`, planID, key,
	).Scan(&f.ID, &f.PlanID, &f.Key, &f.Type, &f.Enabled, &f.Limit, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get plan feature: %w", err)
	}
	return &f, nil
}

func (s *PostgresStore) CreateSubscription(ctx context.Context, sub *models.Subscription) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO subscriptions (id, user_id, plan_id, status, period_end_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sub.ID, sub.UserID, sub.PlanID, sub.Status, sub.PeriodEndAt, sub.CreatedAt, sub.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create subscription: %w", err)
	}
	return nil
}

// GetActiveSubscription returns the most recent active subscription for a user.
func (s *PostgresStore) GetActiveSubscription(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, plan_id, status, period_end_at, created_at, updated_at
		 FROM subscriptions WHERE user_id = $1 AND status = 'active'
		 ORDER BY created_at DESC LIMIT 1`, userID,
	).Scan(&sub.ID, &sub.UserID, &sub.PlanID, &sub.Status, &sub.PeriodEndAt,
		&sub.CreatedAt, &sub.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get active subscription: %w", err)
	}
	return &sub, nil
}

// --- Subjects ---

func (s *PostgresStore) CreateSubject(ctx context.Context, subject *models.Subject) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO subjects (id, tenant_id, name, contact_email, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		subject.ID, subject.TenantID, subject.Name, subject.ContactEmail,
		subject.CreatedAt, subject.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create subject: %w", err)
	}
	return nil
}

func (s *PostgresStore) CountSubjects(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM subjects WHERE tenant_id = $1`, tenantID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count subjects: %w", err)
	}
	return n, nil
}

// --- Documents ---

func (s *PostgresStore) CreateDocumentType(ctx context.Context, docType *models.DocumentType) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO document_types (id, tenant_id, name, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		docType.ID, docType.TenantID, docType.Name, docType.CreatedAt, docType.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create document type: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateDocument(ctx context.Context, doc *models.Document) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO documents (id, tenant_id, subject_id, type_id, status, issue_date, expiry_date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		doc.ID, doc.TenantID, doc.SubjectID, doc.TypeID, doc.Status, doc.IssueDate, doc.ExpiryDate,
		doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

func (s *PostgresStore) CountActiveDocuments(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM documents WHERE tenant_id = $1 AND status = 'active'`, tenantID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count active documents: %w", err)
	}
	return n, nil
}

// ListExpiringDocuments returns active documents whose expiry date equals
// expiresOn exactly, enriched with type and subject display fields. The date
// comparison is calendar-exact: a document expiring one day later never matches.
func (s *PostgresStore) ListExpiringDocuments(ctx context.Context, tenantID uuid.UUID, expiresOn time.Time) ([]*models.ExpiringDocument, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT d.id, d.tenant_id, dt.name, d.subject_id, sub.name, sub.contact_email, d.issue_date, d.expiry_date
		 FROM documents d
		 JOIN document_types dt ON dt.id = d.type_id
		 LEFT JOIN subjects sub ON sub.id = d.subject_id
		 WHERE d.tenant_id = $1 AND d.status = 'active' AND d.expiry_date = $2::date
		 ORDER BY d.created_at`,
		tenantID, expiresOn.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("list expiring documents: %w", err)
	}
	defer rows.Close()

	var docs []*models.ExpiringDocument
	for rows.Next() {
		var d models.ExpiringDocument
		if err := rows.Scan(&d.ID, &d.TenantID, &d.TypeName, &d.SubjectID, &d.SubjectName,
			&d.SubjectContactEmail, &d.IssueDate, &d.ExpiryDate); err != nil {
			return nil, fmt.Errorf("scan expiring document: %w", err)
		}
		docs = append(docs, &d)
	}
	return docs, rows.Err()
}

// --- Slack integrations ---

func (s *PostgresStore) UpsertSlackIntegration(ctx context.Context, integration *models.SlackIntegration) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO slack_integrations (id, tenant_id, webhook_url, access_token, active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (tenant_id) DO UPDATE SET
		   webhook_url = EXCLUDED.webhook_url,
		   access_token = EXCLUDED.access_token,
		   active = EXCLUDED.active,
		   updated_at = NOW()`,
		integration.ID, integration.TenantID, integration.WebhookURL, integration.AccessToken,
		integration.Active, integration.CreatedAt, integration.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert slack integration: %w", err)
	}
	return nil
}

// GetSlackIntegration returns the tenant's active Slack integration, or
// ErrNotFound when none exists or the integration is disabled.
func (s *PostgresStore) GetSlackIntegration(ctx context.Context, tenantID uuid.UUID) (*models.SlackIntegration, error) {
	var si models.SlackIntegration
	err := s.pool.QueryRow(ctx,
		`SELECT id, tenant_id, webhook_url, access_token, active, created_at, updated_at
		 FROM slack_integrations WHERE tenant_id = $1 AND active = TRUE`, tenantID,
	).Scan(&si.ID, &si.TenantID, &si.WebhookURL, &si.AccessToken, &si.Active,
		&si.CreatedAt, &si.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get slack integration: %w", err)
	}
	return &si, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
