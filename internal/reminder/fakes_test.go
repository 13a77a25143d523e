package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/complydesk/complydesk/internal/notify"
	"github.com/complydesk/complydesk/internal/store"
	"github.com/complydesk/complydesk/pkg/models"
)

// fakeStore implements the subset of store.Store the pipeline touches.
// Unimplemented methods panic via the embedded nil interface.
type fakeStore struct {
	store.Store

	tenants        []*models.Tenant
	listTenantsErr error

	settings   map[string]string // tenantID|key -> raw value
	settingErr error

	docs     map[string][]*models.ExpiringDocument // tenantID|date -> docs
	queryErr map[string]error                      // same key -> injected error

	slack map[uuid.UUID]*models.SlackIntegration
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		settings: make(map[string]string),
		docs:     make(map[string][]*models.ExpiringDocument),
		queryErr: make(map[string]error),
		slack:    make(map[uuid.UUID]*models.SlackIntegration),
	}
}

func settingKey(tenantID uuid.UUID, key string) string {
	return tenantID.String() + "|" + key
}

func docKey(tenantID uuid.UUID, date time.Time) string {
	return tenantID.String() + "|" + date.Format("2006-01-02")
}

func (f *fakeStore) ListTenants(context.Context) ([]*models.Tenant, error) {
	if f.listTenantsErr != nil {
		return nil, f.listTenantsErr
	}
	return f.tenants, nil
}

func (f *fakeStore) GetTenantSetting(_ context.Context, tenantID uuid.UUID, key string) (string, bool, error) {
	if f.settingErr != nil {
		return "", false, f.settingErr
	}
	v, ok := f.settings[settingKey(tenantID, key)]
	return v, ok, nil
}

func (f *fakeStore) ListExpiringDocuments(_ context.Context, tenantID uuid.UUID, expiresOn time.Time) ([]*models.ExpiringDocument, error) {
	key := docKey(tenantID, expiresOn)
	if err := f.queryErr[key]; err != nil {
		return nil, err
	}
	return f.docs[key], nil
}

func (f *fakeStore) GetSlackIntegration(_ context.Context, tenantID uuid.UUID) (*models.SlackIntegration, error) {
	si, ok := f.slack[tenantID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return si, nil
}

// fakeChecker entitles tenants by ID.
type fakeChecker struct {
	entitled map[uuid.UUID]bool
}

func (f *fakeChecker) IsEntitled(_ context.Context, tenant *models.Tenant, _ string) bool {
	return f.entitled[tenant.ID]
}

// fakeQueue records enqueued jobs and can fail selectively.
type fakeQueue struct {
	emails []notify.EmailJob
	slacks []notify.SlackJob

	emailErrFor map[string]error    // by recipient address
	slackErrFor map[uuid.UUID]error // by document ID
}

func newFakeQueue() *fakeQueue {
	return &fakeQueue{
		emailErrFor: make(map[string]error),
		slackErrFor: make(map[uuid.UUID]error),
	}
}

func (f *fakeQueue) EnqueueEmail(_ context.Context, job notify.EmailJob) error {
	if err := f.emailErrFor[job.To]; err != nil {
		return err
	}
	f.emails = append(f.emails, job)
	return nil
}

func (f *fakeQueue) EnqueueSlack(_ context.Context, job notify.SlackJob) error {
	if err := f.slackErrFor[job.Document.ID]; err != nil {
		return err
	}
	f.slacks = append(f.slacks, job)
	return nil
}

// emailsTo filters recorded emails by recipient.
func (f *fakeQueue) emailsTo(addr string) []notify.EmailJob {
	var out []notify.EmailJob
	for _, j := range f.emails {
		if j.To == addr {
			out = append(out, j)
		}
	}
	return out
}

var errInjected = fmt.Errorf("injected failure")
