package reminder

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/complydesk/complydesk/pkg/models"
)

// Fixed clock for all pipeline tests.
var testNow = time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

func newTestTenant() *models.Tenant {
	return &models.Tenant{
		ID:           uuid.New(),
		Name:         "Acme Logistics",
		ContactEmail: "admin@acme.test",
		Timezone:     "UTC",
	}
}

type harness struct {
	store   *fakeStore
	queue   *fakeQueue
	checker *fakeChecker
	runner  *Runner
}

func newHarness(tenants ...*models.Tenant) *harness {
	st := newFakeStore()
	st.tenants = tenants

	checker := &fakeChecker{entitled: make(map[uuid.UUID]bool)}
	for _, tenant := range tenants {
		checker.entitled[tenant.ID] = true
	}

	queue := newFakeQueue()
	dispatcher := NewDispatcher(st, queue)
	dispatcher.now = func() time.Time { return testNow }
	runner := NewRunner(st, checker, dispatcher).WithClock(func() time.Time { return testNow })

	return &harness{store: st, queue: queue, checker: checker, runner: runner}
}

// addDoc registers an expiring document N days out from the fixed clock.
func (h *harness) addDoc(tenant *models.Tenant, days int, doc *models.ExpiringDocument) {
	date := testNow.AddDate(0, 0, days)
	doc.TenantID = tenant.ID
	doc.ExpiryDate = date
	key := docKey(tenant.ID, date)
	h.store.docs[key] = append(h.store.docs[key], doc)
}

func expiringDoc(typeName string) *models.ExpiringDocument {
	return &models.ExpiringDocument{ID: uuid.New(), TypeName: typeName}
}

func withSubject(doc *models.ExpiringDocument, name, email string) *models.ExpiringDocument {
	id := uuid.New()
	doc.SubjectID = &id
	doc.SubjectName = &name
	if email != "" {
		doc.SubjectContactEmail = &email
	}
	return doc
}

func TestRun_UnentitledTenantGetsNothing(t *testing.T) {
	tenant := newTestTenant()
	h := newHarness(tenant)
	h.checker.entitled[tenant.ID] = false
	h.addDoc(tenant, 7, withSubject(expiringDoc("Passport"), "Dana", "dana@x.test"))

	require.NoError(t, h.runner.Run(context.Background()))
	assert.Empty(t, h.queue.emails)
	assert.Empty(t, h.queue.slacks)
}

func TestRun_DisabledNotificationsGetNothing(t *testing.T) {
	tenant := newTestTenant()
	h := newHarness(tenant)
	h.store.settings[settingKey(tenant.ID, models.SettingReminderEnabled)] = "false"
	h.addDoc(tenant, 7, expiringDoc("Passport"))

	require.NoError(t, h.runner.Run(context.Background()))
	assert.Empty(t, h.queue.emails)
	assert.Empty(t, h.queue.slacks)
}

func TestRun_DefaultThresholdsWhenUnconfigured(t *testing.T) {
	tenant := newTestTenant()
	h := newHarness(tenant)
	// No settings at all: defaults {30,14,7,1} apply.
	h.addDoc(tenant, 14, expiringDoc("Forklift Certificate"))

	require.NoError(t, h.runner.Run(context.Background()))
	require.Len(t, h.queue.emails, 1)
	assert.Equal(t, "admin@acme.test", h.queue.emails[0].To)
	assert.Equal(t, 14, h.queue.emails[0].DaysUntilExpiry)
	assert.Equal(t, "In 14 days: Document Expiry Notification", h.queue.emails[0].Subject)
}

func TestRun_MalformedDaysSkipsTenant(t *testing.T) {
	tenant := newTestTenant()
	h := newHarness(tenant)
	h.store.settings[settingKey(tenant.ID, models.SettingReminderDays)] = "soon-ish"
	h.addDoc(tenant, 7, expiringDoc("Passport"))

	require.NoError(t, h.runner.Run(context.Background()))
	assert.Empty(t, h.queue.emails)
}

func TestRun_BoundaryIsExactDayMatch(t *testing.T) {
	tenant := newTestTenant()
	h := newHarness(tenant)
	h.store.settings[settingKey(tenant.ID, models.SettingReminderDays)] = "[7,1]"
	// Expires in 8 days: never matched by {7,1}.
	h.addDoc(tenant, 8, expiringDoc("Passport"))

	require.NoError(t, h.runner.Run(context.Background()))
	assert.Empty(t, h.queue.emails)
	assert.Empty(t, h.queue.slacks)
}

func TestRun_EndToEndSubjectAndAdminSplit(t *testing.T) {
	tenant := newTestTenant()
	h := newHarness(tenant)
	h.store.settings[settingKey(tenant.ID, models.SettingReminderDays)] = "[7,1]"

	docWithSubject := withSubject(expiringDoc("Work Visa"), "Sam", "s@x.com")
	docNoSubject := expiringDoc("Fleet Insurance")
	h.addDoc(tenant, 7, docWithSubject)
	h.addDoc(tenant, 1, docNoSubject)

	require.NoError(t, h.runner.Run(context.Background()))

	adminEmails := h.queue.emailsTo("admin@acme.test")
	require.Len(t, adminEmails, 2)

	// Threshold 7: one admin email containing D, one subject email to s@x.com.
	assert.Equal(t, 7, adminEmails[0].DaysUntilExpiry)
	require.Len(t, adminEmails[0].Documents, 1)
	assert.Equal(t, docWithSubject.ID, adminEmails[0].Documents[0].ID)
	assert.Equal(t, "In 7 days: Document Expiry Notification", adminEmails[0].Subject)

	subjectEmails := h.queue.emailsTo("s@x.com")
	require.Len(t, subjectEmails, 1)
	assert.Equal(t, 7, subjectEmails[0].DaysUntilExpiry)
	require.Len(t, subjectEmails[0].Documents, 1)
	assert.Equal(t, docWithSubject.ID, subjectEmails[0].Documents[0].ID)

	// Threshold 1: admin email containing D2, no subject emails.
	assert.Equal(t, 1, adminEmails[1].DaysUntilExpiry)
	require.Len(t, adminEmails[1].Documents, 1)
	assert.Equal(t, docNoSubject.ID, adminEmails[1].Documents[0].ID)
	assert.Equal(t, "Tomorrow: Document Expiry Notification", adminEmails[1].Subject)
	assert.Len(t, h.queue.emails, 3)
}

func TestRun_SlackMessagePerDocument(t *testing.T) {
	tenant := newTestTenant()
	h := newHarness(tenant)
	h.store.settings[settingKey(tenant.ID, models.SettingReminderDays)] = "[7]"
	h.store.slack[tenant.ID] = &models.SlackIntegration{
		TenantID:   tenant.ID,
		WebhookURL: "https://hooks.slack.test/T123",
		Active:     true,
	}

	h.addDoc(tenant, 7, expiringDoc("Passport"))
	h.addDoc(tenant, 7, expiringDoc("Work Visa"))

	require.NoError(t, h.runner.Run(context.Background()))

	require.Len(t, h.queue.slacks, 2)
	for _, job := range h.queue.slacks {
		assert.Equal(t, "https://hooks.slack.test/T123", job.WebhookURL)
		assert.Equal(t, 7, job.DaysUntilExpiry)
	}
	// Admin email still goes out alongside Slack.
	assert.Len(t, h.queue.emailsTo("admin@acme.test"), 1)
}

func TestRun_SlackFailureIsIsolated(t *testing.T) {
	tenant := newTestTenant()
	h := newHarness(tenant)
	h.store.settings[settingKey(tenant.ID, models.SettingReminderDays)] = "[7]"
	h.store.slack[tenant.ID] = &models.SlackIntegration{
		TenantID:   tenant.ID,
		WebhookURL: "https://hooks.slack.test/T123",
		Active:     true,
	}

	failing := withSubject(expiringDoc("Passport"), "Dana", "dana@x.test")
	surviving := expiringDoc("Work Visa")
	h.addDoc(tenant, 7, failing)
	h.addDoc(tenant, 7, surviving)
	h.queue.slackErrFor[failing.ID] = errInjected

	require.NoError(t, h.runner.Run(context.Background()))

	// The other document's Slack message is still attempted and succeeds.
	require.Len(t, h.queue.slacks, 1)
	assert.Equal(t, surviving.ID, h.queue.slacks[0].Document.ID)

	// The admin email and the subject email are unaffected.
	assert.Len(t, h.queue.emailsTo("admin@acme.test"), 1)
	assert.Len(t, h.queue.emailsTo("dana@x.test"), 1)
}

func TestRun_EmailFailureIsolatedPerRecipient(t *testing.T) {
	tenant := newTestTenant()
	h := newHarness(tenant)
	h.store.settings[settingKey(tenant.ID, models.SettingReminderDays)] = "[7]"
	h.store.slack[tenant.ID] = &models.SlackIntegration{
		TenantID:   tenant.ID,
		WebhookURL: "https://hooks.slack.test/T123",
		Active:     true,
	}

	failing := withSubject(expiringDoc("Passport"), "Dana", "dana@x.test")
	surviving := withSubject(expiringDoc("Work Visa"), "Sam", "sam@x.test")
	h.addDoc(tenant, 7, failing)
	h.addDoc(tenant, 7, surviving)

	// Both the admin email and one subject's email fail to enqueue.
	h.queue.emailErrFor["admin@acme.test"] = errInjected
	h.queue.emailErrFor["dana@x.test"] = errInjected

	require.NoError(t, h.runner.Run(context.Background()))

	// The other subject's email still goes out.
	assert.Empty(t, h.queue.emailsTo("admin@acme.test"))
	assert.Empty(t, h.queue.emailsTo("dana@x.test"))
	require.Len(t, h.queue.emailsTo("sam@x.test"), 1)
	assert.Equal(t, surviving.ID, h.queue.emailsTo("sam@x.test")[0].Documents[0].ID)

	// Slack dispatch is unaffected by email enqueue failures.
	assert.Len(t, h.queue.slacks, 2)
}

func TestRun_QueryFailureIsolatedPerThreshold(t *testing.T) {
	tenant := newTestTenant()
	h := newHarness(tenant)
	h.store.settings[settingKey(tenant.ID, models.SettingReminderDays)] = "[7,1]"

	h.addDoc(tenant, 1, expiringDoc("Fleet Insurance"))
	h.store.queryErr[docKey(tenant.ID, testNow.AddDate(0, 0, 7))] = errInjected

	require.NoError(t, h.runner.Run(context.Background()))

	// Threshold 7 failed; threshold 1 still dispatched.
	require.Len(t, h.queue.emails, 1)
	assert.Equal(t, 1, h.queue.emails[0].DaysUntilExpiry)
}

func TestRun_TenantFailureDoesNotAbortSiblings(t *testing.T) {
	broken := newTestTenant()
	healthy := newTestTenant()
	healthy.ContactEmail = "ops@healthy.test"
	h := newHarness(broken, healthy)

	h.store.settings[settingKey(broken.ID, models.SettingReminderDays)] = "not-a-number"
	h.store.settings[settingKey(healthy.ID, models.SettingReminderDays)] = "7"
	h.addDoc(healthy, 7, expiringDoc("Passport"))

	require.NoError(t, h.runner.Run(context.Background()))
	assert.Len(t, h.queue.emailsTo("ops@healthy.test"), 1)
}

func TestRun_DuplicateThresholdsFireTwice(t *testing.T) {
	tenant := newTestTenant()
	h := newHarness(tenant)
	h.store.settings[settingKey(tenant.ID, models.SettingReminderDays)] = "[7,7]"
	h.addDoc(tenant, 7, expiringDoc("Passport"))

	require.NoError(t, h.runner.Run(context.Background()))
	// Duplicates are deliberately not deduplicated.
	assert.Len(t, h.queue.emailsTo("admin@acme.test"), 2)
}

func TestRun_NoDedupAcrossRuns(t *testing.T) {
	tenant := newTestTenant()
	h := newHarness(tenant)
	h.store.settings[settingKey(tenant.ID, models.SettingReminderDays)] = "7"
	h.addDoc(tenant, 7, expiringDoc("Passport"))

	require.NoError(t, h.runner.Run(context.Background()))
	require.NoError(t, h.runner.Run(context.Background()))
	assert.Len(t, h.queue.emailsTo("admin@acme.test"), 2)
}

func TestRun_TenantEnumerationFailureIsFatal(t *testing.T) {
	h := newHarness()
	h.store.listTenantsErr = errInjected

	err := h.runner.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errInjected)
}

func TestResolvePolicy(t *testing.T) {
	tenant := newTestTenant()

	t.Run("defaults when nothing stored", func(t *testing.T) {
		st := newFakeStore()
		policy, err := ResolvePolicy(context.Background(), st, tenant)
		require.NoError(t, err)
		assert.True(t, policy.Enabled)
		assert.Equal(t, []int{30, 14, 7, 1}, policy.Thresholds)
	})

	t.Run("default thresholds are not shared between tenants", func(t *testing.T) {
		st := newFakeStore()
		policy, err := ResolvePolicy(context.Background(), st, tenant)
		require.NoError(t, err)

		// Mutating one tenant's resolved thresholds must not leak into the
		// defaults handed to the next tenant.
		policy.Thresholds[0] = 9999
		again, err := ResolvePolicy(context.Background(), st, tenant)
		require.NoError(t, err)
		assert.Equal(t, []int{30, 14, 7, 1}, again.Thresholds)
		assert.Equal(t, []int{30, 14, 7, 1}, DefaultReminderDays)
	})

	t.Run("json array value", func(t *testing.T) {
		st := newFakeStore()
		st.settings[settingKey(tenant.ID, models.SettingReminderDays)] = "[30,14,7,1]"
		policy, err := ResolvePolicy(context.Background(), st, tenant)
		require.NoError(t, err)
		assert.Equal(t, []int{30, 14, 7, 1}, policy.Thresholds)
	})

	t.Run("bare string value", func(t *testing.T) {
		st := newFakeStore()
		st.settings[settingKey(tenant.ID, models.SettingReminderDays)] = "7"
		policy, err := ResolvePolicy(context.Background(), st, tenant)
		require.NoError(t, err)
		assert.Equal(t, []int{7}, policy.Thresholds)
	})

	t.Run("empty list is no thresholds", func(t *testing.T) {
		st := newFakeStore()
		st.settings[settingKey(tenant.ID, models.SettingReminderDays)] = "[]"
		_, err := ResolvePolicy(context.Background(), st, tenant)
		assert.ErrorIs(t, err, ErrNoThresholds)
	})

	t.Run("non-positive threshold is rejected", func(t *testing.T) {
		st := newFakeStore()
		st.settings[settingKey(tenant.ID, models.SettingReminderDays)] = "[7,0]"
		_, err := ResolvePolicy(context.Background(), st, tenant)
		assert.ErrorIs(t, err, ErrNoThresholds)
	})

	t.Run("disabled setting", func(t *testing.T) {
		st := newFakeStore()
		st.settings[settingKey(tenant.ID, models.SettingReminderEnabled)] = "false"
		policy, err := ResolvePolicy(context.Background(), st, tenant)
		require.NoError(t, err)
		assert.False(t, policy.Enabled)
	})

	t.Run("storage error propagates", func(t *testing.T) {
		st := newFakeStore()
		st.settingErr = errInjected
		_, err := ResolvePolicy(context.Background(), st, tenant)
		assert.ErrorIs(t, err, errInjected)
	})
}
