package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/complydesk/complydesk/internal/entitlement"
	"github.com/complydesk/complydesk/internal/store"
	"github.com/complydesk/complydesk/pkg/models"
)

// FeatureChecker gates tenants on plan entitlements.
type FeatureChecker interface {
	IsEntitled(ctx context.Context, tenant *models.Tenant, featureKey string) bool
}

// Runner executes one reminder run: enumerate tenants, resolve each tenant's
// policy, query expiring documents per threshold, and dispatch notifications.
// Tenants are processed strictly sequentially; everything below tenant
// enumeration is isolated so one tenant's or threshold's failure never aborts
// the run.
type Runner struct {
	store      store.Store
	features   FeatureChecker
	dispatcher *Dispatcher
	now        func() time.Time
}

// NewRunner creates a Runner using the wall clock.
func NewRunner(st store.Store, features FeatureChecker, dispatcher *Dispatcher) *Runner {
	return &Runner{store: st, features: features, dispatcher: dispatcher, now: time.Now}
}

// WithClock overrides the clock, for tests.
func (r *Runner) WithClock(now func() time.Time) *Runner {
	r.now = now
	return r
}

// Run processes all tenants once. The only fatal failure is tenant
// enumeration; per-tenant and per-threshold failures are logged and skipped.
func (r *Runner) Run(ctx context.Context) error {
	start := r.now()
	slog.Info("reminder run started")

	tenants, err := r.store.ListTenants(ctx)
	if err != nil {
		return fmt.Errorf("enumerate tenants: %w", err)
	}

	processed := 0
	for _, tenant := range tenants {
		if r.processTenant(ctx, tenant) {
			processed++
		}
	}

	slog.Info("reminder run finished",
		"tenants", len(tenants),
		"processed", processed,
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

// processTenant handles one tenant fully before the next begins. Returns
// whether any thresholds were actually processed.
func (r *Runner) processTenant(ctx context.Context, tenant *models.Tenant) bool {
	if !r.features.IsEntitled(ctx, tenant, entitlement.FeatureExpiryAlerts) {
		slog.Info("tenant skipped: feature not entitled", "tenant_id", tenant.ID)
		return false
	}

	policy, err := ResolvePolicy(ctx, r.store, tenant)
	if err != nil {
		if errors.Is(err, ErrNoThresholds) {
			slog.Info("tenant skipped: no usable reminder thresholds", "tenant_id", tenant.ID)
		} else {
			slog.Error("tenant skipped: policy resolution failed", "tenant_id", tenant.ID, "error", err)
		}
		return false
	}

	if !policy.Enabled {
		slog.Info("tenant skipped: notifications disabled", "tenant_id", tenant.ID)
		return false
	}

	// "Today" in the tenant's own timezone; thresholds match the exact
	// calendar day, not a window.
	today := r.now().In(tenant.Location())

	for _, days := range policy.Thresholds {
		target := today.AddDate(0, 0, days)

		docs, err := r.store.ListExpiringDocuments(ctx, tenant.ID, target)
		if err != nil {
			slog.Error("expiry query failed",
				"tenant_id", tenant.ID,
				"days_until_expiry", days,
				"error", err)
			continue
		}

		slog.Info("threshold processed",
			"tenant_id", tenant.ID,
			"days_until_expiry", days,
			"matched", len(docs))

		if len(docs) == 0 {
			continue
		}

		r.dispatcher.Dispatch(ctx, tenant, days, GroupBySubject(docs))
	}

	return true
}
