// Package entitlement evaluates whether a tenant's subscription plan grants
// access to a named feature.
package entitlement

import (
	"context"
	"errors"
	"log/slog"

	"github.com/complydesk/complydesk/internal/store"
	"github.com/complydesk/complydesk/pkg/models"
)

// Feature keys supported by plan gating.
const (
	FeatureExpiryAlerts = "document_expiry_alerts"
	FeatureMaxSubjects  = "max_subjects"
	FeatureMaxDocuments = "max_documents"
)

// UsageFunc computes the current usage of a numeric feature for a tenant.
type UsageFunc func(ctx context.Context, st store.Store, tenant *models.Tenant) (int64, error)

// Checker resolves feature entitlements through the chain
// tenant -> owner -> active subscription -> plan -> plan feature.
// Any broken link yields "not entitled", never an error.
type Checker struct {
	store store.Store
	usage map[string]UsageFunc
}

// NewChecker creates a Checker with the default usage registry. Numeric
// features are enumerated here; an unregistered numeric feature is never
// entitled rather than silently unlimited.
func NewChecker(st store.Store) *Checker {
	return &Checker{
		store: st,
		usage: map[string]UsageFunc{
			FeatureMaxSubjects: func(ctx context.Context, st store.Store, tenant *models.Tenant) (int64, error) {
				return st.CountSubjects(ctx, tenant.ID)
			},
			FeatureMaxDocuments: func(ctx context.Context, st store.Store, tenant *models.Tenant) (int64, error) {
				return st.CountActiveDocuments(ctx, tenant.ID)
			},
		},
	}
}

// IsEntitled reports whether the tenant's plan grants the named feature.
// Misconfiguration (no owner, no subscription, no such feature) and lookup
// errors both report false; the distinction is deliberately not surfaced.
func (c *Checker) IsEntitled(ctx context.Context, tenant *models.Tenant, featureKey string) bool {
	if tenant.OwnerID == nil {
		return false
	}

	sub, err := c.store.GetActiveSubscription(ctx, *tenant.OwnerID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.Warn("entitlement subscription lookup failed",
				"tenant_id", tenant.ID, "feature", featureKey, "error", err)
		}
		return false
	}

	feature, err := c.store.GetPlanFeature(ctx, sub.PlanID, featureKey)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.Warn("entitlement feature lookup failed",
				"tenant_id", tenant.ID, "feature", featureKey, "error", err)
		}
		return false
	}

	switch feature.Type {
	case models.FeatureTypeBoolean:
		return feature.Enabled
	case models.FeatureTypeNumeric:
		if feature.Limit == models.UnlimitedFeatureLimit {
			return true
		}
		usageFn, ok := c.usage[featureKey]
		if !ok {
			slog.Warn("no usage function registered for numeric feature",
				"tenant_id", tenant.ID, "feature", featureKey)
			return false
		}
		used, err := usageFn(ctx, c.store, tenant)
		if err != nil {
			slog.Warn("entitlement usage lookup failed",
				"tenant_id", tenant.ID, "feature", featureKey, "error", err)
			return false
		}
		return used < feature.Limit
	default:
		return false
	}
}
