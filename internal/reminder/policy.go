// Package reminder implements the document-expiry reminder pipeline: tenant
// iteration, per-tenant policy resolution, the expiry query and subject
// grouping, and notification dispatch.
package reminder

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"github.com/complydesk/complydesk/internal/store"
	"github.com/complydesk/complydesk/pkg/models"
)

// Compiled-in defaults, used when a tenant has no stored setting.
var DefaultReminderDays = []int{30, 14, 7, 1}

const DefaultReminderEnabled = true

// SettingKind tags the normalized form of a loosely-typed stored setting.
type SettingKind int

const (
	SettingUnset SettingKind = iota
	SettingScalar
	SettingList
	SettingInvalid
)

// SettingValue is the explicit sum type for the reminder-days setting, which
// is persisted as a loosely-typed scalar: a JSON-encoded array, a bare numeric
// string, or absent. All coercion happens in one place, here.
type SettingValue struct {
	Kind   SettingKind
	Scalar int
	List   []int
}

// Days flattens the value into a threshold list. Unset and Invalid return nil.
func (v SettingValue) Days() []int {
	switch v.Kind {
	case SettingScalar:
		return []int{v.Scalar}
	case SettingList:
		return v.List
	default:
		return nil
	}
}

// NormalizeDays coerces a raw stored reminder-days value. JSON-array decode is
// attempted first; only if that fails is the value parsed as a single integer.
// A value that is neither is Invalid, never an error.
func NormalizeDays(raw string, present bool) SettingValue {
	if !present {
		return SettingValue{Kind: SettingUnset}
	}

	var list []int
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		return SettingValue{Kind: SettingList, List: list}
	}

	if n, err := strconv.Atoi(raw); err == nil {
		return SettingValue{Kind: SettingScalar, Scalar: n}
	}

	return SettingValue{Kind: SettingInvalid}
}

// Policy is the resolved reminder configuration for one tenant and one run.
// Thresholds are days-before-expiry, in dispatch order. Duplicates are kept
// as configured: a duplicated day fires twice.
type Policy struct {
	Enabled    bool
	Thresholds []int
}

// ErrNoThresholds marks a tenant whose reminder-days setting normalized to
// nothing usable. The caller skips the tenant and continues the run.
var ErrNoThresholds = fmt.Errorf("no usable reminder thresholds configured")

// ResolvePolicy reads and normalizes a tenant's reminder settings. A missing
// setting falls back to the compiled defaults; a malformed one yields
// ErrNoThresholds. Storage errors are returned as-is for the caller to isolate.
func ResolvePolicy(ctx context.Context, st store.Store, tenant *models.Tenant) (Policy, error) {
	policy := Policy{Enabled: DefaultReminderEnabled}

	rawEnabled, found, err := st.GetTenantSetting(ctx, tenant.ID, models.SettingReminderEnabled)
	if err != nil {
		return Policy{}, fmt.Errorf("read enabled setting: %w", err)
	}
	if found {
		if enabled, err := strconv.ParseBool(rawEnabled); err == nil {
			policy.Enabled = enabled
		}
	}

	rawDays, found, err := st.GetTenantSetting(ctx, tenant.ID, models.SettingReminderDays)
	if err != nil {
		return Policy{}, fmt.Errorf("read reminder days setting: %w", err)
	}

	value := NormalizeDays(rawDays, found)
	if value.Kind == SettingUnset {
		// Copy so no caller can mutate the compiled default.
		policy.Thresholds = slices.Clone(DefaultReminderDays)
		return policy, nil
	}

	days := value.Days()
	if len(days) == 0 {
		return Policy{}, ErrNoThresholds
	}
	for _, d := range days {
		if d <= 0 {
			return Policy{}, ErrNoThresholds
		}
	}

	policy.Thresholds = days
	return policy, nil
}
