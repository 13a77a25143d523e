package models

import (
	"time"

	"github.com/google/uuid"
)

// Well-known tenant setting keys.
const (
	SettingReminderEnabled = "expiry_reminder_enabled"
	SettingReminderDays    = "expiry_reminder_days"
)

// TenantSetting is one row of the per-tenant key/value store. Value is a
// loosely-typed scalar: it may hold a JSON-encoded array, a bare numeric
// string, or a boolean literal. At most one value exists per (tenant, key).
type TenantSetting struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	TenantID  uuid.UUID `db:"tenant_id"  json:"tenant_id"`
	Key       string    `db:"key"        json:"key"`
	Value     string    `db:"value"      json:"value"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
