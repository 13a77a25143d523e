package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusPastDue  = "past_due"
	SubscriptionStatusCanceled = "canceled"
)

const (
	FeatureTypeBoolean = "boolean"
	FeatureTypeNumeric = "numeric"
)

// UnlimitedFeatureLimit is the sentinel limit value meaning "no cap" for
// numeric plan features.
const UnlimitedFeatureLimit = -1

// Plan is a billing plan tenants subscribe to. Feature access is granted
// through PlanFeature rows, never directly on the plan.
type Plan struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	Name      string    `db:"name"       json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// PlanFeature links a plan to a named feature. Boolean features gate access
// by Enabled; numeric features cap usage at Limit (UnlimitedFeatureLimit
// means no cap).
type PlanFeature struct {
	ID        uuid.UUID `db:"id"          json:"id"`
	PlanID    uuid.UUID `db:"plan_id"     json:"plan_id"`
	Key       string    `db:"feature_key" json:"feature_key"`
	Type      string    `db:"type"        json:"type"`
	Enabled   bool      `db:"enabled"     json:"enabled"`
	Limit     int64     `db:"limit_value" json:"limit_value"`
	CreatedAt time.Time `db:"created_at"  json:"created_at"`
	UpdatedAt time.Time `db:"updated_at"  json:"updated_at"`
}

// Subscription ties a user (the tenant owner) to a plan. Only subscriptions
// with status active grant entitlements.
type Subscription struct {
	ID          uuid.UUID  `db:"id"            json:"id"`
	UserID      uuid.UUID  `db:"user_id"       json:"user_id"`
	PlanID      uuid.UUID  `db:"plan_id"       json:"plan_id"`
	Status      string     `db:"status"        json:"status"`
	PeriodEndAt *time.Time `db:"period_end_at" json:"period_end_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at"    json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"    json:"updated_at"`
}
