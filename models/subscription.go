package models

import (
	"strings"
	"time"
)

// SubscriptionType defines the set of purchasable subscription plans.
type SubscriptionType string

const (
	SubscriptionMonthly SubscriptionType = "monthly"
	SubscriptionYearly  SubscriptionType = "yearly"
)

// Plan durations. A purchase runs from the moment of purchase.
const (
	MonthlyDuration = 30 * 24 * time.Hour
	YearlyDuration  = 365 * 24 * time.Hour
)

// IsValidSubscriptionType checks if the provided plan string is a valid
// SubscriptionType. It returns the typed value and true if valid.
func IsValidSubscriptionType(planStr string) (SubscriptionType, bool) {
	st := SubscriptionType(strings.ToLower(planStr))
	switch st {
	case SubscriptionMonthly, SubscriptionYearly:
		return st, true
	default:
		return "", false
	}
}

// Duration returns the plan length for the subscription type.
func (t SubscriptionType) Duration() time.Duration {
	if t == SubscriptionYearly {
		return YearlyDuration
	}
	return MonthlyDuration
}

type Subscription struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"-"`
	Type      SubscriptionType `json:"type"`
	StartDate time.Time        `json:"start_date"`
	EndDate   time.Time        `json:"end_date"`
	IsActive  bool             `json:"is_active"`
}
