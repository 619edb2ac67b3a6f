package backend

import (
	"time"

	"github.com/shopspring/decimal"
)

// TenantStatus is the subscription state of a school as reported by the
// backend. It is fetched fresh on every protected navigation and never
// cached; each fetch replaces any prior copy wholesale.
type TenantStatus struct {
	Exists            bool             `json:"exists"`
	SubscriptionValid bool             `json:"subscription_valid"`
	Plan              string           `json:"plan"`
	CancelAtPeriodEnd bool             `json:"cancel_at_period_end"`
	InTrial           bool             `json:"in_trial"`
	HasPaymentMethod  bool             `json:"has_payment_method"`
	UpcomingPlan      string           `json:"upcoming_plan,omitempty"`
	NextPaymentDate   *time.Time       `json:"next_payment_date,omitempty"`
	NextPaymentAmount *decimal.Decimal `json:"next_payment_amount,omitempty"`
	SubscriptionEnds  *time.Time       `json:"subscription_ends_at,omitempty"`
}

// RegisterRequest is the payload for registering a new school with its admin
// account
type RegisterRequest struct {
	Subdomain  string `json:"subdomain"`
	SchoolName string `json:"school_name"`
	AdminName  string `json:"admin_name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Plan       string `json:"plan,omitempty"`
}
