package models

import (
	"time"

	"gorm.io/gorm"
)

// Subscription plan codes
const (
	PlanBasic = "basic"
	PlanPro   = "pro"
)

// Subscription represents a merchant's billing subscription, mirrored from Stripe
type Subscription struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	MerchantID           uint           `gorm:"uniqueIndex;not null" json:"merchant_id"`
	Merchant             Merchant       `gorm:"foreignKey:MerchantID" json:"-"`
	Plan                 string         `gorm:"not null" json:"plan"`                        // basic or pro
	Status               string         `gorm:"not null;default:'incomplete'" json:"status"` // incomplete, active, past_due, canceled
	StripeCustomerID     string         `gorm:"index" json:"stripe_customer_id"`
	StripeSubscriptionID string         `gorm:"index" json:"stripe_subscription_id"`
	CurrentPeriodEnd     *time.Time     `json:"current_period_end"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Subscription model
func (Subscription) TableName() string {
	return "subscriptions"
}
