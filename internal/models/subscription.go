package models

import "time"

// Subscription is written only by payment provider webhooks.
type Subscription struct {
	UserID         string    `gorm:"type:varchar(64);primarykey" json:"user_id"`
	SubscriptionID string    `gorm:"type:varchar(255);index;not null" json:"subscription_id"`
	Active         bool      `gorm:"not null;default:false" json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BillingCustomer links a user to the payment provider's customer record
// so the billing portal can be opened for them.
type BillingCustomer struct {
	UserID           string    `gorm:"type:varchar(64);primarykey" json:"user_id"`
	StripeCustomerID string    `gorm:"type:varchar(255);not null" json:"stripe_customer_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
