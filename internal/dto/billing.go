package dto

import (
	"time"

	"github.com/yukikurage/team-task-tracker/internal/models"
)

// SubscriptionDTO represents the caller's subscription
type SubscriptionDTO struct {
	SubscriptionID string    `json:"subscription_id"`
	Active         bool      `json:"active"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// AccessDTO is the access-gate answer for the current user
type AccessDTO struct {
	HasAccess    bool             `json:"has_access"`
	Subscription *SubscriptionDTO `json:"subscription"`
}

// ToSubscriptionDTO converts a subscription row; nil stays nil
func ToSubscriptionDTO(sub *models.Subscription) *SubscriptionDTO {
	if sub == nil {
		return nil
	}
	return &SubscriptionDTO{
		SubscriptionID: sub.SubscriptionID,
		Active:         sub.Active,
		UpdatedAt:      sub.UpdatedAt,
	}
}
