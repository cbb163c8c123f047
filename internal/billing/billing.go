// Package billing wraps the payment provider: hosted checkout, the hosted
// billing portal and webhook verification.
package billing

import (
	"context"
	"errors"
)

// Webhook event types the service reacts to.
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

var (
	ErrInvalidSignature = errors.New("webhook signature verification failed")
	ErrNotConfigured    = errors.New("payment provider is not configured")
)

// CheckoutRequest identifies who is subscribing.
type CheckoutRequest struct {
	UserID string
	Email  string
}

// Event is the verified, provider-neutral view of a webhook event.
type Event struct {
	ID             string
	Type           string
	UserID         string
	SubscriptionID string
	CustomerID     string
}

// Provider is the payment provider contract used by the billing service.
type Provider interface {
	// CreateCheckoutSession starts a hosted subscription checkout and returns its URL.
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (string, error)

	// CreatePortalSession opens the hosted billing portal for a customer and returns its URL.
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)

	// ParseWebhook verifies the signature header and decodes the event.
	ParseWebhook(payload []byte, signatureHeader string) (Event, error)
}
