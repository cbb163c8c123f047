package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// StripeConfig holds the Stripe credentials and redirect targets.
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	PriceID       string
	// BaseURL is the public URL of the web app, used for checkout redirects.
	BaseURL string
}

// StripeProvider implements Provider on top of the Stripe API.
type StripeProvider struct {
	api *client.API
	cfg StripeConfig
}

// NewStripeProvider creates a Stripe-backed Provider with its own API client.
func NewStripeProvider(cfg StripeConfig) *StripeProvider {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &StripeProvider{
		api: api,
		cfg: cfg,
	}
}

func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (string, error) {
	if p.cfg.SecretKey == "" || p.cfg.PriceID == "" {
		return "", ErrNotConfigured
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(p.cfg.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		ClientReferenceID: stripe.String(req.UserID),
		SuccessURL:        stripe.String(p.cfg.BaseURL + "/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:         stripe.String(p.cfg.BaseURL + "/subscribe"),
	}
	if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
	}
	params.AddMetadata("user_id", req.UserID)
	params.Context = ctx

	session, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe checkout session: %w", err)
	}
	return session.URL, nil
}

func (p *StripeProvider) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	if p.cfg.SecretKey == "" {
		return "", ErrNotConfigured
	}

	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	params.Context = ctx

	session, err := p.api.BillingPortalSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe billing portal session: %w", err)
	}
	return session.URL, nil
}

func (p *StripeProvider) ParseWebhook(payload []byte, signatureHeader string) (Event, error) {
	if p.cfg.WebhookSecret == "" {
		return Event{}, ErrNotConfigured
	}

	raw, err := webhook.ConstructEventWithOptions(payload, signatureHeader, p.cfg.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	event := Event{
		ID:   raw.ID,
		Type: string(raw.Type),
	}
	if raw.Data == nil {
		return event, nil
	}

	switch event.Type {
	case EventCheckoutCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(raw.Data.Raw, &session); err != nil {
			return Event{}, fmt.Errorf("decode checkout session: %w", err)
		}
		event.UserID = session.Metadata["user_id"]
		if event.UserID == "" {
			event.UserID = session.ClientReferenceID
		}
		if session.Subscription != nil {
			event.SubscriptionID = session.Subscription.ID
		}
		if session.Customer != nil {
			event.CustomerID = session.Customer.ID
		}
	case EventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(raw.Data.Raw, &sub); err != nil {
			return Event{}, fmt.Errorf("decode subscription: %w", err)
		}
		event.SubscriptionID = sub.ID
		if sub.Customer != nil {
			event.CustomerID = sub.Customer.ID
		}
	}

	return event, nil
}
