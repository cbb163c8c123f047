package services

import (
	"context"
	"errors"

	"github.com/yukikurage/team-task-tracker/internal/billing"
	apierrors "github.com/yukikurage/team-task-tracker/internal/errors"
	"github.com/yukikurage/team-task-tracker/internal/identity"
	"github.com/yukikurage/team-task-tracker/internal/models"
	"github.com/yukikurage/team-task-tracker/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrBillingNotConfigured    = apierrors.NewUnavailableError("billing is not configured")
	ErrInvalidWebhookSignature = apierrors.NewValidationError("invalid webhook signature")
	ErrNoBillingAccount        = apierrors.NewNotFoundError("no billing account found for this user")
)

// BillingService connects users to the payment provider and records the
// subscriptions it reports back.
type BillingService struct {
	provider  billing.Provider
	subRepo   repository.SubscriptionRepository
	directory identity.Directory
	baseURL   string
	log       *zap.Logger
}

// NewBillingService creates a new BillingService
func NewBillingService(provider billing.Provider, subRepo repository.SubscriptionRepository, directory identity.Directory, baseURL string, log *zap.Logger) *BillingService {
	return &BillingService{
		provider:  provider,
		subRepo:   subRepo,
		directory: directory,
		baseURL:   baseURL,
		log:       log,
	}
}

// CreateCheckoutSession starts a subscription checkout for the user and
// returns the hosted checkout URL.
func (s *BillingService) CreateCheckoutSession(ctx context.Context, userID string) (string, error) {
	profile, err := s.directory.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, identity.ErrUnknownUser) {
			return "", apierrors.NewAuthError("account no longer exists")
		}
		return "", apierrors.Provider("failed to load user profile", err)
	}

	url, err := s.provider.CreateCheckoutSession(ctx, billing.CheckoutRequest{
		UserID: userID,
		Email:  profile.Email,
	})
	if err != nil {
		return "", providerError("failed to create checkout session", err)
	}
	return url, nil
}

// CreatePortalSession opens the billing portal for the user's customer record.
func (s *BillingService) CreatePortalSession(ctx context.Context, userID string) (string, error) {
	customer, err := s.subRepo.FindCustomer(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNoBillingAccount
		}
		return "", apierrors.Store("failed to find billing account", err)
	}

	url, err := s.provider.CreatePortalSession(ctx, customer.StripeCustomerID, s.baseURL+"/dashboard")
	if err != nil {
		return "", providerError("failed to create billing portal session", err)
	}
	return url, nil
}

// HandleWebhook verifies and applies a payment provider event. Events that
// cannot be attributed to a user are acknowledged and ignored; store
// failures are returned so the provider redelivers the event.
func (s *BillingService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.provider.ParseWebhook(payload, signature)
	if err != nil {
		if errors.Is(err, billing.ErrNotConfigured) {
			return ErrBillingNotConfigured
		}
		s.log.Warn("webhook verification failed", zap.Error(err))
		return ErrInvalidWebhookSignature
	}

	log := s.log.With(zap.String("event_id", event.ID), zap.String("event_type", event.Type))

	switch event.Type {
	case billing.EventCheckoutCompleted:
		if event.UserID == "" || event.SubscriptionID == "" {
			log.Warn("checkout event without user or subscription, ignoring")
			return nil
		}

		if err := s.subRepo.Upsert(ctx, &models.Subscription{
			UserID:         event.UserID,
			SubscriptionID: event.SubscriptionID,
			Active:         true,
		}); err != nil {
			return apierrors.Store("failed to record subscription", err)
		}

		if event.CustomerID != "" {
			if err := s.subRepo.UpsertCustomer(ctx, &models.BillingCustomer{
				UserID:           event.UserID,
				StripeCustomerID: event.CustomerID,
			}); err != nil {
				return apierrors.Store("failed to record billing customer", err)
			}
		}

		log.Info("subscription activated",
			zap.String("user_id", event.UserID),
			zap.String("subscription_id", event.SubscriptionID),
		)

	case billing.EventSubscriptionDeleted:
		if event.SubscriptionID == "" {
			log.Warn("subscription event without id, ignoring")
			return nil
		}

		rows, err := s.subRepo.DeactivateBySubscriptionID(ctx, event.SubscriptionID)
		if err != nil {
			return apierrors.Store("failed to deactivate subscription", err)
		}
		log.Info("subscription deactivated",
			zap.String("subscription_id", event.SubscriptionID),
			zap.Int64("rows", rows),
		)

	default:
		log.Debug("unhandled webhook event")
	}

	return nil
}

func providerError(op string, err error) error {
	if errors.Is(err, billing.ErrNotConfigured) {
		return ErrBillingNotConfigured
	}
	return apierrors.Provider(op, err)
}
