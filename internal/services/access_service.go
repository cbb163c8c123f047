package services

import (
	"context"
	"errors"

	"github.com/yukikurage/team-task-tracker/internal/models"
	"github.com/yukikurage/team-task-tracker/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AccessService decides whether a user may reach team-management features.
type AccessService struct {
	subRepo repository.SubscriptionRepository
	log     *zap.Logger
}

// NewAccessService creates a new AccessService
func NewAccessService(subRepo repository.SubscriptionRepository, log *zap.Logger) *AccessService {
	return &AccessService{
		subRepo: subRepo,
		log:     log,
	}
}

// HasActiveSubscription reports whether the user has at least one active
// subscription. Lookup failures count as no subscription.
func (s *AccessService) HasActiveSubscription(ctx context.Context, userID string) bool {
	if userID == "" {
		return false
	}

	count, err := s.subRepo.CountActive(ctx, userID)
	if err != nil {
		s.log.Warn("subscription lookup failed, denying access",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return false
	}

	return count > 0
}

// SubscriptionOf returns the user's subscription row, or nil when there is
// none or it could not be read.
func (s *AccessService) SubscriptionOf(ctx context.Context, userID string) *models.Subscription {
	if userID == "" {
		return nil
	}

	sub, err := s.subRepo.FindByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn("subscription lookup failed",
				zap.String("user_id", userID),
				zap.Error(err),
			)
		}
		return nil
	}
	return sub
}
