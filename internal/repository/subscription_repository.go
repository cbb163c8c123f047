package repository

import (
	"context"

	"github.com/yukikurage/team-task-tracker/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSubscriptionRepository is a GORM implementation of SubscriptionRepository
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new SubscriptionRepository
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

// CountActive counts the user's active subscriptions
func (r *GormSubscriptionRepository) CountActive(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("user_id = ? AND active = ?", userID, true).
		Count(&count).Error
	return count, err
}

// FindByUserID finds the user's subscription row
func (r *GormSubscriptionRepository) FindByUserID(ctx context.Context, userID string) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// Upsert inserts the subscription or overwrites the existing row for the user
func (r *GormSubscriptionRepository) Upsert(ctx context.Context, sub *models.Subscription) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"subscription_id", "active", "updated_at"}),
		}).
		Create(sub).Error
}

// DeactivateBySubscriptionID clears the active flag of a provider subscription
func (r *GormSubscriptionRepository) DeactivateBySubscriptionID(ctx context.Context, subscriptionID string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("subscription_id = ?", subscriptionID).
		Update("active", false)
	return result.RowsAffected, result.Error
}

// UpsertCustomer inserts the billing customer or overwrites the existing row
func (r *GormSubscriptionRepository) UpsertCustomer(ctx context.Context, customer *models.BillingCustomer) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"stripe_customer_id", "updated_at"}),
		}).
		Create(customer).Error
}

// FindCustomer finds the billing customer of a user
func (r *GormSubscriptionRepository) FindCustomer(ctx context.Context, userID string) (*models.BillingCustomer, error) {
	var customer models.BillingCustomer
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}
