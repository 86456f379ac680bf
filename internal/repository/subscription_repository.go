package repository

import (
	"context"
	"errors"
	"mindwell-api/internal/models"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *models.Subscription) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error)
	GetLatestByUserID(ctx context.Context, userID uuid.UUID) (*models.Subscription, error)
	Update(ctx context.Context, subscription *models.Subscription) error
	UpsertFromBilling(ctx context.Context, subscription *models.Subscription) error
	CancelSubscription(ctx context.Context, subscriptionID uuid.UUID) error
	GetSubscriptionHistory(ctx context.Context, userID uuid.UUID) ([]*models.Subscription, error)
}

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrSubscriptionExists   = errors.New("active subscription already exists")
)

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{
		db: db,
	}
}

func (r *subscriptionRepository) Create(ctx context.Context, subscription *models.Subscription) error {
	existingSub, err := r.GetLatestByUserID(ctx, subscription.UserID)
	if err != nil && !errors.Is(err, ErrSubscriptionNotFound) {
		return err
	}
	if existingSub != nil && existingSub.Entitled() {
		return ErrSubscriptionExists
	}

	if err := r.db.WithContext(ctx).Create(subscription).Error; err != nil {
		return err
	}

	return nil
}

func (r *subscriptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	var subscription models.Subscription

	err := r.db.WithContext(ctx).First(&subscription, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubscriptionNotFound
	}

	return &subscription, err
}

// GetLatestByUserID returns the newest subscription row for a user
// regardless of status; callers decide entitlement from Status.
func (r *subscriptionRepository) GetLatestByUserID(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	var subscription models.Subscription

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&subscription).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubscriptionNotFound
	}

	return &subscription, err
}

func (r *subscriptionRepository) Update(ctx context.Context, subscription *models.Subscription) error {
	result := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("id = ?", subscription.ID).
		Updates(map[string]interface{}{
			"plan_type":  subscription.PlanType,
			"status":     subscription.Status,
			"end_date":   subscription.EndDate,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}

	return nil
}

// UpsertFromBilling applies a webhook-sourced subscription state. The
// billing processor is authoritative, so an existing row for the same
// Stripe subscription is overwritten rather than rejected.
func (r *subscriptionRepository) UpsertFromBilling(ctx context.Context, subscription *models.Subscription) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Subscription
		err := tx.Where("stripe_subscription_id = ?", subscription.StripeSubscriptionID).
			First(&existing).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(subscription).Error
		}
		if err != nil {
			return err
		}

		return tx.Model(&existing).Updates(map[string]interface{}{
			"plan_type":  subscription.PlanType,
			"status":     subscription.Status,
			"end_date":   subscription.EndDate,
			"updated_at": time.Now(),
		}).Error
	})
}

func (r *subscriptionRepository) CancelSubscription(ctx context.Context, subscriptionID uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("id = ? AND status IN ?", subscriptionID, []models.SubscriptionStatus{models.StatusActive, models.StatusTrialing}).
		Updates(map[string]interface{}{
			"status":     models.StatusCanceled,
			"end_date":   time.Now(),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}

	return nil
}

func (r *subscriptionRepository) GetSubscriptionHistory(ctx context.Context, userID uuid.UUID) ([]*models.Subscription, error) {
	var subscriptions []*models.Subscription

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&subscriptions).Error

	return subscriptions, err
}
