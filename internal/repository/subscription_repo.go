package repository

import (
	"context"
	"errors"

	"cvstudio/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubscriptionRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Subscription, error)
	Upsert(ctx context.Context, subscription *entity.Subscription) error
	CountActive(ctx context.Context) (int64, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Subscription, error) {
	var subscription entity.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&subscription).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &subscription, err
}

func (r *subscriptionRepository) Upsert(ctx context.Context, subscription *entity.Subscription) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"status", "plan", "current_period_end",
				"stripe_customer_id", "stripe_subscription_id",
			}),
		}).
		Create(subscription).Error
}

func (r *subscriptionRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Subscription{}).
		Where("status IN ?", []entity.SubscriptionStatus{entity.SubscriptionActive, entity.SubscriptionTrialing}).
		Count(&count).
		Error
	return count, err
}
