package repository

import (
	"context"

	"cvstudio/internal/entity"

	"gorm.io/gorm"
)

type AnalyticsEventRepository interface {
	Log(ctx context.Context, event *entity.AnalyticsEvent) error
	ListRecent(ctx context.Context, limit int) ([]entity.AnalyticsEvent, error)
}

type analyticsEventRepository struct {
	db *gorm.DB
}

func NewAnalyticsEventRepository(db *gorm.DB) AnalyticsEventRepository {
	return &analyticsEventRepository{db: db}
}

func (r *analyticsEventRepository) Log(ctx context.Context, event *entity.AnalyticsEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *analyticsEventRepository) ListRecent(ctx context.Context, limit int) ([]entity.AnalyticsEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	var events []entity.AnalyticsEvent
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
