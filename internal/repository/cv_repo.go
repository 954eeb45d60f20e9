package repository

import (
	"context"
	"errors"

	"cvstudio/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CVRepository interface {
	Create(ctx context.Context, cv *entity.CV) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.CV, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.CV, error)
	Update(ctx context.Context, cv *entity.CV) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type cvRepository struct {
	db *gorm.DB
}

func NewCVRepository(db *gorm.DB) CVRepository {
	return &cvRepository{db: db}
}

func (r *cvRepository) Create(ctx context.Context, cv *entity.CV) error {
	return r.db.WithContext(ctx).Create(cv).Error
}

func (r *cvRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.CV, error) {
	var cv entity.CV
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&cv).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &cv, err
}

func (r *cvRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.CV, error) {
	var cvs []entity.CV
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&cvs).Error
	if err != nil {
		return nil, err
	}
	return cvs, nil
}

func (r *cvRepository) Update(ctx context.Context, cv *entity.CV) error {
	return r.db.WithContext(ctx).Save(cv).Error
}

func (r *cvRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&entity.CV{}).
		Error
}

func (r *cvRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.CV{}).Count(&count).Error
	return count, err
}
