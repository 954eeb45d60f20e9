package repository

import (
	"context"

	"cvstudio/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BackupCodeRepository interface {
	Replace(ctx context.Context, userID uuid.UUID, codeHashes []string) error
	// Consume deletes the code if present and reports whether a row was
	// removed. The conditional delete makes consumption at-most-once even
	// when two requests race on the same code.
	Consume(ctx context.Context, userID uuid.UUID, codeHash string) (bool, error)
	DeleteAllByUser(ctx context.Context, userID uuid.UUID) error
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

type backupCodeRepository struct {
	db *gorm.DB
}

func NewBackupCodeRepository(db *gorm.DB) BackupCodeRepository {
	return &backupCodeRepository{db: db}
}

func (r *backupCodeRepository) Replace(ctx context.Context, userID uuid.UUID, codeHashes []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&entity.BackupCode{}).Error; err != nil {
			return err
		}
		codes := make([]entity.BackupCode, 0, len(codeHashes))
		for _, hash := range codeHashes {
			codes = append(codes, entity.BackupCode{UserID: userID, CodeHash: hash})
		}
		if len(codes) == 0 {
			return nil
		}
		return tx.Create(&codes).Error
	})
}

func (r *backupCodeRepository) Consume(ctx context.Context, userID uuid.UUID, codeHash string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND code_hash = ?", userID, codeHash).
		Delete(&entity.BackupCode{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *backupCodeRepository) DeleteAllByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&entity.BackupCode{}).
		Error
}

func (r *backupCodeRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.BackupCode{}).
		Where("user_id = ?", userID).
		Count(&count).
		Error
	return count, err
}
