package entity

import (
	"time"

	"github.com/google/uuid"
)

// BackupCode holds the SHA-256 hash of a single-use 2FA recovery code.
// The plaintext is returned to the user once at generation and never stored.
type BackupCode struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_backup_codes_user_hash"`
	User   User      `gorm:"constraint:OnDelete:CASCADE"`

	CodeHash string `gorm:"type:text;not null;uniqueIndex:idx_backup_codes_user_hash"`

	CreatedAt time.Time
}
