package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name         string    `gorm:"type:varchar(255)"`
	PasswordHash *string   `gorm:"type:text"`
	Role         UserRole  `gorm:"type:user_role;default:'user';not null"`

	EmailVerifiedAt  *time.Time
	IsActive         bool `gorm:"default:true"`
	MarketingConsent bool `gorm:"default:false"`

	// TwoFactorSecret must be non-nil whenever TwoFactorEnabled is true.
	// Both fields are written only through UserRepository.UpdateTwoFactor.
	TwoFactorEnabled bool    `gorm:"default:false;not null"`
	TwoFactorSecret  *string `gorm:"type:text"`

	LastLoginAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	CVs          []CV
	Subscription *Subscription
	BackupCodes  []BackupCode
}
