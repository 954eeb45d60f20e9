package entity

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string

const (
	SubscriptionInactive SubscriptionStatus = "inactive"
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionTrialing SubscriptionStatus = "trialing"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

func (s SubscriptionStatus) IsActive() bool {
	return s == SubscriptionActive || s == SubscriptionTrialing
}

type Subscription struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	User   User      `gorm:"constraint:OnDelete:CASCADE"`

	Status SubscriptionStatus `gorm:"type:varchar(32);default:'inactive';not null"`
	Plan   string             `gorm:"type:varchar(50)"`

	CurrentPeriodEnd *time.Time

	StripeCustomerID     *string `gorm:"type:varchar(255)"`
	StripeSubscriptionID *string `gorm:"type:varchar(255)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
