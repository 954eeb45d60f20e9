package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type EventAction string

const (
	EventLoginSuccess      EventAction = "login_success"
	EventLoginFailed       EventAction = "login_failed"
	EventLogout            EventAction = "logout"
	EventPasswordReset     EventAction = "password_reset"
	EventTwoFactorEnabled  EventAction = "2fa_enabled"
	EventTwoFactorDisabled EventAction = "2fa_disabled"
	EventTwoFactorFailed   EventAction = "2fa_failed"
	EventCVCreated         EventAction = "cv_created"
	EventCVDeleted         EventAction = "cv_deleted"
	EventCheckoutStarted   EventAction = "checkout_started"
	EventCheckoutCompleted EventAction = "checkout_completed"
	EventNewsletterOptIn   EventAction = "newsletter_opt_in"
)

type AnalyticsEvent struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	UserID *uuid.UUID `gorm:"type:uuid;index"`
	User   *User      `gorm:"constraint:OnDelete:SET NULL"`

	IPAddress *string     `gorm:"type:varchar(45)"`
	Action    EventAction `gorm:"type:varchar(50);not null"`

	Metadata datatypes.JSON

	CreatedAt time.Time
}
