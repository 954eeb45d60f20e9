package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type CV struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
	User   User      `gorm:"constraint:OnDelete:CASCADE"`

	Title      string `gorm:"type:varchar(255);not null"`
	TemplateID string `gorm:"type:varchar(100);default:'classic';not null"`

	// Structured document: personal info, statement, skills,
	// experience, education, references.
	Content datatypes.JSON

	CreatedAt time.Time
	UpdatedAt time.Time
}
