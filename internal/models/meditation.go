package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Meditation is either a curated library item (UserID nil, Custom
// false) or a user's generated custom meditation.
type Meditation struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          *uuid.UUID     `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Title           string         `gorm:"type:varchar(255);not null" json:"title"`
	Topic           string         `gorm:"type:varchar(255)" json:"topic"`
	Script          string         `gorm:"type:text;not null" json:"script"`
	DurationMinutes int            `gorm:"not null;default:10" json:"duration_minutes"`
	Custom          bool           `gorm:"default:false;index" json:"custom"`
	CreatedAt       time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Meditation) TableName() string {
	return "meditations"
}

func (m *Meditation) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
