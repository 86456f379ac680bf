package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListKind separates the two per-day lists the app keeps.
type ListKind string

const (
	WorryList     ListKind = "worry"
	GratitudeList ListKind = "gratitude"
)

// DailyListItem is one line on a user's worry or gratitude list for a
// given calendar day. Day is a YYYY-MM-DD key in UTC, the same shape
// the usage ledger uses for daily windows.
type DailyListItem struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Kind      ListKind       `gorm:"type:varchar(20);not null;index" json:"kind"`
	Day       string         `gorm:"type:varchar(10);not null;index" json:"day"`
	Text      string         `gorm:"type:text;not null" json:"text"`
	Resolved  bool           `gorm:"default:false" json:"resolved"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (DailyListItem) TableName() string {
	return "daily_list_items"
}

func (i *DailyListItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
