package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JournalEntry struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Title     string         `gorm:"type:varchar(255)" json:"title"`
	Body      string         `gorm:"type:text;not null" json:"body"`
	Mood      string         `gorm:"type:varchar(40)" json:"mood"`
	Tags      StringList     `gorm:"type:jsonb" json:"tags"`
	EntryDate time.Time      `gorm:"not null;index" json:"entry_date"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (JournalEntry) TableName() string {
	return "journal_entries"
}

func (e *JournalEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.EntryDate.IsZero() {
		e.EntryDate = time.Now()
	}
	return nil
}

func (e *JournalEntry) BeforeUpdate(tx *gorm.DB) error {
	e.UpdatedAt = time.Now()
	return nil
}
