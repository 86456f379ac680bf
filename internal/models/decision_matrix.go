package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DecisionMatrix is a cognitive-reframing exercise: the user writes
// down a concern and sorts thoughts into four quadrants.
type DecisionMatrix struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Concern      string         `gorm:"type:text;not null" json:"concern"`
	InMyControl  StringList     `gorm:"type:jsonb" json:"in_my_control"`
	OutOfControl StringList     `gorm:"type:jsonb" json:"out_of_control"`
	ActNow       StringList     `gorm:"type:jsonb" json:"act_now"`
	LetGo        StringList     `gorm:"type:jsonb" json:"let_go"`
	Reframe      string         `gorm:"type:text" json:"reframe"`
	CreatedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (DecisionMatrix) TableName() string {
	return "decision_matrices"
}

func (m *DecisionMatrix) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (m *DecisionMatrix) BeforeUpdate(tx *gorm.DB) error {
	m.UpdatedAt = time.Now()
	return nil
}
