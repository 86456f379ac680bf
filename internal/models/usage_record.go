package models

import (
	"time"

	"gorm.io/gorm"
)

// FeatureKind identifies one of the metered AI features.
type FeatureKind string

const (
	FeatureConcernChat      FeatureKind = "concernChat"
	FeatureJournalAnalysis  FeatureKind = "journalAnalysis"
	FeatureCustomMeditation FeatureKind = "customMeditation"
	FeatureCustomQuote      FeatureKind = "customQuote"
)

// AllFeatureKinds lists every metered feature, in a stable order for
// usage summaries.
var AllFeatureKinds = []FeatureKind{
	FeatureConcernChat,
	FeatureJournalAnalysis,
	FeatureCustomMeditation,
	FeatureCustomQuote,
}

// WindowClass is the span a feature's counter resets over.
type WindowClass string

const (
	WindowDaily  WindowClass = "daily"
	WindowWeekly WindowClass = "weekly"
)

// UsageRecord is one feature counter for one user. UseCount only means
// anything together with WindowKey: a stored key that differs from the
// current window's key makes the count stale, and the next write
// supersedes it.
type UsageRecord struct {
	ID          uint        `gorm:"primarykey"`
	UserID      string      `gorm:"index:idx_usage_user_feature,unique"`
	FeatureKind FeatureKind `gorm:"type:varchar(40);index:idx_usage_user_feature,unique"`
	UseCount    int
	WindowKey   string `gorm:"type:varchar(16)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (UsageRecord) TableName() string {
	return "usage_records"
}
